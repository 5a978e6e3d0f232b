package store

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/artifactql/aql/compiler/planner"
	"github.com/artifactql/aql/pkg/domain"
)

// Scanner holds the scan targets for one statement. Dates are stored as epoch
// milliseconds and item types as their names; everything is nullable because joined
// tables are left-joined.
type Scanner struct {
	columns []planner.Column
	targets []any
}

// NewScanner creates targets for columns, in select order
func NewScanner(columns []planner.Column) *Scanner {
	s := &Scanner{columns: columns, targets: make([]any, len(columns))}
	for i, c := range columns {
		switch c.Type {
		case domain.TypeLong, domain.TypeInteger, domain.TypeDate:
			s.targets[i] = new(sql.NullInt64)
		default:
			s.targets[i] = new(sql.NullString)
		}
	}
	return s
}

// Targets returns the pointers to pass to a driver's Scan
func (s *Scanner) Targets() []any {
	return s.targets
}

// Values converts the last scanned row. Hidden columns are dropped.
func (s *Scanner) Values() ([]domain.Value, error) {
	out := make([]domain.Value, 0, len(s.columns))
	for i, c := range s.columns {
		if c.Hidden {
			continue
		}
		v, err := convert(c, s.targets[i])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func convert(c planner.Column, target any) (domain.Value, error) {
	switch t := target.(type) {
	case *sql.NullInt64:
		if !t.Valid {
			return domain.NullValue(c.Type), nil
		}
		switch c.Type {
		case domain.TypeDate:
			return domain.DateValue(domain.MillisToDate(t.Int64)), nil
		case domain.TypeInteger:
			if t.Int64 < math.MinInt32 || t.Int64 > math.MaxInt32 {
				return domain.Value{}, fmt.Errorf("value %d does not fit an integer", t.Int64)
			}
			return domain.IntegerValue(int32(t.Int64)), nil
		default:
			return domain.LongValue(t.Int64), nil
		}
	case *sql.NullString:
		if !t.Valid {
			return domain.NullValue(c.Type), nil
		}
		if c.Type == domain.TypeItemType {
			it, err := domain.ParseItemType(t.String)
			if err != nil {
				return domain.Value{}, err
			}
			return domain.ItemTypeValue(it), nil
		}
		return domain.StringValue(t.String), nil
	default:
		return domain.Value{}, fmt.Errorf("unsupported scan target %T", target)
	}
}
