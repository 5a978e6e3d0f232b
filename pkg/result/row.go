package result

import (
	"errors"
	"fmt"
	"time"

	"github.com/artifactql/aql/compiler/planner"
	"github.com/artifactql/aql/pkg/domain"
)

var (
	// ErrNoColumn is returned when a row has no column of the requested name
	ErrNoColumn = errors.New("no such column")
	// ErrColumnType is returned when a getter does not match the column type
	ErrColumnType = errors.New("column type mismatch")
)

// Schema is the ordered set of columns shared by every row of one execution
type Schema struct {
	columns []planner.Column
	index   map[string]int
}

// NewSchema creates a schema from the visible columns of a plan
func NewSchema(columns []planner.Column) *Schema {
	s := &Schema{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		if c.Hidden {
			continue
		}
		s.index[c.Name] = len(s.columns)
		s.columns = append(s.columns, c)
	}
	return s
}

// Columns returns the columns in projection order
func (s *Schema) Columns() []planner.Column {
	out := make([]planner.Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Names returns the column names in projection order
func (s *Schema) Names() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of columns
func (s *Schema) Len() int {
	return len(s.columns)
}

// Row creates a row over values, which must be in column order
func (s *Schema) Row(values []domain.Value) (*Row, error) {
	if len(values) != len(s.columns) {
		return nil, fmt.Errorf("row has %d values for %d columns", len(values), len(s.columns))
	}
	for i, v := range values {
		if v.Type != s.columns[i].Type {
			return nil, fmt.Errorf("column %s: %w: %s value for %s column", s.columns[i].Name, ErrColumnType, v.Type, s.columns[i].Type)
		}
	}
	return &Row{schema: s, values: values}, nil
}

// Row is one result row with typed access by column name
type Row struct {
	schema *Schema
	values []domain.Value
}

// Schema returns the columns of the row
func (r *Row) Schema() *Schema {
	return r.schema
}

// Values returns the values in column order
func (r *Row) Values() []domain.Value {
	out := make([]domain.Value, len(r.values))
	copy(out, r.values)
	return out
}

// Value returns the value of the named column
func (r *Row) Value(name string) (domain.Value, error) {
	i, ok := r.schema.index[name]
	if !ok {
		return domain.Value{}, fmt.Errorf("%w: %s", ErrNoColumn, name)
	}
	return r.values[i], nil
}

// IsNull reports whether the named column is null. Unknown columns are not null.
func (r *Row) IsNull(name string) bool {
	v, err := r.Value(name)
	return err == nil && v.Null
}

func (r *Row) typed(name string, types ...domain.ValueType) (domain.Value, error) {
	v, err := r.Value(name)
	if err != nil {
		return v, err
	}
	for _, t := range types {
		if v.Type == t {
			return v, nil
		}
	}
	return v, fmt.Errorf("column %s: %w: column is %s", name, ErrColumnType, v.Type)
}

// String returns a string column. Null reads as "".
func (r *Row) String(name string) (string, error) {
	v, err := r.typed(name, domain.TypeString)
	if err != nil {
		return "", err
	}
	return v.Str, nil
}

// Int64 returns a long or integer column. Null reads as 0.
func (r *Row) Int64(name string) (int64, error) {
	v, err := r.typed(name, domain.TypeLong, domain.TypeInteger)
	if err != nil {
		return 0, err
	}
	return v.Int, nil
}

// Time returns a date column. Null reads as the zero time.
func (r *Row) Time(name string) (time.Time, error) {
	v, err := r.typed(name, domain.TypeDate)
	if err != nil || v.Null {
		return time.Time{}, err
	}
	return v.Time, nil
}

// ItemType returns an item type column
func (r *Row) ItemType(name string) (domain.ItemType, error) {
	v, err := r.typed(name, domain.TypeItemType)
	if err != nil {
		return 0, err
	}
	return v.Item, nil
}

// Map returns the row as column name to Go value, with nil for nulls
func (r *Row) Map() map[string]any {
	m := make(map[string]any, len(r.values))
	for i, c := range r.schema.columns {
		m[c.Name] = r.values[i].Interface()
	}
	return m
}
