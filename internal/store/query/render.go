// Package query renders plans as parameterized SQL for the relational row sources
package query

import (
	"fmt"
	"math"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/artifactql/aql/compiler/planner"
	"github.com/artifactql/aql/pkg/domain"
)

// Dialect selects the placeholder style of rendered statements
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

// String returns the driver-facing name of the dialect
func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case SQLite:
		return "sqlite"
	default:
		return "unknown"
	}
}

// ParseDialect maps a database driver name to its dialect
func ParseDialect(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "pgx", "pgxpool":
		return Postgres, nil
	case "sqlite3", "sqlite":
		return SQLite, nil
	default:
		return 0, fmt.Errorf("no SQL dialect for driver %q", driver)
	}
}

func (d Dialect) placeholders() sq.PlaceholderFormat {
	if d == Postgres {
		return sq.Dollar
	}
	return sq.Question
}

// Statement is a rendered plan. Columns lists every selected column in select order,
// hidden sort columns included.
type Statement struct {
	SQL     string
	Args    []interface{}
	Columns []planner.Column
}

// Render builds the SELECT statement for plan. Every join is a left join so that
// criteria combined with or and not keep rows that have no related rows.
func Render(plan *planner.Plan, dialect Dialect) (*Statement, error) {
	if plan == nil {
		return nil, fmt.Errorf("no plan to render")
	}
	if len(plan.Columns) == 0 {
		return nil, fmt.Errorf("plan %s selects no columns", plan.ID)
	}

	cols := make([]string, len(plan.Columns))
	for i, c := range plan.Columns {
		cols[i] = column(c.Alias, c.Column) + " AS " + pq.QuoteIdentifier(c.Name)
	}

	sb := sq.StatementBuilder.PlaceholderFormat(dialect.placeholders()).
		Select(cols...).
		From(pq.QuoteIdentifier(plan.Table) + " " + planner.RootAlias)
	if plan.Distinct {
		sb = sb.Distinct()
	}

	for _, j := range plan.Joins {
		sb = sb.LeftJoin(fmt.Sprintf("%s %s ON %s = %s",
			pq.QuoteIdentifier(j.Table), j.Alias,
			column(j.Alias, j.ChildColumn), column(j.Parent, j.ParentColumn)))
	}

	if plan.Filter != nil {
		where, err := predicate(plan.Filter)
		if err != nil {
			return nil, err
		}
		sb = sb.Where(where)
	}

	for _, o := range plan.Sort {
		dir := "ASC"
		if o.Descending {
			dir = "DESC"
		}
		sb = sb.OrderBy(column(o.Alias, o.Column) + " " + dir)
	}

	if plan.Limit > 0 {
		sb = sb.Limit(uint64(plan.Limit))
	}
	if plan.Offset > 0 {
		if plan.Limit == 0 && dialect == SQLite {
			// SQLite only accepts OFFSET after a LIMIT
			sb = sb.Limit(math.MaxInt64)
		}
		sb = sb.Offset(uint64(plan.Offset))
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to render plan %s: %w", plan.ID, err)
	}
	return &Statement{SQL: query, Args: args, Columns: plan.Columns}, nil
}

func column(alias, name string) string {
	return alias + "." + pq.QuoteIdentifier(name)
}

func predicate(p planner.Predicate) (sq.Sqlizer, error) {
	switch n := p.(type) {
	case *planner.Condition:
		return condition(n)

	case *planner.AllOf:
		parts, err := predicates(n.Operands)
		if err != nil {
			return nil, err
		}
		return sq.And(parts), nil

	case *planner.AnyOf:
		parts, err := predicates(n.Operands)
		if err != nil {
			return nil, err
		}
		return sq.Or(parts), nil

	case *planner.Negation:
		inner, err := predicate(n.Operand)
		if err != nil {
			return nil, err
		}
		return sq.Expr("NOT (?)", inner), nil

	default:
		return nil, fmt.Errorf("unsupported predicate %T", p)
	}
}

func predicates(ps []planner.Predicate) ([]sq.Sqlizer, error) {
	out := make([]sq.Sqlizer, 0, len(ps))
	for _, p := range ps {
		s, err := predicate(p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func condition(c *planner.Condition) (sq.Sqlizer, error) {
	col := column(c.Alias, c.Column)

	if c.Type == domain.TypeItemType {
		return itemTypeCondition(col, c)
	}

	args := make([]interface{}, len(c.Values))
	for i, v := range c.Values {
		args[i] = Arg(v)
	}

	switch c.Comparator {
	case domain.IsNull:
		return sq.Eq{col: nil}, nil
	case domain.IsNotNull:
		return sq.NotEq{col: nil}, nil
	case domain.In:
		return sq.Eq{col: args}, nil
	}

	if len(args) != 1 {
		return nil, fmt.Errorf("'%s' on %s needs one value, got %d", c.Comparator, col, len(args))
	}
	arg := args[0]

	switch c.Comparator {
	case domain.Equal:
		return sq.Eq{col: arg}, nil
	case domain.NotEqual:
		return sq.NotEq{col: arg}, nil
	case domain.Greater:
		return sq.Gt{col: arg}, nil
	case domain.GreaterOrEqual:
		return sq.GtOrEq{col: arg}, nil
	case domain.Less:
		return sq.Lt{col: arg}, nil
	case domain.LessOrEqual:
		return sq.LtOrEq{col: arg}, nil
	case domain.Like:
		return sq.Like{col: arg}, nil
	case domain.Contains:
		return sq.Expr(col+` LIKE ? ESCAPE '\'`, "%"+escapeLike(c.Values[0].Str)+"%"), nil
	default:
		return nil, fmt.Errorf("unsupported comparator '%s' on %s", c.Comparator, col)
	}
}

// itemTypeCondition expands "any" to every concrete item type
func itemTypeCondition(col string, c *planner.Condition) (sq.Sqlizer, error) {
	var kinds []interface{}
	for _, v := range c.Values {
		if v.Item == domain.ItemAny {
			kinds = append(kinds, domain.ItemFile.String(), domain.ItemFolder.String())
			continue
		}
		kinds = append(kinds, v.Item.String())
	}

	switch c.Comparator {
	case domain.IsNull:
		return sq.Eq{col: nil}, nil
	case domain.IsNotNull:
		return sq.NotEq{col: nil}, nil
	case domain.Equal, domain.In:
		if len(kinds) == 1 {
			return sq.Eq{col: kinds[0]}, nil
		}
		return sq.Eq{col: kinds}, nil
	case domain.NotEqual:
		if len(kinds) == 1 {
			return sq.NotEq{col: kinds[0]}, nil
		}
		return sq.NotEq{col: kinds}, nil
	default:
		return nil, fmt.Errorf("unsupported comparator '%s' on item type %s", c.Comparator, col)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Arg converts a value to the driver argument it is stored as. Dates are epoch
// milliseconds and item types their signature.
func Arg(v domain.Value) interface{} {
	if v.Null {
		return nil
	}
	switch v.Type {
	case domain.TypeString:
		return v.Str
	case domain.TypeLong, domain.TypeInteger:
		return v.Int
	case domain.TypeDate:
		return domain.DateToMillis(v.Time)
	case domain.TypeItemType:
		return v.Item.String()
	default:
		return nil
	}
}
