package planner

import (
	"github.com/artifactql/aql/pkg/domain"
)

// RootAlias is the alias of the root table in every plan
const RootAlias = "t0"

// Plan is a compiled query: the root table, the joins every referenced path needs, a
// predicate over join aliases, the projected columns and the ordering. Plans are
// immutable once compiled and may be shared between executions.
type Plan struct {
	ID    string
	Query string // canonical query text the plan was compiled from

	Root  domain.ID
	Table string

	Joins   []Join
	Filter  Predicate
	Columns []Column
	Sort    []Order

	// Distinct is set when joins can repeat root rows
	Distinct bool
	Limit    int64
	Offset   int64
}

// Join attaches the table of Domain under Alias. Every distinct path prefix is joined once.
type Join struct {
	Alias        string
	Path         domain.Path
	Domain       domain.ID
	Table        string
	Parent       string // alias the join hangs from
	ParentColumn string
	ChildColumn  string
}

// Column is one projected value. Name is the result column name: the field name for root
// fields, otherwise the path below the root and the field joined with dots.
type Column struct {
	Name   string
	Alias  string
	Column string
	Domain domain.ID
	Field  string
	Type   domain.ValueType
	Hidden bool // projected only because a sort key needs it
}

// Order is one sort key over a projected column
type Order struct {
	Name       string
	Alias      string
	Column     string
	Descending bool
}

// Predicate is a filter expression over join aliases
type Predicate interface {
	predicate()
}

// Condition compares one column against typed values
type Condition struct {
	Alias      string
	Column     string
	Domain     domain.ID
	Field      string
	Type       domain.ValueType
	Comparator domain.Comparator
	Values     []domain.Value
}

// AllOf is satisfied when every operand is
type AllOf struct {
	Operands []Predicate
}

// AnyOf is satisfied when any operand is
type AnyOf struct {
	Operands []Predicate
}

// Negation negates its operand
type Negation struct {
	Operand Predicate
}

func (*Condition) predicate() {}
func (*AllOf) predicate()     {}
func (*AnyOf) predicate()     {}
func (*Negation) predicate()  {}

// Join returns the join with the given alias
func (p *Plan) Join(alias string) (Join, bool) {
	for _, j := range p.Joins {
		if j.Alias == alias {
			return j, true
		}
	}
	return Join{}, false
}

// VisibleColumns returns the projected columns without hidden sort columns
func (p *Plan) VisibleColumns() []Column {
	out := make([]Column, 0, len(p.Columns))
	for _, c := range p.Columns {
		if !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}

// Conditions returns every condition of the filter, depth-first
func (p *Plan) Conditions() []*Condition {
	var out []*Condition
	var walk func(Predicate)
	walk = func(pred Predicate) {
		switch n := pred.(type) {
		case *Condition:
			out = append(out, n)
		case *AllOf:
			for _, op := range n.Operands {
				walk(op)
			}
		case *AnyOf:
			for _, op := range n.Operands {
				walk(op)
			}
		case *Negation:
			walk(n.Operand)
		}
	}
	walk(p.Filter)
	return out
}
