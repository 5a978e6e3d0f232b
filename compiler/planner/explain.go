package planner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/artifactql/aql/pkg/domain"
)

// Explain renders the plan as indented text. The output depends only on the plan, so it
// is stable for a given ID.
func (p *Plan) Explain() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "plan %s\n", p.ID)
	if p.Query != "" {
		fmt.Fprintf(&sb, "  query    %s\n", p.Query)
	}
	fmt.Fprintf(&sb, "  from     %s %s (%s)\n", p.Table, RootAlias, p.Root)
	for _, j := range p.Joins {
		fmt.Fprintf(&sb, "  join     %s %s on %s.%s = %s.%s (%s)\n",
			j.Table, j.Alias, j.Alias, j.ChildColumn, j.Parent, j.ParentColumn, j.Path)
	}
	if p.Filter != nil {
		fmt.Fprintf(&sb, "  where    %s\n", PredicateString(p.Filter))
	}

	head := "select"
	if p.Distinct {
		head = "distinct"
	}
	for i, c := range p.Columns {
		label := ""
		if i == 0 {
			label = head
		}
		hidden := ""
		if c.Hidden {
			hidden = " hidden"
		}
		fmt.Fprintf(&sb, "  %-8s %s.%s as %s %s%s\n", label, c.Alias, c.Column, c.Name, c.Type, hidden)
	}

	for i, o := range p.Sort {
		label := ""
		if i == 0 {
			label = "order"
		}
		dir := "asc"
		if o.Descending {
			dir = "desc"
		}
		fmt.Fprintf(&sb, "  %-8s %s.%s %s\n", label, o.Alias, o.Column, dir)
	}

	if p.Limit > 0 {
		fmt.Fprintf(&sb, "  limit    %d\n", p.Limit)
	}
	if p.Offset > 0 {
		fmt.Fprintf(&sb, "  offset   %d\n", p.Offset)
	}
	return sb.String()
}

// PredicateString renders a predicate over aliased columns
func PredicateString(pred Predicate) string {
	switch n := pred.(type) {
	case *Condition:
		return conditionString(n)
	case *AllOf:
		return joinPredicates(n.Operands, " and ")
	case *AnyOf:
		return joinPredicates(n.Operands, " or ")
	case *Negation:
		return "not " + wrap(n.Operand)
	default:
		return ""
	}
}

func joinPredicates(ops []Predicate, sep string) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = wrap(op)
	}
	return strings.Join(parts, sep)
}

func wrap(pred Predicate) string {
	switch pred.(type) {
	case *AllOf, *AnyOf:
		return "(" + PredicateString(pred) + ")"
	default:
		return PredicateString(pred)
	}
}

func conditionString(c *Condition) string {
	target := c.Alias + "." + c.Column
	switch c.Comparator {
	case domain.IsNull, domain.IsNotNull:
		return target + " " + c.Comparator.String()
	case domain.In:
		vals := make([]string, len(c.Values))
		for i, v := range c.Values {
			vals[i] = valueString(v)
		}
		return target + " in (" + strings.Join(vals, ", ") + ")"
	default:
		val := ""
		if len(c.Values) > 0 {
			val = valueString(c.Values[0])
		}
		return target + " " + c.Comparator.String() + " " + val
	}
}

func valueString(v domain.Value) string {
	if !v.Null && (v.Type == domain.TypeString || v.Type == domain.TypeItemType) {
		return strconv.Quote(v.String())
	}
	return v.String()
}
