package planner

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/artifactql/aql/compiler/errors"
	"github.com/artifactql/aql/pkg/domain"
)

type planJSON struct {
	ID       string         `json:"id"`
	Query    string         `json:"query,omitempty"`
	Root     domain.ID      `json:"root"`
	Table    string         `json:"table"`
	Joins    []joinJSON     `json:"joins,omitempty"`
	Filter   *predicateJSON `json:"filter,omitempty"`
	Columns  []columnJSON   `json:"columns"`
	Sort     []orderJSON    `json:"sort,omitempty"`
	Distinct bool           `json:"distinct,omitempty"`
	Limit    int64          `json:"limit,omitempty"`
	Offset   int64          `json:"offset,omitempty"`
}

type joinJSON struct {
	Alias        string `json:"alias"`
	Path         string `json:"path"`
	Table        string `json:"table"`
	Parent       string `json:"parent"`
	ParentColumn string `json:"parent_column"`
	ChildColumn  string `json:"child_column"`
}

type columnJSON struct {
	Name   string `json:"name"`
	Alias  string `json:"alias"`
	Column string `json:"column"`
	Domain string `json:"domain"`
	Field  string `json:"field"`
	Type   string `json:"type"`
	Hidden bool   `json:"hidden,omitempty"`
}

type orderJSON struct {
	Name       string `json:"name"`
	Alias      string `json:"alias"`
	Column     string `json:"column"`
	Descending bool   `json:"desc,omitempty"`
}

// predicateJSON is a tagged predicate node. Op is "cond", "and", "or" or "not".
type predicateJSON struct {
	Op         string           `json:"op"`
	Alias      string           `json:"alias,omitempty"`
	Column     string           `json:"column,omitempty"`
	Domain     string           `json:"domain,omitempty"`
	Field      string           `json:"field,omitempty"`
	Type       string           `json:"type,omitempty"`
	Comparator string           `json:"comparator,omitempty"`
	Values     []*string        `json:"values,omitempty"`
	Operands   []*predicateJSON `json:"operands,omitempty"`
}

// MarshalJSON encodes the plan in the form Decode reads back
func (p *Plan) MarshalJSON() ([]byte, error) {
	out := planJSON{
		ID:       p.ID,
		Query:    p.Query,
		Root:     p.Root,
		Table:    p.Table,
		Distinct: p.Distinct,
		Limit:    p.Limit,
		Offset:   p.Offset,
		Columns:  make([]columnJSON, 0, len(p.Columns)),
	}
	for _, j := range p.Joins {
		out.Joins = append(out.Joins, joinJSON{
			Alias:        j.Alias,
			Path:         j.Path.String(),
			Table:        j.Table,
			Parent:       j.Parent,
			ParentColumn: j.ParentColumn,
			ChildColumn:  j.ChildColumn,
		})
	}
	for _, c := range p.Columns {
		out.Columns = append(out.Columns, columnJSON{
			Name:   c.Name,
			Alias:  c.Alias,
			Column: c.Column,
			Domain: string(c.Domain),
			Field:  c.Field,
			Type:   c.Type.String(),
			Hidden: c.Hidden,
		})
	}
	for _, o := range p.Sort {
		out.Sort = append(out.Sort, orderJSON(o))
	}
	if p.Filter != nil {
		out.Filter = encodePredicate(p.Filter)
	}
	return json.Marshal(out)
}

func encodePredicate(pred Predicate) *predicateJSON {
	switch n := pred.(type) {
	case *Condition:
		out := &predicateJSON{
			Op:         "cond",
			Alias:      n.Alias,
			Column:     n.Column,
			Domain:     string(n.Domain),
			Field:      n.Field,
			Type:       n.Type.String(),
			Comparator: n.Comparator.String(),
		}
		for _, v := range n.Values {
			out.Values = append(out.Values, encodeValue(v))
		}
		return out
	case *AllOf:
		return &predicateJSON{Op: "and", Operands: encodePredicates(n.Operands)}
	case *AnyOf:
		return &predicateJSON{Op: "or", Operands: encodePredicates(n.Operands)}
	case *Negation:
		return &predicateJSON{Op: "not", Operands: []*predicateJSON{encodePredicate(n.Operand)}}
	default:
		return nil
	}
}

func encodePredicates(preds []Predicate) []*predicateJSON {
	out := make([]*predicateJSON, len(preds))
	for i, p := range preds {
		out[i] = encodePredicate(p)
	}
	return out
}

func encodeValue(v domain.Value) *string {
	if v.Null {
		return nil
	}
	s := v.String()
	return &s
}

// Decode reads a plan written by MarshalJSON and checks every table, join and column
// against graph
func Decode(graph *domain.Graph, data []byte) (*Plan, error) {
	var in planJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}

	d := &decoder{graph: graph, domains: make(map[string]*domain.Domain)}

	root, ok := graph.Domain(in.Root)
	if !ok {
		return nil, invalidPlan("unknown root domain '%s'", in.Root)
	}
	if in.Table != root.Table {
		return nil, invalidPlan("root table '%s' does not belong to '%s'", in.Table, in.Root)
	}
	d.domains[RootAlias] = root

	p := &Plan{
		ID:       in.ID,
		Query:    in.Query,
		Root:     root.ID,
		Table:    root.Table,
		Distinct: in.Distinct,
		Limit:    in.Limit,
		Offset:   in.Offset,
	}

	for _, j := range in.Joins {
		join, err := d.join(j)
		if err != nil {
			return nil, err
		}
		p.Joins = append(p.Joins, join)
	}

	for _, c := range in.Columns {
		field, err := d.field(c.Alias, c.Column)
		if err != nil {
			return nil, err
		}
		p.Columns = append(p.Columns, Column{
			Name:   c.Name,
			Alias:  c.Alias,
			Column: field.Column,
			Domain: field.Domain,
			Field:  field.Name,
			Type:   field.Type,
			Hidden: c.Hidden,
		})
	}

	for _, o := range in.Sort {
		if _, err := d.field(o.Alias, o.Column); err != nil {
			return nil, err
		}
		p.Sort = append(p.Sort, Order(o))
	}

	if in.Filter != nil {
		filter, err := d.predicate(in.Filter)
		if err != nil {
			return nil, err
		}
		p.Filter = filter
	}
	return p, nil
}

type decoder struct {
	graph   *domain.Graph
	domains map[string]*domain.Domain // by alias
}

func invalidPlan(format string, args ...interface{}) error {
	return errors.NewSemanticError(errors.ErrInvalidPlan, format, args...)
}

func (d *decoder) join(j joinJSON) (Join, error) {
	parent, ok := d.domains[j.Parent]
	if !ok {
		return Join{}, invalidPlan("join %s hangs from unknown alias '%s'", j.Alias, j.Parent)
	}
	if _, dup := d.domains[j.Alias]; dup {
		return Join{}, invalidPlan("alias '%s' is declared twice", j.Alias)
	}

	var target *domain.Domain
	for _, t := range parent.Transitions() {
		child, _ := d.graph.Domain(t.To)
		if child.Table == j.Table && t.Join.ParentColumn == j.ParentColumn && t.Join.ChildColumn == j.ChildColumn {
			target = child
			break
		}
	}
	if target == nil {
		return Join{}, invalidPlan("'%s' has no transition joining table '%s'", parent.ID, j.Table)
	}

	path := parsePath(j.Path)
	edges, err := d.graph.Resolve(path)
	if err != nil {
		return Join{}, invalidPlan("join %s: %v", j.Alias, err)
	}
	if len(edges) == 0 || edges[len(edges)-1].To != target.ID {
		return Join{}, invalidPlan("join %s path '%s' does not end at '%s'", j.Alias, j.Path, target.ID)
	}
	d.domains[j.Alias] = target

	return Join{
		Alias:        j.Alias,
		Path:         path,
		Domain:       target.ID,
		Table:        target.Table,
		Parent:       j.Parent,
		ParentColumn: j.ParentColumn,
		ChildColumn:  j.ChildColumn,
	}, nil
}

func (d *decoder) field(alias, column string) (*domain.Field, error) {
	owner, ok := d.domains[alias]
	if !ok {
		return nil, invalidPlan("unknown alias '%s'", alias)
	}
	for _, f := range owner.Fields() {
		if f.Column == column {
			return f, nil
		}
	}
	return nil, invalidPlan("table '%s' has no column '%s'", owner.Table, column)
}

func (d *decoder) predicate(in *predicateJSON) (Predicate, error) {
	switch in.Op {
	case "cond":
		field, err := d.field(in.Alias, in.Column)
		if err != nil {
			return nil, err
		}
		cmp, err := domain.ParseComparator(in.Comparator)
		if err != nil {
			return nil, invalidPlan("%v", err)
		}
		values := make([]domain.Value, 0, len(in.Values))
		for _, raw := range in.Values {
			v, err := decodeValue(field.Type, raw)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return &Condition{
			Alias:      in.Alias,
			Column:     field.Column,
			Domain:     field.Domain,
			Field:      field.Name,
			Type:       field.Type,
			Comparator: cmp,
			Values:     values,
		}, nil

	case "and", "or":
		ops := make([]Predicate, 0, len(in.Operands))
		for _, op := range in.Operands {
			p, err := d.predicate(op)
			if err != nil {
				return nil, err
			}
			ops = append(ops, p)
		}
		if in.Op == "and" {
			return &AllOf{Operands: ops}, nil
		}
		return &AnyOf{Operands: ops}, nil

	case "not":
		if len(in.Operands) != 1 {
			return nil, invalidPlan("'not' takes one operand, got %d", len(in.Operands))
		}
		op, err := d.predicate(in.Operands[0])
		if err != nil {
			return nil, err
		}
		return &Negation{Operand: op}, nil

	default:
		return nil, invalidPlan("unknown predicate op '%s'", in.Op)
	}
}

func decodeValue(t domain.ValueType, raw *string) (domain.Value, error) {
	if raw == nil {
		return domain.NullValue(t), nil
	}
	s := *raw
	switch t {
	case domain.TypeString:
		return domain.StringValue(s), nil
	case domain.TypeLong:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return domain.Value{}, invalidPlan("bad long value %q", s)
		}
		return domain.LongValue(n), nil
	case domain.TypeInteger:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return domain.Value{}, invalidPlan("bad integer value %q", s)
		}
		return domain.IntegerValue(int32(n)), nil
	case domain.TypeDate:
		tm, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return domain.Value{}, invalidPlan("bad date value %q", s)
		}
		return domain.DateValue(tm), nil
	case domain.TypeItemType:
		it, err := domain.ParseItemType(s)
		if err != nil {
			return domain.Value{}, invalidPlan("bad item type %q", s)
		}
		return domain.ItemTypeValue(it), nil
	default:
		return domain.Value{}, invalidPlan("unsupported value type %s", t)
	}
}

func parsePath(s string) domain.Path {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ".")
	path := make(domain.Path, len(parts))
	for i, part := range parts {
		path[i] = domain.ID(part)
	}
	return path
}
