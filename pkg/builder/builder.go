// Package builder constructs criteria queries in Go code. Each domain has its own path
// type whose methods are exactly the fields and sub-domains the domain declares, and each
// field type offers only the comparators its value type accepts, so an invalid criterion
// cannot be written.
//
//	q := builder.Find(builder.Items()).
//		Where(builder.Items().Archives().Entries().Name().Eq("commons-io.jar")).
//		SortDesc(builder.Items().Size()).
//		Limit(10).
//		Build()
package builder

import (
	"strconv"
	"time"

	"github.com/artifactql/aql/compiler/criteria"
	"github.com/artifactql/aql/pkg/domain"
)

// Selectable is anything that can be projected or sorted: a domain path or a field
type Selectable interface {
	Selection() criteria.Selection
}

// domainPath is the path shared by every domain path type
type domainPath struct {
	path domain.Path
}

func root(id domain.ID) domainPath {
	return domainPath{path: domain.Path{id}}
}

func (p domainPath) to(id domain.ID) domainPath {
	return domainPath{path: p.path.Extend(id)}
}

func (p domainPath) field(name string) field {
	return field{path: p.path, name: name}
}

// Selection selects every field of the domain the path ends at
func (p domainPath) Selection() criteria.Selection {
	return criteria.Selection{Path: p.path}
}

type field struct {
	path domain.Path
	name string
}

// Selection selects the field
func (f field) Selection() criteria.Selection {
	return criteria.Selection{Path: f.path, Field: f.name}
}

// Asc sorts by the field in ascending order
func (f field) Asc() criteria.SortKey {
	return criteria.SortKey{Selection: f.Selection()}
}

// Desc sorts by the field in descending order
func (f field) Desc() criteria.SortKey {
	return criteria.SortKey{Selection: f.Selection(), Descending: true}
}

func (f field) compare(c domain.Comparator, values ...criteria.Literal) criteria.Node {
	return &criteria.Criterion{Path: f.path, Field: f.name, Comparator: c, Values: values}
}

// IsNull matches rows where the field has no value
func (f field) IsNull() criteria.Node {
	return f.compare(domain.IsNull)
}

// IsNotNull matches rows where the field has a value
func (f field) IsNotNull() criteria.Node {
	return f.compare(domain.IsNotNull)
}

func str(s string) criteria.Literal {
	return criteria.Literal{Kind: criteria.KindString, Text: s}
}

func num(n int64) criteria.Literal {
	return criteria.Literal{Kind: criteria.KindNumber, Text: strconv.FormatInt(n, 10)}
}

func date(t time.Time) criteria.Literal {
	return criteria.Literal{Kind: criteria.KindDate, Text: t.UTC().Format(time.RFC3339Nano)}
}

// StringField compares a string field
type StringField struct{ field }

func (f StringField) Eq(v string) criteria.Node       { return f.compare(domain.Equal, str(v)) }
func (f StringField) Ne(v string) criteria.Node       { return f.compare(domain.NotEqual, str(v)) }
func (f StringField) Like(v string) criteria.Node     { return f.compare(domain.Like, str(v)) }
func (f StringField) Contains(v string) criteria.Node { return f.compare(domain.Contains, str(v)) }

// In matches any of the values. At least one value is required when the query is checked.
func (f StringField) In(vs ...string) criteria.Node {
	lits := make([]criteria.Literal, len(vs))
	for i, v := range vs {
		lits[i] = str(v)
	}
	return f.compare(domain.In, lits...)
}

// LongField compares a 64-bit integer field
type LongField struct{ field }

func (f LongField) Eq(v int64) criteria.Node { return f.compare(domain.Equal, num(v)) }
func (f LongField) Ne(v int64) criteria.Node { return f.compare(domain.NotEqual, num(v)) }
func (f LongField) Gt(v int64) criteria.Node { return f.compare(domain.Greater, num(v)) }
func (f LongField) Ge(v int64) criteria.Node { return f.compare(domain.GreaterOrEqual, num(v)) }
func (f LongField) Lt(v int64) criteria.Node { return f.compare(domain.Less, num(v)) }
func (f LongField) Le(v int64) criteria.Node { return f.compare(domain.LessOrEqual, num(v)) }

func (f LongField) In(vs ...int64) criteria.Node {
	lits := make([]criteria.Literal, len(vs))
	for i, v := range vs {
		lits[i] = num(v)
	}
	return f.compare(domain.In, lits...)
}

// IntegerField compares a 32-bit integer field
type IntegerField struct{ field }

func (f IntegerField) Eq(v int32) criteria.Node { return f.compare(domain.Equal, num(int64(v))) }
func (f IntegerField) Ne(v int32) criteria.Node { return f.compare(domain.NotEqual, num(int64(v))) }
func (f IntegerField) Gt(v int32) criteria.Node { return f.compare(domain.Greater, num(int64(v))) }
func (f IntegerField) Ge(v int32) criteria.Node { return f.compare(domain.GreaterOrEqual, num(int64(v))) }
func (f IntegerField) Lt(v int32) criteria.Node { return f.compare(domain.Less, num(int64(v))) }
func (f IntegerField) Le(v int32) criteria.Node { return f.compare(domain.LessOrEqual, num(int64(v))) }

func (f IntegerField) In(vs ...int32) criteria.Node {
	lits := make([]criteria.Literal, len(vs))
	for i, v := range vs {
		lits[i] = num(int64(v))
	}
	return f.compare(domain.In, lits...)
}

// DateField compares a date field. Times are compared in UTC.
type DateField struct{ field }

func (f DateField) Eq(v time.Time) criteria.Node     { return f.compare(domain.Equal, date(v)) }
func (f DateField) Ne(v time.Time) criteria.Node     { return f.compare(domain.NotEqual, date(v)) }
func (f DateField) After(v time.Time) criteria.Node  { return f.compare(domain.Greater, date(v)) }
func (f DateField) AtOrAfter(v time.Time) criteria.Node {
	return f.compare(domain.GreaterOrEqual, date(v))
}
func (f DateField) Before(v time.Time) criteria.Node { return f.compare(domain.Less, date(v)) }
func (f DateField) AtOrBefore(v time.Time) criteria.Node {
	return f.compare(domain.LessOrEqual, date(v))
}

func (f DateField) In(vs ...time.Time) criteria.Node {
	lits := make([]criteria.Literal, len(vs))
	for i, v := range vs {
		lits[i] = date(v)
	}
	return f.compare(domain.In, lits...)
}

// ItemTypeField compares the item type field
type ItemTypeField struct{ field }

func (f ItemTypeField) Eq(v domain.ItemType) criteria.Node { return f.compare(domain.Equal, str(v.String())) }
func (f ItemTypeField) Ne(v domain.ItemType) criteria.Node {
	return f.compare(domain.NotEqual, str(v.String()))
}

func (f ItemTypeField) In(vs ...domain.ItemType) criteria.Node {
	lits := make([]criteria.Literal, len(vs))
	for i, v := range vs {
		lits[i] = str(v.String())
	}
	return f.compare(domain.In, lits...)
}

// And matches when every node does. A single node is returned unchanged and no node
// gives nil, which leaves a query unfiltered.
func And(nodes ...criteria.Node) criteria.Node {
	return criteria.NewAnd(nodes...)
}

// Or matches when any node does. It simplifies its operands like And.
func Or(nodes ...criteria.Node) criteria.Node {
	return criteria.NewOr(nodes...)
}

// Not negates node
func Not(node criteria.Node) criteria.Node {
	return &criteria.Not{Operand: node}
}
