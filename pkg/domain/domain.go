package domain

import "strings"

// ID is the signature of a domain. It is also the name the domain is written as in query text.
type ID string

// Path is an ordered sequence of domains starting at a query root
type Path []ID

// String returns the dot-separated form of the path
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, id := range p {
		parts[i] = string(id)
	}
	return strings.Join(parts, ".")
}

// Equal reports whether both paths visit the same domains in the same order
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Last returns the final domain of the path, or "" for an empty path
func (p Path) Last() ID {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Extend returns a new path with id appended. The receiver is never modified.
func (p Path) Extend(id ID) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = id
	return out
}

// Field is a terminal, typed attribute of a domain
type Field struct {
	Name   string
	Column string
	Type   ValueType
	Domain ID
}

// Qualified returns domain.field
func (f *Field) Qualified() string {
	return string(f.Domain) + "." + f.Name
}

// Comparators returns the comparators this field accepts
func (f *Field) Comparators() []Comparator {
	return f.Type.Comparators()
}

// Allows reports whether c may be applied to this field
func (f *Field) Allows(c Comparator) bool {
	return f.Type.Allows(c)
}

// JoinMapping describes how a transition joins two tables: target.ChildColumn = source.ParentColumn
type JoinMapping struct {
	ParentColumn string
	ChildColumn  string
}

// Transition is a directed edge from one domain to a reachable sub-domain
type Transition struct {
	From ID
	To   ID
	Join JoinMapping
}

// Domain is a named entity type exposing fields and reachable sub-domains.
// Domains are immutable once the graph that owns them is built.
type Domain struct {
	ID    ID
	Table string
	Key   string

	fields      []*Field
	transitions []*Transition
	fieldIndex  map[string]*Field
	edgeIndex   map[ID]*Transition
}

// Name returns the name the domain is written as in query text
func (d *Domain) Name() string {
	return string(d.ID)
}

// Fields returns the terminal fields in declaration order
func (d *Domain) Fields() []*Field {
	out := make([]*Field, len(d.fields))
	copy(out, d.fields)
	return out
}

// Field looks a field up by name
func (d *Domain) Field(name string) (*Field, bool) {
	f, ok := d.fieldIndex[name]
	return f, ok
}

// FieldNames returns the field names in declaration order
func (d *Domain) FieldNames() []string {
	names := make([]string, len(d.fields))
	for i, f := range d.fields {
		names[i] = f.Name
	}
	return names
}

// Transitions returns the sub-domain transitions in declaration order
func (d *Domain) Transitions() []*Transition {
	out := make([]*Transition, len(d.transitions))
	copy(out, d.transitions)
	return out
}

// Transition returns the edge to the given sub-domain
func (d *Domain) Transition(to ID) (*Transition, bool) {
	t, ok := d.edgeIndex[to]
	return t, ok
}

// SubDomains returns the names of reachable sub-domains in declaration order
func (d *Domain) SubDomains() []string {
	names := make([]string, len(d.transitions))
	for i, t := range d.transitions {
		names[i] = string(t.To)
	}
	return names
}
