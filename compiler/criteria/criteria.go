// Package criteria defines the criterion tree and query that both query text and the
// builder API produce. Values are kept as raw literals; typing happens when a query is
// bound to the domain graph.
package criteria

import (
	"strings"

	"github.com/artifactql/aql/pkg/domain"
)

// LiteralKind is the lexical kind of a criterion value
type LiteralKind int

const (
	KindString LiteralKind = iota
	KindNumber
	KindDate
)

// String returns the string representation of the literal kind
func (k LiteralKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Literal is a value as written: Text is the decoded string contents, the digits of a
// number, or the ISO-8601 text of a date
type Literal struct {
	Kind LiteralKind
	Text string
}

// String renders the literal in query syntax
func (l Literal) String() string {
	if l.Kind == KindString {
		return quote(l.Text)
	}
	return l.Text
}

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

func quote(s string) string {
	return `"` + escaper.Replace(s) + `"`
}

// Node is a criterion tree node
type Node interface {
	criteriaNode()
	String() string
}

// Criterion compares one field reached through Path. Path starts with the query root.
type Criterion struct {
	Path       domain.Path
	Field      string
	Comparator domain.Comparator
	Values     []Literal
}

// And is satisfied when every operand is
type And struct {
	Operands []Node
}

// Or is satisfied when any operand is
type Or struct {
	Operands []Node
}

// Not negates its operand
type Not struct {
	Operand Node
}

func (*Criterion) criteriaNode() {}
func (*And) criteriaNode()       {}
func (*Or) criteriaNode()        {}
func (*Not) criteriaNode()       {}

// Target returns the path and field as written in query text
func (c *Criterion) Target() string {
	return c.Path.String() + "." + c.Field
}

func (c *Criterion) String() string {
	var sb strings.Builder
	sb.WriteString(c.Target())
	sb.WriteString(" ")
	sb.WriteString(c.Comparator.String())

	switch c.Comparator {
	case domain.IsNull, domain.IsNotNull:
	case domain.In:
		parts := make([]string, len(c.Values))
		for i, v := range c.Values {
			parts[i] = v.String()
		}
		sb.WriteString(" (")
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString(")")
	default:
		for _, v := range c.Values {
			sb.WriteString(" ")
			sb.WriteString(v.String())
		}
	}
	return sb.String()
}

func (a *And) String() string {
	return joinOperands(a.Operands, " and ")
}

func (o *Or) String() string {
	return joinOperands(o.Operands, " or ")
}

func (n *Not) String() string {
	return "not " + operandString(n.Operand)
}

func joinOperands(operands []Node, sep string) string {
	parts := make([]string, len(operands))
	for i, op := range operands {
		parts[i] = operandString(op)
	}
	return strings.Join(parts, sep)
}

// operandString parenthesizes nested connectives so the text parses back to the same tree
func operandString(n Node) string {
	switch n.(type) {
	case *And, *Or:
		return "(" + n.String() + ")"
	default:
		return n.String()
	}
}

// NewAnd combines nodes with and. Nil operands are dropped, a single operand is returned
// as is and no operand at all gives nil, the filter that matches everything.
func NewAnd(operands ...Node) Node {
	operands = compact(operands)
	switch len(operands) {
	case 0:
		return nil
	case 1:
		return operands[0]
	}
	return &And{Operands: operands}
}

// NewOr combines nodes with or, simplifying like NewAnd
func NewOr(operands ...Node) Node {
	operands = compact(operands)
	switch len(operands) {
	case 0:
		return nil
	case 1:
		return operands[0]
	}
	return &Or{Operands: operands}
}

func compact(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Walk calls fn for every criterion under n, depth-first and left to right. Walking
// stops at the first error.
func Walk(n Node, fn func(*Criterion) error) error {
	switch node := n.(type) {
	case nil:
		return nil
	case *Criterion:
		return fn(node)
	case *And:
		return walkAll(node.Operands, fn)
	case *Or:
		return walkAll(node.Operands, fn)
	case *Not:
		return Walk(node.Operand, fn)
	default:
		return nil
	}
}

func walkAll(nodes []Node, fn func(*Criterion) error) error {
	for _, n := range nodes {
		if err := Walk(n, fn); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports whether two trees have the same shape, paths, comparators and values
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case *Criterion:
		y, ok := b.(*Criterion)
		return ok && x.Path.Equal(y.Path) && x.Field == y.Field &&
			x.Comparator == y.Comparator && literalsEqual(x.Values, y.Values)
	case *And:
		y, ok := b.(*And)
		return ok && nodesEqual(x.Operands, y.Operands)
	case *Or:
		y, ok := b.(*Or)
		return ok && nodesEqual(x.Operands, y.Operands)
	case *Not:
		y, ok := b.(*Not)
		return ok && Equal(x.Operand, y.Operand)
	default:
		return false
	}
}

func nodesEqual(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func literalsEqual(a, b []Literal) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
