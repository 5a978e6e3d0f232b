package typechecker

import (
	"github.com/artifactql/aql/compiler/criteria"
	"github.com/artifactql/aql/pkg/domain"
)

// BoundQuery is a query whose references all resolved against the graph and whose values
// are typed
type BoundQuery struct {
	Source  *criteria.Query
	Root    *domain.Domain
	Filter  Node
	Include []Selection
	Sort    []SortKey
	Limit   int64
	Offset  int64
}

// Node is a bound criterion tree node
type Node interface {
	boundNode()
}

// Criterion is a criterion with its path resolved to edges and its values coerced to the
// field type
type Criterion struct {
	Path       domain.Path
	Edges      []*domain.Transition
	Field      *domain.Field
	Comparator domain.Comparator
	Values     []domain.Value
}

type And struct {
	Operands []Node
}

type Or struct {
	Operands []Node
}

type Not struct {
	Operand Node
}

func (*Criterion) boundNode() {}
func (*And) boundNode()       {}
func (*Or) boundNode()        {}
func (*Not) boundNode()       {}

// Selection is a resolved projection target. Field is nil when the whole domain is selected.
type Selection struct {
	Path   domain.Path
	Edges  []*domain.Transition
	Domain *domain.Domain
	Field  *domain.Field
}

// SortKey is a resolved sort field
type SortKey struct {
	Selection
	Descending bool
}

// Walk calls fn for every bound criterion under n, depth-first and left to right
func Walk(n Node, fn func(*Criterion)) {
	switch node := n.(type) {
	case *Criterion:
		fn(node)
	case *And:
		for _, op := range node.Operands {
			Walk(op, fn)
		}
	case *Or:
		for _, op := range node.Operands {
			Walk(op, fn)
		}
	case *Not:
		Walk(node.Operand, fn)
	}
}
