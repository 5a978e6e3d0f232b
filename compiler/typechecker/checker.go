// Package typechecker binds a criteria query to a domain graph. It resolves every path to
// the transitions it traverses, looks fields up in their owning domain, checks comparators
// against field types and coerces literal values into typed values.
package typechecker

import (
	"fmt"
	"strings"

	"github.com/artifactql/aql/compiler/criteria"
	"github.com/artifactql/aql/compiler/errors"
	"github.com/artifactql/aql/pkg/domain"
)

// Checker binds queries against one graph. It holds no per-query state and is safe for
// concurrent use.
type Checker struct {
	graph *domain.Graph
}

// New creates a checker for graph
func New(graph *domain.Graph) *Checker {
	return &Checker{graph: graph}
}

// Check binds q. The first problem found is returned as a *errors.SemanticError.
func (c *Checker) Check(q *criteria.Query) (*BoundQuery, error) {
	if q == nil {
		return nil, errors.NewSemanticError(errors.ErrInvalidPlan, "no query to check")
	}

	root, ok := c.graph.Domain(q.Root)
	if !ok {
		return nil, errors.NewSemanticError(errors.ErrUnknownDomain, "unknown domain '%s'", q.Root).
			WithMember("", string(q.Root), c.graph.Names())
	}

	if q.Limit < 0 {
		return nil, errors.NewSemanticError(errors.ErrNegativeBound, "limit must not be negative, got %d", q.Limit)
	}
	if q.Offset < 0 {
		return nil, errors.NewSemanticError(errors.ErrNegativeBound, "offset must not be negative, got %d", q.Offset)
	}

	bound := &BoundQuery{
		Source: q,
		Root:   root,
		Limit:  q.Limit,
		Offset: q.Offset,
	}

	if q.Filter != nil {
		filter, err := c.checkNode(q.Root, q.Filter)
		if err != nil {
			return nil, err
		}
		bound.Filter = filter
	}

	for _, sel := range q.Include {
		b, err := c.checkSelection(q.Root, sel)
		if err != nil {
			return nil, err
		}
		bound.Include = append(bound.Include, b)
	}

	for _, key := range q.Sort {
		b, err := c.checkSelection(q.Root, key.Selection)
		if err != nil {
			return nil, err
		}
		if b.Field == nil {
			return nil, errors.NewSemanticError(errors.ErrInvalidSortKey,
				"cannot sort by domain '%s'; sort keys must be fields", key.Selection).
				WithMember(string(b.Domain.ID), b.Domain.Name(), b.Domain.FieldNames())
		}
		bound.Sort = append(bound.Sort, SortKey{Selection: b, Descending: key.Descending})
	}

	return bound, nil
}

func (c *Checker) checkNode(root domain.ID, n criteria.Node) (Node, error) {
	switch node := n.(type) {
	case *criteria.Criterion:
		return c.checkCriterion(root, node)

	case *criteria.And:
		ops, err := c.checkOperands(root, node.Operands)
		if err != nil {
			return nil, err
		}
		return &And{Operands: ops}, nil

	case *criteria.Or:
		ops, err := c.checkOperands(root, node.Operands)
		if err != nil {
			return nil, err
		}
		return &Or{Operands: ops}, nil

	case *criteria.Not:
		if node.Operand == nil {
			return nil, errors.NewSemanticError(errors.ErrInvalidPlan, "'not' without an operand")
		}
		op, err := c.checkNode(root, node.Operand)
		if err != nil {
			return nil, err
		}
		return &Not{Operand: op}, nil

	default:
		return nil, errors.NewSemanticError(errors.ErrInvalidPlan, "unsupported criterion node %T", n)
	}
}

func (c *Checker) checkOperands(root domain.ID, operands []criteria.Node) ([]Node, error) {
	if len(operands) == 0 {
		return nil, errors.NewSemanticError(errors.ErrInvalidPlan, "connective without operands")
	}
	out := make([]Node, 0, len(operands))
	for _, op := range operands {
		b, err := c.checkNode(root, op)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (c *Checker) checkCriterion(root domain.ID, crit *criteria.Criterion) (*Criterion, error) {
	owner, edges, err := c.resolvePath(root, crit.Path)
	if err != nil {
		return nil, err
	}

	field, err := c.lookupField(owner, crit.Field)
	if err != nil {
		return nil, err
	}

	if !field.Allows(crit.Comparator) {
		valid := make([]string, 0, len(field.Comparators()))
		for _, cmp := range field.Comparators() {
			valid = append(valid, cmp.String())
		}
		return nil, errors.NewSemanticError(errors.ErrComparatorNotAllowed,
			"comparator '%s' cannot be applied to %s field '%s'", crit.Comparator, field.Type, field.Qualified()).
			WithMember(string(owner.ID), crit.Comparator.String(), valid)
	}

	if err := checkArity(crit, field); err != nil {
		return nil, err
	}

	values := make([]domain.Value, 0, len(crit.Values))
	for _, lit := range crit.Values {
		v, err := Coerce(field, lit)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return &Criterion{
		Path:       crit.Path,
		Edges:      edges,
		Field:      field,
		Comparator: crit.Comparator,
		Values:     values,
	}, nil
}

func checkArity(crit *criteria.Criterion, field *domain.Field) error {
	n := len(crit.Values)
	switch arity := crit.Comparator.Arity(); {
	case arity < 0 && n == 0:
		return errors.NewSemanticError(errors.ErrWrongValueCount,
			"'%s' on '%s' needs at least one value", crit.Comparator, field.Qualified())
	case arity >= 0 && n != arity:
		return errors.NewSemanticError(errors.ErrWrongValueCount,
			"'%s' on '%s' takes %d value(s), got %d", crit.Comparator, field.Qualified(), arity, n)
	}
	return nil
}

func (c *Checker) checkSelection(root domain.ID, sel criteria.Selection) (Selection, error) {
	owner, edges, err := c.resolvePath(root, sel.Path)
	if err != nil {
		return Selection{}, err
	}
	out := Selection{Path: sel.Path, Edges: edges, Domain: owner}
	if sel.IsDomain() {
		return out, nil
	}
	field, err := c.lookupField(owner, sel.Field)
	if err != nil {
		return Selection{}, err
	}
	out.Field = field
	return out, nil
}

// resolvePath checks that path starts at root and follows declared edges. It returns the
// domain the path ends at.
func (c *Checker) resolvePath(root domain.ID, path domain.Path) (*domain.Domain, []*domain.Transition, error) {
	if len(path) == 0 || path[0] != root {
		return nil, nil, errors.NewSemanticError(errors.ErrRootMismatch,
			"path '%s' does not start at the query root '%s'", path, root)
	}

	current, _ := c.graph.Domain(root)
	edges := make([]*domain.Transition, 0, len(path)-1)
	for _, step := range path[1:] {
		t, ok := current.Transition(step)
		if !ok {
			return nil, nil, errors.NewSemanticError(errors.ErrIllegalPath,
				"'%s' is not reachable from '%s' in path '%s'", step, current.ID, path).
				WithMember(string(current.ID), string(step), current.SubDomains())
		}
		edges = append(edges, t)
		current, _ = c.graph.Domain(t.To)
	}
	return current, edges, nil
}

// lookupField finds name in owner. A dotted name is an unresolved chain, and the first
// segment is the member that failed to resolve.
func (c *Checker) lookupField(owner *domain.Domain, name string) (*domain.Field, error) {
	if f, ok := owner.Field(name); ok {
		return f, nil
	}

	member := name
	if i := strings.IndexByte(name, '.'); i >= 0 {
		member = name[:i]
	}
	valid := append(owner.FieldNames(), owner.SubDomains()...)

	msg := fmt.Sprintf("unknown field or sub-domain '%s' in domain '%s'", member, owner.ID)
	if _, isDomain := owner.Transition(domain.ID(member)); isDomain {
		msg = fmt.Sprintf("'%s' is a sub-domain of '%s', not a field", member, owner.ID)
	} else if similar := errors.FindSimilar(member, valid); len(similar) > 0 {
		msg += fmt.Sprintf("; did you mean '%s'?", similar[0])
	}

	return nil, errors.NewSemanticError(errors.ErrUnknownField, "%s", msg).
		WithMember(string(owner.ID), member, valid)
}
