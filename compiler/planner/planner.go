// Package planner compiles bound queries into plans. Every path a query references is
// resolved to join edges from the root, and paths sharing a prefix share the joins of
// that prefix.
package planner

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/artifactql/aql/compiler/errors"
	"github.com/artifactql/aql/compiler/typechecker"
	"github.com/artifactql/aql/pkg/domain"
)

// Compiler turns bound queries into plans. It is safe for concurrent use.
type Compiler struct {
	graph        *domain.Graph
	maxJoins     int
	defaultLimit int64
	newID        func() string
}

// Option configures a Compiler
type Option func(*Compiler)

// WithMaxJoins rejects plans that need more than n joins. Zero means no limit.
func WithMaxJoins(n int) Option {
	return func(c *Compiler) {
		c.maxJoins = n
	}
}

// WithDefaultLimit applies n to queries that do not set a limit
func WithDefaultLimit(n int64) Option {
	return func(c *Compiler) {
		c.defaultLimit = n
	}
}

// WithIDGenerator replaces the plan ID source
func WithIDGenerator(fn func() string) Option {
	return func(c *Compiler) {
		c.newID = fn
	}
}

// New creates a compiler for plans over graph
func New(graph *domain.Graph, opts ...Option) *Compiler {
	c := &Compiler{
		graph: graph,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Settings renders the options that change compiled plans. Plans compiled by compilers
// with equal settings are interchangeable.
func (c *Compiler) Settings() string {
	return "max_joins=" + strconv.Itoa(c.maxJoins) +
		";default_limit=" + strconv.FormatInt(c.defaultLimit, 10)
}

// Compile builds the plan for b. Aliases are handed out in the order paths are first
// referenced: the filter depth-first, then the projection, then the sort keys.
func (c *Compiler) Compile(b *typechecker.BoundQuery) (*Plan, error) {
	if b == nil || b.Root == nil {
		return nil, errors.NewSemanticError(errors.ErrInvalidPlan, "no bound query to compile")
	}

	s := &scope{
		graph:   c.graph,
		aliases: map[string]string{string(b.Root.ID): RootAlias},
	}

	p := &Plan{
		ID:     c.newID(),
		Root:   b.Root.ID,
		Table:  b.Root.Table,
		Limit:  b.Limit,
		Offset: b.Offset,
	}
	if b.Source != nil {
		p.Query = b.Source.String()
	}

	if b.Filter != nil {
		filter, err := s.predicate(b.Filter)
		if err != nil {
			return nil, err
		}
		p.Filter = filter
	}

	proj := newProjection()
	if len(b.Include) == 0 {
		proj.addDomain(RootAlias, domain.Path{b.Root.ID}, b.Root)
	}
	for _, sel := range b.Include {
		alias, err := s.alias(sel.Path, sel.Edges)
		if err != nil {
			return nil, err
		}
		if sel.Field == nil {
			proj.addDomain(alias, sel.Path, sel.Domain)
		} else {
			proj.addField(alias, sel.Path, sel.Field, false)
		}
	}

	for _, key := range b.Sort {
		alias, err := s.alias(key.Path, key.Edges)
		if err != nil {
			return nil, err
		}
		col := proj.addField(alias, key.Path, key.Field, true)
		p.Sort = append(p.Sort, Order{
			Name:       col.Name,
			Alias:      alias,
			Column:     key.Field.Column,
			Descending: key.Descending,
		})
	}

	p.Joins = s.joins
	p.Columns = proj.columns
	p.Distinct = len(p.Joins) > 0

	if c.maxJoins > 0 && len(p.Joins) > c.maxJoins {
		return nil, errors.NewSemanticError(errors.ErrTooManyJoins,
			"query needs %d joins, more than the allowed %d", len(p.Joins), c.maxJoins)
	}
	if p.Limit == 0 && c.defaultLimit > 0 {
		p.Limit = c.defaultLimit
	}
	return p, nil
}

// scope assigns aliases to path prefixes
type scope struct {
	graph   *domain.Graph
	aliases map[string]string
	joins   []Join
}

// alias returns the alias of the table path ends at, joining every prefix not seen yet
func (s *scope) alias(path domain.Path, edges []*domain.Transition) (string, error) {
	if len(edges) != len(path)-1 {
		return "", errors.NewSemanticError(errors.ErrInvalidPlan,
			"path '%s' has %d steps but %d edges", path, len(path)-1, len(edges))
	}

	current := RootAlias
	for i, edge := range edges {
		prefix := path[:i+2]
		key := prefix.String()
		if alias, ok := s.aliases[key]; ok {
			current = alias
			continue
		}

		target, ok := s.graph.Domain(edge.To)
		if !ok {
			return "", errors.NewSemanticError(errors.ErrInvalidPlan, "unknown domain '%s' in path '%s'", edge.To, path)
		}

		alias := "t" + strconv.Itoa(len(s.joins)+1)
		s.joins = append(s.joins, Join{
			Alias:        alias,
			Path:         append(domain.Path(nil), prefix...),
			Domain:       target.ID,
			Table:        target.Table,
			Parent:       current,
			ParentColumn: edge.Join.ParentColumn,
			ChildColumn:  edge.Join.ChildColumn,
		})
		s.aliases[key] = alias
		current = alias
	}
	return current, nil
}

func (s *scope) predicate(n typechecker.Node) (Predicate, error) {
	switch node := n.(type) {
	case *typechecker.Criterion:
		alias, err := s.alias(node.Path, node.Edges)
		if err != nil {
			return nil, err
		}
		return &Condition{
			Alias:      alias,
			Column:     node.Field.Column,
			Domain:     node.Field.Domain,
			Field:      node.Field.Name,
			Type:       node.Field.Type,
			Comparator: node.Comparator,
			Values:     node.Values,
		}, nil

	case *typechecker.And:
		ops, err := s.operands(node.Operands)
		if err != nil {
			return nil, err
		}
		return &AllOf{Operands: ops}, nil

	case *typechecker.Or:
		ops, err := s.operands(node.Operands)
		if err != nil {
			return nil, err
		}
		return &AnyOf{Operands: ops}, nil

	case *typechecker.Not:
		op, err := s.predicate(node.Operand)
		if err != nil {
			return nil, err
		}
		return &Negation{Operand: op}, nil

	default:
		return nil, errors.NewSemanticError(errors.ErrInvalidPlan, "unsupported bound node %T", n)
	}
}

func (s *scope) operands(nodes []typechecker.Node) ([]Predicate, error) {
	out := make([]Predicate, 0, len(nodes))
	for _, n := range nodes {
		p, err := s.predicate(n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// projection collects columns without duplicates. A hidden column is made visible when a
// later selection asks for it explicitly.
type projection struct {
	columns []Column
	index   map[string]int
}

func newProjection() *projection {
	return &projection{index: make(map[string]int)}
}

func (p *projection) addDomain(alias string, path domain.Path, d *domain.Domain) {
	for _, f := range d.Fields() {
		p.addField(alias, path, f, false)
	}
}

func (p *projection) addField(alias string, path domain.Path, f *domain.Field, hidden bool) Column {
	key := alias + "." + f.Column
	if i, ok := p.index[key]; ok {
		if !hidden {
			p.columns[i].Hidden = false
		}
		return p.columns[i]
	}

	col := Column{
		Name:   columnName(path, f.Name),
		Alias:  alias,
		Column: f.Column,
		Domain: f.Domain,
		Field:  f.Name,
		Type:   f.Type,
		Hidden: hidden,
	}
	p.index[key] = len(p.columns)
	p.columns = append(p.columns, col)
	return col
}

// columnName is the path below the root followed by the field
func columnName(path domain.Path, field string) string {
	if len(path) <= 1 {
		return field
	}
	return path[1:].String() + "." + field
}
