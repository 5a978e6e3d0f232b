package parser

import (
	"strings"

	"github.com/artifactql/aql/compiler/grammar"
	"github.com/artifactql/aql/compiler/lexer"
	"github.com/artifactql/aql/pkg/domain"
)

// selection is the value a domain grammar pushes: the sub-domain steps taken below the
// domain it started at, and the field that ended the chain. A chain that stops on a
// sub-domain has no field.
type selection struct {
	steps []domain.ID
	field string
}

func (s selection) isDomain() bool {
	return s.field == ""
}

// domainTerminal marks a chain that ends on a sub-domain name
type domainTerminal struct{}

// domainGrammars builds one grammar node per domain of a graph
type domainGrammars struct {
	graph *domain.Graph
	nodes map[domain.ID]*grammar.Ref
}

func newDomainGrammars(graph *domain.Graph) *domainGrammars {
	return &domainGrammars{graph: graph, nodes: make(map[domain.ID]*grammar.Ref)}
}

// node returns the grammar of the members of id. The reference is registered before its
// alternatives are built, so a domain reachable from itself resolves to the node under
// construction instead of recursing.
func (g *domainGrammars) node(id domain.ID) *grammar.Ref {
	if ref, ok := g.nodes[id]; ok {
		return ref
	}
	ref := grammar.NewRef(string(id))
	g.nodes[id] = ref

	d, ok := g.graph.Domain(id)
	if !ok {
		return ref
	}

	var alts []grammar.Element
	for _, f := range d.Fields() {
		alts = append(alts, fieldElement(f.Name))
	}
	for _, t := range d.Transitions() {
		alts = append(alts, g.transitionElement(t.To))
	}

	ref.Set(grammar.Else(grammar.Fork(alts...), unknownElement()))
	return ref
}

// fieldElement matches a field name and ends the chain
func fieldElement(name string) grammar.Element {
	return grammar.Reduce(
		grammar.Name(name, lexer.TOKEN_FIELD, grammar.StateAtField),
		func([]any) (any, bool) {
			return selection{field: name}, true
		},
	)
}

// transitionElement matches a sub-domain name followed either by a dot and the
// sub-domain's own members or by nothing
func (g *domainGrammars) transitionElement(to domain.ID) grammar.Element {
	return grammar.Reduce(
		grammar.Seq(
			grammar.Name(string(to), lexer.TOKEN_DOMAIN, grammar.StateInChain),
			grammar.Fork(
				grammar.Seq(grammar.Symbol(lexer.TOKEN_DOT, grammar.StateInChain), g.node(to)),
				grammar.Const(domainTerminal{}),
			),
		),
		func(vals []any) (any, bool) {
			if len(vals) != 2 {
				return nil, false
			}
			sel, ok := vals[1].(selection)
			if !ok {
				return selection{steps: []domain.ID{to}}, true
			}
			steps := make([]domain.ID, 0, len(sel.steps)+1)
			steps = append(steps, to)
			steps = append(steps, sel.steps...)
			return selection{steps: steps, field: sel.field}, true
		},
	)
}

// unknownElement accepts a dotted chain of names nothing declared matched. The binder
// rejects it with the owning domain and its valid members.
func unknownElement() grammar.Element {
	return grammar.Reduce(
		grammar.Seq(
			grammar.Identifier(lexer.TOKEN_FIELD, grammar.StateAtField),
			grammar.Many(grammar.Seq(
				grammar.Symbol(lexer.TOKEN_DOT, grammar.StateAtField),
				grammar.Identifier(lexer.TOKEN_FIELD, grammar.StateAtField),
			)),
		),
		func(vals []any) (any, bool) {
			names := make([]string, len(vals))
			for i, v := range vals {
				names[i] = v.(lexer.Token).Lexeme
			}
			return selection{field: strings.Join(names, ".")}, true
		},
	)
}
