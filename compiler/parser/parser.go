// Package parser turns query text into criteria queries.
//
// The grammar is derived from a domain graph: every domain contributes one node whose
// alternatives are its fields and its sub-domain transitions, and cyclic transitions
// reuse the node already under construction. The grammar for a graph is built once and
// shared by every parse.
package parser

import (
	"strconv"
	"sync"

	"github.com/artifactql/aql/compiler/criteria"
	"github.com/artifactql/aql/compiler/errors"
	"github.com/artifactql/aql/compiler/grammar"
	"github.com/artifactql/aql/compiler/lexer"
	"github.com/artifactql/aql/pkg/domain"
)

// Parser parses query text against one domain graph. It is safe for concurrent use.
type Parser struct {
	graph *domain.Graph

	once    sync.Once
	domains *domainGrammars
	queries map[domain.ID]grammar.Element
}

// New creates a parser for graph. The grammar is built on first use.
func New(graph *domain.Graph) *Parser {
	return &Parser{graph: graph}
}

var defaultParser = sync.OnceValue(func() *Parser {
	return New(domain.Default())
})

// Default returns the parser for the built-in catalog
func Default() *Parser {
	return defaultParser()
}

// Parse parses text against the built-in catalog
func Parse(root domain.ID, text string) (*criteria.Query, error) {
	return Default().Parse(root, text)
}

// ParseInferred parses text against the built-in catalog, taking the root from the
// leading domain name
func ParseInferred(text string) (*criteria.Query, error) {
	return Default().ParseInferred(text)
}

// Graph returns the graph the parser was built for
func (p *Parser) Graph() *domain.Graph {
	return p.graph
}

func (p *Parser) build() {
	p.once.Do(func() {
		p.domains = newDomainGrammars(p.graph)
		p.queries = make(map[domain.ID]grammar.Element)
		for _, d := range p.graph.Domains() {
			p.domains.node(d.ID)
		}
		for _, d := range p.graph.Domains() {
			p.queries[d.ID] = queryGrammar(p.domains, d.ID)
		}
	})
}

// Parse parses text as a query rooted at root. Criterion paths may repeat the root name
// or start below it.
func (p *Parser) Parse(root domain.ID, text string) (*criteria.Query, error) {
	p.build()

	elem, ok := p.queries[root]
	if !ok {
		return nil, errors.NewSemanticError(errors.ErrUnknownDomain, "unknown domain '%s'", root).
			WithMember("", string(root), p.graph.Names())
	}

	vals, in, ok := grammar.Run(elem, text)
	if !ok {
		return nil, newSyntaxError(in)
	}
	return assemble(root, vals)
}

// ParseInferred parses text with the root taken from the first name in the query
func (p *Parser) ParseInferred(text string) (*criteria.Query, error) {
	root, err := p.inferRoot(text)
	if err != nil {
		return nil, err
	}
	return p.Parse(root, text)
}

// inferRoot finds the first name in text, skipping negations, groups and clause keywords
func (p *Parser) inferRoot(text string) (domain.ID, error) {
	pos := 0
	for {
		tok := lexer.Next(text, pos)
		switch tok.Type {
		case lexer.TOKEN_NOT, lexer.TOKEN_LEFT_PAREN, lexer.TOKEN_INCLUDE, lexer.TOKEN_SORT:
			pos = tok.End
			continue
		case lexer.TOKEN_IDENTIFIER:
			id := domain.ID(tok.Lexeme)
			if _, ok := p.graph.Domain(id); ok {
				return id, nil
			}
		}

		code := errors.ErrUnknownRoot
		switch tok.Type {
		case lexer.TOKEN_EOF:
			code = errors.ErrUnexpectedEnd
		case lexer.TOKEN_ERROR:
			code = foundErrorCode(tok)
		}
		line, column := lexer.Position(text, tok.Start)
		return "", &errors.SyntaxError{
			Code:     code,
			Query:    text,
			Offset:   tok.Start,
			Line:     line,
			Column:   column,
			Expected: []lexer.TokenType{lexer.TOKEN_DOMAIN},
			Found:    tok,
			State:    grammar.StateRootDomain.String(),
		}
	}
}

// assemble turns the value stack of a complete parse into a query
func assemble(root domain.ID, vals *grammar.Values) (*criteria.Query, error) {
	q := &criteria.Query{Root: root}
	items, _ := vals.Pop(vals.Depth())

	for _, v := range items {
		switch clause := v.(type) {
		case criteria.Node:
			q.Filter = clause
		case includeClause:
			q.Include = clause
		case sortClause:
			q.Sort = clause
		case limitClause:
			n, err := parseBound("limit", lexer.Token(clause))
			if err != nil {
				return nil, err
			}
			q.Limit = n
		case offsetClause:
			n, err := parseBound("offset", lexer.Token(clause))
			if err != nil {
				return nil, err
			}
			q.Offset = n
		}
	}
	return q, nil
}

func parseBound(clause string, tok lexer.Token) (int64, error) {
	n, err := strconv.ParseInt(tok.Lexeme, 10, 64)
	if err != nil {
		return 0, errors.NewSemanticError(errors.ErrNumberOverflow, "%s %s is out of range", clause, tok.Lexeme)
	}
	return n, nil
}
