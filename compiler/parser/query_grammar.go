package parser

import (
	"github.com/artifactql/aql/compiler/criteria"
	"github.com/artifactql/aql/compiler/grammar"
	"github.com/artifactql/aql/compiler/lexer"
	"github.com/artifactql/aql/pkg/domain"
)

// Clause values pushed by the query grammar
type (
	includeClause []criteria.Selection
	sortClause    []criteria.SortKey
	limitClause   lexer.Token
	offsetClause  lexer.Token
)

// comparison is the comparator and values that follow a criterion path
type comparison struct {
	comparator domain.Comparator
	values     []criteria.Literal
}

// queryGrammar builds the complete query grammar rooted at root
func queryGrammar(domains *domainGrammars, root domain.ID) grammar.Element {
	q := &queryBuilder{domains: domains, root: root}
	return q.build()
}

type queryBuilder struct {
	domains *domainGrammars
	root    domain.ID
}

func (q *queryBuilder) build() grammar.Element {
	return grammar.Seq(
		grammar.Optional(q.filter()),
		grammar.Optional(q.include()),
		grammar.Optional(q.sort()),
		grammar.Optional(q.bound(lexer.TOKEN_LIMIT, func(t lexer.Token) any { return limitClause(t) })),
		grammar.Optional(q.bound(lexer.TOKEN_OFFSET, func(t lexer.Token) any { return offsetClause(t) })),
		grammar.End(grammar.StateExpectConnectiveOrEnd),
	)
}

// path matches a member chain written either with the root name in front or relative
// to the root. The relative form is only tried when the prefixed one has no candidate,
// so a prefixed chain is never also read as an unknown member named after the root.
func (q *queryBuilder) path() grammar.Element {
	prefixed := grammar.Reduce(
		grammar.Seq(
			grammar.Name(string(q.root), lexer.TOKEN_DOMAIN, grammar.StateRootDomain),
			grammar.Symbol(lexer.TOKEN_DOT, grammar.StateInChain),
			q.domains.node(q.root),
		),
		func(vals []any) (any, bool) {
			if len(vals) != 2 {
				return nil, false
			}
			return vals[1], true
		},
	)
	return grammar.Else(prefixed, q.domains.node(q.root))
}

// selection is a path or the root domain alone. The root alone is tried first so that a
// bare root name is not taken for an unknown member of the root.
func (q *queryBuilder) selection() grammar.Element {
	rootOnly := grammar.Reduce(
		grammar.Name(string(q.root), lexer.TOKEN_DOMAIN, grammar.StateRootDomain),
		func([]any) (any, bool) { return selection{}, true },
	)
	return grammar.Reduce(grammar.Fork(rootOnly, q.path()), func(vals []any) (any, bool) {
		sel, ok := vals[0].(selection)
		if !ok {
			return nil, false
		}
		return q.toSelection(sel), true
	})
}

func (q *queryBuilder) toSelection(sel selection) criteria.Selection {
	path := make(domain.Path, 0, len(sel.steps)+1)
	path = append(path, q.root)
	path = append(path, sel.steps...)
	return criteria.Selection{Path: path, Field: sel.field}
}

// filter := or
func (q *queryBuilder) filter() grammar.Element {
	or := grammar.NewRef("or")
	unary := grammar.NewRef("unary")

	and := grammar.Reduce(
		grammar.Seq(unary, grammar.Many(grammar.Seq(
			grammar.Keyword(lexer.TOKEN_AND, grammar.StateExpectConnectiveOrEnd),
			unary,
		))),
		func(vals []any) (any, bool) { return criteria.NewAnd(nodes(vals)...), true },
	)

	or.Set(grammar.Reduce(
		grammar.Seq(and, grammar.Many(grammar.Seq(
			grammar.Keyword(lexer.TOKEN_OR, grammar.StateExpectConnectiveOrEnd),
			and,
		))),
		func(vals []any) (any, bool) { return criteria.NewOr(nodes(vals)...), true },
	))

	unary.Set(grammar.Fork(
		grammar.Reduce(
			grammar.Seq(grammar.Keyword(lexer.TOKEN_NOT, grammar.StateStart), unary),
			func(vals []any) (any, bool) { return &criteria.Not{Operand: vals[0].(criteria.Node)}, true },
		),
		grammar.Seq(
			grammar.Symbol(lexer.TOKEN_LEFT_PAREN, grammar.StateStart),
			or,
			grammar.Symbol(lexer.TOKEN_RIGHT_PAREN, grammar.StateExpectConnectiveOrEnd),
		),
		q.criterion(),
	))

	return or
}

func nodes(vals []any) []criteria.Node {
	out := make([]criteria.Node, len(vals))
	for i, v := range vals {
		out[i] = v.(criteria.Node)
	}
	return out
}

// criterion := path comparison. The first complete match is committed.
func (q *queryBuilder) criterion() grammar.Element {
	return grammar.First(grammar.Reduce(
		grammar.Seq(
			q.path(),
			grammar.Guard(endsOnField, lexer.TOKEN_DOT, grammar.StateInChain),
			comparisonElement(),
		),
		func(vals []any) (any, bool) {
			if len(vals) != 2 {
				return nil, false
			}
			sel := vals[0].(selection)
			cmp := vals[1].(comparison)
			c := q.toSelection(sel)
			return &criteria.Criterion{
				Path:       c.Path,
				Field:      c.Field,
				Comparator: cmp.comparator,
				Values:     cmp.values,
			}, true
		},
	))
}

// endsOnField accepts a chain that selected a field rather than a sub-domain
func endsOnField(vals *grammar.Values) bool {
	top, ok := vals.Top()
	if !ok {
		return false
	}
	sel, ok := top.(selection)
	return ok && !sel.isDomain()
}

func comparisonElement() grammar.Element {
	binary := grammar.Seq(
		grammar.Fork(
			comparator(grammar.Symbol(lexer.TOKEN_EQUAL, grammar.StateExpectComparator), domain.Equal),
			comparator(grammar.Symbol(lexer.TOKEN_NOT_EQUAL, grammar.StateExpectComparator), domain.NotEqual),
			comparator(grammar.Symbol(lexer.TOKEN_GREATER_EQUAL, grammar.StateExpectComparator), domain.GreaterOrEqual),
			comparator(grammar.Symbol(lexer.TOKEN_GREATER, grammar.StateExpectComparator), domain.Greater),
			comparator(grammar.Symbol(lexer.TOKEN_LESS_EQUAL, grammar.StateExpectComparator), domain.LessOrEqual),
			comparator(grammar.Symbol(lexer.TOKEN_LESS, grammar.StateExpectComparator), domain.Less),
			comparator(grammar.Keyword(lexer.TOKEN_LIKE, grammar.StateExpectComparator), domain.Like),
			comparator(grammar.Keyword(lexer.TOKEN_CONTAINS, grammar.StateExpectComparator), domain.Contains),
		),
		literal(),
	)

	in := grammar.Seq(
		comparator(grammar.Keyword(lexer.TOKEN_IN, grammar.StateExpectComparator), domain.In),
		grammar.Symbol(lexer.TOKEN_LEFT_PAREN, grammar.StateExpectValue),
		literal(),
		grammar.Many(grammar.Seq(grammar.Symbol(lexer.TOKEN_COMMA, grammar.StateExpectValue), literal())),
		grammar.Symbol(lexer.TOKEN_RIGHT_PAREN, grammar.StateExpectValue),
	)

	null := grammar.Seq(
		grammar.Keyword(lexer.TOKEN_IS, grammar.StateExpectComparator),
		grammar.Fork(
			comparator(grammar.Keyword(lexer.TOKEN_NULL, grammar.StateExpectValue), domain.IsNull),
			comparator(grammar.Seq(
				grammar.Keyword(lexer.TOKEN_NOT, grammar.StateExpectValue),
				grammar.Keyword(lexer.TOKEN_NULL, grammar.StateExpectValue),
			), domain.IsNotNull),
		),
	)

	return grammar.Reduce(grammar.Fork(binary, in, null), func(vals []any) (any, bool) {
		cmp := comparison{comparator: vals[0].(domain.Comparator)}
		for _, v := range vals[1:] {
			cmp.values = append(cmp.values, v.(criteria.Literal))
		}
		return cmp, true
	})
}

// comparator pushes c when elem matches
func comparator(elem grammar.Element, c domain.Comparator) grammar.Element {
	return grammar.Reduce(elem, func([]any) (any, bool) { return c, true })
}

// literal := date | integer | string
func literal() grammar.Element {
	return grammar.Fork(
		grammar.Reduce(grammar.Date(grammar.StateExpectValue), func(vals []any) (any, bool) {
			return criteria.Literal{Kind: criteria.KindDate, Text: vals[0].(lexer.Token).Lexeme}, true
		}),
		grammar.Reduce(grammar.Integer(grammar.StateExpectValue), func(vals []any) (any, bool) {
			return criteria.Literal{Kind: criteria.KindNumber, Text: vals[0].(lexer.Token).Lexeme}, true
		}),
		grammar.Reduce(grammar.String(grammar.StateExpectValue), func(vals []any) (any, bool) {
			return criteria.Literal{Kind: criteria.KindString, Text: vals[0].(lexer.Token).Literal.(string)}, true
		}),
	)
}

// include := "include" selection { "," selection }
func (q *queryBuilder) include() grammar.Element {
	return grammar.Reduce(
		grammar.Seq(
			grammar.Keyword(lexer.TOKEN_INCLUDE, grammar.StateExpectConnectiveOrEnd),
			q.selection(),
			grammar.Many(grammar.Seq(
				grammar.Symbol(lexer.TOKEN_COMMA, grammar.StateExpectConnectiveOrEnd),
				q.selection(),
			)),
		),
		func(vals []any) (any, bool) {
			sels := make(includeClause, len(vals))
			for i, v := range vals {
				sels[i] = v.(criteria.Selection)
			}
			return sels, true
		},
	)
}

// sort := "sort" key { "," key }, key := selection ["asc" | "desc"]
func (q *queryBuilder) sort() grammar.Element {
	key := grammar.Reduce(
		grammar.Seq(
			q.selection(),
			grammar.Optional(grammar.Fork(
				grammar.Reduce(grammar.Keyword(lexer.TOKEN_ASC, grammar.StateExpectConnectiveOrEnd),
					func([]any) (any, bool) { return false, true }),
				grammar.Reduce(grammar.Keyword(lexer.TOKEN_DESC, grammar.StateExpectConnectiveOrEnd),
					func([]any) (any, bool) { return true, true }),
			)),
		),
		func(vals []any) (any, bool) {
			k := criteria.SortKey{Selection: vals[0].(criteria.Selection)}
			if len(vals) == 2 {
				k.Descending = vals[1].(bool)
			}
			return k, true
		},
	)

	return grammar.Reduce(
		grammar.Seq(
			grammar.Keyword(lexer.TOKEN_SORT, grammar.StateExpectConnectiveOrEnd),
			key,
			grammar.Many(grammar.Seq(grammar.Symbol(lexer.TOKEN_COMMA, grammar.StateExpectConnectiveOrEnd), key)),
		),
		func(vals []any) (any, bool) {
			keys := make(sortClause, len(vals))
			for i, v := range vals {
				keys[i] = v.(criteria.SortKey)
			}
			return keys, true
		},
	)
}

// bound := keyword integer, for limit and offset
func (q *queryBuilder) bound(keyword lexer.TokenType, wrap func(lexer.Token) any) grammar.Element {
	return grammar.Reduce(
		grammar.Seq(
			grammar.Keyword(keyword, grammar.StateExpectConnectiveOrEnd),
			grammar.Integer(grammar.StateExpectValue),
		),
		func(vals []any) (any, bool) {
			return wrap(vals[0].(lexer.Token)), true
		},
	)
}
