package builder

import (
	"github.com/artifactql/aql/compiler/criteria"
)

// QueryBuilder assembles a query rooted at one domain
type QueryBuilder struct {
	q criteria.Query
}

// Find starts a query rooted at the domain root starts at
func Find(root Selectable) *QueryBuilder {
	sel := root.Selection()
	b := &QueryBuilder{}
	if len(sel.Path) > 0 {
		b.q.Root = sel.Path[0]
	}
	return b
}

// Where adds criteria. Calling Where more than once ands all criteria together.
func (b *QueryBuilder) Where(nodes ...criteria.Node) *QueryBuilder {
	all := nodes
	if b.q.Filter != nil {
		all = append([]criteria.Node{b.q.Filter}, nodes...)
	}
	if len(all) > 0 {
		b.q.Filter = criteria.NewAnd(all...)
	}
	return b
}

// Include projects fields or whole domains
func (b *QueryBuilder) Include(sels ...Selectable) *QueryBuilder {
	for _, s := range sels {
		b.q.Include = append(b.q.Include, s.Selection())
	}
	return b
}

// SortAsc orders by sel ascending
func (b *QueryBuilder) SortAsc(sel Selectable) *QueryBuilder {
	b.q.Sort = append(b.q.Sort, criteria.SortKey{Selection: sel.Selection()})
	return b
}

// SortDesc orders by sel descending
func (b *QueryBuilder) SortDesc(sel Selectable) *QueryBuilder {
	b.q.Sort = append(b.q.Sort, criteria.SortKey{Selection: sel.Selection(), Descending: true})
	return b
}

func (b *QueryBuilder) Limit(n int64) *QueryBuilder {
	b.q.Limit = n
	return b
}

func (b *QueryBuilder) Offset(n int64) *QueryBuilder {
	b.q.Offset = n
	return b
}

// Build returns the query. The builder may be reused; later calls do not affect queries
// already built.
func (b *QueryBuilder) Build() *criteria.Query {
	q := b.q
	q.Include = append([]criteria.Selection(nil), b.q.Include...)
	q.Sort = append([]criteria.SortKey(nil), b.q.Sort...)
	return &q
}
