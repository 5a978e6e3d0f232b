package criteria

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artifactql/aql/pkg/domain"
)

func entryName(value string) *Criterion {
	return &Criterion{
		Path:       domain.Path{domain.Items, domain.Archives, domain.Entries},
		Field:      "name",
		Comparator: domain.Equal,
		Values:     []Literal{{Kind: KindString, Text: value}},
	}
}

func TestCriterion_String(t *testing.T) {
	tests := []struct {
		name string
		c    *Criterion
		want string
	}{
		{"equal", entryName("a.jar"), `items.archives.entries.name = "a.jar"`},
		{"escaped", entryName("say \"hi\"\n"), `items.archives.entries.name = "say \"hi\"\n"`},
		{
			"in",
			&Criterion{Path: domain.Path{domain.Items}, Field: "size", Comparator: domain.In,
				Values: []Literal{{KindNumber, "1"}, {KindNumber, "2"}}},
			"items.size in (1, 2)",
		},
		{
			"null",
			&Criterion{Path: domain.Path{domain.Items}, Field: "md5", Comparator: domain.IsNotNull},
			"items.md5 is not null",
		},
		{
			"date",
			&Criterion{Path: domain.Path{domain.Items}, Field: "created", Comparator: domain.Greater,
				Values: []Literal{{KindDate, "2024-01-01"}}},
			"items.created > 2024-01-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.String())
		})
	}
}

func TestConnectives_String(t *testing.T) {
	a, b, c := entryName("a"), entryName("b"), entryName("c")

	assert.Equal(t,
		`items.archives.entries.name = "a" or (items.archives.entries.name = "b" and items.archives.entries.name = "c")`,
		NewOr(a, NewAnd(b, c)).String())
	assert.Equal(t, `not (items.archives.entries.name = "a" or items.archives.entries.name = "b")`,
		(&Not{Operand: NewOr(a, b)}).String())
	assert.Equal(t, `not not items.archives.entries.name = "a"`, (&Not{Operand: &Not{Operand: a}}).String())
	assert.Same(t, a, NewAnd(a))
}

func TestWalk(t *testing.T) {
	a, b, c := entryName("a"), entryName("b"), entryName("c")
	tree := NewAnd(a, &Not{Operand: NewOr(b, c)})

	var seen []string
	require.NoError(t, Walk(tree, func(c *Criterion) error {
		seen = append(seen, c.Values[0].Text)
		return nil
	}))
	assert.Equal(t, []string{"a", "b", "c"}, seen)

	stop := errors.New("stop")
	count := 0
	err := Walk(tree, func(*Criterion) error {
		count++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, count)

	assert.NoError(t, Walk(nil, func(*Criterion) error { return stop }))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(NewAnd(entryName("a"), entryName("b")), NewAnd(entryName("a"), entryName("b"))))
	assert.False(t, Equal(NewAnd(entryName("a"), entryName("b")), NewOr(entryName("a"), entryName("b"))))
	assert.False(t, Equal(entryName("a"), entryName("b")))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(entryName("a"), nil))
}

func TestQuery_String(t *testing.T) {
	q := &Query{
		Root:   domain.Items,
		Filter: entryName("a.jar"),
		Include: []Selection{
			{Path: domain.Path{domain.Items}, Field: "name"},
			{Path: domain.Path{domain.Items, domain.Archives}},
		},
		Sort:   []SortKey{{Selection: Selection{Path: domain.Path{domain.Items}, Field: "size"}, Descending: true}},
		Limit:  10,
		Offset: 5,
	}

	assert.Equal(t,
		`items.archives.entries.name = "a.jar" include items.name, items.archives sort items.size desc limit 10 offset 5`,
		q.String())
	assert.Equal(t, "", (&Query{Root: domain.Items}).String())

	other := *q
	assert.True(t, q.Equal(&other))
	other.Limit = 11
	assert.False(t, q.Equal(&other))
}
