package typechecker

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artifactql/aql/compiler/criteria"
	"github.com/artifactql/aql/compiler/errors"
	"github.com/artifactql/aql/compiler/parser"
	"github.com/artifactql/aql/pkg/domain"
)

func check(t *testing.T, root domain.ID, text string) (*BoundQuery, error) {
	t.Helper()
	q, err := parser.Parse(root, text)
	require.NoError(t, err, "query should parse: %s", text)
	return New(domain.Default()).Check(q)
}

func semantic(t *testing.T, err error) *errors.SemanticError {
	t.Helper()
	require.Error(t, err)
	var sem *errors.SemanticError
	require.True(t, stderrors.As(err, &sem), "expected a semantic error, got %T: %v", err, err)
	return sem
}

func TestCheck_ResolvesPathAndValues(t *testing.T) {
	b, err := check(t, domain.Items, `archives.entries.name = "commons-io.jar" and size > 1024`)
	require.NoError(t, err)

	and, ok := b.Filter.(*And)
	require.True(t, ok)
	require.Len(t, and.Operands, 2)

	name := and.Operands[0].(*Criterion)
	assert.Equal(t, domain.Path{domain.Items, domain.Archives, domain.Entries}, name.Path)
	require.Len(t, name.Edges, 2)
	assert.Equal(t, domain.Items, name.Edges[0].From)
	assert.Equal(t, domain.Archives, name.Edges[0].To)
	assert.Equal(t, domain.Entries, name.Edges[1].To)
	assert.Equal(t, "entries.name", name.Field.Qualified())
	assert.Equal(t, []domain.Value{domain.StringValue("commons-io.jar")}, name.Values)

	size := and.Operands[1].(*Criterion)
	assert.Empty(t, size.Edges)
	assert.Equal(t, []domain.Value{domain.LongValue(1024)}, size.Values)
}

func TestCheck_DateCoercion(t *testing.T) {
	tests := []struct {
		text string
		want time.Time
	}{
		{`startDate > 2024-03-01`, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{`startDate > "2024-03-01T10:15"`, time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC)},
		{`startDate > "2024-03-01T10:15:30"`, time.Date(2024, 3, 1, 10, 15, 30, 0, time.UTC)},
		{`startDate > "2024-03-01T10:15:30.250Z"`, time.Date(2024, 3, 1, 10, 15, 30, 250e6, time.UTC)},
		{`startDate > "2024-03-01T12:15:30+02:00"`, time.Date(2024, 3, 1, 10, 15, 30, 0, time.UTC)},
		{`startDate > "2024-03-01T10:15Z"`, time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			b, err := check(t, domain.Builds, tt.text)
			require.NoError(t, err)
			c := b.Filter.(*Criterion)
			require.Len(t, c.Values, 1)
			assert.True(t, tt.want.Equal(c.Values[0].Time), "got %s", c.Values[0].Time)
		})
	}
}

func TestCheck_InvalidDateIsSemantic(t *testing.T) {
	_, err := check(t, domain.Builds, `builds.startDate > "not-a-date"`)
	sem := semantic(t, err)
	assert.Equal(t, errors.ErrInvalidDate, sem.Code)
	assert.Contains(t, sem.Message, "ISO-8601")
	assert.Equal(t, errors.KindSemantic, errors.KindOf(err))

	diag, ok := errors.Diagnostic(err)
	require.True(t, ok)
	require.NotNil(t, diag.Suggestion)
	assert.Equal(t, "binder", diag.Phase)
}

func TestCheck_UnknownField(t *testing.T) {
	_, err := check(t, domain.Items, `items.bogusField = 1`)
	sem := semantic(t, err)
	assert.Equal(t, errors.ErrUnknownField, sem.Code)
	assert.Equal(t, "items", sem.Domain)
	assert.Equal(t, "bogusField", sem.Name)
	assert.Contains(t, sem.Valid, "name")
	assert.Contains(t, sem.Valid, "size")
	assert.Contains(t, sem.Valid, "archives")
	assert.Contains(t, err.Error(), "valid: repo, path, name")
}

func TestCheck_UnknownFieldSuggestsSimilar(t *testing.T) {
	_, err := check(t, domain.Items, `archives.entries.nmae = "x"`)
	sem := semantic(t, err)
	assert.Equal(t, "entries", sem.Domain)
	assert.Contains(t, sem.Message, "did you mean 'name'?")

	_, err = check(t, domain.Items, `archivez.sha1 = "x"`)
	sem = semantic(t, err)
	assert.Equal(t, "archivez", sem.Name)
	assert.Contains(t, sem.Message, "did you mean 'archives'?")
}

func TestCheck_ComparatorNotAllowed(t *testing.T) {
	_, err := check(t, domain.Items, `name > "a"`)
	sem := semantic(t, err)
	assert.Equal(t, errors.ErrComparatorNotAllowed, sem.Code)
	assert.Equal(t, ">", sem.Name)
	assert.Equal(t, []string{"=", "!=", "like", "contains", "in", "is null", "is not null"}, sem.Valid)

	_, err = check(t, domain.Items, `type like "file"`)
	assert.Equal(t, errors.ErrComparatorNotAllowed, semantic(t, err).Code)

	_, err = check(t, domain.Items, `size contains "1"`)
	assert.Equal(t, errors.ErrComparatorNotAllowed, semantic(t, err).Code)
}

func TestCheck_Coercion(t *testing.T) {
	tests := []struct {
		name string
		root domain.ID
		text string
		code string
	}{
		{"number for string", domain.Items, `name = 5`, errors.ErrTypeMismatch},
		{"date for string", domain.Items, `name = 2024-01-01`, errors.ErrTypeMismatch},
		{"number for date", domain.Items, `created > 5`, errors.ErrInvalidDate},
		{"date for long", domain.Items, `size > 2024-01-01`, errors.ErrInvalidNumber},
		{"text for long", domain.Items, `size > "big"`, errors.ErrInvalidNumber},
		{"long overflow", domain.Items, `size > 9223372036854775808`, errors.ErrNumberOverflow},
		{"integer overflow", domain.Items, `depth > 2147483648`, errors.ErrNumberOverflow},
		{"bad item type", domain.Items, `type = "symlink"`, errors.ErrInvalidItemType},
		{"number item type", domain.Items, `type = 1`, errors.ErrInvalidItemType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := check(t, tt.root, tt.text)
			assert.Equal(t, tt.code, semantic(t, err).Code)
		})
	}
}

func TestCheck_ValidValues(t *testing.T) {
	b, err := check(t, domain.Items, `type in ("FILE", "folder") and depth = 2147483647 and size = "42" and name is not null`)
	require.NoError(t, err)

	var got []domain.Value
	Walk(b.Filter, func(c *Criterion) { got = append(got, c.Values...) })
	assert.Equal(t, []domain.Value{
		domain.ItemTypeValue(domain.ItemFile),
		domain.ItemTypeValue(domain.ItemFolder),
		domain.IntegerValue(2147483647),
		domain.LongValue(42),
	}, got)
}

func TestCheck_WrongValueCount(t *testing.T) {
	q := &criteria.Query{
		Root: domain.Items,
		Filter: &criteria.Criterion{
			Path:       domain.Path{domain.Items},
			Field:      "name",
			Comparator: domain.Equal,
		},
	}
	_, err := New(domain.Default()).Check(q)
	assert.Equal(t, errors.ErrWrongValueCount, semantic(t, err).Code)

	q.Filter = &criteria.Criterion{
		Path:       domain.Path{domain.Items},
		Field:      "name",
		Comparator: domain.In,
	}
	_, err = New(domain.Default()).Check(q)
	assert.Equal(t, errors.ErrWrongValueCount, semantic(t, err).Code)

	q.Filter = &criteria.Criterion{
		Path:       domain.Path{domain.Items},
		Field:      "name",
		Comparator: domain.IsNull,
		Values:     []criteria.Literal{{Kind: criteria.KindString, Text: "x"}},
	}
	_, err = New(domain.Default()).Check(q)
	assert.Equal(t, errors.ErrWrongValueCount, semantic(t, err).Code)
}

func TestCheck_Paths(t *testing.T) {
	c := New(domain.Default())
	name := func(path ...domain.ID) *criteria.Query {
		return &criteria.Query{
			Root: domain.Items,
			Filter: &criteria.Criterion{
				Path:       path,
				Field:      "name",
				Comparator: domain.Equal,
				Values:     []criteria.Literal{{Kind: criteria.KindString, Text: "x"}},
			},
		}
	}

	_, err := c.Check(name(domain.Archives, domain.Entries))
	assert.Equal(t, errors.ErrRootMismatch, semantic(t, err).Code)

	_, err = c.Check(name(domain.Items, domain.Entries))
	sem := semantic(t, err)
	assert.Equal(t, errors.ErrIllegalPath, sem.Code)
	assert.Equal(t, "items", sem.Domain)

	// cycles are legal paths
	_, err = c.Check(name(domain.Items, domain.Archives, domain.Items, domain.Archives, domain.Entries))
	assert.NoError(t, err)
}

func TestCheck_UnknownRoot(t *testing.T) {
	_, err := New(domain.Default()).Check(&criteria.Query{Root: "nodes"})
	sem := semantic(t, err)
	assert.Equal(t, errors.ErrUnknownDomain, sem.Code)
	assert.Contains(t, sem.Valid, "items")
}

func TestCheck_Bounds(t *testing.T) {
	c := New(domain.Default())
	_, err := c.Check(&criteria.Query{Root: domain.Items, Limit: -1})
	assert.Equal(t, errors.ErrNegativeBound, semantic(t, err).Code)

	_, err = c.Check(&criteria.Query{Root: domain.Items, Offset: -5})
	assert.Equal(t, errors.ErrNegativeBound, semantic(t, err).Code)

	b, err := c.Check(&criteria.Query{Root: domain.Items, Limit: 10, Offset: 5})
	require.NoError(t, err)
	assert.Nil(t, b.Filter)
	assert.EqualValues(t, 10, b.Limit)
	assert.EqualValues(t, 5, b.Offset)
}

func TestCheck_IncludeAndSort(t *testing.T) {
	b, err := check(t, domain.Items, `include items, archives.entries, properties.key sort name desc, size`)
	require.NoError(t, err)

	require.Len(t, b.Include, 3)
	assert.Nil(t, b.Include[0].Field)
	assert.Equal(t, domain.Items, b.Include[0].Domain.ID)
	assert.Nil(t, b.Include[1].Field)
	assert.Equal(t, domain.Entries, b.Include[1].Domain.ID)
	assert.Len(t, b.Include[1].Edges, 2)
	assert.Equal(t, "properties.key", b.Include[2].Field.Qualified())

	require.Len(t, b.Sort, 2)
	assert.True(t, b.Sort[0].Descending)
	assert.Equal(t, "items.name", b.Sort[0].Field.Qualified())
	assert.False(t, b.Sort[1].Descending)

	_, err = check(t, domain.Items, `sort archives`)
	assert.Equal(t, errors.ErrInvalidSortKey, semantic(t, err).Code)

	_, err = check(t, domain.Items, `include archives.bogus`)
	assert.Equal(t, errors.ErrUnknownField, semantic(t, err).Code)
}

func TestCheck_SubDomainUsedAsField(t *testing.T) {
	q := &criteria.Query{
		Root: domain.Items,
		Filter: &criteria.Criterion{
			Path:       domain.Path{domain.Items},
			Field:      "archives",
			Comparator: domain.Equal,
			Values:     []criteria.Literal{{Kind: criteria.KindString, Text: "x"}},
		},
	}
	_, err := New(domain.Default()).Check(q)
	sem := semantic(t, err)
	assert.Equal(t, errors.ErrUnknownField, sem.Code)
	assert.Contains(t, sem.Message, "is a sub-domain")
}

func TestParseDate(t *testing.T) {
	_, err := ParseDate("2024-13-01")
	assert.Error(t, err)

	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, d.Location())
}
