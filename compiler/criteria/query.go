package criteria

import (
	"strconv"
	"strings"

	"github.com/artifactql/aql/pkg/domain"
)

// Selection names a field, or a whole domain when Field is empty, reached through Path
type Selection struct {
	Path  domain.Path
	Field string
}

// IsDomain reports whether the selection is a whole domain
func (s Selection) IsDomain() bool {
	return s.Field == ""
}

func (s Selection) String() string {
	if s.IsDomain() {
		return s.Path.String()
	}
	return s.Path.String() + "." + s.Field
}

// Equal reports whether both selections name the same target
func (s Selection) Equal(other Selection) bool {
	return s.Field == other.Field && s.Path.Equal(other.Path)
}

// SortKey orders results by a field selection
type SortKey struct {
	Selection
	Descending bool
}

func (k SortKey) String() string {
	if k.Descending {
		return k.Selection.String() + " desc"
	}
	return k.Selection.String() + " asc"
}

// Query is a search rooted at one domain. A nil Filter selects everything, a zero Limit
// means no limit.
type Query struct {
	Root    domain.ID
	Filter  Node
	Include []Selection
	Sort    []SortKey
	Limit   int64
	Offset  int64
}

// String renders the query in canonical query syntax. Parsing the text against the same
// root yields an equal query.
func (q *Query) String() string {
	var parts []string
	if q.Filter != nil {
		parts = append(parts, q.Filter.String())
	}
	if len(q.Include) > 0 {
		sels := make([]string, len(q.Include))
		for i, s := range q.Include {
			sels[i] = s.String()
		}
		parts = append(parts, "include "+strings.Join(sels, ", "))
	}
	if len(q.Sort) > 0 {
		keys := make([]string, len(q.Sort))
		for i, k := range q.Sort {
			keys[i] = k.String()
		}
		parts = append(parts, "sort "+strings.Join(keys, ", "))
	}
	if q.Limit != 0 {
		parts = append(parts, "limit "+strconv.FormatInt(q.Limit, 10))
	}
	if q.Offset != 0 {
		parts = append(parts, "offset "+strconv.FormatInt(q.Offset, 10))
	}
	return strings.Join(parts, " ")
}

// Equal reports whether two queries are structurally identical
func (q *Query) Equal(other *Query) bool {
	if q == nil || other == nil {
		return q == other
	}
	if q.Root != other.Root || q.Limit != other.Limit || q.Offset != other.Offset {
		return false
	}
	if !Equal(q.Filter, other.Filter) {
		return false
	}
	if len(q.Include) != len(other.Include) || len(q.Sort) != len(other.Sort) {
		return false
	}
	for i := range q.Include {
		if !q.Include[i].Equal(other.Include[i]) {
			return false
		}
	}
	for i := range q.Sort {
		if q.Sort[i].Descending != other.Sort[i].Descending || !q.Sort[i].Selection.Equal(other.Sort[i].Selection) {
			return false
		}
	}
	return true
}
