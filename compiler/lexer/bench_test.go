package lexer

import (
	"fmt"
	"strings"
	"testing"
)

// BenchmarkTokenize benchmarks tokenizing a query with many criteria
func BenchmarkTokenize(b *testing.B) {
	source := generateQuery(200)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = Tokenize(source)
	}
}

// BenchmarkKeywordLookup benchmarks keyword lookup performance
func BenchmarkKeywordLookup(b *testing.B) {
	words := []string{"and", "or", "not", "in", "like", "name", "archives", "LIMIT"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, w := range words {
			_, _ = lookupKeyword(w)
		}
	}
}

func generateQuery(criteria int) string {
	parts := make([]string, criteria)
	for i := range parts {
		parts[i] = fmt.Sprintf(`items.archives.entries.name = "lib-%d.jar"`, i)
	}
	return strings.Join(parts, " or ")
}
