package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/artifactql/aql/pkg/domain"
)

// BenchmarkParse_Simple benchmarks parsing a single chained criterion
func BenchmarkParse_Simple(b *testing.B) {
	p := Default()
	text := `items.archives.entries.name = "commons-io.jar"`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Parse(domain.Items, text); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkParse_Wide benchmarks parsing many criteria joined by or
func BenchmarkParse_Wide(b *testing.B) {
	parts := make([]string, 50)
	for i := range parts {
		parts[i] = fmt.Sprintf(`archives.entries.name = "lib-%d.jar" and size > %d`, i, i)
	}
	text := strings.Join(parts, " or ")
	p := Default()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := p.Parse(domain.Items, text); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkGrammarBuild benchmarks building the grammar of the built-in catalog
func BenchmarkGrammarBuild(b *testing.B) {
	for i := 0; i < b.N; i++ {
		p := New(domain.Default())
		p.build()
	}
}
