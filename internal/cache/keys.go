package cache

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/artifactql/aql/compiler/criteria"
)

// Key derives the cache key of a query. Queries that render to the same canonical text
// share a key, so spacing and optional root prefixes in the source text do not matter.
// Salt carries whatever else changes the compiled plan, such as compiler options.
func Key(q *criteria.Query, salt string) string {
	var b strings.Builder
	b.WriteString(string(q.Root))
	b.WriteByte(0)
	b.WriteString(q.String())
	b.WriteByte(0)
	b.WriteString(salt)

	sum := blake2b.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:16])
}
