package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// Key builds a deterministic cache key from an operation name and its
// inputs. The query part is normalized (trimmed, lowercased) so equivalent
// lookups share an entry; everything else is hashed verbatim.
func Key(op string, parts ...string) string {
	var b strings.Builder
	b.WriteString(op)
	for _, p := range parts {
		b.WriteByte('|')
		b.WriteString(p)
	}
	sum := sha1.Sum([]byte(b.String()))
	return op + ":" + hex.EncodeToString(sum[:])
}

// NormalizeQuery canonicalizes a query for cache keying.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}
