package utils

import (
	"math/rand"
	"strings"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// RandomAlphabetString returns a random lower case string of length n.
func RandomAlphabetString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

// EscapeLike escapes LIKE wildcards so that s is matched literally, to be
// used together with `ESCAPE '\'`.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ContainsPattern builds a case insensitive substring LIKE pattern for s. The
// column side must be wrapped with LOWER().
func ContainsPattern(s string) string {
	return "%" + EscapeLike(strings.ToLower(s)) + "%"
}
