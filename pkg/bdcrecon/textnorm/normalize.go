// Package textnorm folds accents, case, punctuation and whitespace so that
// identifiers coming from different tools compare equal.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize strips accents (NFD decomposition, combining marks removed),
// lower-cases, replaces every non-alphanumeric rune with a space, collapses
// whitespace and trims. Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, text)
	if err != nil {
		stripped = text
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range strings.ToLower(stripped) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Equal reports whether a and b are identical once normalized.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Contains reports whether the normalized form of s contains the normalized
// form of substr.
func Contains(s, substr string) bool {
	return strings.Contains(Normalize(s), Normalize(substr))
}

// Prefix returns the first n characters (runes) of s.
func Prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
