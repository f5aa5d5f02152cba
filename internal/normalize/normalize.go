package normalize

import (
	"strings"
	"unicode"
)

// Fold turns a raw string into the canonical comparison form: every
// unicode whitespace rune removed, letters casefolded. Safe for
// multi-byte scripts, idempotent.
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Tokens splits a string on non-word boundaries for unordered
// multi-word matching. Word runes are unicode letters, digits and
// underscore, so Korean syllable runs stay intact.
func Tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

// Prefix returns the first n runes of the folded form of s, used for
// region matching against normalized addresses.
func Prefix(s string, n int) string {
	folded := []rune(Fold(s))
	if len(folded) > n {
		folded = folded[:n]
	}
	return string(folded)
}
