package textparse

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldChain decomposes with NFKD, drops combining marks (category Mn) and
// recomposes, so "café" and "café" end up as the same key.
var foldChain = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize maps a raw token to its canonical word key: Unicode fold,
// lowercase, then strip leading/trailing non-letter characters.
//
// Normalize is pure and never fails; two tokens differing only in case or
// surrounding punctuation produce the same key.
func Normalize(token string) string {
	folded, _, err := transform.String(foldChain, token)
	if err != nil {
		// transform.String only fails on malformed input; fall back to the raw token.
		folded = token
	}
	lower := strings.ToLower(folded)
	// Typographic and ASCII apostrophes must yield one key ("it’s" == "it's").
	lower = strings.ReplaceAll(lower, "’", "'")
	return strings.TrimFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
