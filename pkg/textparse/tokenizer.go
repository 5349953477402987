package textparse

import "unicode"

// Tokenize splits raw text into candidate word tokens.
//
// A token is a maximal run of letters; apostrophes are kept when they sit
// between two letters (e.g. "don't"), so contractions survive as one token.
// Digits, punctuation and whitespace are separators and never emitted.
// Emission order is the order of first appearance in the text.
func Tokenize(text string) []string {
	var tokens []string
	runes := []rune(text)

	i := 0
	for i < len(runes) {
		if !unicode.IsLetter(runes[i]) {
			i++
			continue
		}
		start := i
		for i < len(runes) {
			r := runes[i]
			if unicode.IsLetter(r) {
				i++
				continue
			}
			// Intra-word apostrophe: only part of the token when letter-bounded,
			// so a trailing quote is never swallowed.
			if isApostrophe(r) && i+1 < len(runes) && unicode.IsLetter(runes[i+1]) {
				i += 2
				continue
			}
			break
		}
		tokens = append(tokens, string(runes[start:i]))
	}
	return tokens
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’' // ASCII apostrophe and right single quote
}
