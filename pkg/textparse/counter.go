package textparse

// WordCount is one normalized word and its occurrence count within one material.
type WordCount struct {
	Text  string
	Count int
}

// ErrEmptyInput is returned when the supplied text yields no usable tokens.
// Callers should treat it as "material has no words", not as a hard failure.
var ErrEmptyInput = &ParseError{"no words found in input"}

// ParseError provides a simple typed error for parse operations.
type ParseError struct{ msg string }

func (e *ParseError) Error() string { return e.msg }

// CountWords runs the tokenize→normalize pipeline over text and aggregates
// the result into (word, count) pairs, one per distinct normalized word,
// ordered by first appearance.
//
// The pipeline is deterministic: counting the same text twice yields an
// identical sequence, which lets callers re-parse a material before saving it.
func CountWords(text string) ([]WordCount, error) {
	counts := make(map[string]int)
	var order []string

	for _, tok := range Tokenize(text) {
		key := Normalize(tok)
		if key == "" {
			continue
		}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	if len(order) == 0 {
		return nil, ErrEmptyInput
	}

	out := make([]WordCount, 0, len(order))
	for _, w := range order {
		out = append(out, WordCount{Text: w, Count: counts[w]})
	}
	return out, nil
}

// TotalTokens reports how many tokens survive the tokenizer's filter for text.
// Σ WordCount.Count over CountWords(text) always equals TotalTokens(text).
func TotalTokens(text string) int {
	n := 0
	for _, tok := range Tokenize(text) {
		if Normalize(tok) != "" {
			n++
		}
	}
	return n
}
