package textparse

import (
	"unicode/utf8"

	"github.com/kljensen/snowball"
	"github.com/kljensen/snowball/english"
)

// KeywordOptions configures the keyword view derived from a counted word list.
type KeywordOptions struct {
	RemoveStopwords bool // drop common function words ("the", "a", ...)
	Stem            bool // group inflected forms under their Snowball stem
	MinLength       int  // drop keys shorter than this many runes
}

// DefaultKeywordOptions returns the standard keyword configuration.
func DefaultKeywordOptions() KeywordOptions {
	return KeywordOptions{
		RemoveStopwords: true,
		Stem:            true,
		MinLength:       2,
	}
}

// Keywords collapses a counted word list into content keywords for display:
// stopwords removed, inflected forms grouped by stem, counts summed.
//
// This is a presentation helper only. The canonical word keys stored with a
// material stay unstemmed; Keywords never feeds back into classification.
func Keywords(counts []WordCount, opts KeywordOptions) []WordCount {
	grouped := make(map[string]int)
	var order []string

	for _, wc := range counts {
		if opts.RemoveStopwords && english.IsStopWord(wc.Text) {
			continue
		}
		if utf8.RuneCountInString(wc.Text) < opts.MinLength {
			continue
		}
		key := wc.Text
		if opts.Stem {
			if stem, err := snowball.Stem(wc.Text, "english", false); err == nil && stem != "" {
				key = stem
			}
		}
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] += wc.Count
	}

	out := make([]WordCount, 0, len(order))
	for _, k := range order {
		out = append(out, WordCount{Text: k, Count: grouped[k]})
	}
	return out
}
