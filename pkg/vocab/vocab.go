package vocab

import "fmt"

// WordType is an account's learning-state classification of a word.
// The classification is shared across every material containing the word.
type WordType int

const (
	// WordNew marks a word the account has not classified yet. It is the
	// display default for "no record" and is never persisted; storing New for
	// every viewed word would grow classification rows without bound.
	WordNew WordType = iota
	WordLearning
	WordKnown
)

// String returns the lowercase name used by the CLI and display layer.
func (t WordType) String() string {
	switch t {
	case WordNew:
		return "new"
	case WordLearning:
		return "learning"
	case WordKnown:
		return "known"
	}
	return fmt.Sprintf("wordtype(%d)", int(t))
}

// ParseWordType converts a user-supplied name to a WordType.
func ParseWordType(s string) (WordType, error) {
	switch s {
	case "new":
		return WordNew, nil
	case "learning":
		return WordLearning, nil
	case "known":
		return WordKnown, nil
	}
	return WordNew, fmt.Errorf("unknown word type %q (want new, learning or known)", s)
}

// VocabWord is one word of a material together with the viewing account's
// classification of it.
type VocabWord struct {
	Word string
	Type WordType
}
