package vocab

import "github.com/subvocab/subvocab/pkg/textparse"

// ClassificationStore is the vocabulary store collaborator: a key-value
// lookup/write over an account's word classifications.
type ClassificationStore interface {
	// GetClassifications returns the stored types for the given words, keyed by
	// word. Unclassified words are simply absent from the result.
	GetClassifications(accountID int64, words []string) (map[string]WordType, error)
	// SetClassifications persists one type for all given words atomically.
	// Setting WordNew removes the records, returning the words to unclassified.
	SetClassifications(accountID int64, words []string, t WordType) error
}

// Merge joins a material's counted words against the account's existing
// classifications.
//
// Existing classifications are carried forward unchanged; a word without a
// record comes back as WordNew. Merge is read-only with respect to vocabulary
// state: viewing a material never creates or updates classification records.
func Merge(counts []textparse.WordCount, existing map[string]WordType) []VocabWord {
	out := make([]VocabWord, 0, len(counts))
	for _, wc := range counts {
		t, ok := existing[wc.Text]
		if !ok {
			t = WordNew
		}
		out = append(out, VocabWord{Word: wc.Text, Type: t})
	}
	return out
}

// Service bundles merge and classification updates over a ClassificationStore.
type Service struct {
	Store ClassificationStore
}

// MergeMaterial classifies a material's counted words for one account using a
// single batched store read.
func (s *Service) MergeMaterial(accountID int64, counts []textparse.WordCount) ([]VocabWord, error) {
	words := make([]string, len(counts))
	for i, wc := range counts {
		words[i] = wc.Text
	}
	existing, err := s.Store.GetClassifications(accountID, words)
	if err != nil {
		return nil, err
	}
	return Merge(counts, existing), nil
}

// Classify sets one explicit classification for a batch of words, e.g. the
// "mark selected as known" action. The store applies the batch in one
// transaction.
func (s *Service) Classify(accountID int64, words []string, t WordType) error {
	if len(words) == 0 {
		return nil
	}
	return s.Store.SetClassifications(accountID, words, t)
}
