package vocab

import "github.com/subvocab/subvocab/pkg/textparse"

// MaterialStats are the summary counters shown next to a material.
type MaterialStats struct {
	TotalOccurrences int
	UniqueWords      int

	// Per-classification counters, present only when a viewing account exists.
	HasAccount    bool
	LearnCount    int
	KnownCount    int
	UnsignedCount int
}

// ComputeStats derives the display counters from a material's counted words
// and, when an account context is present, its classified word list.
// Pass vocabWords == nil for anonymous viewers.
//
// When HasAccount is set, UnsignedCount+LearnCount+KnownCount == UniqueWords.
func ComputeStats(counts []textparse.WordCount, vocabWords []VocabWord) MaterialStats {
	stats := MaterialStats{UniqueWords: len(counts)}
	for _, wc := range counts {
		stats.TotalOccurrences += wc.Count
	}

	if vocabWords == nil {
		return stats
	}

	stats.HasAccount = true
	for _, vw := range vocabWords {
		switch vw.Type {
		case WordLearning:
			stats.LearnCount++
		case WordKnown:
			stats.KnownCount++
		}
	}
	stats.UnsignedCount = stats.UniqueWords - (stats.LearnCount + stats.KnownCount)
	return stats
}
