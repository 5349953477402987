package textparse

import (
	"reflect"
	"testing"
)

const sampleText = "The cat sat on the Mat. The CAT ran."

func TestCountWordsSample(t *testing.T) {
	got, err := CountWords(sampleText)
	if err != nil {
		t.Fatalf("CountWords failed: %v", err)
	}
	want := []WordCount{
		{"the", 3}, {"cat", 2}, {"sat", 1}, {"on", 1}, {"mat", 1}, {"ran", 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestCountWordsEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "123 456", "?!. --"} {
		if _, err := CountWords(in); err != ErrEmptyInput {
			t.Errorf("CountWords(%q): expected ErrEmptyInput, got %v", in, err)
		}
	}
}

func TestCountWordsIdempotent(t *testing.T) {
	first, err := CountWords(sampleText)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := CountWords(sampleText)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical sequences, got %v then %v", first, second)
	}
}

func TestCountWordsConservesTokens(t *testing.T) {
	texts := []string{
		sampleText,
		"don't stop, don't STOP",
		"naïve café café",
		"a b c a b a",
	}
	for _, text := range texts {
		counts, err := CountWords(text)
		if err != nil {
			t.Fatalf("CountWords(%q) failed: %v", text, err)
		}
		sum := 0
		for _, wc := range counts {
			if wc.Count < 1 {
				t.Fatalf("word %q has count %d, expected >= 1", wc.Text, wc.Count)
			}
			sum += wc.Count
		}
		if total := TotalTokens(text); sum != total {
			t.Errorf("text %q: counts sum to %d but %d tokens survived", text, sum, total)
		}
	}
}

func TestCountWordsMergesCaseVariants(t *testing.T) {
	counts, err := CountWords("Word word WORD 'word'")
	if err != nil {
		t.Fatalf("CountWords failed: %v", err)
	}
	if len(counts) != 1 {
		t.Fatalf("expected 1 distinct word, got %d: %v", len(counts), counts)
	}
	if counts[0].Text != "word" || counts[0].Count != 4 {
		t.Fatalf("expected (word,4), got (%s,%d)", counts[0].Text, counts[0].Count)
	}
}
