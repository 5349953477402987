package vocab

import (
	"errors"
	"reflect"
	"testing"

	"github.com/subvocab/subvocab/pkg/textparse"
)

var sampleCounts = []textparse.WordCount{
	{Text: "the", Count: 3}, {Text: "cat", Count: 2}, {Text: "sat", Count: 1},
	{Text: "on", Count: 1}, {Text: "mat", Count: 1}, {Text: "ran", Count: 1},
}

func TestMergeCarriesExistingClassification(t *testing.T) {
	existing := map[string]WordType{"cat": WordKnown}
	got := Merge(sampleCounts, existing)

	if len(got) != len(sampleCounts) {
		t.Fatalf("expected %d vocab words, got %d", len(sampleCounts), len(got))
	}
	for _, vw := range got {
		switch vw.Word {
		case "cat":
			if vw.Type != WordKnown {
				t.Errorf("expected cat to stay known, got %v", vw.Type)
			}
		default:
			if vw.Type != WordNew {
				t.Errorf("expected %q to be unclassified, got %v", vw.Word, vw.Type)
			}
		}
	}
}

func TestMergeNeverReclassifies(t *testing.T) {
	existing := map[string]WordType{"the": WordLearning, "cat": WordKnown}
	got := Merge(sampleCounts, existing)
	for _, vw := range got {
		if want, ok := existing[vw.Word]; ok && vw.Type != want {
			t.Fatalf("word %q reclassified from %v to %v", vw.Word, want, vw.Type)
		}
	}
	// The merge must not mutate the account's classification map either.
	if len(existing) != 2 || existing["the"] != WordLearning || existing["cat"] != WordKnown {
		t.Fatalf("existing classifications mutated: %v", existing)
	}
}

func TestMergePreservesOrder(t *testing.T) {
	got := Merge(sampleCounts, nil)
	for i, vw := range got {
		if vw.Word != sampleCounts[i].Text {
			t.Fatalf("order broken at %d: expected %q, got %q", i, sampleCounts[i].Text, vw.Word)
		}
	}
}

// fakeStore records calls so tests can assert on read batching.
type fakeStore struct {
	classifications map[string]WordType
	getCalls        int
	setCalls        int
	err             error
}

func (f *fakeStore) GetClassifications(accountID int64, words []string) (map[string]WordType, error) {
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]WordType)
	for _, w := range words {
		if t, ok := f.classifications[w]; ok {
			out[w] = t
		}
	}
	return out, nil
}

func (f *fakeStore) SetClassifications(accountID int64, words []string, t WordType) error {
	f.setCalls++
	return f.err
}

func TestServiceMergeMaterialSingleRead(t *testing.T) {
	store := &fakeStore{classifications: map[string]WordType{"cat": WordKnown}}
	svc := &Service{Store: store}

	got, err := svc.MergeMaterial(1, sampleCounts)
	if err != nil {
		t.Fatalf("MergeMaterial failed: %v", err)
	}
	if store.getCalls != 1 {
		t.Fatalf("expected 1 batched store read, got %d", store.getCalls)
	}
	if store.setCalls != 0 {
		t.Fatalf("merge must be read-only, saw %d writes", store.setCalls)
	}
	want := []VocabWord{
		{"the", WordNew}, {"cat", WordKnown}, {"sat", WordNew},
		{"on", WordNew}, {"mat", WordNew}, {"ran", WordNew},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestServiceMergeMaterialPropagatesStoreError(t *testing.T) {
	storeErr := errors.New("store down")
	svc := &Service{Store: &fakeStore{err: storeErr}}
	if _, err := svc.MergeMaterial(1, sampleCounts); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error propagated, got %v", err)
	}
}

func TestServiceClassifyEmptyBatchIsNoop(t *testing.T) {
	store := &fakeStore{}
	svc := &Service{Store: store}
	if err := svc.Classify(1, nil, WordKnown); err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if store.setCalls != 0 {
		t.Fatalf("expected no store write for empty batch, got %d", store.setCalls)
	}
}

func TestParseWordType(t *testing.T) {
	for _, c := range []struct {
		in   string
		want WordType
	}{{"new", WordNew}, {"learning", WordLearning}, {"known", WordKnown}} {
		got, err := ParseWordType(c.in)
		if err != nil {
			t.Fatalf("ParseWordType(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseWordType(%q): expected %v, got %v", c.in, c.want, got)
		}
	}
	if _, err := ParseWordType("mastered"); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}
