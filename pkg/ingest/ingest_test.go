package ingest

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/subvocab/subvocab/pkg/db"
	"github.com/subvocab/subvocab/pkg/textparse"
	_ "github.com/mattn/go-sqlite3"
)

func setupDB(t *testing.T) *sql.DB {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	conn.SetMaxOpenConns(1)
	if err := db.InitDB(conn); err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	return conn
}

func TestIngestResume(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()

	materialID, err := db.CreateMaterial(conn, 0, "Test", "")
	if err != nil {
		t.Fatal(err)
	}

	// 10 identical lines of 2 tokens each.
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = "the cat"
	}

	// Lines 0..4 already ingested in a previous run.
	if err := db.UpdateMaterialProgress(conn, materialID, 4); err != nil {
		t.Fatal(err)
	}

	ingester := NewIngester(conn)
	ingester.BatchSize = 2 // verify batching doesn't interfere

	count, err := ingester.Ingest(context.Background(), materialID, lines)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	// Lines 5..9 are 5 lines * 2 occurrences.
	if count != 10 {
		t.Errorf("expected 10 recorded occurrences, got %d", count)
	}

	idx, err := db.GetMaterialProgress(conn, materialID)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 9 {
		t.Errorf("expected checkpoint at line 9, got %d", idx)
	}
}

func TestIngestContextCancel(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	materialID, _ := db.CreateMaterial(conn, 0, "Test", "")

	lines := make([]string, 100)
	for i := range lines {
		lines[i] = "word"
	}

	ingester := NewIngester(conn)
	ingester.BatchSize = 10

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count, err := ingester.Ingest(ctx, materialID, lines)
	if count != 0 {
		t.Errorf("expected 0 recorded occurrences with canceled context, got %d", count)
	}
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestIngestMatchesPipeline(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	materialID, _ := db.CreateMaterial(conn, 0, "Test", "")

	lines := []string{
		"The cat sat on the Mat.",
		"", // empty cue lines advance the checkpoint without words
		"The CAT ran.",
	}

	ingester := NewIngester(conn)
	count, err := ingester.Ingest(context.Background(), materialID, lines)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if count != 9 {
		t.Errorf("expected 9 occurrences, got %d", count)
	}

	words, err := db.GetMaterialWords(conn, materialID)
	if err != nil {
		t.Fatal(err)
	}

	// Persisted rows must match the synchronous pipeline over the whole text.
	wantCounts, err := textparse.CountWords(strings.Join(lines, "\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != len(wantCounts) {
		t.Fatalf("expected %d distinct words, got %d", len(wantCounts), len(words))
	}
	for i, want := range wantCounts {
		if words[i].Word != want.Text || words[i].Count != want.Count {
			t.Errorf("row %d: expected (%s,%d), got (%s,%d)",
				i, want.Text, want.Count, words[i].Word, words[i].Count)
		}
	}
}

func TestIngestEmptyMaterialIsNotAnError(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	materialID, _ := db.CreateMaterial(conn, 0, "Test", "")

	count, err := ingester(conn).Ingest(context.Background(), materialID, []string{"123", "?!"})
	if err != nil {
		t.Fatalf("expected no error for token-free lines, got %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 occurrences, got %d", count)
	}

	words, err := db.GetMaterialWords(conn, materialID)
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 0 {
		t.Errorf("expected no word rows, got %v", words)
	}
}

func ingester(conn *sql.DB) *Ingester {
	ig := NewIngester(conn)
	ig.BatchSize = 3
	return ig
}
