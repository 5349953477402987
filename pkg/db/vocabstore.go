package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/subvocab/subvocab/pkg/vocab"
)

// VocabStore implements vocab.ClassificationStore over SQLite.
type VocabStore struct {
	DB *sql.DB
}

// GetClassifications returns the stored types for the given words in one
// batched query. Unclassified words are absent from the result.
func (s *VocabStore) GetClassifications(accountID int64, words []string) (map[string]vocab.WordType, error) {
	out := make(map[string]vocab.WordType, len(words))
	if len(words) == 0 {
		return out, nil
	}

	placeholders := strings.Repeat("?,", len(words)-1) + "?"
	args := make([]interface{}, 0, len(words)+1)
	args = append(args, accountID)
	for _, w := range words {
		args = append(args, w)
	}

	rows, err := s.DB.Query(
		`SELECT word, type FROM vocab_words WHERE account_id = ? AND word IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query classifications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var word string
		var t int
		if err := rows.Scan(&word, &t); err != nil {
			return nil, err
		}
		out[word] = vocab.WordType(t)
	}
	return out, rows.Err()
}

// SetClassifications persists one explicit classification for a batch of words
// inside a single transaction. WordNew removes the rows: "new" is the display
// default for the absence of a record, never stored.
func (s *VocabStore) SetClassifications(accountID int64, words []string, t vocab.WordType) error {
	if len(words) == 0 {
		return nil
	}
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("begin classification tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	for _, w := range words {
		if t == vocab.WordNew {
			if _, err := tx.Exec(
				`DELETE FROM vocab_words WHERE account_id = ? AND word = ?`, accountID, w,
			); err != nil {
				return fmt.Errorf("unclassify word %q: %w", w, err)
			}
			continue
		}
		if _, err := tx.Exec(`INSERT INTO vocab_words (account_id, word, type)
			VALUES (?, ?, ?)
			ON CONFLICT(account_id, word) DO UPDATE SET
			  type = excluded.type,
			  updated_at = CURRENT_TIMESTAMP`,
			accountID, w, int(t)); err != nil {
			return fmt.Errorf("classify word %q: %w", w, err)
		}
	}

	return tx.Commit()
}
