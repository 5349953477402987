package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// isUniqueConstraintErr returns true when the error indicates a unique/constraint violation
func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique") || strings.Contains(s, "constraint failed")
}

// nullableInt64 returns nil for 0 (meaning no owner) else the value.
func nullableInt64(v int64) interface{} {
	if v == 0 {
		return nil
	}
	return v
}

// CreateOrGetAccount returns the id for an account name, creating the row on
// first use. Concurrent callers racing on the unique name retry the lookup.
func CreateOrGetAccount(db DBExecutor, name string) (int64, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return 0, fmt.Errorf("account name must be non-empty")
	}

	const maxRetries = 3

	var id int64
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := db.QueryRow(`SELECT id FROM accounts WHERE name = ?`, trimmed).Scan(&id)
		if err == nil {
			return id, nil
		}
		if err != sql.ErrNoRows {
			return 0, err
		}

		res, err := db.Exec(`INSERT INTO accounts (name) VALUES (?)`, trimmed)
		if err != nil {
			// Another connection inserted the same name; retry the SELECT.
			if isUniqueConstraintErr(err) {
				continue
			}
			return 0, err
		}
		return res.LastInsertId()
	}

	return 0, fmt.Errorf("could not create or get account after %d retries", maxRetries)
}

// CreateMaterial inserts a material and returns its assigned id.
// ownerID 0 stores NULL, marking the material as public/unowned.
func CreateMaterial(db DBExecutor, ownerID int64, title, sourceURL string) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO materials (owner_id, title, source_url) VALUES (?, ?, ?)`,
		nullableInt64(ownerID), title, sourceURL,
	)
	if err != nil {
		return 0, fmt.Errorf("insert material: %w", err)
	}
	return res.LastInsertId()
}

// GetMaterial loads one material by id.
func GetMaterial(db DBExecutor, id int64) (Material, error) {
	var m Material
	var owner sql.NullInt64
	err := db.QueryRow(
		`SELECT id, owner_id, title, source_url, last_processed_line, created_at FROM materials WHERE id = ?`,
		id,
	).Scan(&m.ID, &owner, &m.Title, &m.SourceURL, &m.LastProcessedLine, &m.CreatedAt)
	if err != nil {
		return Material{}, err
	}
	if owner.Valid {
		m.OwnerID = owner.Int64
	}
	return m, nil
}

// UpsertMaterialWord records count occurrences of word in a material,
// accumulating on re-ingestion of later lines. The first insert fixes the
// word's position in first-seen order (rows are returned in insertion order).
func UpsertMaterialWord(db DBExecutor, materialID int64, word string, count int) error {
	if word == "" {
		return fmt.Errorf("word must be non-empty")
	}
	if count < 1 {
		return fmt.Errorf("count must be positive, got %d", count)
	}
	_, err := db.Exec(`INSERT INTO material_words (material_id, word, count)
		VALUES (?, ?, ?)
		ON CONFLICT(material_id, word) DO UPDATE SET
		  count = material_words.count + excluded.count`,
		materialID, word, count)
	if err != nil {
		return fmt.Errorf("upsert material word %q: %w", word, err)
	}
	return nil
}

// GetMaterialWords returns a material's word set in first-seen order.
func GetMaterialWords(db DBExecutor, materialID int64) ([]MaterialWord, error) {
	rows, err := db.Query(
		`SELECT id, material_id, word, count FROM material_words WHERE material_id = ? ORDER BY id`,
		materialID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MaterialWord
	for rows.Next() {
		var w MaterialWord
		if err := rows.Scan(&w.ID, &w.MaterialID, &w.Word, &w.Count); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMaterialProgress returns the last ingested line index for a material.
func GetMaterialProgress(db DBExecutor, materialID int64) (int, error) {
	var index int
	err := db.QueryRow(`SELECT last_processed_line FROM materials WHERE id = ?`, materialID).Scan(&index)
	if err != nil {
		return 0, err
	}
	return index, nil
}

// UpdateMaterialProgress updates the last ingested line index.
func UpdateMaterialProgress(db DBExecutor, materialID int64, index int) error {
	_, err := db.Exec(`UPDATE materials SET last_processed_line = ? WHERE id = ?`, index, materialID)
	return err
}
