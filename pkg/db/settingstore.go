package db

import (
	"database/sql"
	"fmt"
)

// SiteOwnerID marks site-wide settings rows (no owning account).
const SiteOwnerID int64 = 0

// GetSetting loads one setting row by key and owner. sql.ErrNoRows passes
// through when the setting has never been filled.
func GetSetting(db DBExecutor, key string, ownerID int64) (SettingRow, error) {
	var row SettingRow
	var str sql.NullString
	var i sql.NullInt64
	var b sql.NullBool
	err := db.QueryRow(
		`SELECT id, key, owner_id, type, string_value, int_value, bool_value
		 FROM settings WHERE key = ? AND owner_id = ?`,
		key, ownerID,
	).Scan(&row.ID, &row.Key, &row.OwnerID, &row.Type, &str, &i, &b)
	if err != nil {
		return SettingRow{}, err
	}
	if str.Valid {
		row.StringValue = str.String
	}
	if i.Valid {
		row.IntValue = i.Int64
	}
	if b.Valid {
		row.BoolValue = b.Bool
	}
	return row, nil
}

// GetSettings returns all setting rows for an owner, keyed by setting key.
func GetSettings(db DBExecutor, ownerID int64) (map[string]SettingRow, error) {
	rows, err := db.Query(
		`SELECT id, key, owner_id, type, string_value, int_value, bool_value
		 FROM settings WHERE owner_id = ?`, ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]SettingRow)
	for rows.Next() {
		var row SettingRow
		var str sql.NullString
		var i sql.NullInt64
		var b sql.NullBool
		if err := rows.Scan(&row.ID, &row.Key, &row.OwnerID, &row.Type, &str, &i, &b); err != nil {
			return nil, err
		}
		if str.Valid {
			row.StringValue = str.String
		}
		if i.Valid {
			row.IntValue = i.Int64
		}
		if b.Valid {
			row.BoolValue = b.Bool
		}
		out[row.Key] = row
	}
	return out, rows.Err()
}

// UpsertSetting inserts or replaces a setting row for its (key, owner) pair.
func UpsertSetting(db DBExecutor, row SettingRow) error {
	if row.Key == "" {
		return fmt.Errorf("setting key must be non-empty")
	}
	_, err := db.Exec(`INSERT INTO settings (key, owner_id, type, string_value, int_value, bool_value)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key, owner_id) DO UPDATE SET
		  type = excluded.type,
		  string_value = excluded.string_value,
		  int_value = excluded.int_value,
		  bool_value = excluded.bool_value`,
		row.Key, row.OwnerID, row.Type, row.StringValue, row.IntValue, row.BoolValue)
	if err != nil {
		return fmt.Errorf("upsert setting %q: %w", row.Key, err)
	}
	return nil
}
