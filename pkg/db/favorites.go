package db

// AddFavorite transitions (account, material) to favorited. The operation is
// idempotent: a duplicate insert trips the unique constraint and is normalized
// to success, so two concurrent adds cannot produce two rows or an error.
func AddFavorite(db DBExecutor, accountID, materialID int64) error {
	_, err := db.Exec(
		`INSERT INTO favorite_materials (account_id, material_id) VALUES (?, ?)`,
		accountID, materialID,
	)
	if err != nil && isUniqueConstraintErr(err) {
		return nil
	}
	return err
}

// RemoveFavorite transitions (account, material) to not-favorited.
// Removing a never-favorited pair is a no-op.
func RemoveFavorite(db DBExecutor, accountID, materialID int64) error {
	_, err := db.Exec(
		`DELETE FROM favorite_materials WHERE account_id = ? AND material_id = ?`,
		accountID, materialID,
	)
	return err
}

// IsFavorited reports whether the pair is favorited. Pure query, no side effect.
func IsFavorited(db DBExecutor, accountID, materialID int64) (bool, error) {
	var exists bool
	err := db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM favorite_materials WHERE account_id = ? AND material_id = ?)`,
		accountID, materialID,
	).Scan(&exists)
	return exists, err
}
