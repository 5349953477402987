package db

import (
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestFavoriteLifecycle(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	accountID, err := CreateOrGetAccount(db, "alice")
	if err != nil {
		t.Fatal(err)
	}
	materialID, err := CreateMaterial(db, accountID, "Episode 1", "")
	if err != nil {
		t.Fatal(err)
	}

	fav, err := IsFavorited(db, accountID, materialID)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if fav {
		t.Fatalf("expected initial state not-favorited")
	}

	if err := AddFavorite(db, accountID, materialID); err != nil {
		t.Fatalf("add: %v", err)
	}
	fav, err = IsFavorited(db, accountID, materialID)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !fav {
		t.Fatalf("expected favorited after add")
	}

	if err := RemoveFavorite(db, accountID, materialID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	fav, err = IsFavorited(db, accountID, materialID)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if fav {
		t.Fatalf("expected not-favorited after remove")
	}
}

func TestAddFavoriteIdempotent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	accountID, _ := CreateOrGetAccount(db, "alice")
	materialID, _ := CreateMaterial(db, accountID, "Episode 1", "")

	if err := AddFavorite(db, accountID, materialID); err != nil {
		t.Fatalf("first add: %v", err)
	}
	// Second add hits the unique constraint and must still succeed.
	if err := AddFavorite(db, accountID, materialID); err != nil {
		t.Fatalf("second add: %v", err)
	}

	var cnt int
	if err := db.QueryRow(
		`SELECT COUNT(*) FROM favorite_materials WHERE account_id = ? AND material_id = ?`,
		accountID, materialID,
	).Scan(&cnt); err != nil {
		t.Fatalf("count: %v", err)
	}
	if cnt != 1 {
		t.Fatalf("expected exactly 1 favorite row, got %d", cnt)
	}
}

func TestRemoveFavoriteNeverFavorited(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	accountID, _ := CreateOrGetAccount(db, "alice")
	materialID, _ := CreateMaterial(db, accountID, "Episode 1", "")

	if err := RemoveFavorite(db, accountID, materialID); err != nil {
		t.Fatalf("remove of never-favorited pair should be a no-op, got %v", err)
	}
	fav, err := IsFavorited(db, accountID, materialID)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if fav {
		t.Fatalf("expected not-favorited")
	}
}

func TestAddFavoriteConcurrent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	accountID, _ := CreateOrGetAccount(db, "alice")
	materialID, _ := CreateMaterial(db, accountID, "Episode 1", "")

	const n = 8
	done := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			done <- AddFavorite(db, accountID, materialID)
		}()
	}
	for i := 0; i < n; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent add: %v", err)
		}
	}

	var cnt int
	if err := db.QueryRow(`SELECT COUNT(*) FROM favorite_materials`).Scan(&cnt); err != nil {
		t.Fatalf("count: %v", err)
	}
	if cnt != 1 {
		t.Fatalf("expected 1 favorite row after concurrent adds, got %d", cnt)
	}
}
