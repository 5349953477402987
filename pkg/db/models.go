package db

import "time"

// Account is an opaque identity row. The engine never authenticates; it only
// resolves a name to an id.
type Account struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Material is one unit of ingested text (a subtitle file or article) together
// with its extracted word set. OwnerID 0 means unowned/public content.
type Material struct {
	ID                int64
	OwnerID           int64
	Title             string
	SourceURL         string
	LastProcessedLine int
	CreatedAt         time.Time
}

// MaterialWord is one normalized word of a material and its occurrence count.
// Rows are unique per (material, word); insertion order is first-seen order.
type MaterialWord struct {
	ID         int64
	MaterialID int64
	Word       string
	Count      int
}

// FavoriteMaterial is a membership row: its existence means "favorited".
type FavoriteMaterial struct {
	ID         int64
	AccountID  int64
	MaterialID int64
	CreatedAt  time.Time
}

// SettingRow is the persisted form of a typed setting. OwnerID 0 marks a
// site-wide setting. Exactly one value column is meaningful, selected by Type.
type SettingRow struct {
	ID          int64
	Key         string
	OwnerID     int64
	Type        int
	StringValue string
	IntValue    int64
	BoolValue   bool
}
