package db

// migrationsSQL is the embedded schema, executed statement by statement by
// InitDB. Uniqueness invariants live here: one word row per (material, word),
// one classification per (account, word), one favorite per (account, material).
const migrationsSQL = `
CREATE TABLE IF NOT EXISTS accounts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS materials (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id INTEGER REFERENCES accounts(id),
	title TEXT NOT NULL DEFAULT '',
	source_url TEXT NOT NULL DEFAULT '',
	last_processed_line INTEGER NOT NULL DEFAULT -1,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS material_words (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	material_id INTEGER NOT NULL REFERENCES materials(id) ON DELETE CASCADE,
	word TEXT NOT NULL,
	count INTEGER NOT NULL DEFAULT 0,
	UNIQUE(material_id, word)
);

CREATE TABLE IF NOT EXISTS vocab_words (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	account_id INTEGER NOT NULL REFERENCES accounts(id),
	word TEXT NOT NULL,
	type INTEGER NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(account_id, word)
);

CREATE TABLE IF NOT EXISTS favorite_materials (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	account_id INTEGER NOT NULL REFERENCES accounts(id),
	material_id INTEGER NOT NULL REFERENCES materials(id),
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(account_id, material_id)
);

CREATE TABLE IF NOT EXISTS settings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	key TEXT NOT NULL,
	owner_id INTEGER NOT NULL DEFAULT 0,
	type INTEGER NOT NULL,
	string_value TEXT,
	int_value INTEGER,
	bool_value INTEGER,
	UNIQUE(key, owner_id)
);

CREATE INDEX IF NOT EXISTS idx_material_words_material ON material_words(material_id);

CREATE INDEX IF NOT EXISTS idx_vocab_words_account ON vocab_words(account_id)
`
