package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Every table carries a position column
// so that a loaded snapshot keeps the order in which rows were saved.
const schema = `
CREATE TABLE IF NOT EXISTS providers (
    id       TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    name     TEXT NOT NULL,
    address  TEXT
);

CREATE TABLE IF NOT EXISTS food_items (
    id       TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    name     TEXT NOT NULL,
    unit     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS inventory (
    id               INTEGER PRIMARY KEY,
    provider_id      TEXT NOT NULL REFERENCES providers(id),
    food_id          TEXT NOT NULL REFERENCES food_items(id),
    quantity         INTEGER NOT NULL CHECK (quantity >= 0),
    threshold_low    INTEGER NOT NULL DEFAULT 5 CHECK (threshold_low >= 0),
    threshold_medium INTEGER NOT NULL DEFAULT 15 CHECK (threshold_medium >= 0),
    UNIQUE (provider_id, food_id)
);

CREATE TABLE IF NOT EXISTS orders (
    id           TEXT PRIMARY KEY,
    position     INTEGER NOT NULL,
    provider_id  TEXT NOT NULL REFERENCES providers(id),
    status       TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'prepared', 'picked_up')),
    pickup_token TEXT,
    created_at   DATETIME NOT NULL,
    picked_at    DATETIME
);

CREATE TABLE IF NOT EXISTS order_items (
    order_id TEXT NOT NULL REFERENCES orders(id),
    position INTEGER NOT NULL,
    food_id  TEXT NOT NULL REFERENCES food_items(id),
    quantity INTEGER NOT NULL CHECK (quantity > 0)
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS food_images (
    food_id    TEXT PRIMARY KEY REFERENCES food_items(id),
    image      BLOB NOT NULL,
    image_mime TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
