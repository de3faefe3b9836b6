package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema es idempotente; Migrate se puede correr en cada deploy.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id            TEXT PRIMARY KEY,
		owner_user_id TEXT NOT NULL,
		title         TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		deadline      TIMESTAMPTZ NULL,
		completed     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS tasks_owner_created_idx ON tasks (owner_user_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS pets (
		id            TEXT PRIMARY KEY,
		owner_user_id TEXT NOT NULL,
		name          TEXT NOT NULL CHECK (char_length(name) BETWEEN 1 AND 20),
		type          TEXT NOT NULL CHECK (type IN ('cat', 'dog', 'penguin')),
		level         INTEGER NOT NULL DEFAULT 1 CHECK (level >= 1),
		experience    INTEGER NOT NULL DEFAULT 0 CHECK (experience >= 0),
		happiness     INTEGER NOT NULL DEFAULT 100 CHECK (happiness BETWEEN 0 AND 100),
		last_played   TIMESTAMPTZ NOT NULL,
		version       INTEGER NOT NULL DEFAULT 1,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS pets_owner_created_idx ON pets (owner_user_id, created_at ASC)`,

	`CREATE TABLE IF NOT EXISTS inventories (
		owner_user_id TEXT PRIMARY KEY,
		coins         INTEGER NOT NULL DEFAULT 100 CHECK (coins >= 0),
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_items (
		owner_user_id TEXT NOT NULL REFERENCES inventories (owner_user_id) ON DELETE CASCADE,
		item_id       TEXT NOT NULL,
		name          TEXT NOT NULL,
		quantity      INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 0),
		type          TEXT NOT NULL,
		equipped      BOOLEAN NOT NULL DEFAULT FALSE,
		acquired_at   TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (owner_user_id, item_id)
	)`,
}

// Migrate crea tablas e índices si no existen.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
