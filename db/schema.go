package db

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is idempotent; Migrate runs it on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		email         TEXT NOT NULL,
		name          TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT users_email_key UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS teams (
		id         SERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		slug       TEXT NOT NULL,
		captain    TEXT,
		color      TEXT NOT NULL DEFAULT '#D0620D',
		logo_key   TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT teams_name_key UNIQUE (name),
		CONSTRAINT teams_slug_key UNIQUE (slug)
	)`,
	`CREATE TABLE IF NOT EXISTS players (
		id             SERIAL PRIMARY KEY,
		name           TEXT NOT NULL,
		team           TEXT NOT NULL DEFAULT '',
		position       TEXT NOT NULL DEFAULT '',
		base_price     INTEGER NOT NULL DEFAULT 0,
		sold_price     INTEGER,
		auction_status TEXT NOT NULL DEFAULT 'available',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT chk_auction_status CHECK (auction_status IN ('available', 'sold', 'unsold'))
	)`,
	`CREATE INDEX IF NOT EXISTS players_team_idx ON players (team)`,
}

func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
