// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// Statements run one by one; they must stay valid for both PostgreSQL and SQLite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS event (
    id TEXT PRIMARY KEY,
    creator TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    deadline BIGINT NOT NULL,
    max_plus_votes INTEGER NOT NULL CHECK (max_plus_votes >= 1),
    allow_minus BOOLEAN NOT NULL DEFAULT FALSE,
    max_minus_votes INTEGER NOT NULL DEFAULT 0,
    min_plus_for_minus INTEGER NOT NULL DEFAULT 0,
    created_at BIGINT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_event_creator ON event(creator)`,
	`CREATE INDEX IF NOT EXISTS idx_event_created_at ON event(created_at)`,

	// One row per choice; idx is the choice's permanent index.
	`CREATE TABLE IF NOT EXISTS choice (
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    idx INTEGER NOT NULL CHECK (idx >= 0 AND idx < 10),
    label TEXT NOT NULL,
    total BIGINT NOT NULL DEFAULT 0,
    PRIMARY KEY (event_id, idx)
)`,

	// The primary key makes the first ballot per voter win.
	`CREATE TABLE IF NOT EXISTS vote_record (
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    voter TEXT NOT NULL,
    has_voted BOOLEAN NOT NULL DEFAULT TRUE,
    plus_choices TEXT NOT NULL,
    minus_choices TEXT NOT NULL,
    cast_at BIGINT NOT NULL,
    ip_hash TEXT,
    user_agent TEXT,
    PRIMARY KEY (event_id, voter)
)`,
	`CREATE INDEX IF NOT EXISTS idx_vote_record_event_id ON vote_record(event_id)`,

	// Names are registered first come, first served.
	`CREATE TABLE IF NOT EXISTS identity (
    name TEXT PRIMARY KEY,
    created_at BIGINT NOT NULL
)`,
}
