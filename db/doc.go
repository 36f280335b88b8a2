// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens database connections and creates the schema.

# Drivers

Open picks a driver from the configured database type:

	conn, err := db.Open("sqlite", "file:decentra.db")
	conn, err := db.Open("postgres", "postgres://...")

SQLite (modernc.org/sqlite) is the default and needs no external server.
PostgreSQL uses github.com/lib/pq. SQLite connections are limited to one
open connection so that ":memory:" databases survive between queries.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - event: D21 configuration of a voting event
  - choice: one row per choice with its running signed total
  - vote_record: one accepted ballot per (event, voter)

# Relationships

	event 1──* choice
	event 1──* vote_record

All foreign keys use ON DELETE CASCADE. Timestamps are unix seconds.
*/
package db
