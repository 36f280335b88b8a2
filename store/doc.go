// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists D21 events, tallies and vote records in SQL.

It plays the role of the uniqueness-enforcing key-value store the voting
rules rely on: events are keyed by an opaque UUID the store assigns, vote
records by (event id, voter). The vote_record primary key makes the first
accepted ballot win.

CastVote reads the event and the voter's record, runs d21.CastVote and
writes the new totals and the record in a single transaction. Casts on the
same event are serialized with an in-process lock. Tally rows are updated
with compare-and-set, so a writer in another process that changed a total
in between makes the cast fail with ErrConflict instead of losing a vote.
*/
package store
