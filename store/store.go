// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/decentra-vote/d21"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrEventExists   = errors.New("event already exists")
	ErrIdentityTaken = errors.New("identity already registered")
	// ErrConflict means another writer changed the tally between read and write.
	ErrConflict = errors.New("concurrent tally update")
)

// Event is a stored event together with its store-owned identifier.
type Event struct {
	ID        string
	CreatedAt time.Time
	d21.EventState
}

// VoteMeta is request metadata kept next to an accepted ballot.
type VoteMeta struct {
	IPHash    string
	UserAgent string
}

type Store struct {
	db    *sql.DB
	locks *keyedMutex
	newID func() string
}

func New(db *sql.DB) *Store {
	return &Store{
		db:    db,
		locks: newKeyedMutex(),
		newID: uuid.NewString,
	}
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateEvent persists ev under a new identifier and returns it.
func (s *Store) CreateEvent(ctx context.Context, ev d21.EventState, createdAt time.Time) (string, error) {
	id := s.newID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO event (id, creator, title, description, deadline,
		                   max_plus_votes, allow_minus, max_minus_votes, min_plus_for_minus, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, id, ev.Creator, ev.Title, ev.Description, ev.Deadline.Unix(),
		ev.MaxPlusVotes, ev.AllowMinus, ev.MaxMinusVotes, ev.MinPlusForMinus, createdAt.Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrEventExists
		}
		return "", fmt.Errorf("failed to insert event: %w", err)
	}

	for i, label := range ev.Choices {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO choice (event_id, idx, label, total)
			VALUES ($1, $2, $3, $4)
		`, id, i, label, ev.TotalVotes[i])
		if err != nil {
			return "", fmt.Errorf("failed to insert choice %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit event: %w", err)
	}
	return id, nil
}

// RegisterIdentity claims name for the first caller to ask for it.
func (s *Store) RegisterIdentity(ctx context.Context, name string, createdAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO identity (name, created_at) VALUES ($1, $2)
	`, name, createdAt.Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrIdentityTaken
		}
		return fmt.Errorf("failed to register identity: %w", err)
	}
	return nil
}

// GetEvent loads an event and its current tally.
func (s *Store) GetEvent(ctx context.Context, id string) (Event, error) {
	return loadEvent(ctx, s.db, id)
}

// ListEvents returns all events, newest first.
func (s *Store) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, creator, title, description, deadline,
		       max_plus_votes, allow_minus, max_minus_votes, min_plus_for_minus, created_at
		FROM event
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}

	events := []Event{}
	byID := make(map[string]int)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		byID[ev.ID] = len(events)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	// Release the connection before the next query; SQLite runs with one.
	rows.Close()

	choiceRows, err := s.db.QueryContext(ctx, `
		SELECT event_id, label, total FROM choice ORDER BY event_id, idx
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query choices: %w", err)
	}
	defer choiceRows.Close()

	for choiceRows.Next() {
		var eventID, label string
		var total int64
		if err := choiceRows.Scan(&eventID, &label, &total); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		i, ok := byID[eventID]
		if !ok {
			continue
		}
		events[i].Choices = append(events[i].Choices, label)
		events[i].TotalVotes = append(events[i].TotalVotes, total)
	}
	if err := choiceRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read choices: %w", err)
	}

	return events, nil
}

// GetVoteRecord returns the voter's record for an event. A voter who has
// not voted gets a zero record with HasVoted false.
func (s *Store) GetVoteRecord(ctx context.Context, eventID, voter string) (d21.VoteRecord, error) {
	return loadVoteRecord(ctx, s.db, eventID, voter)
}

// CountBallots returns how many voters have an accepted ballot on the event.
func (s *Store) CountBallots(ctx context.Context, eventID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM vote_record WHERE event_id = $1 AND has_voted
	`, eventID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count ballots: %w", err)
	}
	return n, nil
}

// CastVote runs d21.CastVote against the stored event and persists the
// result in one transaction. Casts on the same event are serialized.
// Domain failures are returned as d21 errors and change nothing.
func (s *Store) CastVote(ctx context.Context, eventID, voter string, b d21.Ballot, now time.Time, meta VoteMeta) (Event, d21.VoteRecord, error) {
	unlock := s.locks.Lock(eventID)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Event{}, d21.VoteRecord{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ev, err := loadEvent(ctx, tx, eventID)
	if err != nil {
		return Event{}, d21.VoteRecord{}, err
	}
	rec, err := loadVoteRecord(ctx, tx, eventID, voter)
	if err != nil {
		return Event{}, d21.VoteRecord{}, err
	}

	state, next, err := d21.CastVote(ev.EventState, rec, voter, b, now)
	if err != nil {
		return ev, rec, err
	}

	for i, total := range state.TotalVotes {
		old := ev.TotalVotes[i]
		if total == old {
			continue
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE choice SET total = $1
			WHERE event_id = $2 AND idx = $3 AND total = $4
		`, total, eventID, i, old)
		if err != nil {
			return Event{}, d21.VoteRecord{}, fmt.Errorf("failed to update tally: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return Event{}, d21.VoteRecord{}, fmt.Errorf("failed to update tally: %w", err)
		}
		if n != 1 {
			return Event{}, d21.VoteRecord{}, ErrConflict
		}
	}

	plus, err := json.Marshal(next.PlusChoices)
	if err != nil {
		return Event{}, d21.VoteRecord{}, fmt.Errorf("failed to encode plus choices: %w", err)
	}
	minus, err := json.Marshal(next.MinusChoices)
	if err != nil {
		return Event{}, d21.VoteRecord{}, fmt.Errorf("failed to encode minus choices: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote_record (event_id, voter, has_voted, plus_choices, minus_choices, cast_at, ip_hash, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, eventID, voter, next.HasVoted, string(plus), string(minus), now.Unix(),
		nullString(meta.IPHash), nullString(meta.UserAgent))
	if err != nil {
		if isUniqueViolation(err) {
			return ev, rec, d21.ErrAlreadyVoted
		}
		return Event{}, d21.VoteRecord{}, fmt.Errorf("failed to insert vote record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Event{}, d21.VoteRecord{}, fmt.Errorf("failed to commit vote: %w", err)
	}

	ev.EventState = state
	return ev, next, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (Event, error) {
	var ev Event
	var deadline, createdAt int64
	err := row.Scan(
		&ev.ID, &ev.Creator, &ev.Title, &ev.Description, &deadline,
		&ev.MaxPlusVotes, &ev.AllowMinus, &ev.MaxMinusVotes, &ev.MinPlusForMinus, &createdAt,
	)
	if err == sql.ErrNoRows {
		return Event{}, ErrEventNotFound
	}
	if err != nil {
		return Event{}, fmt.Errorf("failed to scan event: %w", err)
	}
	ev.Deadline = time.Unix(deadline, 0)
	ev.CreatedAt = time.Unix(createdAt, 0)
	return ev, nil
}

func loadEvent(ctx context.Context, q queryer, id string) (Event, error) {
	ev, err := scanEvent(q.QueryRowContext(ctx, `
		SELECT id, creator, title, description, deadline,
		       max_plus_votes, allow_minus, max_minus_votes, min_plus_for_minus, created_at
		FROM event
		WHERE id = $1
	`, id))
	if err != nil {
		return Event{}, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT label, total FROM choice WHERE event_id = $1 ORDER BY idx
	`, id)
	if err != nil {
		return Event{}, fmt.Errorf("failed to query choices: %w", err)
	}
	defer rows.Close()

	ev.Choices = []string{}
	ev.TotalVotes = d21.Tally{}
	for rows.Next() {
		var label string
		var total int64
		if err := rows.Scan(&label, &total); err != nil {
			return Event{}, fmt.Errorf("failed to scan choice: %w", err)
		}
		ev.Choices = append(ev.Choices, label)
		ev.TotalVotes = append(ev.TotalVotes, total)
	}
	if err := rows.Err(); err != nil {
		return Event{}, fmt.Errorf("failed to read choices: %w", err)
	}

	return ev, nil
}

func loadVoteRecord(ctx context.Context, q queryer, eventID, voter string) (d21.VoteRecord, error) {
	var rec d21.VoteRecord
	var plus, minus string
	err := q.QueryRowContext(ctx, `
		SELECT voter, has_voted, plus_choices, minus_choices
		FROM vote_record
		WHERE event_id = $1 AND voter = $2
	`, eventID, voter).Scan(&rec.Voter, &rec.HasVoted, &plus, &minus)
	if err == sql.ErrNoRows {
		return d21.VoteRecord{}, nil
	}
	if err != nil {
		return d21.VoteRecord{}, fmt.Errorf("failed to query vote record: %w", err)
	}

	if err := json.Unmarshal([]byte(plus), &rec.PlusChoices); err != nil {
		return d21.VoteRecord{}, fmt.Errorf("failed to decode plus choices: %w", err)
	}
	if err := json.Unmarshal([]byte(minus), &rec.MinusChoices); err != nil {
		return d21.VoteRecord{}, fmt.Errorf("failed to decode minus choices: %w", err)
	}
	return rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isUniqueViolation reports whether err is a primary key or unique
// constraint failure from either supported driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}
