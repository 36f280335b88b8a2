// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/decentra-vote/d21"
	"github.com/danielhkuo/decentra-vote/db"
)

var deadline = time.Unix(2_000_000_000, 0)

func setupStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.CreateSchema(conn))

	return New(conn), conn
}

func createEvent(t *testing.T, s *Store, cfg d21.Config) string {
	t.Helper()

	ev, err := d21.NewEvent("creator", cfg)
	require.NoError(t, err)
	id, err := s.CreateEvent(context.Background(), ev, time.Unix(1_700_000_000, 0))
	require.NoError(t, err)
	return id
}

func plusOnlyConfig() d21.Config {
	return d21.Config{
		Title:        "Lunch",
		Description:  "Friday",
		Choices:      []string{"A", "B", "C"},
		Deadline:     deadline,
		MaxPlusVotes: 2,
	}
}

func TestCreateAndGetEvent(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	cfg := plusOnlyConfig()
	cfg.AllowMinus = true
	cfg.MaxMinusVotes = 1
	cfg.MinPlusForMinus = 2
	id := createEvent(t, s, cfg)
	require.NotEmpty(t, id)

	ev, err := s.GetEvent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, ev.ID)
	assert.Equal(t, "creator", ev.Creator)
	assert.Equal(t, "Lunch", ev.Title)
	assert.Equal(t, []string{"A", "B", "C"}, ev.Choices)
	assert.Equal(t, d21.Tally{0, 0, 0}, ev.TotalVotes)
	assert.True(t, ev.Deadline.Equal(deadline))
	assert.True(t, ev.AllowMinus)
	assert.Equal(t, 2, ev.MaxPlusVotes)
	assert.Equal(t, 1, ev.MaxMinusVotes)
	assert.Equal(t, 2, ev.MinPlusForMinus)
	assert.Equal(t, int64(1_700_000_000), ev.CreatedAt.Unix())
}

func TestCreateEvent_DuplicateID(t *testing.T) {
	s, _ := setupStore(t)
	s.newID = func() string { return "fixed" }

	createEvent(t, s, plusOnlyConfig())

	ev, err := d21.NewEvent("creator", plusOnlyConfig())
	require.NoError(t, err)
	_, err = s.CreateEvent(context.Background(), ev, time.Now())
	assert.ErrorIs(t, err, ErrEventExists)
}

func TestRegisterIdentity(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.RegisterIdentity(ctx, "alice", time.Now()))
	require.NoError(t, s.RegisterIdentity(ctx, "bob", time.Now()))

	err := s.RegisterIdentity(ctx, "alice", time.Now())
	assert.ErrorIs(t, err, ErrIdentityTaken)
}

func TestGetEvent_NotFound(t *testing.T) {
	s, _ := setupStore(t)

	_, err := s.GetEvent(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, _, err = s.CastVote(context.Background(), "missing", "v", d21.Ballot{Plus: []int{0}}, time.Now(), VoteMeta{})
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestListEvents(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	events, err := s.ListEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	first, err := d21.NewEvent("a", plusOnlyConfig())
	require.NoError(t, err)
	firstID, err := s.CreateEvent(ctx, first, time.Unix(100, 0))
	require.NoError(t, err)

	cfg := plusOnlyConfig()
	cfg.Choices = []string{"X", "Y"}
	second, err := d21.NewEvent("b", cfg)
	require.NoError(t, err)
	secondID, err := s.CreateEvent(ctx, second, time.Unix(200, 0))
	require.NoError(t, err)

	events, err = s.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, secondID, events[0].ID)
	assert.Equal(t, []string{"X", "Y"}, events[0].Choices)
	assert.Equal(t, firstID, events[1].ID)
	assert.Len(t, events[1].TotalVotes, 3)
}

func TestCastVote_Scenario(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	id := createEvent(t, s, plusOnlyConfig())
	now := deadline.Add(-time.Hour)

	ev, rec, err := s.CastVote(ctx, id, "voter-1", d21.Ballot{Plus: []int{0, 1}}, now, VoteMeta{IPHash: "abc", UserAgent: "test"})
	require.NoError(t, err)
	assert.Equal(t, d21.Tally{1, 1, 0}, ev.TotalVotes)
	assert.True(t, rec.HasVoted)

	ev, _, err = s.CastVote(ctx, id, "voter-2", d21.Ballot{Plus: []int{0}}, now, VoteMeta{})
	require.NoError(t, err)
	assert.Equal(t, d21.Tally{2, 1, 0}, ev.TotalVotes)

	stored, err := s.GetEvent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, d21.Tally{2, 1, 0}, stored.TotalVotes)

	got, err := s.GetVoteRecord(ctx, id, "voter-1")
	require.NoError(t, err)
	assert.Equal(t, d21.VoteRecord{Voter: "voter-1", HasVoted: true, PlusChoices: []int{0, 1}, MinusChoices: []int{}}, got)

	n, err := s.CountBallots(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	none, err := s.GetVoteRecord(ctx, id, "nobody")
	require.NoError(t, err)
	assert.False(t, none.HasVoted)
}

func TestCastVote_MinusScenario(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	cfg := plusOnlyConfig()
	cfg.AllowMinus = true
	cfg.MaxMinusVotes = 1
	cfg.MinPlusForMinus = 2
	id := createEvent(t, s, cfg)
	now := deadline.Add(-time.Hour)

	_, _, err := s.CastVote(ctx, id, "v", d21.Ballot{Plus: []int{0}, Minus: []int{1}}, now, VoteMeta{})
	assert.ErrorIs(t, err, d21.ErrInsufficientPlusVotes)

	rec, err := s.GetVoteRecord(ctx, id, "v")
	require.NoError(t, err)
	assert.False(t, rec.HasVoted, "rejected ballot must not be recorded")

	ev, rec, err := s.CastVote(ctx, id, "v", d21.Ballot{Plus: []int{0, 2}, Minus: []int{1}}, now, VoteMeta{})
	require.NoError(t, err)
	assert.Equal(t, d21.Tally{1, -1, 1}, ev.TotalVotes)
	assert.Equal(t, []int{1}, rec.MinusChoices)
}

func TestCastVote_AlreadyVoted(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	id := createEvent(t, s, plusOnlyConfig())
	now := deadline.Add(-time.Hour)

	_, _, err := s.CastVote(ctx, id, "v", d21.Ballot{Plus: []int{2}}, now, VoteMeta{})
	require.NoError(t, err)

	ev, rec, err := s.CastVote(ctx, id, "v", d21.Ballot{Plus: []int{0}}, now, VoteMeta{})
	assert.ErrorIs(t, err, d21.ErrAlreadyVoted)
	assert.Equal(t, d21.Tally{0, 0, 1}, ev.TotalVotes)
	assert.Equal(t, []int{2}, rec.PlusChoices)

	stored, err := s.GetEvent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, d21.Tally{0, 0, 1}, stored.TotalVotes)
}

func TestCastVote_OverflowLeavesTally(t *testing.T) {
	s, conn := setupStore(t)
	ctx := context.Background()
	id := createEvent(t, s, plusOnlyConfig())

	_, err := conn.Exec(`UPDATE choice SET total = $1 WHERE event_id = $2 AND idx = 1`, int64(math.MaxInt64), id)
	require.NoError(t, err)

	_, _, err = s.CastVote(ctx, id, "v", d21.Ballot{Plus: []int{0, 1}}, deadline.Add(-time.Hour), VoteMeta{})
	assert.ErrorIs(t, err, d21.ErrOverflow)

	stored, err := s.GetEvent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, d21.Tally{0, math.MaxInt64, 0}, stored.TotalVotes)

	rec, err := s.GetVoteRecord(ctx, id, "v")
	require.NoError(t, err)
	assert.False(t, rec.HasVoted)
}

func TestCastVote_Concurrent(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	id := createEvent(t, s, plusOnlyConfig())
	now := deadline.Add(-time.Hour)

	voters := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	errs := make(chan error, len(voters)*2)
	for _, v := range voters {
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(voter string) {
				defer wg.Done()
				_, _, err := s.CastVote(ctx, id, voter, d21.Ballot{Plus: []int{0}}, now, VoteMeta{})
				errs <- err
			}(v)
		}
	}
	wg.Wait()
	close(errs)

	var ok, already int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, d21.ErrAlreadyVoted):
			already++
		}
	}
	assert.Equal(t, len(voters), ok)
	assert.Equal(t, len(voters), already)

	stored, err := s.GetEvent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, d21.Tally{int64(len(voters)), 0, 0}, stored.TotalVotes)
}

func TestIsUniqueViolation(t *testing.T) {
	_, conn := setupStore(t)

	_, err := conn.Exec(`INSERT INTO event (id, creator, title, deadline, max_plus_votes, created_at) VALUES ('x', 'c', 't', 1, 1, 1)`)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO event (id, creator, title, deadline, max_plus_votes, created_at) VALUES ('x', 'c', 't', 1, 1, 1)`)
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))

	assert.False(t, isUniqueViolation(assert.AnError))
}

func TestKeyedMutex(t *testing.T) {
	k := newKeyedMutex()

	unlock := k.Lock("e1")
	done := make(chan struct{})
	go func() {
		defer close(done)
		k.Lock("e2")()
	}()
	<-done

	unlock()
	k.mu.Lock()
	assert.Empty(t, k.locks)
	k.mu.Unlock()
}
