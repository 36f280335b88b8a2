// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/decentra-vote/d21"
	"github.com/danielhkuo/decentra-vote/middleware"
	"github.com/danielhkuo/decentra-vote/models"
	"github.com/danielhkuo/decentra-vote/store"
)

// EventStore is the persistence the handlers need.
type EventStore interface {
	RegisterIdentity(ctx context.Context, name string, createdAt time.Time) error
	CreateEvent(ctx context.Context, ev d21.EventState, createdAt time.Time) (string, error)
	GetEvent(ctx context.Context, id string) (store.Event, error)
	ListEvents(ctx context.Context) ([]store.Event, error)
	GetVoteRecord(ctx context.Context, eventID, voter string) (d21.VoteRecord, error)
	CountBallots(ctx context.Context, eventID string) (int, error)
	CastVote(ctx context.Context, eventID, voter string, b d21.Ballot, now time.Time, meta store.VoteMeta) (store.Event, d21.VoteRecord, error)
}

// Clock supplies the current time used for deadline checks.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// statusForKind maps a d21 error kind to an HTTP status.
func statusForKind(k d21.Kind) int {
	switch k {
	case d21.KindState:
		return http.StatusConflict
	case d21.KindArithmetic:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// writeError writes the response for an error from d21 or the store.
func writeError(w http.ResponseWriter, err error) {
	var ruleErr *d21.Error
	switch {
	case errors.Is(err, store.ErrEventNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Event not found")
	case errors.Is(err, store.ErrIdentityTaken):
		middleware.CodedErrorResponse(w, http.StatusConflict, "IdentityTaken", "Identity is already registered")
	case errors.Is(err, store.ErrConflict):
		middleware.CodedErrorResponse(w, http.StatusConflict, "Conflict", "Event was updated concurrently, retry")
	case errors.As(err, &ruleErr):
		middleware.CodedErrorResponse(w, statusForKind(ruleErr.Kind), ruleErr.Code, ruleErr.Message)
	default:
		slog.Error("storage failure", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}

func toEventView(ev store.Event, now time.Time) models.Event {
	return models.Event{
		ID:              ev.ID,
		Creator:         ev.Creator,
		Title:           ev.Title,
		Description:     ev.Description,
		Choices:         ev.Choices,
		Deadline:        ev.Deadline.Unix(),
		MaxPlusVotes:    ev.MaxPlusVotes,
		AllowMinus:      ev.AllowMinus,
		MaxMinusVotes:   ev.MaxMinusVotes,
		MinPlusForMinus: ev.MinPlusForMinus,
		TotalVotes:      []int64(ev.TotalVotes),
		CreatedAt:       ev.CreatedAt.Unix(),
		IsOpen:          ev.IsOpen(now),
		ClosesIn:        humanize.RelTime(ev.Deadline, now, "ago", "from now"),
	}
}
