// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/decentra-vote/auth"
	"github.com/danielhkuo/decentra-vote/cliparse"
	"github.com/danielhkuo/decentra-vote/d21"
	"github.com/danielhkuo/decentra-vote/metrics"
	"github.com/danielhkuo/decentra-vote/middleware"
	"github.com/danielhkuo/decentra-vote/models"
	"github.com/danielhkuo/decentra-vote/store"
)

type VotingHandler struct {
	store EventStore
	cfg   cliparse.Config
	clock Clock
}

func NewVotingHandler(st EventStore, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{store: st, cfg: cfg, clock: systemClock{}}
}

// CastVote handles POST /events/{id}/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "event id is required")
		return
	}

	voter, err := auth.FromRequest(r, h.cfg.IdentitySalt)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.BodyErrorResponse(w, err)
		return
	}

	started := time.Now()
	meta := store.VoteMeta{
		IPHash:    auth.HashIP(middleware.GetClientIP(r, h.cfg.TrustProxy), h.cfg.IdentitySalt),
		UserAgent: r.UserAgent(),
	}
	ballot := d21.Ballot{Plus: req.PlusChoices, Minus: req.MinusChoices}

	ev, rec, err := h.store.CastVote(r.Context(), eventID, voter, ballot, h.clock.Now(), meta)
	metrics.ObserveBallot(err, started)
	if err != nil {
		slog.Warn("ballot rejected",
			"event_id", eventID,
			"voter", voter,
			"code", metrics.ResultLabel(err),
			"error", err,
		)
		writeError(w, err)
		return
	}

	slog.Info("vote cast",
		"event_id", eventID,
		"voter", voter,
		"plus_choices", rec.PlusChoices,
		"minus_choices", rec.MinusChoices,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		EventID:    eventID,
		Voter:      voter,
		TotalVotes: []int64(ev.TotalVotes),
		Message:    "Vote cast successfully",
	})
}

// GetMyVote handles GET /events/{id}/votes/me
func (h *VotingHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "event id is required")
		return
	}

	voter, err := auth.FromRequest(r, h.cfg.IdentitySalt)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	if _, err := h.store.GetEvent(r.Context(), eventID); err != nil {
		writeError(w, err)
		return
	}

	rec, err := h.store.GetVoteRecord(r.Context(), eventID, voter)
	if err != nil {
		writeError(w, err)
		return
	}
	if !rec.HasVoted {
		middleware.ErrorResponse(w, http.StatusNotFound, "No vote found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteRecord{
		EventID:      eventID,
		Voter:        rec.Voter,
		HasVoted:     rec.HasVoted,
		PlusChoices:  rec.PlusChoices,
		MinusChoices: rec.MinusChoices,
	})
}
