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
)

type EventHandler struct {
	store EventStore
	cfg   cliparse.Config
	clock Clock
}

func NewEventHandler(st EventStore, cfg cliparse.Config) *EventHandler {
	return &EventHandler{store: st, cfg: cfg, clock: systemClock{}}
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	creator, err := auth.FromRequest(r, h.cfg.IdentitySalt)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req models.CreateEventRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.BodyErrorResponse(w, err)
		return
	}

	if req.Deadline <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "deadline is required")
		return
	}

	ev, err := d21.NewEvent(creator, d21.Config{
		Title:           req.Title,
		Description:     req.Description,
		Choices:         req.Choices,
		Deadline:        time.Unix(req.Deadline, 0),
		MaxPlusVotes:    req.MaxPlusVotes,
		AllowMinus:      req.AllowMinus,
		MaxMinusVotes:   req.MaxMinusVotes,
		MinPlusForMinus: req.MinPlusForMinus,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	eventID, err := h.store.CreateEvent(r.Context(), ev, h.clock.Now())
	if err != nil {
		slog.Error("failed to insert event", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create event")
		return
	}
	metrics.EventsCreated.Inc()

	slog.Info("event created",
		"event_id", eventID,
		"creator", creator,
		"title", ev.Title,
		"choices", ev.Choices,
		"deadline", ev.Deadline.Unix(),
		"max_plus", ev.MaxPlusVotes,
		"allow_minus", ev.AllowMinus,
		"max_minus", ev.MaxMinusVotes,
		"min_plus_for_minus", ev.MinPlusForMinus,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateEventResponse{
		EventID: eventID,
	})
}

// ListEvents handles GET /events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.ListEvents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	now := h.clock.Now()
	resp := models.ListEventsResponse{Events: make([]models.Event, 0, len(events))}
	for _, ev := range events {
		resp.Events = append(resp.Events, toEventView(ev, now))
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetEvent handles GET /events/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "event id is required")
		return
	}

	ev, err := h.store.GetEvent(r.Context(), eventID)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, toEventView(ev, h.clock.Now()))
}
