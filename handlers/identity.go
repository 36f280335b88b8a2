// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/decentra-vote/auth"
	"github.com/danielhkuo/decentra-vote/cliparse"
	"github.com/danielhkuo/decentra-vote/middleware"
	"github.com/danielhkuo/decentra-vote/models"
)

type IdentityHandler struct {
	store EventStore
	cfg   cliparse.Config
	clock Clock
}

func NewIdentityHandler(st EventStore, cfg cliparse.Config) *IdentityHandler {
	return &IdentityHandler{store: st, cfg: cfg, clock: systemClock{}}
}

// Issue handles POST /identities
// A name is registered once; the token is only ever returned to the caller
// that registered it.
func (h *IdentityHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req models.IssueIdentityRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		middleware.BodyErrorResponse(w, err)
		return
	}

	if err := auth.ValidateIdentity(req.Name); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.RegisterIdentity(r.Context(), req.Name, h.clock.Now()); err != nil {
		slog.Warn("identity refused", "identity", req.Name, "error", err)
		writeError(w, err)
		return
	}

	slog.Info("identity issued", "identity", req.Name)

	middleware.JSONResponse(w, http.StatusCreated, models.IssueIdentityResponse{
		Identity: req.Name,
		Token:    auth.IssueToken(req.Name, h.cfg.IdentitySalt),
	})
}
