// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"sort"

	"github.com/danielhkuo/decentra-vote/cliparse"
	"github.com/danielhkuo/decentra-vote/d21"
	"github.com/danielhkuo/decentra-vote/middleware"
	"github.com/danielhkuo/decentra-vote/models"
)

type ResultsHandler struct {
	store EventStore
	cfg   cliparse.Config
	clock Clock
}

func NewResultsHandler(st EventStore, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{store: st, cfg: cfg, clock: systemClock{}}
}

// GetResults handles GET /events/{id}/results
// Results are live; the tally is public while the event is open.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
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

	ballots, err := h.store.CountBallots(r.Context(), eventID)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.Results{
		EventID: ev.ID,
		Title:   ev.Title,
		IsOpen:  ev.IsOpen(h.clock.Now()),
		Ballots: ballots,
		Results: RankChoices(ev.Choices, ev.TotalVotes),
	})
}

// RankChoices orders choices by total, highest first. Equal totals keep
// index order and share a rank. Every choice holding the top total leads,
// unless no votes were counted at all.
func RankChoices(labels []string, totals d21.Tally) []models.ChoiceResult {
	var absSum float64
	var top int64
	for i, t := range totals {
		absSum += abs(t)
		if i == 0 || t > top {
			top = t
		}
	}

	results := make([]models.ChoiceResult, len(totals))
	for i, t := range totals {
		res := models.ChoiceResult{
			Index:   i,
			Total:   t,
			Leading: absSum > 0 && t == top,
		}
		if i < len(labels) {
			res.Label = labels[i]
		}
		if absSum > 0 {
			res.Share = abs(t) / absSum
		}
		results[i] = res
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Total > results[b].Total
	})

	for i := range results {
		if i > 0 && results[i].Total == results[i-1].Total {
			results[i].Rank = results[i-1].Rank
		} else {
			results[i].Rank = i + 1
		}
	}

	return results
}

func abs(v int64) float64 {
	if v < 0 {
		return -float64(v)
	}
	return float64(v)
}
