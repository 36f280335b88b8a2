// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/decentra-vote/cliparse"
	"github.com/danielhkuo/decentra-vote/handlers"
	"github.com/danielhkuo/decentra-vote/metrics"
	"github.com/danielhkuo/decentra-vote/middleware"
)

func NewRouter(st handlers.EventStore, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	identityHandler := handlers.NewIdentityHandler(st, cfg)
	eventHandler := handlers.NewEventHandler(st, cfg)
	votingHandler := handlers.NewVotingHandler(st, cfg)
	resultsHandler := handlers.NewResultsHandler(st, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.Handle("GET /metrics", metrics.Handler())

	// Identity
	mux.HandleFunc("POST /identities", middleware.WithLogging(identityHandler.Issue))

	// Events
	mux.HandleFunc("POST /events", middleware.WithLogging(eventHandler.CreateEvent))
	mux.HandleFunc("GET /events", middleware.WithLogging(eventHandler.ListEvents))
	mux.HandleFunc("GET /events/{id}", middleware.WithLogging(eventHandler.GetEvent))

	// Voting (requires X-Identity-Token)
	mux.HandleFunc("POST /events/{id}/votes", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("GET /events/{id}/votes/me", middleware.WithLogging(votingHandler.GetMyVote))

	// Results
	mux.HandleFunc("GET /events/{id}/results", middleware.WithLogging(resultsHandler.GetResults))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("decentra-vote API v1"))
	})

	return mux
}
