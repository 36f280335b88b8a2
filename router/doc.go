// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the decentra-vote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(st, cfg)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Identity:

	POST /identities - Issue an identity token

Events:

	POST /events      - Create event (requires X-Identity-Token)
	GET  /events      - List events, newest first
	GET  /events/{id} - Event state and tally

Voting (requires X-Identity-Token):

	POST /events/{id}/votes    - Cast a ballot
	GET  /events/{id}/votes/me - Caller's vote record

Results:

	GET /events/{id}/results - Ranked choices

# Handler Initialization

All handlers receive the event store and configuration:

	eventHandler := handlers.NewEventHandler(st, cfg)
	votingHandler := handlers.NewVotingHandler(st, cfg)
*/
package router
