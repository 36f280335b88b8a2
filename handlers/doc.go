// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the decentra-vote API.

# Handler Types

Each handler is a struct with store and config dependencies:

  - IdentityHandler: issues signed identity tokens
  - EventHandler: event creation and lookup
  - VotingHandler: ballot casting and the caller's vote record
  - ResultsHandler: ranked results

Handlers are created via constructor functions that accept an EventStore
and Config:

	eventHandler := handlers.NewEventHandler(st, cfg)

# Identity

Callers obtain a token once and send it in the X-Identity-Token header:

	POST /identities → Issue (returns identity and token)

Names are registered first come, first served. A name that is already
taken is refused with 409 IdentityTaken and no token.

# Events

	POST /events      → CreateEvent (D21 configuration, returns event_id)
	GET  /events      → ListEvents (newest first)
	GET  /events/{id} → GetEvent (tally, is_open, closes_in)

# Voting

	POST /events/{id}/votes    → CastVote (plus_choices, optional minus_choices)
	GET  /events/{id}/votes/me → GetMyVote

A ballot is checked by d21.ValidateBallot and applied in a single store
transaction. Rule violations are returned with their code:

	{"error": "Conflict", "code": "AlreadyVoted", "message": "..."}

# Results

	GET /events/{id}/results → GetResults

Choices are ranked by total; share is the choice's absolute total over the
sum of absolute totals.
*/
package handlers
