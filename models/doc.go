// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the API.

# Request Types

Types for parsing incoming JSON:

  - IssueIdentityRequest: name
  - CreateEventRequest: title, description, choices, deadline and the D21 limits
  - CastVoteRequest: plus_choices, minus_choices (optional)

# Response Types

Types for JSON responses:

  - IssueIdentityResponse: identity, token
  - CreateEventResponse: event_id
  - CastVoteResponse: updated total_votes
  - ListEventsResponse: events, newest first
  - Results: ranked per-choice totals
  - ErrorResponse: error, code, message

# Views

  - Event: configuration, running tally, is_open and a human readable closes_in
  - VoteRecord: the caller's accepted ballot
  - ChoiceResult: one ranked choice

All timestamps are unix seconds. Choice indices are zero-based positions in
Event.Choices.
*/
package models
