// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the decentra-vote API server.

decentra-vote runs D21 elections: each voter may give several plus votes
and, when the event allows it, a limited number of minus votes. Ballots are
validated against the event rules and applied to a signed running tally.

# Starting the Server

The server reads CLI flags, falling back to environment variables:

	IDENTITY_SALT=... DATABASE_URL=votes.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -identity-salt ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - IDENTITY_SALT (-identity-salt): Secret for identity token HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - -env: dotenv file loaded before the environment is read
  - TRUST_PROXY (-trust-proxy): read client IPs from X-Forwarded-For/X-Real-IP

# Architecture

  - d21: Event configuration, ballot validation, tally and vote record rules
  - store: Transactional persistence of events and vote records
  - handlers: HTTP request handlers (identities, events, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - metrics: Prometheus collectors
  - models: Request/response types
  - auth: Identity tokens
  - db: Driver selection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
