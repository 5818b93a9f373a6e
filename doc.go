// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ballot-box server.

Ballot-box runs a single organization's internal election: voters
authenticate with a pre-issued code or phone number, select one
candidate per open race, and submit a ballot recorded at most once per
voter. A key-gated admin view tallies results and exports CSV.

# Starting the Server

	ADMIN_KEY=change-me go run main.go

Or with flags:

	go run main.go -p 3000 -d ./data -admin-key change-me

# Configuration

Required settings:

  - ADMIN_KEY (-admin-key): secret gating the /admin surface
  - DATABASE_URL (-db): only when STORE_TYPE is sqlite or postgres

Optional settings:

  - PORT (-p): server port (default: 3000)
  - DATA_DIR (-d): data directory (default: "data")
  - STORE_TYPE (-t): file, sqlite or postgres (default: "file")
  - ADMIN_CONTACT: phone number for pre-filled receipt messages
  - LOG_LEVEL: debug, info, warn, error

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (voting, admin, tally, close state)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response and domain types
  - schema: Election schema loading and validation
  - store: Voter registry + ballot store (file and SQL backends)
  - auth: Admin key verification, ballot receipt ids
  - cliparse: Configuration parsing
  - logging: slog handler setup
  - web: Embedded voting page

See package documentation for each component.
*/
package main
