// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ballot-box API.

# Handler Types

Each handler is a struct with store, schema, config and close-state
dependencies, created via constructor functions:

	voting := handlers.NewVotingHandler(st, sch, cfg, state)
	admin := handlers.NewAdminHandler(st, sch, cfg, state)

# Voting Flow

	GET  /api/schema → Schema (races and candidates)
	POST /api/auth   → Authenticate (code or phone lookup, read-only)
	POST /api/vote   → SubmitVote (one atomic ballot per voter)
	GET  /api/status → Status (configured close time or null)

SubmitVote validates selections against the schema (exactly one
candidate per declared race, candidate must belong to the race) before
handing the atomic check-append-mark to the store. Once the configured
close instant passes, it fails with 423.

# Admin View

Key-gated by ?key= compared in constant time:

	GET  /admin            → Results (HTML table)
	GET  /admin/export.csv → ExportCSV (poste,candidat,votes)
	POST /admin/close-at   → SetCloseAt

# Tally

ComputeTally in tally.go derives per-race, per-candidate counts from
the full ballot set on every read; it is a pure function over the
schema and the ballots.
*/
package handlers
