// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the request, response, and domain types shared
by the ballot-box API.

# Domain Types

  - Voter: one registry entry. The identity string (code or phone) is
    the credential; Used flips from false to true exactly once, when a
    ballot is accepted, and is never reverted.
  - VoteRecord: one accepted ballot with its full selection map.
    Append-only.
  - Tally: derived per-race, per-candidate counts.

# Wire Types

Request/response structs mirror the JSON bodies of the /api endpoints.
ErrorResponse carries the human-readable message returned with every
4xx/5xx status.
*/
package models
