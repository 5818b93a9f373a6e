// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package schema loads and validates the static election description.

The schema file (<data-dir>/candidates.json) declares every position
and candidate:

	{
	  "positions": [
	    {"id": "dir-construction", "title": "Director of Construction"}
	  ],
	  "candidates": [
	    {"id": "c1", "name": "Alice K.", "bio": "Civil engineer", "raceId": "dir-construction"}
	  ]
	}

Load validates referential integrity once at startup and fails fast
with ErrInvalidSchema on malformed input. The loaded Schema is
immutable and shared by all request handlers.
*/
package schema
