// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the single authority over the voter registry and the
append-only ballot record set.

# Atomic Submission

The only mutating operation is SubmitBallot, which performs the
not-yet-voted check, the ballot append, and the used-flag flip as one
unit. The file backend serializes every operation behind a mutex; the
SQL backend relies on a transaction plus a UNIQUE(voter_id) constraint
on the vote table. Either way, two concurrent submissions for the same
voter cannot both succeed.

# Backends

  - FileStore: voters.json and votes.json in the data directory,
    matching the original flat-file deployment. Documents are re-read
    per operation and replaced via temp-file rename.
  - SQLStore: database/sql against sqlite (modernc.org/sqlite) or
    postgres (lib/pq), registry seeded once from voters.json.

# Errors

Unknown identities return ErrVoterNotFound, repeat voters
ErrAlreadyVoted. Persistence failures wrap ErrUnavailable and are
surfaced to the caller; corrupt state is never silently treated as
empty.
*/
package store
