// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/danielhkuo/ballot-box/models"
)

var (
	// ErrVoterNotFound means the identity matches no registered voter.
	ErrVoterNotFound = errors.New("voter not found")

	// ErrAlreadyVoted means the voter's ballot was already accepted.
	ErrAlreadyVoted = errors.New("voter has already voted")

	// ErrUnavailable wraps persistence failures (unreadable or corrupt
	// state). It is surfaced to the caller instead of silently
	// substituting empty data, so a registered voter never wrongly
	// appears unknown.
	ErrUnavailable = errors.New("store unavailable")
)

// Store is the single authority over the voter registry and the ballot
// record set. SubmitBallot performs the not-yet-voted check, the ballot
// append, and the used-flag flip as one atomic unit, so two concurrent
// submissions for the same identity can never both succeed.
type Store interface {
	// GetVoter resolves an identity (voter code or phone number).
	// Returns ErrVoterNotFound for unknown identities and
	// ErrAlreadyVoted when the voter's ballot is already recorded.
	// Never mutates state.
	GetVoter(identity string) (models.Voter, error)

	// SubmitBallot atomically records one ballot for the identity and
	// marks the voter as used. Selections are assumed schema-valid;
	// the duplicate-voter invariant is enforced here regardless.
	SubmitBallot(identity string, selections map[string]string, note, ip string) (models.VoteRecord, error)

	// Ballots returns every accepted ballot record.
	Ballots() ([]models.VoteRecord, error)

	// SeedVoters registers voters that are not yet present. Existing
	// entries, including their used flags, are left untouched.
	SeedVoters(voters []models.Voter) error

	Close() error
}

// registryFile mirrors the on-disk voters.json layout.
type registryFile struct {
	Voters []models.Voter `json:"voters"`
}

// votesFile mirrors the on-disk votes.json layout.
type votesFile struct {
	Votes []models.VoteRecord `json:"votes"`
}

// LoadRegistry reads a voters.json document. Used by the file store on
// every operation and by the SQL store once, to seed its voter table.
func LoadRegistry(path string) ([]models.Voter, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read registry: %v", ErrUnavailable, err)
	}
	var reg registryFile
	if err := json.Unmarshal(raw, &reg); err != nil {
		return nil, fmt.Errorf("%w: parse registry: %v", ErrUnavailable, err)
	}
	return reg.Voters, nil
}

// matchIdentity reports whether the identity string is this voter's
// code or phone number.
func matchIdentity(v models.Voter, identity string) bool {
	if v.ID == identity {
		return true
	}
	return v.Phone != "" && v.Phone == identity
}
