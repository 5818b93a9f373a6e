// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidAdminKey = errors.New("invalid admin key")

// VerifyAdminKey compares the presented key against the configured one.
// hmac.Equal keeps the comparison constant-time so the key cannot be
// guessed byte by byte.
func VerifyAdminKey(presented, configured string) error {
	if configured == "" || !hmac.Equal([]byte(presented), []byte(configured)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// NewBallotID returns a globally unique receipt id for an accepted
// ballot.
func NewBallotID() string {
	return uuid.NewString()
}
