// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"sync"
	"time"
)

// CloseState holds the process-wide close instant. Constructed at
// startup, injected into handlers, and updated only through the
// key-gated admin operation.
//
// The check happens per request; ballots accepted before the instant
// passes are never invalidated retroactively.
type CloseState struct {
	mu sync.RWMutex
	at *time.Time
}

func NewCloseState() *CloseState {
	return &CloseState{}
}

// Set replaces the close instant. A nil value reopens voting.
func (cs *CloseState) Set(t *time.Time) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.at = t
}

// At returns the configured close instant, or nil when none is set.
func (cs *CloseState) At() *time.Time {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.at
}

// Closed reports whether voting is closed at the given instant.
func (cs *CloseState) Closed(now time.Time) bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.at != nil && now.After(*cs.at)
}
