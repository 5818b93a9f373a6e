// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalidSchema is wrapped by every validation failure so callers
// can distinguish a bad schema file from an unreadable one.
var ErrInvalidSchema = errors.New("invalid election schema")

// Position is a single electable office (a race). Immutable after load.
type Position struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	MaxChoices int    `json:"maxChoices,omitempty"`
}

// Candidate runs for exactly one position. Immutable after load.
type Candidate struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Bio    string `json:"bio,omitempty"`
	RaceID string `json:"raceId"`
}

// Schema is the full election description: every open race and every
// candidate, in declaration order. Declaration order is preserved and
// drives the admin results table and CSV export.
type Schema struct {
	Positions  []Position  `json:"positions"`
	Candidates []Candidate `json:"candidates"`
}

// Load reads and validates the schema file. A missing or unreadable
// file is an I/O error; structurally bad content wraps ErrInvalidSchema.
// The server refuses to start on either rather than defaulting to an
// empty election.
func Load(path string) (*Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	var s Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidSchema, path, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// Validate checks referential integrity once, at load time.
func (s *Schema) Validate() error {
	if len(s.Positions) == 0 {
		return fmt.Errorf("%w: no positions declared", ErrInvalidSchema)
	}

	positions := make(map[string]bool, len(s.Positions))
	for _, p := range s.Positions {
		if p.ID == "" {
			return fmt.Errorf("%w: position with empty id", ErrInvalidSchema)
		}
		if positions[p.ID] {
			return fmt.Errorf("%w: duplicate position id %q", ErrInvalidSchema, p.ID)
		}
		if p.MaxChoices < 0 {
			return fmt.Errorf("%w: position %q has negative maxChoices", ErrInvalidSchema, p.ID)
		}
		positions[p.ID] = true
	}

	candidates := make(map[string]bool, len(s.Candidates))
	for _, c := range s.Candidates {
		if c.ID == "" {
			return fmt.Errorf("%w: candidate with empty id", ErrInvalidSchema)
		}
		if candidates[c.ID] {
			return fmt.Errorf("%w: duplicate candidate id %q", ErrInvalidSchema, c.ID)
		}
		if !positions[c.RaceID] {
			return fmt.Errorf("%w: candidate %q references unknown race %q", ErrInvalidSchema, c.ID, c.RaceID)
		}
		candidates[c.ID] = true
	}

	return nil
}

// CandidatesFor returns the candidates of one race in declaration order.
func (s *Schema) CandidatesFor(raceID string) []Candidate {
	var out []Candidate
	for _, c := range s.Candidates {
		if c.RaceID == raceID {
			out = append(out, c)
		}
	}
	return out
}

// HasCandidate reports whether candidateID runs in raceID.
func (s *Schema) HasCandidate(raceID, candidateID string) bool {
	for _, c := range s.Candidates {
		if c.ID == candidateID && c.RaceID == raceID {
			return true
		}
	}
	return false
}

// PositionByID returns the declared position, if any.
func (s *Schema) PositionByID(raceID string) (Position, bool) {
	for _, p := range s.Positions {
		if p.ID == raceID {
			return p, true
		}
	}
	return Position{}, false
}

// CandidateByID returns the declared candidate, if any.
func (s *Schema) CandidateByID(candidateID string) (Candidate, bool) {
	for _, c := range s.Candidates {
		if c.ID == candidateID {
			return c, true
		}
	}
	return Candidate{}, false
}
