// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"github.com/danielhkuo/ballot-box/models"
	"github.com/danielhkuo/ballot-box/schema"
)

// ComputeTally aggregates accepted ballots into per-race, per-candidate
// counts. Every declared candidate starts at zero, so races with no
// votes still appear in the output. Selections referencing races or
// candidates no longer in the schema are skipped; counts are always
// well-defined and non-negative.
func ComputeTally(s *schema.Schema, ballots []models.VoteRecord) models.Tally {
	tally := make(models.Tally, len(s.Positions))
	for _, p := range s.Positions {
		counts := make(map[string]int)
		for _, c := range s.CandidatesFor(p.ID) {
			counts[c.ID] = 0
		}
		tally[p.ID] = counts
	}

	for _, b := range ballots {
		for raceID, candidateID := range b.Selections {
			if counts, ok := tally[raceID]; ok {
				if _, declared := counts[candidateID]; declared {
					counts[candidateID]++
				}
			}
		}
	}

	return tally
}
