// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Request types

type AuthRequest struct {
	Identity string `json:"identity"`
}

// raceId -> candidateId, exactly one entry per declared race
type VoteRequest struct {
	Identity   string            `json:"identity"`
	Selections map[string]string `json:"selections"`
	Note       string            `json:"note,omitempty"`
}

type CloseAtRequest struct {
	ISODate string `json:"isoDate"`
}

// Response types

type AuthResponse struct {
	OK bool `json:"ok"`
}

type VoteResponse struct {
	OK        bool   `json:"ok"`
	BallotID  string `json:"ballotId"`
	NotifyURL string `json:"notifyUrl,omitempty"`
}

type StatusResponse struct {
	CloseAt *time.Time `json:"closeAt"`
}

type CloseAtResponse struct {
	OK      bool       `json:"ok"`
	CloseAt *time.Time `json:"closeAt"`
}

// Domain types

type Voter struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Used  bool   `json:"used"`
}

// VoteRecord is one accepted ballot. Append-only; never mutated or
// deleted after creation.
type VoteRecord struct {
	ID         string            `json:"id"`
	VoterID    string            `json:"voterId"`
	Selections map[string]string `json:"selections"`
	TS         time.Time         `json:"ts"`
	Note       string            `json:"note,omitempty"`
	IP         string            `json:"ip,omitempty"`
}

// Tally maps race id -> candidate id -> vote count. Derived, never
// stored; recomputed from the full ballot set on every read.
type Tally map[string]map[string]int

// Error response

type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}
