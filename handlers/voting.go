// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielhkuo/ballot-box/cliparse"
	"github.com/danielhkuo/ballot-box/middleware"
	"github.com/danielhkuo/ballot-box/models"
	"github.com/danielhkuo/ballot-box/schema"
	"github.com/danielhkuo/ballot-box/store"
)

type VotingHandler struct {
	store  store.Store
	schema *schema.Schema
	cfg    cliparse.Config
	state  *CloseState
}

func NewVotingHandler(st store.Store, sch *schema.Schema, cfg cliparse.Config, state *CloseState) *VotingHandler {
	return &VotingHandler{store: st, schema: sch, cfg: cfg, state: state}
}

// Schema handles GET /api/schema
func (h *VotingHandler) Schema(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.schema)
}

// Status handles GET /api/status
func (h *VotingHandler) Status(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{
		CloseAt: h.state.At(),
	})
}

// Authenticate handles POST /api/auth
// Checks the voter code or phone number against the registry. Never
// mutates state.
func (h *VotingHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req models.AuthRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Identity = strings.TrimSpace(req.Identity)
	if req.Identity == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "identity is required")
		return
	}

	_, err := h.store.GetVoter(req.Identity)
	switch {
	case errors.Is(err, store.ErrVoterNotFound):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Voter code not found")
		return
	case errors.Is(err, store.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusBadRequest, "This code has already voted")
		return
	case err != nil:
		slog.Error("failed to look up voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage unavailable")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{OK: true})
}

// SubmitVote handles POST /api/vote
// Validates the selections against the schema, then hands the
// check-append-mark sequence to the store as one atomic unit.
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	if h.state.Closed(time.Now()) {
		middleware.ErrorResponse(w, http.StatusLocked, "Voting is closed")
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Identity = strings.TrimSpace(req.Identity)
	if req.Identity == "" || len(req.Selections) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request")
		return
	}

	// One selection per declared race, candidate must belong to it.
	for _, pos := range h.schema.Positions {
		candidateID, ok := req.Selections[pos.ID]
		if !ok {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Missing selection for race: "+pos.Title)
			return
		}
		if !h.schema.HasCandidate(pos.ID, candidateID) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid candidate for race: "+pos.Title)
			return
		}
	}
	for raceID := range req.Selections {
		if _, ok := h.schema.PositionByID(raceID); !ok {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown race: "+raceID)
			return
		}
	}

	clientIP := middleware.GetClientIP(r)
	record, err := h.store.SubmitBallot(req.Identity, req.Selections, strings.TrimSpace(req.Note), clientIP)
	switch {
	case errors.Is(err, store.ErrVoterNotFound):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Voter code not found")
		return
	case errors.Is(err, store.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusBadRequest, "This code has already voted")
		return
	case err != nil:
		slog.Error("failed to submit ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Storage unavailable")
		return
	}

	slog.Info("ballot accepted", "ballot_id", record.ID)

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		OK:        true,
		BallotID:  record.ID,
		NotifyURL: h.notifyURL(record),
	})
}

// notifyURL composes a pre-filled message link to the configured admin
// contact summarizing the choices. Notification convenience only; the
// ballot is already recorded when this runs.
func (h *VotingHandler) notifyURL(record models.VoteRecord) string {
	if h.cfg.AdminContact == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("Hello Admin,\nHere is my vote:\n")
	for _, pos := range h.schema.Positions {
		cand, ok := h.schema.CandidateByID(record.Selections[pos.ID])
		if !ok {
			continue
		}
		b.WriteString("- " + pos.Title + ": " + cand.Name + "\n")
	}
	b.WriteString("\nReceipt: " + record.ID)

	return "https://wa.me/" + h.cfg.AdminContact + "?text=" + url.QueryEscape(b.String())
}
