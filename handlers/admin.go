// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/csv"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/ballot-box/auth"
	"github.com/danielhkuo/ballot-box/cliparse"
	"github.com/danielhkuo/ballot-box/middleware"
	"github.com/danielhkuo/ballot-box/models"
	"github.com/danielhkuo/ballot-box/schema"
	"github.com/danielhkuo/ballot-box/store"
)

type AdminHandler struct {
	store  store.Store
	schema *schema.Schema
	cfg    cliparse.Config
	state  *CloseState
}

func NewAdminHandler(st store.Store, sch *schema.Schema, cfg cliparse.Config, state *CloseState) *AdminHandler {
	return &AdminHandler{store: st, schema: sch, cfg: cfg, state: state}
}

const resultsPage = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Election Results</title>
<style>
body{font-family:system-ui,sans-serif;padding:20px;background:#0f172a;color:#f8fafc}
table{width:100%;border-collapse:collapse;margin-top:10px}
td,th{border:1px solid rgba(255,255,255,.1);padding:8px;text-align:left}
.muted{color:#9ca3af}
a button{padding:8px 14px;border-radius:8px;border:none;background:#22c55e;color:#052e16;font-weight:700;cursor:pointer}
</style>
</head>
<body>
<h2>Live results</h2>
<p class="muted">Ballots recorded: {{.BallotCount}}{{if .CloseAt}} &middot; closes {{.CloseAt.Format "2006-01-02 15:04 MST"}}{{end}}</p>
<a href="/admin/export.csv?key={{.Key}}"><button>Download CSV</button></a>
<table>
<thead><tr><th>Race</th><th>Candidate</th><th>Votes</th></tr></thead>
<tbody>
{{range .Rows}}<tr><td>{{.Race}}</td><td>{{.Candidate}}</td><td>{{.Count}}</td></tr>
{{end}}</tbody>
</table>
</body>
</html>`

var resultsTmpl = template.Must(template.New("results").Parse(resultsPage))

type resultRow struct {
	Race      string
	Candidate string
	Count     int
}

type resultsData struct {
	BallotCount int
	CloseAt     *time.Time
	Key         string
	Rows        []resultRow
}

// resultRows flattens the tally into (race, candidate, count) rows in
// schema declaration order.
func (h *AdminHandler) resultRows(tally models.Tally) []resultRow {
	var rows []resultRow
	for _, pos := range h.schema.Positions {
		for _, cand := range h.schema.CandidatesFor(pos.ID) {
			rows = append(rows, resultRow{
				Race:      pos.Title,
				Candidate: cand.Name,
				Count:     tally[pos.ID][cand.ID],
			})
		}
	}
	return rows
}

// Results handles GET /admin?key=...
// Renders the live results table. Tallies are recomputed from the full
// ballot set on every read.
func (h *AdminHandler) Results(w http.ResponseWriter, r *http.Request) {
	if err := auth.VerifyAdminKey(r.URL.Query().Get("key"), h.cfg.AdminKey); err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ballots, err := h.store.Ballots()
	if err != nil {
		slog.Error("failed to read ballots", "error", err)
		http.Error(w, "Storage unavailable", http.StatusInternalServerError)
		return
	}

	data := resultsData{
		BallotCount: len(ballots),
		CloseAt:     h.state.At(),
		Key:         h.cfg.AdminKey,
		Rows:        h.resultRows(ComputeTally(h.schema, ballots)),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := resultsTmpl.Execute(w, data); err != nil {
		slog.Error("failed to render results page", "error", err)
	}
}

// ExportCSV handles GET /admin/export.csv?key=...
// One row per (race, candidate, count) in schema declaration order.
func (h *AdminHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	if err := auth.VerifyAdminKey(r.URL.Query().Get("key"), h.cfg.AdminKey); err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ballots, err := h.store.Ballots()
	if err != nil {
		slog.Error("failed to read ballots", "error", err)
		http.Error(w, "Storage unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="results.csv"`)

	cw := csv.NewWriter(w)
	cw.Write([]string{"poste", "candidat", "votes"})
	for _, row := range h.resultRows(ComputeTally(h.schema, ballots)) {
		cw.Write([]string{row.Race, row.Candidate, strconv.Itoa(row.Count)})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.Error("failed to write CSV export", "error", err)
	}
}

// SetCloseAt handles POST /admin/close-at?key=...
// Sets the process-wide close instant; an empty isoDate reopens voting.
func (h *AdminHandler) SetCloseAt(w http.ResponseWriter, r *http.Request) {
	if err := auth.VerifyAdminKey(r.URL.Query().Get("key"), h.cfg.AdminKey); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CloseAtRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ISODate == "" {
		h.state.Set(nil)
		slog.Info("close time cleared")
		middleware.JSONResponse(w, http.StatusOK, models.CloseAtResponse{OK: true})
		return
	}

	closeAt, err := time.Parse(time.RFC3339, req.ISODate)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "isoDate must be a valid RFC 3339 timestamp")
		return
	}

	h.state.Set(&closeAt)
	slog.Info("close time set", "close_at", closeAt)

	middleware.JSONResponse(w, http.StatusOK, models.CloseAtResponse{OK: true, CloseAt: &closeAt})
}
