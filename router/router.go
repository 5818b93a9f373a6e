// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/ballot-box/cliparse"
	"github.com/danielhkuo/ballot-box/handlers"
	"github.com/danielhkuo/ballot-box/middleware"
	"github.com/danielhkuo/ballot-box/schema"
	"github.com/danielhkuo/ballot-box/store"
	"github.com/danielhkuo/ballot-box/web"
)

func NewRouter(st store.Store, sch *schema.Schema, cfg cliparse.Config, state *handlers.CloseState) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	voting := handlers.NewVotingHandler(st, sch, cfg, state)
	admin := handlers.NewAdminHandler(st, sch, cfg, state)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Voting API (public)
	mux.HandleFunc("GET /api/schema", middleware.WithLogging(voting.Schema))
	mux.HandleFunc("POST /api/auth", middleware.WithLogging(voting.Authenticate))
	mux.HandleFunc("POST /api/vote", middleware.WithLogging(voting.SubmitVote))
	mux.HandleFunc("GET /api/status", middleware.WithLogging(voting.Status))

	// Admin view (key-gated)
	mux.HandleFunc("GET /admin", middleware.WithLogging(admin.Results))
	mux.HandleFunc("GET /admin/export.csv", middleware.WithLogging(admin.ExportCSV))
	mux.HandleFunc("POST /admin/close-at", middleware.WithLogging(admin.SetCloseAt))

	// Voting page
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(web.IndexHTML)
	})

	return middleware.CORS(mux)
}
