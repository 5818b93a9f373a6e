// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires the HTTP surface using Go 1.22+ method patterns:

	GET  /               voting page
	GET  /health         liveness check
	GET  /api/schema     races and candidates
	POST /api/auth       voter identity check
	POST /api/vote       ballot submission
	GET  /api/status     close time or null
	GET  /admin          results page (key-gated)
	GET  /admin/export.csv
	POST /admin/close-at

All routes share the logging middleware; the whole mux is wrapped in
CORS for separately hosted frontends.
*/
package router
