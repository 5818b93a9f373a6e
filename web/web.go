// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package web embeds the static voting page served at GET /.
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte
