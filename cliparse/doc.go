// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse parses server configuration from CLI flags with
environment variable fallback.

Required settings:

  - ADMIN_KEY (-admin-key): secret gating the /admin surface
  - DATABASE_URL (-db): only for sqlite/postgres store types

Optional settings:

  - PORT (-p): listen port (default 3000)
  - DATA_DIR (-d): schema/registry/ballot directory (default "data")
  - STORE_TYPE (-t): file, sqlite or postgres (default "file")
  - ADMIN_CONTACT: phone number for the pre-filled receipt message link
*/
package cliparse
