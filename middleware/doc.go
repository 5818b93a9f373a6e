// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP plumbing shared by all handlers:
request logging with status capture, JSON request/response helpers,
CORS, and client IP extraction.
*/
package middleware
