// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth owns the user session and durable token storage.
//
// # Key Types
//
// Session is the auth state machine (unauthenticated, verifying,
// authenticated). It implements api.Credentials, so the API client's
// authenticated request wrapper pulls its bearer token and its
// refresh-on-401 behavior from here. Concurrent refreshes collapse to
// one in-flight call via singleflight.
//
// TokenStore persists the token pair in a SQLite database under the
// user's data directory, scoped by server origin so sessions against
// different backends never mix.
//
// # Security
//
// Tokens are sealed with AES-256-GCM before touching disk. The sealing
// key is derived with PBKDF2-SHA256 from a random per-install secret
// stored next to the database with 0600 permissions. Unreadable or
// tampered rows are treated as absent, never surfaced.
package auth
