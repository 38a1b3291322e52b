// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the Mentorae tutor backend.
//
// The backend exposes ask, enhanced-search, RAG upload, image and speech
// endpoints plus an /auth/* surface. This package implements typed
// request/response structures for each endpoint and the authenticated
// request wrapper that attaches bearer tokens and handles token expiry.
//
// # Key Types
//
//   - Client: pooled HTTP client with rate limiting and secure logging
//   - Credentials: token source interface, implemented by auth.Session
//   - APIError: typed non-2xx response error
//
// # The 401 contract
//
// Authenticated requests that see a 401 trigger exactly one token refresh
// and, when it succeeds, exactly one replay of the original request. A
// failed refresh expires the session and the call fails with
// ErrAuthExpired. Other statuses pass through to the caller untouched.
//
// # Security
//
// Token values are never logged; where an identifier is needed a SHA-256
// fingerprint prefix is used instead. Response bodies are size-limited and
// all connections require TLS 1.2+.
package api
