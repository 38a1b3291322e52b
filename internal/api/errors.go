// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// Error variables for common backend failures.
var (
	// ErrNoToken indicates a request that requires authentication was
	// attempted without an access token.
	ErrNoToken = errors.New("not signed in")

	// ErrAuthExpired indicates the access token was rejected and the
	// refresh attempt failed. The session has been forced out.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrSearchTimeout indicates the enhanced-search endpoint reported a
	// timeout (HTTP 408) before producing results.
	ErrSearchTimeout = errors.New("search timed out")

	// ErrUpstream indicates the service answered structurally
	// (success:false) rather than with an HTTP error.
	ErrUpstream = errors.New("upstream failure")
)

// APIError represents a non-2xx response from the tutor backend.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// IsTransport reports whether err is a transport-level failure rather than
// an HTTP status or structural error. Callers use this to pick between the
// "unavailable" and "failed" notices.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	return !errors.Is(err, ErrUpstream) &&
		!errors.Is(err, ErrSearchTimeout) &&
		!errors.Is(err, ErrAuthExpired) &&
		!errors.Is(err, ErrNoToken)
}
