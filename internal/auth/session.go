// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mentorae/tutor-tui/internal/api"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrValidation marks client-side field validation failures. These
	// never reach the network.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials indicates the auth service rejected the
	// login credentials.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError is a field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// =============================================================================
// SESSION STATE MACHINE
// =============================================================================

// State is the auth session state.
type State int

const (
	// Unauthenticated is the initial state and the result of logout or a
	// failed refresh.
	Unauthenticated State = iota

	// Verifying is the transient state while stored tokens are checked
	// against the auth service during bootstrap.
	Verifying

	// Authenticated means a verified token pair and user profile are held.
	Authenticated
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case Verifying:
		return "verifying"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Session owns the authenticated user and token pair. It is the only
// holder of token state; the TokenStore is its durable mirror. Session
// implements api.Credentials, so attaching it to a client routes all
// bearer-token concerns here.
type Session struct {
	mu      sync.Mutex
	state   State
	user    *api.UserProfile
	access  string
	refresh string

	client *api.Client
	store  *TokenStore

	// group collapses concurrent 401-triggered refreshes into a single
	// in-flight call against /auth/refresh.
	group singleflight.Group

	// onClear callbacks run whenever the session empties (logout, failed
	// refresh, failed bootstrap): the conversation controller registers
	// here to drop rendered history and reset its flags.
	onClear []func()
}

// NewSession creates a session bound to client and store, and attaches
// itself as the client's credential source.
func NewSession(client *api.Client, store *TokenStore) *Session {
	s := &Session{client: client, store: store}
	client.SetCredentials(s)
	return s
}

// OnClear registers a callback invoked after the session clears.
func (s *Session) OnClear(fn func()) {
	s.mu.Lock()
	s.onClear = append(s.onClear, fn)
	s.mu.Unlock()
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the current user profile, or nil when signed out.
func (s *Session) User() *api.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// AccessToken implements api.Credentials.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access
}

// IsAuthenticated reports whether a verified session is held.
func (s *Session) IsAuthenticated() bool {
	return s.State() == Authenticated
}

// =============================================================================
// BOOTSTRAP
// =============================================================================

// Bootstrap restores a session at startup. It first consumes an optional
// one-time fragment token pair (produced by an OAuth-style redirect and
// handed to the process as a callback URL), persisting it before
// verification. Then it loads stored tokens and verifies them with the
// auth service. Verification failure clears storage and leaves the
// session unauthenticated; that is not an error.
func (s *Session) Bootstrap(ctx context.Context, fragment string) error {
	if access, refresh, ok := parseFragment(fragment); ok {
		if err := s.store.Save(access, refresh); err != nil {
			return fmt.Errorf("failed to persist callback tokens: %w", err)
		}
	}

	access, refresh, ok := s.store.Load()
	if !ok {
		return nil
	}

	s.mu.Lock()
	s.state = Verifying
	s.mu.Unlock()

	v, err := s.client.Verify(ctx, access)
	if err != nil || !v.Authenticated {
		if err != nil {
			log.Printf("auth: token verification failed: %v", err)
		}
		s.clear()
		return nil
	}

	s.mu.Lock()
	s.state = Authenticated
	s.access = access
	s.refresh = refresh
	user := v.User
	s.user = &user
	s.mu.Unlock()
	return nil
}

// parseFragment extracts a one-time token pair from a callback URL
// fragment such as "mentorae://auth#access_token=..&refresh_token=..".
// A bare fragment (with or without the leading '#') is also accepted.
// Absent or incomplete fragments report ok=false.
func parseFragment(fragment string) (access, refresh string, ok bool) {
	if fragment == "" {
		return "", "", false
	}
	if _, after, found := strings.Cut(fragment, "#"); found {
		fragment = after
	}
	values, err := url.ParseQuery(fragment)
	if err != nil {
		return "", "", false
	}
	access = values.Get("access_token")
	refresh = values.Get("refresh_token")
	if access == "" || refresh == "" {
		return "", "", false
	}
	return access, refresh, true
}

// =============================================================================
// LOGIN / SIGNUP
// =============================================================================

// Login authenticates with the auth service. Empty fields fail with a
// ValidationError before any network call.
func (s *Session) Login(ctx context.Context, email, password string) (*api.UserProfile, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, &ValidationError{Field: "email", Message: "email is required"}
	}
	if password == "" {
		return nil, &ValidationError{Field: "password", Message: "password is required"}
	}

	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && (apiErr.Status == 401 || apiErr.Status == 403) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !resp.Success || resp.AccessToken == "" {
		return nil, ErrInvalidCredentials
	}

	if err := s.store.Save(resp.AccessToken, resp.RefreshToken); err != nil {
		// A session that survives only until exit is still a session.
		log.Printf("auth: failed to persist tokens: %v", err)
	}

	s.mu.Lock()
	s.state = Authenticated
	s.access = resp.AccessToken
	s.refresh = resp.RefreshToken
	user := resp.User
	s.user = &user
	s.mu.Unlock()
	return &user, nil
}

// Signup registers a new account. All checks are client-side and happen
// before any request: no empty field, matching passwords, minimum length.
func (s *Session) Signup(ctx context.Context, name, email, password, confirm string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	switch {
	case name == "":
		return &ValidationError{Field: "name", Message: "name is required"}
	case email == "":
		return &ValidationError{Field: "email", Message: "email is required"}
	case password == "":
		return &ValidationError{Field: "password", Message: "password is required"}
	case password != confirm:
		return &ValidationError{Field: "password", Message: "passwords do not match"}
	case len(password) < 6:
		return &ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}

	resp, err := s.client.Signup(ctx, name, email, password)
	if err != nil {
		return err
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "signup rejected"
		}
		return fmt.Errorf("%w: %s", api.ErrUpstream, msg)
	}
	return nil
}

// =============================================================================
// LOGOUT / REFRESH / EXPIRE
// =============================================================================

// Logout ends the session. confirm is a caller-supplied predicate (a UI
// prompt, or a constant in tests); a nil predicate confirms. When
// declined, nothing changes. When confirmed, the logout endpoint is
// called best-effort and local state is cleared unconditionally.
func (s *Session) Logout(ctx context.Context, confirm func() bool) error {
	if confirm != nil && !confirm() {
		return nil
	}

	s.mu.Lock()
	access := s.access
	s.mu.Unlock()

	if access != "" {
		if err := s.client.Logout(ctx, access); err != nil {
			log.Printf("auth: logout request failed: %v", err)
		}
	}
	s.clear()
	return nil
}

// Refresh implements api.Credentials. It exchanges the held refresh token
// for a new pair, reporting success. With no refresh token it returns
// false immediately; on any failure it returns false without mutating
// state. Concurrent callers share a single in-flight refresh.
func (s *Session) Refresh(ctx context.Context) bool {
	ok, _, _ := s.group.Do("refresh", func() (interface{}, error) {
		s.mu.Lock()
		refresh := s.refresh
		s.mu.Unlock()
		if refresh == "" {
			return false, nil
		}

		resp, err := s.client.RefreshTokens(ctx, refresh)
		if err != nil || !resp.Success || resp.AccessToken == "" {
			if err != nil {
				log.Printf("auth: token refresh failed: %v", err)
			}
			return false, nil
		}

		s.mu.Lock()
		s.access = resp.AccessToken
		s.refresh = resp.RefreshToken
		s.mu.Unlock()
		if err := s.store.Save(resp.AccessToken, resp.RefreshToken); err != nil {
			log.Printf("auth: failed to persist refreshed tokens: %v", err)
		}
		return true, nil
	})
	result, _ := ok.(bool)
	return result
}

// Expire implements api.Credentials: a failed refresh after a 401 forces
// the session out without confirmation.
func (s *Session) Expire() {
	s.clear()
}

// clear empties the session and its durable mirror, then runs the
// registered onClear callbacks.
func (s *Session) clear() {
	s.mu.Lock()
	s.state = Unauthenticated
	s.user = nil
	s.access = ""
	s.refresh = ""
	callbacks := make([]func(), len(s.onClear))
	copy(callbacks, s.onClear)
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		log.Printf("auth: failed to clear token store: %v", err)
	}
	for _, fn := range callbacks {
		fn()
	}
}

// Origin derives the storage-scoping origin (scheme://host) from a
// backend base URL, mirroring browser origin scoping.
func Origin(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid server URL: %s", baseURL)
	}
	return u.Scheme + "://" + u.Host, nil
}
