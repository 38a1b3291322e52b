// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for the tutor backend API.
const (
	// DefaultTimeout is the default timeout for API requests. Ask and
	// search calls can take a while server-side; keep this generous.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// requestsPerSecond caps the outbound request rate. The client is
	// interactive; anything above this is a runaway loop, not a user.
	requestsPerSecond = 5
	requestBurst      = 10
)

// Shared HTTP client with connection pooling for all backend requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// Credentials supplies bearer tokens to the request wrapper and handles
// token expiry. Implemented by auth.Session.
type Credentials interface {
	// AccessToken returns the current access token, or "" if not signed in.
	AccessToken() string

	// Refresh attempts a single token refresh after a 401 and reports
	// whether a new access token is available. Concurrent callers share
	// one in-flight refresh.
	Refresh(ctx context.Context) bool

	// Expire is invoked when a refresh fails after a 401. Implementations
	// clear local session state; the call that triggered it fails with
	// ErrAuthExpired.
	Expire()
}

// Client is an HTTP client for the Mentorae tutor backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	creds      Credentials
	limiter    *rate.Limiter
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: sharedHTTPClient,
		timeout:    DefaultTimeout,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
	}
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	c.httpClient = &http.Client{
		Transport: sharedHTTPClient.Transport,
		Timeout:   timeout,
	}
	return c
}

// WithHTTPClient sets a custom HTTP client. Used by tests.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.httpClient = h
	return c
}

// SetCredentials attaches the token source used by authenticated requests.
func (c *Client) SetCredentials(creds Credentials) {
	c.creds = creds
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// tokenFingerprint returns a short SHA-256 fingerprint of a token for
// logging. Token values themselves are never logged.
func tokenFingerprint(token string) string {
	if token == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h[:4])
}

// logRequest logs an API request without exposing sensitive data.
func (c *Client) logRequest(req *http.Request) {
	log.Printf("API Request: %s %s", req.Method, req.URL.Path)
	// Don't log headers (may contain auth)
	// Don't log body (may contain sensitive data)
}

// logResponse logs an API response with duration.
func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API Response: %d %s (%v)", resp.StatusCode, resp.Status, duration)
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// send performs a single HTTP request against the backend. bearer is
// attached as an Authorization header when non-empty.
func (c *Client) send(ctx context.Context, method, path string, body []byte, contentType, bearer string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	req.Header.Set("User-Agent", "mentorae-tui/"+Version)

	c.logRequest(req)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	c.logResponse(resp, time.Since(start))
	return resp, nil
}

// decode consumes resp as JSON into out, converting non-2xx statuses to
// *APIError. out may be nil when the payload is irrelevant.
func decode(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := ""
		var errBody struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(body, &errBody) == nil {
			msg = errBody.Message
			if msg == "" {
				msg = errBody.Error
			}
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// postJSON performs an unauthenticated JSON POST. Used by the auth
// endpoints, which carry their own credentials in the body.
func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}
	resp, err := c.send(ctx, http.MethodPost, path, payload, "application/json", "")
	if err != nil {
		return err
	}
	return decode(resp, out)
}

// authed performs a request with the bearer token from the attached
// Credentials, refreshing and retrying exactly once on a 401.
//
// The first 401 triggers a single Credentials.Refresh. If it succeeds the
// original request is replayed once with the new token and that result is
// returned, whatever it is. If the refresh fails the session is expired
// and the call fails with ErrAuthExpired. Non-401 statuses pass through
// unchanged; interpretation is the caller's responsibility.
func (c *Client) authed(ctx context.Context, method, path string, payload []byte, contentType string, out interface{}) error {
	if c.creds == nil || c.creds.AccessToken() == "" {
		return ErrNoToken
	}

	resp, err := c.send(ctx, method, path, payload, contentType, c.creds.AccessToken())
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseSize))
		resp.Body.Close()

		if !c.creds.Refresh(ctx) {
			c.creds.Expire()
			return ErrAuthExpired
		}

		// Exactly one retry with the refreshed token.
		resp, err = c.send(ctx, method, path, payload, contentType, c.creds.AccessToken())
		if err != nil {
			return err
		}
	}

	return decode(resp, out)
}

// authedJSON marshals in and performs an authenticated JSON request.
func (c *Client) authedJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}
	return c.authed(ctx, method, path, payload, "application/json", out)
}

// Version is the client version reported in the User-Agent header.
// Overridden at build time.
var Version = "0.1.0"
