// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

// UserProfile identifies the signed-in user.
type UserProfile struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// LoginResponse is the response from /auth/login.
type LoginResponse struct {
	Success      bool        `json:"success"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserProfile `json:"user"`
	Message      string      `json:"message,omitempty"`
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	var resp LoginResponse
	if err := c.postJSON(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SignupResponse is the response from /auth/signup.
type SignupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Signup registers a new account. Field validation happens client-side in
// the auth package before this is called.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*SignupResponse, error) {
	req := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{name, email, password}

	var resp SignupResponse
	if err := c.postJSON(ctx, "/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshResponse is the response from /auth/refresh.
type RefreshResponse struct {
	Success      bool   `json:"success"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokens exchanges a refresh token for a fresh token pair.
func (c *Client) RefreshTokens(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	req := struct {
		RefreshToken string `json:"refresh_token"`
	}{refreshToken}

	var resp RefreshResponse
	if err := c.postJSON(ctx, "/auth/refresh", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyResponse is the response from /auth/verify.
type VerifyResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          UserProfile `json:"user"`
}

// Verify checks an access token with the auth service. The token is passed
// explicitly rather than through the request wrapper: a verification
// failure during bootstrap must not trigger the refresh-and-retry path.
func (c *Client) Verify(ctx context.Context, accessToken string) (*VerifyResponse, error) {
	resp, err := c.send(ctx, http.MethodGet, "/auth/verify", nil, "", accessToken)
	if err != nil {
		return nil, err
	}
	var out VerifyResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the session server-side. Best-effort; callers log
// failures and clear local state regardless.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	resp, err := c.send(ctx, http.MethodPost, "/auth/logout", nil, "", accessToken)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

// ClearSession resets the server-side conversation session and vector
// store. Goes through the authenticated request wrapper.
func (c *Client) ClearSession(ctx context.Context) error {
	return c.authedJSON(ctx, http.MethodPost, "/clear-session", nil, nil)
}

// =============================================================================
// ASK / SEARCH ENDPOINTS
// =============================================================================

// AskResponse is the response from /ask. Field names match the backend's
// JSON exactly, including the camelCase display hints.
type AskResponse struct {
	Response              string `json:"response"`
	HasScraping           bool   `json:"hasScraping,omitempty"`
	Scraped               string `json:"scraped,omitempty"`
	HasRetrieval          bool   `json:"hasRetrieval,omitempty"`
	Retrieved             string `json:"retrieved,omitempty"`
	ShowSourcesSeparately bool   `json:"showSourcesSeparately,omitempty"`
}

// Ask sends a query through the authenticated request wrapper.
func (c *Client) Ask(ctx context.Context, query string) (*AskResponse, error) {
	req := struct {
		Query string `json:"query"`
	}{query}

	var resp AskResponse
	if err := c.authedJSON(ctx, http.MethodPost, "/ask", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ImageAskResponse is the response from /ask-about-image.
type ImageAskResponse struct {
	Response string `json:"response"`
}

// AskAboutImage sends an image-grounded query. imageData is the opaque
// image_data payload previously returned by ProcessImage, replayed as-is.
func (c *Client) AskAboutImage(ctx context.Context, query string, imageData json.RawMessage, imageAnalysis string) (*ImageAskResponse, error) {
	req := struct {
		Query         string          `json:"query"`
		ImageData     json.RawMessage `json:"image_data"`
		ImageAnalysis string          `json:"image_analysis"`
	}{query, imageData, imageAnalysis}

	var resp ImageAskResponse
	if err := c.postJSON(ctx, "/ask-about-image", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchResult is one web result in an enhanced-search payload.
type SearchResult struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Domain string `json:"domain"`
}

// SearchVideo is one educational video in an enhanced-search payload.
type SearchVideo struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Channel  string `json:"channel"`
	Duration string `json:"duration"`
}

// SearchData is the search_data object of an enhanced-search response.
type SearchData struct {
	Query        string         `json:"query"`
	Answer       string         `json:"answer"`
	Results      []SearchResult `json:"results"`
	Videos       []SearchVideo  `json:"videos"`
	TotalResults int            `json:"total_results"`
}

// SearchResponse is the response from /enhanced-search.
type SearchResponse struct {
	Success    bool        `json:"success"`
	SearchData *SearchData `json:"search_data"`
	Timeout    bool        `json:"timeout,omitempty"`
	EngineUsed string      `json:"engine_used,omitempty"`
}

// EnhancedSearch runs a server-side web search. An HTTP 408 is the
// endpoint's distinguished timeout signal and maps to ErrSearchTimeout;
// every other failure surfaces normally.
func (c *Client) EnhancedSearch(ctx context.Context, query, searchType string) (*SearchResponse, error) {
	req := struct {
		Query      string `json:"query"`
		SearchType string `json:"search_type"`
	}{query, searchType}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	resp, err := c.send(ctx, http.MethodPost, "/enhanced-search", payload, "application/json", "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusRequestTimeout {
		io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseSize))
		resp.Body.Close()
		return nil, ErrSearchTimeout
	}

	var out SearchResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// UPLOAD ENDPOINTS
// =============================================================================

// UploadFile is a named document body for a multipart upload.
type UploadFile struct {
	Name string
	Data []byte
}

// RAGResponse is the response from /initialize-rag.
type RAGResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// InitializeRAG uploads documents as multipart form data under the
// "files" field and asks the backend to index them.
func (c *Client) InitializeRAG(ctx context.Context, files []UploadFile) (*RAGResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to build upload: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("failed to build upload: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, "/initialize-rag", buf.Bytes(), w.FormDataContentType(), "")
	if err != nil {
		return nil, err
	}
	var out RAGResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InitializeRAGFolder asks the backend to index a server-visible folder,
// identified by name in the "folder" form field.
func (c *Client) InitializeRAGFolder(ctx context.Context, folder string) (*RAGResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("folder", folder); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, "/initialize-rag", buf.Bytes(), w.FormDataContentType(), "")
	if err != nil {
		return nil, err
	}
	var out RAGResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessImageResponse is the response from /process-image. ImageData is
// kept opaque so it can be replayed verbatim to /ask-about-image.
type ProcessImageResponse struct {
	Success   bool            `json:"success"`
	Analysis  string          `json:"analysis"`
	ImageData json.RawMessage `json:"image_data"`
	Message   string          `json:"message,omitempty"`
}

// ExtractedText pulls the OCR text out of the opaque image_data payload.
// Returns "" when the payload has none.
func (r *ProcessImageResponse) ExtractedText() string {
	var inner struct {
		ExtractedText string `json:"extracted_text"`
	}
	if err := json.Unmarshal(r.ImageData, &inner); err != nil {
		return ""
	}
	return inner.ExtractedText
}

// ProcessImage uploads an image for analysis. query optionally carries the
// user's current input as context.
func (c *Client) ProcessImage(ctx context.Context, filename string, image []byte, query string) (*ProcessImageResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if query != "" {
		if err := w.WriteField("query", query); err != nil {
			return nil, fmt.Errorf("failed to build upload: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	resp, err := c.send(ctx, http.MethodPost, "/process-image", buf.Bytes(), w.FormDataContentType(), "")
	if err != nil {
		return nil, err
	}
	var out ProcessImageResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// SPEECH ENDPOINTS
// =============================================================================

// SpeechToTextResponse is the response from /speech-to-text.
type SpeechToTextResponse struct {
	Query string `json:"query"`
}

// SpeechToText starts a server-side capture and blocks until the backend
// returns recognized text (possibly empty).
func (c *Client) SpeechToText(ctx context.Context) (*SpeechToTextResponse, error) {
	var resp SpeechToTextResponse
	if err := c.postJSON(ctx, "/speech-to-text", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TextToSpeech asks the backend to speak text. Fire-and-forget.
func (c *Client) TextToSpeech(ctx context.Context, text string) error {
	req := struct {
		Text string `json:"text"`
	}{text}
	return c.postJSON(ctx, "/text-to-speech", req, nil)
}

// StopResponse is the response from the stop endpoints.
type StopResponse struct {
	Success bool `json:"success"`
}

// StopListening cancels an in-progress speech capture. Best-effort.
func (c *Client) StopListening(ctx context.Context) error {
	return c.postJSON(ctx, "/stop-listening", nil, nil)
}

// StopSpeech asks the backend to halt text-to-speech playback. A single
// attempt; the voice controller owns the bounded retry policy.
func (c *Client) StopSpeech(ctx context.Context) (*StopResponse, error) {
	var resp StopResponse
	if err := c.postJSON(ctx, "/stop-speech", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
