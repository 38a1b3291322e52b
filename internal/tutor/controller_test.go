// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mentorae/tutor-tui/internal/api"
	"github.com/mentorae/tutor-tui/internal/config"
)

// =============================================================================
// FAKES
// =============================================================================

// fakeRenderer records transcript events in order as "kind:payload".
type fakeRenderer struct {
	mu     sync.Mutex
	events []string
}

func (r *fakeRenderer) record(kind, payload string) {
	r.mu.Lock()
	r.events = append(r.events, kind+":"+payload)
	r.mu.Unlock()
}

func (r *fakeRenderer) AppendUser(text string)          { r.record("user", text) }
func (r *fakeRenderer) BeginPending(id, label string)   { r.record("pending", label) }
func (r *fakeRenderer) ResolvePending(id, md string)    { r.record("resolve", md) }
func (r *fakeRenderer) RemovePending(id string)         { r.record("remove", "") }
func (r *fakeRenderer) AppendReply(md string)           { r.record("reply", md) }
func (r *fakeRenderer) Notice(text string)              { r.record("notice", text) }
func (r *fakeRenderer) AppendReferences(refs []string)  { r.record("refs", strings.Join(refs, "|")) }
func (r *fakeRenderer) ClearTranscript()                { r.record("clear", "") }
func (r *fakeRenderer) AppendSources(d *api.SearchData, max int) {
	r.record("sources", d.Query)
}

// kinds returns the event kinds in order.
func (r *fakeRenderer) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e[:strings.Index(e, ":")]
	}
	return out
}

// has reports whether any event matches the given kind and substring.
func (r *fakeRenderer) has(kind, substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if strings.HasPrefix(e, kind+":") && strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func (r *fakeRenderer) count(kind string) int {
	n := 0
	for _, k := range r.kinds() {
		if k == kind {
			n++
		}
	}
	return n
}

// fakeBackend scripts backend behavior with per-endpoint functions.
type fakeBackend struct {
	mu          sync.Mutex
	askCalls    int
	searchCalls int
	imageCalls  int
	clearCalls  int
	ttsCalls    int

	lastSearchType string

	askFn    func(query string) (*api.AskResponse, error)
	imageFn  func(query string, data json.RawMessage, analysis string) (*api.ImageAskResponse, error)
	searchFn func(query, searchType string) (*api.SearchResponse, error)
	clearFn  func() error
}

func (b *fakeBackend) Ask(ctx context.Context, query string) (*api.AskResponse, error) {
	b.mu.Lock()
	b.askCalls++
	fn := b.askFn
	b.mu.Unlock()
	if fn != nil {
		return fn(query)
	}
	return &api.AskResponse{Response: "answer to " + query}, nil
}

func (b *fakeBackend) AskAboutImage(ctx context.Context, query string, data json.RawMessage, analysis string) (*api.ImageAskResponse, error) {
	b.mu.Lock()
	b.imageCalls++
	fn := b.imageFn
	b.mu.Unlock()
	if fn != nil {
		return fn(query, data, analysis)
	}
	return &api.ImageAskResponse{Response: "image answer"}, nil
}

func (b *fakeBackend) EnhancedSearch(ctx context.Context, query, searchType string) (*api.SearchResponse, error) {
	b.mu.Lock()
	b.searchCalls++
	b.lastSearchType = searchType
	fn := b.searchFn
	b.mu.Unlock()
	if fn != nil {
		return fn(query, searchType)
	}
	return &api.SearchResponse{
		Success: true,
		SearchData: &api.SearchData{
			Query:   query,
			Results: []api.SearchResult{{Title: "Result", URL: "https://example.com", Domain: "example.com"}},
		},
	}, nil
}

func (b *fakeBackend) ClearSession(ctx context.Context) error {
	b.mu.Lock()
	b.clearCalls++
	fn := b.clearFn
	b.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return nil
}

func (b *fakeBackend) TextToSpeech(ctx context.Context, text string) error {
	b.mu.Lock()
	b.ttsCalls++
	b.mu.Unlock()
	return nil
}

// authStub satisfies Authorizer.
type authStub struct{ ok bool }

func (a authStub) IsAuthenticated() bool { return a.ok }

// newTestController wires a controller with synchronous delayed renders.
func newTestController(b *fakeBackend, mutate func(*config.Config)) (*Controller, *fakeRenderer) {
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	r := &fakeRenderer{}
	c := NewController(b, authStub{ok: true}, r, cfg)
	c.later = func(d time.Duration, fn func()) { fn() }
	return c, r
}

// =============================================================================
// SEND ROUTING
// =============================================================================

func TestSend_EmptyInputNoticed(t *testing.T) {
	b := &fakeBackend{}
	c, r := newTestController(b, nil)

	if err := c.Send(context.Background(), "   \n\t "); err != nil {
		t.Fatalf("Send returned %v", err)
	}
	if b.askCalls+b.searchCalls != 0 {
		t.Error("empty input must not reach the backend")
	}
	if got := r.kinds(); len(got) != 1 || got[0] != "notice" {
		t.Errorf("empty input renders one notice only, got %v", got)
	}
}

func TestSend_RequiresSignIn(t *testing.T) {
	b := &fakeBackend{}
	cfg := config.Default()
	r := &fakeRenderer{}
	c := NewController(b, authStub{ok: false}, r, cfg)

	if err := c.Send(context.Background(), "what is a monad?"); err != nil {
		t.Fatalf("Send returned %v", err)
	}
	if !r.has("notice", noticeSignIn) {
		t.Error("expected sign-in notice")
	}
	if b.askCalls+b.searchCalls != 0 {
		t.Error("unauthenticated sends must not reach the backend")
	}
}

func TestSend_DirectAskFlow(t *testing.T) {
	b := &fakeBackend{}
	c, r := newTestController(b, func(cfg *config.Config) {
		cfg.Search.Enabled = false
	})

	if err := c.Send(context.Background(), "what is recursion?"); err != nil {
		t.Fatalf("Send returned %v", err)
	}
	if b.searchCalls != 0 {
		t.Error("search disabled, EnhancedSearch must not be called")
	}
	want := []string{"user", "pending", "resolve"}
	got := r.kinds()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want kinds %v", r.events, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want kinds %v", r.events, want)
		}
	}
	if !r.has("resolve", "answer to what is recursion?") {
		t.Error("reply should resolve the placeholder")
	}
}

func TestSend_DirectAskFailure(t *testing.T) {
	b := &fakeBackend{
		askFn: func(query string) (*api.AskResponse, error) {
			return nil, errors.New("boom")
		},
	}
	c, r := newTestController(b, func(cfg *config.Config) {
		cfg.Search.Enabled = false
	})

	if err := c.Send(context.Background(), "what is recursion?"); err == nil {
		t.Fatal("Send must surface the backend error")
	}

	want := []string{"user", "pending", "remove", "notice"}
	got := r.kinds()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want kinds %v", r.events, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want kinds %v", r.events, want)
		}
	}
	if r.count("notice") != 1 || !r.has("notice", noticeAskFailed) {
		t.Errorf("want exactly one generic failure notice, got %v", r.events)
	}
	if r.count("pending") != r.count("remove")+r.count("resolve") {
		t.Errorf("a placeholder survived: %v", r.events)
	}
}

func TestSend_SearchFlow(t *testing.T) {
	b := &fakeBackend{
		searchFn: func(query, searchType string) (*api.SearchResponse, error) {
			return &api.SearchResponse{
				Success:    true,
				EngineUsed: "duckduckgo",
				SearchData: &api.SearchData{
					Query:   query,
					Results: []api.SearchResult{{Title: "R", URL: "https://example.com", Domain: "example.com"}},
				},
			}, nil
		},
	}
	c, r := newTestController(b, nil)

	if err := c.Send(context.Background(), "photosynthesis"); err != nil {
		t.Fatalf("Send returned %v", err)
	}

	b.mu.Lock()
	searchType := b.lastSearchType
	b.mu.Unlock()
	if searchType != "educational" {
		t.Errorf("search_type = %q, want educational", searchType)
	}

	if !r.has("pending", searchingLabel) {
		t.Error("expected searching placeholder")
	}
	if !r.has("notice", "Search powered by duckduckgo") {
		t.Error("expected engine notice")
	}
	if !r.has("resolve", "answer to photosynthesis") {
		t.Error("expected resolved reply")
	}
	if !r.has("sources", "photosynthesis") {
		t.Error("expected delayed sources panel")
	}

	// The sources panel must land after the reply.
	kinds := r.kinds()
	var resolveAt, sourcesAt int
	for i, k := range kinds {
		if k == "resolve" {
			resolveAt = i
		}
		if k == "sources" {
			sourcesAt = i
		}
	}
	if sourcesAt < resolveAt {
		t.Errorf("sources panel before reply: %v", r.events)
	}
}

func TestSend_SearchTimeoutFallsBack(t *testing.T) {
	b := &fakeBackend{
		searchFn: func(query, searchType string) (*api.SearchResponse, error) {
			return nil, api.ErrSearchTimeout
		},
	}
	c, r := newTestController(b, nil)

	if err := c.Send(context.Background(), "tides"); err != nil {
		t.Fatalf("Send returned %v", err)
	}
	if !r.has("notice", "timed out") {
		t.Error("expected timeout notice")
	}
	if b.askCalls != 1 {
		t.Errorf("askCalls = %d, fallback must still answer", b.askCalls)
	}
	if !r.has("resolve", "answer to tides") {
		t.Error("fallback reply missing")
	}
	if r.count("sources") != 0 {
		t.Error("no sources panel without search data")
	}
}

func TestSend_SearchFailureFallsBack(t *testing.T) {
	b := &fakeBackend{
		searchFn: func(query, searchType string) (*api.SearchResponse, error) {
			return &api.SearchResponse{Success: false}, nil
		},
	}
	b2 := &fakeBackend{
		searchFn: func(query, searchType string) (*api.SearchResponse, error) {
			return &api.SearchResponse{Success: false, Timeout: true}, nil
		},
	}

	c, r := newTestController(b, nil)
	if err := c.Send(context.Background(), "q"); err != nil {
		t.Fatalf("Send returned %v", err)
	}
	if !r.has("notice", "fallback") && !r.has("notice", "Search unavailable") {
		t.Errorf("expected fallback notice, got %v", r.events)
	}
	if b.askCalls != 1 {
		t.Error("fallback must still answer")
	}

	c2, r2 := newTestController(b2, nil)
	if err := c2.Send(context.Background(), "q"); err != nil {
		t.Fatalf("Send returned %v", err)
	}
	if !r2.has("notice", "timed out") {
		t.Errorf("expected timeout notice, got %v", r2.events)
	}
}

func TestSend_RAGSkipsSearch(t *testing.T) {
	b := &fakeBackend{}
	c, r := newTestController(b, nil)
	c.setRAGReady(true)

	if err := c.Send(context.Background(), "summarize chapter 2"); err != nil {
		t.Fatalf("Send returned %v", err)
	}
	if b.searchCalls != 0 {
		t.Error("loaded document index must skip web search")
	}
	if !r.has("resolve", "answer to") {
		t.Error("expected direct reply")
	}
}

func TestSend_BusyRejected(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var startedOnce sync.Once
	b := &fakeBackend{
		askFn: func(query string) (*api.AskResponse, error) {
			startedOnce.Do(func() { close(started) })
			<-release
			return &api.AskResponse{Response: "done"}, nil
		},
	}
	c, r := newTestController(b, func(cfg *config.Config) {
		cfg.Search.Enabled = false
	})

	done := make(chan error, 1)
	go func() { done <- c.Send(context.Background(), "first") }()
	<-started

	if err := c.Send(context.Background(), "second"); err != nil {
		t.Fatalf("second Send returned %v", err)
	}
	if !r.has("notice", noticeBusy) {
		t.Error("expected busy notice for re-entrant send")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Send returned %v", err)
	}
	if b.askCalls != 1 {
		t.Errorf("askCalls = %d, second send must be dropped", b.askCalls)
	}

	// The controller accepts questions again once the first completes.
	if err := c.Send(context.Background(), "third"); err != nil {
		t.Fatalf("third Send returned %v", err)
	}
	if b.askCalls != 2 {
		t.Errorf("askCalls = %d after retry", b.askCalls)
	}
}

// =============================================================================
// IMAGE CONTEXT
// =============================================================================

func TestSend_ImageContextRoutesToImageAsk(t *testing.T) {
	data := json.RawMessage(`{"extracted_text":"E=mc^2"}`)
	b := &fakeBackend{
		imageFn: func(query string, gotData json.RawMessage, analysis string) (*api.ImageAskResponse, error) {
			if string(gotData) != string(data) {
				t.Errorf("image_data = %s, must replay the stored payload", gotData)
			}
			if analysis != "a blackboard" {
				t.Errorf("image_analysis = %q", analysis)
			}
			return &api.ImageAskResponse{Response: "that is mass-energy equivalence"}, nil
		},
	}
	c, r := newTestController(b, nil)
	c.setImageContext(data, "a blackboard")

	if err := c.Send(context.Background(), "what does it say?"); err != nil {
		t.Fatalf("Send returned %v", err)
	}
	if b.imageCalls != 1 || b.askCalls != 0 || b.searchCalls != 0 {
		t.Errorf("image context must route to image ask: image=%d ask=%d search=%d",
			b.imageCalls, b.askCalls, b.searchCalls)
	}
	if !r.has("reply", "mass-energy") {
		t.Error("expected image reply")
	}

	// The context is sticky: the next question is about the image too.
	if err := c.Send(context.Background(), "and who wrote it?"); err != nil {
		t.Fatalf("Send returned %v", err)
	}
	if b.imageCalls != 2 {
		t.Errorf("imageCalls = %d, context must persist", b.imageCalls)
	}
}

func TestClearSession_ResetsEverything(t *testing.T) {
	b := &fakeBackend{}
	c, r := newTestController(b, nil)
	c.setRAGReady(true)
	c.setImageContext(json.RawMessage(`{}`), "analysis")

	if err := c.ClearSession(context.Background()); err != nil {
		t.Fatalf("ClearSession returned %v", err)
	}
	if b.clearCalls != 1 {
		t.Error("backend clear-session must be called")
	}
	if c.RAGReady() {
		t.Error("RAG flag must reset")
	}
	if c.HasImageContext() {
		t.Error("image context must reset")
	}
	if !r.has("clear", "") {
		t.Error("transcript must clear")
	}
}

// =============================================================================
// REFERENCES
// =============================================================================

func TestRenderReply_References(t *testing.T) {
	scraped := "https://a.example\nhttps://b.example\n\nhttps://a.example"

	t.Run("immediate when not separate", func(t *testing.T) {
		b := &fakeBackend{
			askFn: func(query string) (*api.AskResponse, error) {
				return &api.AskResponse{Response: "r", HasScraping: true, Scraped: scraped}, nil
			},
		}
		c, r := newTestController(b, func(cfg *config.Config) { cfg.Search.Enabled = false })
		if err := c.Send(context.Background(), "q"); err != nil {
			t.Fatal(err)
		}
		if !r.has("refs", "https://a.example|https://b.example") {
			t.Errorf("expected deduplicated references, got %v", r.events)
		}
	})

	t.Run("delayed pill when separate", func(t *testing.T) {
		b := &fakeBackend{
			askFn: func(query string) (*api.AskResponse, error) {
				return &api.AskResponse{
					Response: "r", HasScraping: true, Scraped: scraped, ShowSourcesSeparately: true,
				}, nil
			},
		}
		c, r := newTestController(b, func(cfg *config.Config) { cfg.Search.Enabled = false })
		if err := c.Send(context.Background(), "q"); err != nil {
			t.Fatal(err)
		}
		if r.count("refs") != 1 {
			t.Errorf("expected one reference pill, got %v", r.events)
		}
	})

	t.Run("retrieved always appended", func(t *testing.T) {
		b := &fakeBackend{
			askFn: func(query string) (*api.AskResponse, error) {
				return &api.AskResponse{Response: "r", HasRetrieval: true, Retrieved: "doc.pdf p.3"}, nil
			},
		}
		c, r := newTestController(b, func(cfg *config.Config) { cfg.Search.Enabled = false })
		if err := c.Send(context.Background(), "q"); err != nil {
			t.Fatal(err)
		}
		if !r.has("refs", "doc.pdf p.3") {
			t.Errorf("expected retrieval references, got %v", r.events)
		}
	})
}

func TestParseReferences(t *testing.T) {
	blob := strings.Repeat("line\n", 3) + "a\nb\nc\nd\ne\nf\ng\nh\n"
	refs := parseReferences(blob)
	if len(refs) != maxReferenceLines {
		t.Errorf("len = %d, want cap %d", len(refs), maxReferenceLines)
	}
	if refs[0] != "line" || refs[1] != "a" {
		t.Errorf("refs = %v, want dedup then order preserved", refs)
	}
}

// =============================================================================
// WELCOME
// =============================================================================

func TestWelcome(t *testing.T) {
	b := &fakeBackend{}
	c, r := newTestController(b, func(cfg *config.Config) {
		cfg.Voice.SpeakReplies = true
	})

	c.Welcome(context.Background())
	if !r.has("reply", "Mentorae") {
		t.Error("expected welcome message")
	}
	if b.ttsCalls != 1 {
		t.Errorf("ttsCalls = %d, welcome should be spoken", b.ttsCalls)
	}

	b2 := &fakeBackend{}
	c2, _ := newTestController(b2, nil)
	c2.Welcome(context.Background())
	if b2.ttsCalls != 0 {
		t.Error("welcome must not be spoken with speak_replies off")
	}
}
