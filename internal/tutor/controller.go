// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/mentorae/tutor-tui/internal/api"
	"github.com/mentorae/tutor-tui/internal/config"
)

// Timing constants. The delays stage the transcript the way a reader
// expects: reply first, supporting panels a beat later.
const (
	// sourcesPanelDelay is the pause before the web sources panel
	// appears under a search-backed reply.
	sourcesPanelDelay = 1500 * time.Millisecond

	// referencePillDelay is the pause before scraped references appear
	// when the backend asks for them to be shown separately.
	referencePillDelay = 1 * time.Second
)

// Transcript labels and notices.
const (
	thinkingLabel  = "Thinking..."
	searchingLabel = "Searching the web..."

	// WelcomeText is the greeting shown (and optionally spoken) when a
	// chat session opens.
	WelcomeText = "Hello! I'm Mentorae your AI Tutor. You can ask me questions directly, " +
		"or upload PDF documents to get document-specific answers. How can I help you today?"

	noticeEmpty      = "Type a question first."
	noticeSignIn     = "Please sign in to ask questions."
	noticeBusy       = "Still working on your previous question."
	noticeAskFailed  = "Sorry, I encountered an error processing your request. Please try again."
	noticeSearchSlow = "Search timed out. Trying alternative method..."
	noticeSearchDown = "Search unavailable. Using fallback..."
)

// Backend is the slice of the API client the conversation controller
// uses. *api.Client satisfies it.
type Backend interface {
	Ask(ctx context.Context, query string) (*api.AskResponse, error)
	AskAboutImage(ctx context.Context, query string, imageData json.RawMessage, imageAnalysis string) (*api.ImageAskResponse, error)
	EnhancedSearch(ctx context.Context, query, searchType string) (*api.SearchResponse, error)
	ClearSession(ctx context.Context) error
	TextToSpeech(ctx context.Context, text string) error
}

// Authorizer reports whether a signed-in session is held. auth.Session
// satisfies it.
type Authorizer interface {
	IsAuthenticated() bool
}

// Controller drives a conversation: it routes each question through the
// image, search-augmented, or direct ask flow, stages the transcript via
// its Renderer, and keeps the sticky image context and RAG state.
//
// One question is in flight at a time; a Send while busy posts a notice
// and is otherwise ignored.
type Controller struct {
	backend  Backend
	auth     Authorizer
	renderer Renderer

	mu       sync.Mutex
	cfg      *config.Config
	inFlight bool
	ragReady bool

	// Sticky image context. The next questions are answered about this
	// image until a new upload replaces it or the session is cleared.
	imageData     json.RawMessage
	imageAnalysis string

	// later schedules a delayed transcript addition. Replaced in tests
	// to run callbacks synchronously.
	later func(d time.Duration, fn func())
}

// NewController creates a conversation controller.
func NewController(backend Backend, auth Authorizer, renderer Renderer, cfg *config.Config) *Controller {
	return &Controller{
		backend:  backend,
		auth:     auth,
		renderer: renderer,
		cfg:      cfg,
		later: func(d time.Duration, fn func()) {
			go func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("tutor: delayed render panicked: %v", r)
					}
				}()
				time.Sleep(d)
				fn()
			}()
		},
	}
}

// DisablePanelDelays renders the staged source and reference panels
// immediately instead of on a timer. Line-mode output uses this so
// one-shot commands do not lose panels to process exit.
func (c *Controller) DisablePanelDelays() {
	c.later = func(d time.Duration, fn func()) { fn() }
}

// UpdateConfig swaps the active configuration. Wired to the config
// watcher for live reload.
func (c *Controller) UpdateConfig(cfg *config.Config) {
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
}

// RAGReady reports whether a document index is loaded server-side.
func (c *Controller) RAGReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ragReady
}

// setRAGReady is called by the upload controller after /initialize-rag.
func (c *Controller) setRAGReady(ready bool) {
	c.mu.Lock()
	c.ragReady = ready
	c.mu.Unlock()
}

// setImageContext installs a processed image as the context for
// subsequent questions, replacing any previous one.
func (c *Controller) setImageContext(data json.RawMessage, analysis string) {
	c.mu.Lock()
	c.imageData = data
	c.imageAnalysis = analysis
	c.mu.Unlock()
}

// HasImageContext reports whether questions are currently answered about
// an uploaded image.
func (c *Controller) HasImageContext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.imageData) > 0 && c.imageAnalysis != ""
}

// Welcome posts the greeting and, when reply speech is on, reads it
// aloud.
func (c *Controller) Welcome(ctx context.Context) {
	c.renderer.AppendReply(WelcomeText)
	c.mu.Lock()
	speak := c.cfg.Voice.Enabled && c.cfg.Voice.SpeakReplies
	c.mu.Unlock()
	if speak {
		if err := c.backend.TextToSpeech(ctx, WelcomeText); err != nil {
			log.Printf("tutor: welcome speech failed: %v", err)
		}
	}
}

// ClearSession resets the server-side conversation, drops the rendered
// transcript, and forgets the image context and RAG state.
func (c *Controller) ClearSession(ctx context.Context) error {
	err := c.backend.ClearSession(ctx)
	if err != nil {
		log.Printf("tutor: clear session failed: %v", err)
	}

	c.mu.Lock()
	c.ragReady = false
	c.imageData = nil
	c.imageAnalysis = ""
	c.mu.Unlock()

	c.renderer.ClearTranscript()
	return err
}

// Reset clears local conversation state without calling the backend.
// Registered as the auth session's on-clear hook.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.ragReady = false
	c.imageData = nil
	c.imageAnalysis = ""
	c.mu.Unlock()
	c.renderer.ClearTranscript()
}

// Send routes one user question. Empty input is ignored; without a
// signed-in session it posts a sign-in notice. The routing order is
// image context, then search-augmented ask (when search is on and no
// document index is loaded), then direct ask.
func (c *Controller) Send(ctx context.Context, input string) error {
	query := strings.TrimSpace(norm.NFC.String(input))
	if query == "" {
		c.renderer.Notice(noticeEmpty)
		return nil
	}
	if !c.auth.IsAuthenticated() {
		c.renderer.Notice(noticeSignIn)
		return nil
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		c.renderer.Notice(noticeBusy)
		return nil
	}
	c.inFlight = true
	imageData := c.imageData
	imageAnalysis := c.imageAnalysis
	searchOn := c.cfg.Search.Enabled && !c.ragReady
	searchType := c.cfg.Search.DefaultType
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	// The user line goes up immediately, then the placeholder below it,
	// so the resolved reply always lands under the question.
	c.renderer.AppendUser(query)
	pendingID := uuid.NewString()
	c.renderer.BeginPending(pendingID, pendingLabel(imageData, searchOn))

	switch {
	case len(imageData) > 0 && imageAnalysis != "":
		return c.askAboutImage(ctx, pendingID, query, imageData, imageAnalysis)
	case searchOn:
		return c.searchThenAsk(ctx, pendingID, query, searchType)
	default:
		return c.directAsk(ctx, pendingID, query)
	}
}

func pendingLabel(imageData json.RawMessage, searchOn bool) string {
	if len(imageData) == 0 && searchOn {
		return searchingLabel
	}
	return thinkingLabel
}

// askAboutImage answers the question in the context of the uploaded
// image.
func (c *Controller) askAboutImage(ctx context.Context, pendingID, query string, data json.RawMessage, analysis string) error {
	resp, err := c.backend.AskAboutImage(ctx, query, data, analysis)
	c.renderer.RemovePending(pendingID)
	if err != nil {
		c.renderer.Notice(askErrNotice(err))
		return err
	}

	c.renderer.AppendReply(resp.Response)
	c.speak(ctx, resp.Response)
	return nil
}

// searchThenAsk runs the web search first, then asks with the session's
// search context warmed up server-side. Any search failure falls back to
// a direct ask.
func (c *Controller) searchThenAsk(ctx context.Context, pendingID, query, searchType string) error {
	search, err := c.backend.EnhancedSearch(ctx, query, searchType)
	if err != nil {
		if errors.Is(err, api.ErrSearchTimeout) {
			c.renderer.Notice(noticeSearchSlow)
		} else {
			c.renderer.Notice(noticeSearchDown)
		}
		return c.directAsk(ctx, pendingID, query)
	}
	if !search.Success || search.SearchData == nil {
		if search.Timeout {
			c.renderer.Notice(noticeSearchSlow)
		} else {
			c.renderer.Notice(noticeSearchDown)
		}
		return c.directAsk(ctx, pendingID, query)
	}

	c.renderer.RemovePending(pendingID)
	if search.EngineUsed != "" {
		c.renderer.Notice("Search powered by " + search.EngineUsed)
	}

	replyID := uuid.NewString()
	c.renderer.BeginPending(replyID, thinkingLabel)

	resp, err := c.backend.Ask(ctx, query)
	if err != nil {
		c.renderer.RemovePending(replyID)
		c.renderer.Notice(askErrNotice(err))
		return err
	}
	c.renderReply(replyID, resp)
	c.speak(ctx, resp.Response)

	c.mu.Lock()
	showSources := c.cfg.UI.ShowSources
	maxSources := c.cfg.Search.MaxSources
	c.mu.Unlock()

	data := search.SearchData
	if showSources && len(data.Results)+len(data.Videos) > 0 {
		c.later(sourcesPanelDelay, func() {
			c.renderer.AppendSources(data, maxSources)
		})
	}
	return nil
}

// directAsk is the plain question flow, also the fallback when search is
// unavailable.
func (c *Controller) directAsk(ctx context.Context, pendingID, query string) error {
	resp, err := c.backend.Ask(ctx, query)
	if err != nil {
		c.renderer.RemovePending(pendingID)
		c.renderer.Notice(askErrNotice(err))
		return err
	}
	c.renderReply(pendingID, resp)
	c.speak(ctx, resp.Response)
	return nil
}

// renderReply resolves the pending placeholder with the tutor's answer
// and attaches scraped/retrieved references per the response's display
// hints.
func (c *Controller) renderReply(pendingID string, resp *api.AskResponse) {
	c.renderer.ResolvePending(pendingID, resp.Response)

	if resp.ShowSourcesSeparately && resp.HasScraping && resp.Scraped != "" {
		scraped := resp.Scraped
		c.later(referencePillDelay, func() {
			c.renderer.AppendReferences(parseReferences(scraped))
		})
	} else if resp.HasScraping && resp.Scraped != "" {
		c.renderer.AppendReferences(parseReferences(resp.Scraped))
	}

	if resp.HasRetrieval && resp.Retrieved != "" {
		c.renderer.AppendReferences(parseReferences(resp.Retrieved))
	}
}

// speak reads a reply aloud when configured to. Best-effort.
func (c *Controller) speak(ctx context.Context, text string) {
	c.mu.Lock()
	on := c.cfg.Voice.Enabled && c.cfg.Voice.SpeakReplies
	c.mu.Unlock()
	if !on || text == "" {
		return
	}
	if err := c.backend.TextToSpeech(ctx, text); err != nil {
		log.Printf("tutor: reply speech failed: %v", err)
	}
}

// askErrNotice maps an ask failure to the transcript notice.
func askErrNotice(err error) string {
	if errors.Is(err, api.ErrAuthExpired) || errors.Is(err, api.ErrNoToken) {
		return noticeSignIn
	}
	return noticeAskFailed
}

// maxReferenceLines caps how much of a scraped blob becomes references.
const maxReferenceLines = 8

// parseReferences extracts reference lines from a scraped/retrieved text
// blob: non-empty lines, deduplicated, capped.
func parseReferences(blob string) []string {
	seen := make(map[string]bool)
	var refs []string
	for _, line := range strings.Split(blob, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		refs = append(refs, line)
		if len(refs) == maxReferenceLines {
			break
		}
	}
	return refs
}
