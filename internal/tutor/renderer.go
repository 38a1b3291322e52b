// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tutor

import "github.com/mentorae/tutor-tui/internal/api"

// Renderer is the transcript surface the controller draws on. The chat
// TUI and the one-shot CLI printer both implement it; tests use a
// recording fake. Implementations must tolerate calls from the
// controller's goroutines.
type Renderer interface {
	// AppendUser appends a user message to the transcript.
	AppendUser(text string)

	// BeginPending appends a placeholder message (e.g. "Thinking...")
	// identified by id.
	BeginPending(id, label string)

	// ResolvePending replaces the placeholder with the tutor's reply,
	// rendered as markdown.
	ResolvePending(id, markdown string)

	// RemovePending drops a placeholder without a reply.
	RemovePending(id string)

	// AppendReply appends a tutor reply directly, with no placeholder
	// to resolve.
	AppendReply(markdown string)

	// Notice shows a transient system line (errors, hints, fallbacks).
	Notice(text string)

	// AppendReferences attaches scraped or retrieved reference snippets
	// under the most recent reply.
	AppendReferences(refs []string)

	// AppendSources renders the web sources panel for a search-backed
	// reply: up to max results plus any videos.
	AppendSources(data *api.SearchData, max int)

	// ClearTranscript drops all rendered history.
	ClearTranscript()
}
