// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mentorae/tutor-tui/internal/api"
)

// =============================================================================
// TRANSCRIPT MESSAGES
// =============================================================================

// UserMsg appends a user question to the transcript.
type UserMsg struct {
	Text string
}

// PendingBeginMsg adds an in-progress placeholder ("Thinking...",
// "Searching the web...") tagged with an ID.
type PendingBeginMsg struct {
	ID    string
	Label string
}

// PendingResolveMsg replaces a placeholder with the tutor's reply.
type PendingResolveMsg struct {
	ID       string
	Markdown string
}

// PendingRemoveMsg removes a placeholder without producing a reply.
type PendingRemoveMsg struct {
	ID string
}

// ReplyMsg appends a tutor reply directly, without a placeholder.
type ReplyMsg struct {
	Markdown string
}

// NoticeMsg appends a transient status line.
type NoticeMsg struct {
	Text string
}

// ReferencesMsg attaches a reference pill under the latest reply.
type ReferencesMsg struct {
	Refs []string
}

// SourcesMsg attaches the web sources panel under the latest reply.
type SourcesMsg struct {
	Data *api.SearchData
	Max  int
}

// ClearMsg drops the whole transcript.
type ClearMsg struct{}

// actionDoneMsg signals that a background controller call finished.
type actionDoneMsg struct{}

// =============================================================================
// RENDERER DISPATCHER
// =============================================================================

// Dispatcher implements tutor.Renderer by forwarding transcript events
// into the Bubble Tea program as messages. Controller goroutines call
// it concurrently; tea.Program.Send is safe for that.
//
// Events arriving before Bind are queued and flushed once the program
// exists, so the welcome message is never lost to startup ordering.
type Dispatcher struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	backlog []tea.Msg
}

// NewDispatcher creates an unbound dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Bind connects the dispatcher to a running program and flushes any
// queued events.
func (d *Dispatcher) Bind(p *tea.Program) {
	d.mu.Lock()
	d.send = p.Send
	backlog := d.backlog
	d.backlog = nil
	d.mu.Unlock()

	for _, msg := range backlog {
		p.Send(msg)
	}
}

func (d *Dispatcher) post(msg tea.Msg) {
	d.mu.Lock()
	send := d.send
	if send == nil {
		d.backlog = append(d.backlog, msg)
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()
	send(msg)
}

func (d *Dispatcher) AppendUser(text string)        { d.post(UserMsg{Text: text}) }
func (d *Dispatcher) BeginPending(id, label string) { d.post(PendingBeginMsg{ID: id, Label: label}) }
func (d *Dispatcher) ResolvePending(id, md string)  { d.post(PendingResolveMsg{ID: id, Markdown: md}) }
func (d *Dispatcher) RemovePending(id string)       { d.post(PendingRemoveMsg{ID: id}) }
func (d *Dispatcher) AppendReply(md string)         { d.post(ReplyMsg{Markdown: md}) }
func (d *Dispatcher) Notice(text string)            { d.post(NoticeMsg{Text: text}) }
func (d *Dispatcher) AppendReferences(refs []string) {
	d.post(ReferencesMsg{Refs: refs})
}
func (d *Dispatcher) AppendSources(data *api.SearchData, max int) {
	d.post(SourcesMsg{Data: data, Max: max})
}
func (d *Dispatcher) ClearTranscript() { d.post(ClearMsg{}) }
