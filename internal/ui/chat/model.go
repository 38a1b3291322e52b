// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mentorae/tutor-tui/internal/api"
	"github.com/mentorae/tutor-tui/internal/config"
	"github.com/mentorae/tutor-tui/internal/tutor"
	"github.com/mentorae/tutor-tui/internal/ui/components"
	"github.com/mentorae/tutor-tui/internal/ui/styles"
)

// =============================================================================
// TRANSCRIPT ENTRIES
// =============================================================================

// entryKind tags a transcript entry.
type entryKind int

const (
	entryUser entryKind = iota
	entryTutor
	entryNotice
	entryPending
	entrySources
	entryReferences
)

// entry is one element of the rendered transcript. Pending entries
// carry the ID the controller later resolves or removes.
type entry struct {
	kind    entryKind
	id      string
	text    string
	refs    []string
	sources *api.SearchData
	max     int
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Styling
	theme    *styles.Theme
	markdown *components.Markdown

	// Dimensions
	width  int
	height int
	ready  bool

	// Transcript
	entries []entry

	// Controllers
	conv   *tutor.Controller
	upload *tutor.UploadController
	voice  *tutor.VoiceController

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model

	// Key bindings
	keyMap KeyMap

	// Status
	userEmail string
	showHelp  bool

	cfg *config.Config
	ctx context.Context
}

// Options wires the chat view to its collaborators.
type Options struct {
	Theme     *styles.Theme
	Config    *config.Config
	Conv      *tutor.Controller
	Upload    *tutor.UploadController
	Voice     *tutor.VoiceController
	UserEmail string
}

// New creates the chat model.
func New(ctx context.Context, opts Options) Model {
	input := textinput.New()
	input.Placeholder = "Ask a question, or /help for commands"
	input.Prompt = "> "
	input.PromptStyle = opts.Theme.InputPrompt
	input.TextStyle = opts.Theme.InputText
	input.PlaceholderStyle = opts.Theme.InputPlaceholder
	input.CharLimit = 4000
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = opts.Theme.Spinner

	return Model{
		theme:     opts.Theme,
		cfg:       opts.Config,
		conv:      opts.Conv,
		upload:    opts.Upload,
		voice:     opts.Voice,
		userEmail: opts.UserEmail,
		input:     input,
		spin:      spin,
		keyMap:    DefaultKeyMap(),
		markdown:  components.NewMarkdown(78, opts.Config.UI.SyntaxStyle),
		ctx:       ctx,
	}
}

// Init starts the cursor blink, the spinner, and the opening sequence:
// reset any stale server-side session, then greet.
func (m Model) Init() tea.Cmd {
	conv := m.conv
	ctx := m.ctx
	return tea.Batch(
		textinput.Blink,
		m.spin.Tick,
		func() tea.Msg {
			_ = conv.ClearSession(ctx)
			conv.Welcome(ctx)
			return actionDoneMsg{}
		},
	)
}

// =============================================================================
// TRANSCRIPT REDUCER
// =============================================================================

// applyTranscript folds one transcript message into the entry list.
// Returns false for messages it does not handle.
func (m *Model) applyTranscript(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case UserMsg:
		m.entries = append(m.entries, entry{kind: entryUser, text: msg.Text})
	case PendingBeginMsg:
		m.entries = append(m.entries, entry{kind: entryPending, id: msg.ID, text: msg.Label})
	case PendingResolveMsg:
		if i := m.findPending(msg.ID); i >= 0 {
			m.entries[i] = entry{kind: entryTutor, text: msg.Markdown}
		} else {
			m.entries = append(m.entries, entry{kind: entryTutor, text: msg.Markdown})
		}
	case PendingRemoveMsg:
		if i := m.findPending(msg.ID); i >= 0 {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
		}
	case ReplyMsg:
		m.entries = append(m.entries, entry{kind: entryTutor, text: msg.Markdown})
	case NoticeMsg:
		m.entries = append(m.entries, entry{kind: entryNotice, text: msg.Text})
	case ReferencesMsg:
		m.entries = append(m.entries, entry{kind: entryReferences, refs: msg.Refs})
	case SourcesMsg:
		m.entries = append(m.entries, entry{kind: entrySources, sources: msg.Data, max: msg.Max})
	case ClearMsg:
		m.entries = nil
	default:
		return false
	}
	return true
}

// findPending locates the placeholder with the given ID, or -1.
func (m *Model) findPending(id string) int {
	for i, e := range m.entries {
		if e.kind == entryPending && e.id == id {
			return i
		}
	}
	return -1
}

// hasPending reports whether any placeholder is on screen, which keeps
// the spinner ticking.
func (m *Model) hasPending() bool {
	for _, e := range m.entries {
		if e.kind == entryPending {
			return true
		}
	}
	return false
}
