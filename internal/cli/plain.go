// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// plain.go - Line-mode tutor.Renderer for ask and repl output.
package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/mentorae/tutor-tui/internal/api"
	"github.com/mentorae/tutor-tui/internal/ui/components"
	"github.com/mentorae/tutor-tui/internal/ui/styles"
)

// PlainRenderer writes transcript events as styled lines to a writer.
// Unlike the TUI viewport it cannot rewrite history, so placeholders
// print once as dim progress lines and removal is a no-op.
type PlainRenderer struct {
	mu    sync.Mutex
	w     io.Writer
	theme *styles.Theme
	md    *components.Markdown
	width int
	quiet bool
}

// NewPlainRenderer creates a renderer for the given writer, wrapping
// output to the terminal width when the writer is a terminal.
func NewPlainRenderer(w io.Writer, theme *styles.Theme, syntaxStyle string, quiet bool) *PlainRenderer {
	width := 80
	if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 20 {
		width = tw
	}
	if width > 100 {
		width = 100
	}
	return &PlainRenderer{
		w:     w,
		theme: theme,
		md:    components.NewMarkdown(width-2, syntaxStyle),
		width: width,
		quiet: quiet,
	}
}

func (r *PlainRenderer) println(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, s)
}

func (r *PlainRenderer) AppendUser(text string) {
	r.println(r.theme.SpeakerUser.Render(components.SpeakerUser+":") + " " + text)
}

func (r *PlainRenderer) BeginPending(id, label string) {
	if r.quiet {
		return
	}
	r.println(r.theme.PendingText.Render(label))
}

func (r *PlainRenderer) ResolvePending(id, markdown string) {
	r.AppendReply(markdown)
}

// RemovePending is a no-op: printed lines cannot be withdrawn.
func (r *PlainRenderer) RemovePending(id string) {}

func (r *PlainRenderer) AppendReply(markdown string) {
	r.println(r.theme.SpeakerAI.Render(components.SpeakerTutor+":") + "\n" + r.md.Render(markdown))
}

func (r *PlainRenderer) Notice(text string) {
	if r.quiet {
		return
	}
	r.println(r.theme.NoticeLine.Render(text))
}

func (r *PlainRenderer) AppendReferences(refs []string) {
	if out := components.RenderReferences(r.theme, refs, r.width); out != "" {
		r.println(out)
	}
}

func (r *PlainRenderer) AppendSources(data *api.SearchData, max int) {
	if out := components.RenderSources(r.theme, data, max, r.width); out != "" {
		r.println(out)
	}
}

func (r *PlainRenderer) ClearTranscript() {
	if r.quiet {
		return
	}
	r.println(r.theme.PendingText.Render("(conversation cleared)"))
}
