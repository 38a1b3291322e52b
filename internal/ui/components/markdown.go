// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders tutor replies as terminal markdown. A renderer is
// bound to a wrap width; the chat view rebuilds it on resize.
type Markdown struct {
	width       int
	syntaxStyle string
	renderer    *glamour.TermRenderer
}

// NewMarkdown creates a markdown renderer wrapping at width columns.
// syntaxStyle names the chroma style used by the code block fallback.
func NewMarkdown(width int, syntaxStyle string) *Markdown {
	if width < 20 {
		width = 20
	}
	m := &Markdown{width: width, syntaxStyle: syntaxStyle}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		m.renderer = r
	}
	return m
}

// Width returns the wrap width the renderer was built for.
func (m *Markdown) Width() int { return m.width }

// Render converts markdown to styled terminal text. When glamour is
// unavailable or fails, it degrades to highlighting fenced code blocks
// and returning the prose as-is.
func (m *Markdown) Render(text string) string {
	if m.renderer != nil {
		out, err := m.renderer.Render(text)
		if err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return ParseCodeBlocks(text, m.width, m.syntaxStyle)
}
