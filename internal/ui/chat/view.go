// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mentorae/tutor-tui/internal/ui/components"
)

// Fixed chrome heights used by the resize handler.
const (
	headerHeight = 3
	inputHeight  = 2
	statusHeight = 1
)

// View renders the whole chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Starting mentorae..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderInput(),
		m.renderStatusBar(),
	)
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("Mentorae")
	subtitle := m.theme.HeaderSubtitle.Render("AI Tutor")
	return m.theme.Header.Width(m.width - 2).Render(title + "  " + subtitle)
}

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

// renderStatusBar shows session facts on the left and shortcuts on the
// right.
func (m Model) renderStatusBar() string {
	var left []string
	if m.userEmail != "" {
		left = append(left, m.userEmail)
	}
	if m.conv.RAGReady() {
		left = append(left, m.theme.StatusRAG.Render("[docs]"))
	}
	if m.conv.HasImageContext() {
		left = append(left, m.theme.StatusImage.Render("[image]"))
	}
	if m.voice.Listening() {
		left = append(left, m.theme.StatusVoice.Render("[listening]"))
	}

	var right string
	if m.showHelp {
		right = m.renderShortcuts()
	} else {
		right = m.theme.ShortcutDesc.Render("C-h help")
	}

	leftStr := strings.Join(left, " ")
	gap := m.width - lipgloss.Width(leftStr) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(
		leftStr + strings.Repeat(" ", gap) + right)
}

func (m Model) renderShortcuts() string {
	pairs := []struct{ k, d string }{
		{"Enter", "send"},
		{"C-r", "voice"},
		{"C-l", "clear"},
		{"C-c", "quit"},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, m.theme.ShortcutKey.Render(p.k)+" "+m.theme.ShortcutDesc.Render(p.d))
	}
	return strings.Join(parts, "  ")
}

// renderTranscript renders all entries top to bottom.
func (m *Model) renderTranscript() string {
	if len(m.entries) == 0 {
		return m.theme.PendingText.Render("No messages yet.")
	}

	blocks := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		switch e.kind {
		case entryUser:
			blocks = append(blocks, components.RenderUserMessage(m.theme, e.text, m.width))
		case entryTutor:
			blocks = append(blocks, components.RenderTutorMessage(m.theme, m.markdown.Render(e.text), m.width))
		case entryNotice:
			blocks = append(blocks, components.RenderNotice(m.theme, e.text))
		case entryPending:
			blocks = append(blocks, components.RenderPending(m.theme, m.spin.View(), e.text))
		case entrySources:
			if panel := components.RenderSources(m.theme, e.sources, e.max, m.width); panel != "" {
				blocks = append(blocks, panel)
			}
		case entryReferences:
			if pill := components.RenderReferences(m.theme, e.refs, m.width); pill != "" {
				blocks = append(blocks, pill)
			}
		}
	}
	return strings.Join(blocks, "\n\n")
}
