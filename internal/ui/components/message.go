// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mentorae/tutor-tui/internal/ui/styles"
)

// Speaker labels shown above transcript messages.
const (
	SpeakerUser  = "You"
	SpeakerTutor = "Mentorae"
)

// RenderUserMessage renders a user question in the transcript.
func RenderUserMessage(theme *styles.Theme, text string, width int) string {
	label := theme.SpeakerUser.Render(SpeakerUser)
	body := theme.UserBubble.MaxWidth(bubbleWidth(width)).Render(text)
	return lipgloss.JoinVertical(lipgloss.Left, label, body)
}

// RenderTutorMessage renders a tutor reply. body is already
// markdown-rendered terminal text.
func RenderTutorMessage(theme *styles.Theme, body string, width int) string {
	label := theme.SpeakerAI.Render(SpeakerTutor)
	bubble := theme.TutorBubble.MaxWidth(bubbleWidth(width)).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

// RenderNotice renders a transient status line (sign-in prompts, search
// fallbacks, upload progress).
func RenderNotice(theme *styles.Theme, text string) string {
	return theme.NoticeLine.Render(text)
}

// RenderPending renders an in-progress placeholder with the current
// spinner frame.
func RenderPending(theme *styles.Theme, spinnerView, label string) string {
	return theme.Spinner.Render(spinnerView) + " " + theme.PendingText.Render(label)
}

// bubbleWidth caps a message bubble just inside the viewport.
func bubbleWidth(width int) int {
	w := width - 4
	if w < 20 {
		w = 20
	}
	return w
}
