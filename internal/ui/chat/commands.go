// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// helpText lists the slash commands, mirroring the upload and voice
// controls of the web client.
const helpText = `Commands:
  /docs <file> [file...]   index documents for document-grounded answers
  /folder <name>           index a server-side document folder
  /image <file> [question] analyze an image; later questions refer to it
  /voice                   toggle voice capture (also Ctrl+R)
  /stop                    stop speech playback
  /clear                   clear the conversation (also Ctrl+L)
  /quit                    exit`

// handleCommand runs a parsed slash command. Unknown commands produce a
// notice instead of reaching the tutor.
func (m Model) handleCommand(line string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	ctx := m.ctx
	switch cmd {
	case "/docs", "/upload":
		if len(args) == 0 {
			m.applyTranscript(NoticeMsg{Text: "Usage: /docs <file> [file...]"})
			m.refreshViewport(true)
			return m, nil
		}
		upload := m.upload
		return m, func() tea.Msg {
			_ = upload.UploadFiles(ctx, args)
			return actionDoneMsg{}
		}

	case "/folder":
		if len(args) != 1 {
			m.applyTranscript(NoticeMsg{Text: "Usage: /folder <name>"})
			m.refreshViewport(true)
			return m, nil
		}
		upload := m.upload
		folder := args[0]
		return m, func() tea.Msg {
			_ = upload.UploadFolder(ctx, folder)
			return actionDoneMsg{}
		}

	case "/image":
		if len(args) == 0 {
			m.applyTranscript(NoticeMsg{Text: "Usage: /image <file> [question]"})
			m.refreshViewport(true)
			return m, nil
		}
		upload := m.upload
		path := args[0]
		question := strings.Join(args[1:], " ")
		return m, func() tea.Msg {
			_ = upload.UploadImage(ctx, path, question)
			return actionDoneMsg{}
		}

	case "/voice":
		voice := m.voice
		return m, func() tea.Msg {
			_ = voice.Toggle(ctx)
			return actionDoneMsg{}
		}

	case "/stop":
		voice := m.voice
		return m, func() tea.Msg {
			_ = voice.StopSpeech(ctx)
			return actionDoneMsg{}
		}

	case "/clear":
		conv := m.conv
		return m, func() tea.Msg {
			_ = conv.ClearSession(ctx)
			return actionDoneMsg{}
		}

	case "/help":
		m.applyTranscript(NoticeMsg{Text: helpText})
		m.refreshViewport(true)
		return m, nil

	case "/quit", "/exit":
		return m, tea.Quit

	default:
		m.applyTranscript(NoticeMsg{Text: "Unknown command " + cmd + ". Try /help."})
		m.refreshViewport(true)
		return m, nil
	}
}
