// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the chat TUI and blocks until the user quits. dispatcher
// must be the tutor.Renderer the controllers in opts were built with;
// Run binds it to the program so controller events reach the screen.
func Run(ctx context.Context, opts Options, dispatcher *Dispatcher) error {
	m := New(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	dispatcher.Bind(p)

	_, err := p.Run()
	return err
}
