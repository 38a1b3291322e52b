// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command handler.
//
// Command: ask "question"
// Short:   Ask a single question and print the answer
//
// Examples:
//   mentorae ask "what is photosynthesis?"
//   mentorae -q ask "2+2"             Answer only, no notices
package cli

import (
	"context"
	"errors"
	"os"
	"strings"
)

// HandleAsk answers one question and exits. It runs the same
// conversation flow as the TUI (search grounding included) against the
// line-mode renderer.
func HandleAsk(ctx context.Context, app *App, args Args) error {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return errors.New("usage: mentorae ask \"question\"")
	}

	if err := app.Bootstrap(ctx); err != nil {
		return err
	}
	if !app.Session.IsAuthenticated() {
		return errors.New("not signed in; run 'mentorae login' first")
	}

	renderer := NewPlainRenderer(os.Stdout, app.Theme, app.Cfg.UI.SyntaxStyle, args.Quiet)
	conv, _, _ := app.newConversation(renderer)
	conv.DisablePanelDelays()

	return conv.Send(ctx, query)
}
