// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Chat TUI command handler.
//
// Command: chat (also the default when no command is given)
// Short:   Start the full-screen chat interface
package cli

import (
	"context"
	"errors"
	"log"

	"github.com/mentorae/tutor-tui/internal/config"
	"github.com/mentorae/tutor-tui/internal/ui/chat"
)

// HandleTUI starts the full-screen chat interface.
func HandleTUI(ctx context.Context, app *App, args Args) error {
	if err := app.Bootstrap(ctx); err != nil {
		return err
	}
	if !app.Session.IsAuthenticated() {
		return errors.New("not signed in; run 'mentorae login' first")
	}

	dispatcher := chat.NewDispatcher()
	conv, upload, voice := app.newConversation(dispatcher)

	// Live-reload config edits into the running conversation.
	watcher, err := config.NewWatcher(func(cfg *config.Config) {
		conv.UpdateConfig(cfg)
	})
	if err == nil {
		if err := watcher.Watch(); err != nil {
			log.Printf("cli: config watch unavailable: %v", err)
		}
		defer watcher.Close()
	}

	opts := chat.Options{
		Theme:     app.Theme,
		Config:    app.Cfg,
		Conv:      conv,
		Upload:    upload,
		Voice:     voice,
		UserEmail: userEmail(app),
	}
	return chat.Run(ctx, opts, dispatcher)
}

func userEmail(app *App) string {
	if user := app.Session.User(); user != nil {
		return user.Email
	}
	return ""
}
