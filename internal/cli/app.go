// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Shared wiring for CLI command handlers.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mentorae/tutor-tui/internal/api"
	"github.com/mentorae/tutor-tui/internal/auth"
	"github.com/mentorae/tutor-tui/internal/config"
	"github.com/mentorae/tutor-tui/internal/tutor"
	"github.com/mentorae/tutor-tui/internal/ui/styles"
)

// App bundles the client, session and config every command needs.
type App struct {
	Cfg     *config.Config
	Client  *api.Client
	Session *auth.Session
	Store   *auth.TokenStore
	Theme   *styles.Theme
}

// NewApp loads configuration and wires the API client, token store and
// auth session against the configured backend origin.
func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	config.SetGlobal(cfg)

	api.Version = Version
	client := api.NewClient(cfg.Server.BaseURL).
		WithTimeout(time.Duration(cfg.Server.TimeoutSecs) * time.Second)

	origin, err := auth.Origin(cfg.Server.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server.base_url: %w", err)
	}

	dir := cfg.Storage.Dir
	if dir == "" {
		dir, err = config.ConfigDir()
		if err != nil {
			return nil, err
		}
	}

	store, err := auth.NewTokenStore(dir, origin)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	return &App{
		Cfg:     cfg,
		Client:  client,
		Session: auth.NewSession(client, store),
		Store:   store,
		Theme:   styles.NewThemeFor(cfg.UI.Theme),
	}, nil
}

// Bootstrap restores a stored session, verifying tokens server-side.
// Callers that need authentication check Session.IsAuthenticated after.
func (a *App) Bootstrap(ctx context.Context) error {
	return a.Session.Bootstrap(ctx, "")
}

// Close releases the token store.
func (a *App) Close() {
	if a.Store != nil {
		_ = a.Store.Close()
	}
}

// newConversation builds the controller stack against a renderer.
func (a *App) newConversation(r tutor.Renderer) (*tutor.Controller, *tutor.UploadController, *tutor.VoiceController) {
	conv := tutor.NewController(a.Client, a.Session, r, a.Cfg)
	a.Session.OnClear(conv.Reset)
	upload := tutor.NewUploadController(a.Client, conv)
	voice := tutor.NewVoiceController(a.Client, conv)
	return conv, upload, voice
}
