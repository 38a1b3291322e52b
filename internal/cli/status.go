// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Session and server status command handler.
//
// Command: status, s
// Short:   Show server, session and feature status
//
// Examples:
//   mentorae status            Human-readable status
//   mentorae status --json     Machine-readable status
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/mentorae/tutor-tui/internal/ui/styles"
)

var (
	statusLabelStyle = lipgloss.NewStyle().
				Foreground(styles.TextSecondary).
				Width(14)

	statusValueStyle = lipgloss.NewStyle().
				Foreground(styles.TextPrimary)
)

// HandleStatus prints where the client points and whether a session is
// held.
func HandleStatus(ctx context.Context, app *App, args Args) error {
	if err := app.Bootstrap(ctx); err != nil {
		return err
	}

	signedIn := app.Session.IsAuthenticated()

	if args.JSON {
		out := map[string]interface{}{
			"server":    app.Cfg.Server.BaseURL,
			"signed_in": signedIn,
			"search":    app.Cfg.Search.Enabled,
			"voice":     app.Cfg.Voice.Enabled,
			"version":   Version,
		}
		if user := app.Session.User(); user != nil {
			out["user"] = user.Email
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	row := func(label, value string) {
		fmt.Println(statusLabelStyle.Render(label) + statusValueStyle.Render(value))
	}

	row("Server", app.Cfg.Server.BaseURL)
	if signedIn {
		fmt.Println(statusLabelStyle.Render("Session") + styles.RenderSuccess("signed in as "+userLabel(app)))
	} else {
		fmt.Println(statusLabelStyle.Render("Session") + styles.RenderWarning("not signed in"))
	}
	row("Web search", onOff(app.Cfg.Search.Enabled))
	row("Voice", onOff(app.Cfg.Voice.Enabled))
	row("Version", Version)
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
