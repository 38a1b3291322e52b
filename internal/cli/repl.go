// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// repl.go - Line-mode chat command handler.
//
// Command: repl
// Short:   Interactive chat without the alternate screen
//
// Interactive commands (during chat):
//   /docs <file> [file...]   Index documents for grounded answers
//   /folder <name>           Index a server-side folder
//   /image <file> [question] Analyze an image
//   /voice                   Toggle voice capture
//   /stop                    Stop speech playback
//   /clear                   Clear the conversation
//   /help                    Show commands
//   /quit, Ctrl+D            Exit
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/mentorae/tutor-tui/internal/config"
	"github.com/mentorae/tutor-tui/internal/tutor"
)

// =============================================================================
// LINE EDITOR
// =============================================================================

// replInput provides input history and line editing for the REPL.
type replInput struct {
	line        *liner.State
	historyFile string
}

func newReplInput() *replInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	r := &replInput{
		line:        line,
		historyFile: filepath.Join(configDir, "repl_history"),
	}
	r.loadHistory()
	return r
}

func (r *replInput) loadHistory() {
	if f, err := os.Open(r.historyFile); err == nil {
		_, _ = r.line.ReadHistory(f)
		f.Close()
	}
}

func (r *replInput) saveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = r.line.WriteHistory(f)
}

func (r *replInput) read(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

func (r *replInput) close() {
	r.saveHistory()
	r.line.Close()
}

// =============================================================================
// REPL LOOP
// =============================================================================

const replHelp = `Commands:
  /docs <file> [file...]   index documents for document-grounded answers
  /folder <name>           index a server-side document folder
  /image <file> [question] analyze an image
  /voice                   toggle voice capture
  /stop                    stop speech playback
  /clear                   clear the conversation
  /quit                    exit (also Ctrl+D)`

// HandleRepl runs the line-mode chat loop.
func HandleRepl(ctx context.Context, app *App, args Args) error {
	if err := app.Bootstrap(ctx); err != nil {
		return err
	}
	if !app.Session.IsAuthenticated() {
		return errors.New("not signed in; run 'mentorae login' first")
	}

	renderer := NewPlainRenderer(os.Stdout, app.Theme, app.Cfg.UI.SyntaxStyle, args.Quiet)
	conv, upload, voice := app.newConversation(renderer)
	conv.DisablePanelDelays()

	input := newReplInput()
	defer input.close()

	// Fresh server-side session, then greet.
	_ = conv.ClearSession(ctx)
	conv.Welcome(ctx)

	prompt := app.Theme.InputPrompt.Render("mentorae> ")
	for {
		line, err := input.read(prompt)
		if err != nil {
			// Ctrl+C or Ctrl+D: leave quietly.
			fmt.Println()
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			return nil
		}

		if strings.HasPrefix(line, "/") {
			if done := runReplCommand(ctx, line, conv, upload, voice); done {
				return nil
			}
			continue
		}

		if err := conv.Send(ctx, line); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
	}
}

// runReplCommand executes a slash command. Returns true to exit.
func runReplCommand(ctx context.Context, line string, conv *tutor.Controller, upload *tutor.UploadController, voice *tutor.VoiceController) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/docs", "/upload":
		if len(args) == 0 {
			fmt.Println("Usage: /docs <file> [file...]")
			return false
		}
		_ = upload.UploadFiles(ctx, args)

	case "/folder":
		if len(args) != 1 {
			fmt.Println("Usage: /folder <name>")
			return false
		}
		_ = upload.UploadFolder(ctx, args[0])

	case "/image":
		if len(args) == 0 {
			fmt.Println("Usage: /image <file> [question]")
			return false
		}
		_ = upload.UploadImage(ctx, args[0], strings.Join(args[1:], " "))

	case "/voice":
		_ = voice.Toggle(ctx)

	case "/stop":
		_ = voice.StopSpeech(ctx)

	case "/clear":
		_ = conv.ClearSession(ctx)

	case "/help", "/h":
		fmt.Println(replHelp)

	case "/quit", "/exit", "/q":
		return true

	default:
		fmt.Printf("Unknown command %s. Try /help.\n", cmd)
	}
	return false
}
