// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mentorae/tutor-tui/internal/api"
	"github.com/mentorae/tutor-tui/internal/ui/styles"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		cmd  Command
	}{
		{"no args defaults to TUI", nil, CmdTUI},
		{"chat", []string{"chat"}, CmdTUI},
		{"ask", []string{"ask", "what", "is", "gravity"}, CmdAsk},
		{"repl", []string{"repl"}, CmdRepl},
		{"login", []string{"login"}, CmdLogin},
		{"signup", []string{"signup"}, CmdSignup},
		{"register alias", []string{"register"}, CmdSignup},
		{"logout", []string{"logout"}, CmdLogout},
		{"status", []string{"status"}, CmdStatus},
		{"status short", []string{"s"}, CmdStatus},
		{"config", []string{"config", "set", "ui.theme", "light"}, CmdConfig},
		{"version", []string{"version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"unknown falls to help", []string{"bogus"}, CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := parse(tt.argv)
			if cmd != tt.cmd {
				t.Errorf("parse(%v) = %d, want %d", tt.argv, cmd, tt.cmd)
			}
		})
	}
}

func TestParse_AskJoinsQuery(t *testing.T) {
	_, args := parse([]string{"ask", "what", "is", "gravity?"})
	if args.Query != "what is gravity?" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParse_GlobalFlags(t *testing.T) {
	cmd, args := parse([]string{"-q", "--json", "status", "-y"})
	if cmd != CmdStatus {
		t.Fatalf("cmd = %d", cmd)
	}
	if !args.Quiet || !args.JSON || !args.Yes {
		t.Errorf("flags not parsed: %+v", args)
	}
}

func TestParse_ConfigArgs(t *testing.T) {
	_, args := parse([]string{"config", "set", "server.base_url", "http://localhost:9000"})
	if args.Subcommand != "set" || args.ConfigKey != "server.base_url" || args.ConfigVal != "http://localhost:9000" {
		t.Errorf("config args = %+v", args)
	}

	_, args = parse([]string{"config"})
	if args.Subcommand != "show" {
		t.Errorf("bare config should default to show, got %q", args.Subcommand)
	}
}

func TestParse_LoginCallback(t *testing.T) {
	_, args := parse([]string{"login", "mentorae://auth#access_token=a&refresh_token=r"})
	if !strings.Contains(args.Query, "access_token") {
		t.Errorf("callback not captured: %q", args.Query)
	}
}

func TestPlainRenderer(t *testing.T) {
	var buf bytes.Buffer
	theme := styles.NewThemeFor("dark")
	r := NewPlainRenderer(&buf, theme, "monokai", false)

	r.AppendUser("what is gravity?")
	r.BeginPending("p1", "Thinking...")
	r.ResolvePending("p1", "Gravity is a force.")
	r.Notice("Search powered by duckduckgo")
	r.AppendSources(&api.SearchData{
		Query:   "gravity",
		Results: []api.SearchResult{{Title: "Gravity", URL: "https://example.org", Domain: "example.org"}},
	}, 6)

	out := buf.String()
	for _, want := range []string{
		"what is gravity?",
		"Thinking...",
		"Gravity is a force.",
		"Search powered by duckduckgo",
		"Web sources",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPlainRenderer_Quiet(t *testing.T) {
	var buf bytes.Buffer
	r := NewPlainRenderer(&buf, styles.NewThemeFor("dark"), "monokai", true)

	r.BeginPending("p1", "Thinking...")
	r.Notice("noise")
	r.ClearTranscript()
	if buf.Len() != 0 {
		t.Errorf("quiet mode must suppress notices, got %q", buf.String())
	}

	r.AppendReply("the answer")
	if !strings.Contains(buf.String(), "the answer") {
		t.Error("quiet mode must still print replies")
	}
}
