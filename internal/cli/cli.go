// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for mentorae.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdRepl
	CmdLogin
	CmdSignup
	CmdLogout
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Yes     bool // skip confirmation prompts

	// Command-specific
	Query      string
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `mentorae - AI tutor in your terminal

Mentorae is a chat client for the Mentorae tutoring backend.

It provides:
  - Question answering with optional web-search grounding
  - Document upload for document-grounded answers (RAG)
  - Image analysis and follow-up questions about an image
  - Voice capture and spoken replies

Usage:
  mentorae                    Start the chat TUI (default)
  mentorae ask "question"     Ask a single question
  mentorae chat               Start the chat TUI
  mentorae repl               Line-mode chat (no alternate screen)
  mentorae login [callback]   Sign in (or consume an auth callback URL)
  mentorae signup             Create an account
  mentorae logout             Sign out and clear stored tokens
  mentorae status, s          Show session and server status
  mentorae config [show|get KEY|set KEY VALUE]
  mentorae version            Show version
  mentorae help               Show this help

Global flags:
  -q, --quiet      Minimal output
  -v, --verbose    Verbose output
  --json           Machine-readable output where supported
  -y, --yes        Assume yes on confirmation prompts

In the chat, type /help for transcript commands (documents, images,
voice). Configuration lives in ~/.mentorae/config.toml; MENTORAE_*
environment variables override it.`

// PrintUsage prints the top-level usage text.
func PrintUsage() {
	fmt.Println(usageText)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("mentorae %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}

// Parse parses os.Args into a command and its arguments.
func Parse() (Command, Args) {
	return parse(os.Args[1:])
}

func parse(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui", "chat":
		return CmdTUI, args

	case "ask":
		args.Query = strings.Join(remaining, " ")
		return CmdAsk, args

	case "repl":
		return CmdRepl, args

	case "login":
		if len(remaining) > 0 {
			args.Query = remaining[0]
		}
		return CmdLogin, args

	case "signup", "register":
		return CmdSignup, args

	case "logout":
		return CmdLogout, args

	case "status", "s":
		return CmdStatus, args

	case "config":
		parseConfigArgs(&args, remaining)
		return CmdConfig, args

	case "version", "--version", "-V":
		return CmdVersion, args

	case "help", "--help", "-h":
		return CmdHelp, args

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, args
	}
}

// parseGlobalFlags strips global flags, returning the remaining args.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	var remaining []string

	for _, a := range argv {
		switch a {
		case "-q", "--quiet":
			args.Quiet = true
		case "-v", "--verbose":
			args.Verbose = true
		case "--json":
			args.JSON = true
		case "-y", "--yes":
			args.Yes = true
		default:
			remaining = append(remaining, a)
		}
	}
	return remaining, args
}

func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		args.Subcommand = "show"
		return
	}
	args.Subcommand = strings.ToLower(remaining[0])
	if len(remaining) > 1 {
		args.ConfigKey = remaining[1]
	}
	if len(remaining) > 2 {
		args.ConfigVal = strings.Join(remaining[2:], " ")
	}
}
