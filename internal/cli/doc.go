// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cli implements command parsing and handlers for the mentorae
binary.

# Commands

  - (default), chat - full-screen chat TUI
  - ask - one-shot question with the same search/RAG flow as the TUI
  - repl - line-mode chat with history (peterh/liner)
  - login, signup, logout - account and session management
  - status - server and session state
  - config - show/get/set the TOML configuration

# Wiring

App bundles the loaded config, API client, token store and auth session
shared by every handler. Conversation-bearing commands build the tutor
controller stack against a renderer: the Bubble Tea dispatcher for the
TUI, PlainRenderer for ask and repl.
*/
package cli
