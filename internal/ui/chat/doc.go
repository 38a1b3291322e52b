// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the Bubble Tea chat view.

# Key Types

  - Model - the Bubble Tea model: viewport transcript, text input,
    spinner, status bar
  - Dispatcher - a tutor.Renderer that forwards transcript events into
    the program as messages, safe to call from controller goroutines

# Transcript

The transcript is a list of entries: user questions, tutor replies
(markdown-rendered), notices, spinner-backed pending placeholders, the
web sources panel, and reference pills. Controller events arrive as
typed messages (UserMsg, PendingBeginMsg, ...) and fold into the entry
list; placeholders are resolved or removed by ID.

# Usage

	disp := chat.NewDispatcher()
	conv := tutor.NewController(client, session, disp, cfg)
	err := chat.Run(ctx, chat.Options{...}, disp)
*/
package chat
