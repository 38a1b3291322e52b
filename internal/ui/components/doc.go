// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the rendering pieces shared by the chat view
and the line-mode output.

# Key Types

  - Markdown - glamour-backed markdown renderer for tutor replies, with
    a chroma code block fallback
  - CodeBlock - syntax-highlighted fenced code block with line numbers

# Rendering Helpers

RenderUserMessage, RenderTutorMessage, RenderNotice and RenderPending
produce transcript entries. RenderSources builds the web sources panel
shown under a search-backed reply; RenderReferences builds the pill of
scraped or retrieved references.

All output respects the active styles.Theme, so the same helpers serve
the TUI viewport and plain command output.
*/
package components
