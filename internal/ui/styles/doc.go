// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the mentorae TUI.

This package defines the color palette and the Theme struct used by the
chat view and CLI output. All colors use Lip Gloss AdaptiveColor for
automatic light/dark terminal detection.

# Color System (colors.go)

  - Indigo - Primary accent for tutor messages
  - Teal - Brand color for user input and commands
  - Emerald - Success states and the document-index-ready indicator
  - Amber - Warnings, search fallback notices, voice capture
  - Rose - Errors and failed uploads

Text colors form a hierarchy (TextPrimary, TextSecondary, TextMuted,
TextInverse) and message bubbles use semantic tokens (UserBubbleFg,
TutorBubbleFg, NoticeFg).

# Theme System (theme.go)

The Theme struct provides runtime color adaptation:

	theme := styles.NewTheme()
	if theme.IsDark {
		// Dark terminal detected
	}

NewThemeFor honors the configured ui.theme preference ("dark", "light",
or "auto" for terminal detection).

# Status Helpers

RenderSuccess, RenderError, RenderWarning and RenderInfo pair ASCII
indicators ([OK], [X], [!], [i]) with high-contrast colors so states
read without color vision.
*/
package styles
