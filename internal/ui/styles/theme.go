// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the mentorae TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserBubble  lipgloss.Style
	TutorBubble lipgloss.Style
	NoticeLine  lipgloss.Style
	SpeakerUser lipgloss.Style
	SpeakerAI   lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusRAG    lipgloss.Style
	StatusImage  lipgloss.Style
	StatusVoice  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// SPINNER AND PENDING STYLES
	// ==========================================================================

	Spinner     lipgloss.Style
	PendingText lipgloss.Style

	// ==========================================================================
	// SOURCE PANEL STYLES
	// ==========================================================================

	SourcesBox    lipgloss.Style
	SourcesHeader lipgloss.Style
	SourceTitle   lipgloss.Style
	SourceDomain  lipgloss.Style
	SourceSnippet lipgloss.Style
	VideoTag      lipgloss.Style
	ReferencePill lipgloss.Style
	ReferenceLink lipgloss.Style

	// ==========================================================================
	// CODE BLOCK STYLES
	// ==========================================================================

	CodeBlock     lipgloss.Style
	CodeLangBadge lipgloss.Style
	CodeLineNum   lipgloss.Style

	// ==========================================================================
	// STATUS MESSAGE STYLES
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
	LinkStyle    lipgloss.Style
}

// NewTheme creates a new theme with all styles configured, detecting
// dark/light from the terminal.
func NewTheme() *Theme {
	return newTheme(termenv.HasDarkBackground())
}

// NewThemeFor creates a theme honoring a configured preference: "dark",
// "light", or "auto" (terminal detection).
func NewThemeFor(preference string) *Theme {
	switch preference {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return newTheme(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return newTheme(false)
	default:
		return NewTheme()
	}
}

func newTheme(isDark bool) *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal).
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(0, 2).
		Align(lipgloss.Center)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Messages
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(UserBubbleBorder).
		BorderLeft(true).
		PaddingLeft(1).
		MarginLeft(2)

	t.TutorBubble = lipgloss.NewStyle().
		Foreground(TutorBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(TutorBubbleBorder).
		BorderLeft(true).
		PaddingLeft(1)

	t.NoticeLine = lipgloss.NewStyle().
		Foreground(NoticeFg).
		Italic(true)

	t.SpeakerUser = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)

	t.SpeakerAI = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusRAG = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.StatusImage = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true)

	t.StatusVoice = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Spinner and pending placeholders
	t.Spinner = lipgloss.NewStyle().
		Foreground(Indigo)

	t.PendingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Source panels
	t.SourcesBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.SourcesHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	t.SourceTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(SourceTitleFg)

	t.SourceDomain = lipgloss.NewStyle().
		Foreground(SourceDomainFg)

	t.SourceSnippet = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.VideoTag = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ReferencePill = lipgloss.NewStyle().
		Foreground(TextMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(OverlayDim).
		PaddingLeft(1)

	t.ReferenceLink = lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)

	// Code blocks
	t.CodeBlock = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.CodeLangBadge = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(Overlay).
		Padding(0, 1).
		Bold(true)

	t.CodeLineNum = lipgloss.NewStyle().
		Foreground(TextMuted).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	// Status messages
	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.InfoStyle = lipgloss.NewStyle().
		Foreground(LinkColor).
		Bold(true)

	t.LinkStyle = lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
