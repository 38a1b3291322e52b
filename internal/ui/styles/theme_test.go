// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewThemeFor(t *testing.T) {
	dark := NewThemeFor("dark")
	if !dark.IsDark {
		t.Error("dark preference must force a dark theme")
	}
	light := NewThemeFor("light")
	if light.IsDark {
		t.Error("light preference must force a light theme")
	}
	// "auto" falls back to detection; just make sure it constructs.
	if NewThemeFor("auto") == nil {
		t.Error("auto preference must build a theme")
	}
}

func TestGetLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}
	theme := NewTheme()
	for _, tt := range tests {
		theme.SetSize(tt.width, 40)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: mode = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestStatusRenderers(t *testing.T) {
	if s := RenderSuccess("saved"); !strings.Contains(s, "[OK]") || !strings.Contains(s, "saved") {
		t.Errorf("RenderSuccess = %q", s)
	}
	if s := RenderError("broken"); !strings.Contains(s, "[X]") {
		t.Errorf("RenderError = %q", s)
	}
	if s := RenderStatus(false, "upload"); !strings.Contains(s, "[X]") {
		t.Errorf("RenderStatus(false) = %q", s)
	}
	if s := RenderStatus(true, "upload"); !strings.Contains(s, "[OK]") {
		t.Errorf("RenderStatus(true) = %q", s)
	}
}
