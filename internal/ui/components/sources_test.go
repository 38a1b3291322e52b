// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/mentorae/tutor-tui/internal/api"
	"github.com/mentorae/tutor-tui/internal/ui/styles"
)

func testData() *api.SearchData {
	return &api.SearchData{
		Query: "photosynthesis",
		Results: []api.SearchResult{
			{Title: "Photosynthesis - Encyclopedia", URL: "https://en.example.org/photo", Domain: "en.example.org"},
			{Title: "Light reactions explained", URL: "https://bio.example.com/light", Domain: "bio.example.com"},
			{Title: "Calvin cycle", URL: "https://bio.example.com/calvin", Domain: "bio.example.com"},
		},
		Videos: []api.SearchVideo{
			{Title: "Photosynthesis in 5 minutes", URL: "https://videos.example/1", Channel: "BioChannel", Duration: "5:12"},
		},
		TotalResults: 4,
	}
}

func TestRenderSources(t *testing.T) {
	theme := styles.NewThemeFor("dark")
	out := RenderSources(theme, testData(), 6, 100)

	for _, want := range []string{
		"Web sources",
		"Photosynthesis - Encyclopedia",
		"en.example.org",
		"Educational videos",
		"[video]",
		"BioChannel",
		"5:12",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("panel missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSources_CapsResults(t *testing.T) {
	theme := styles.NewThemeFor("dark")
	out := RenderSources(theme, testData(), 2, 100)

	if !strings.Contains(out, "Light reactions") {
		t.Error("second result should be shown")
	}
	if strings.Contains(out, "Calvin cycle") {
		t.Error("third result exceeds the cap")
	}
}

func TestRenderSources_Empty(t *testing.T) {
	theme := styles.NewThemeFor("dark")
	if out := RenderSources(theme, nil, 6, 100); out != "" {
		t.Errorf("nil data must render nothing, got %q", out)
	}
	if out := RenderSources(theme, &api.SearchData{Query: "q"}, 6, 100); out != "" {
		t.Errorf("empty data must render nothing, got %q", out)
	}
}

func TestRenderReferences(t *testing.T) {
	theme := styles.NewThemeFor("dark")
	out := RenderReferences(theme, []string{"https://en.example.org/photo", "Biology, 12th ed."}, 100)

	if !strings.Contains(out, "References") {
		t.Error("missing header")
	}
	if !strings.Contains(out, "Biology, 12th ed.") {
		t.Error("missing plain reference")
	}
	if RenderReferences(theme, nil, 100) != "" {
		t.Error("no refs must render nothing")
	}
}

func TestParseCodeBlocks(t *testing.T) {
	md := "Look at this:\n```go\nfmt.Println(\"hi\")\n```\nDone."
	out := ParseCodeBlocks(md, 80, "monokai")

	if !strings.Contains(out, "Look at this:") || !strings.Contains(out, "Done.") {
		t.Error("prose must survive")
	}
	if strings.Contains(out, "```") {
		t.Error("fences must be consumed")
	}
	if !strings.Contains(out, "go") {
		t.Error("language badge missing")
	}
}

func TestMarkdownRenderFallsBackCleanly(t *testing.T) {
	m := NewMarkdown(60, "monokai")
	out := m.Render("# Title\n\nplain paragraph")
	if out == "" {
		t.Fatal("render produced nothing")
	}
	if !strings.Contains(out, "Title") || !strings.Contains(out, "plain paragraph") {
		t.Errorf("content lost: %q", out)
	}
}
