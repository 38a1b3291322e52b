// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mentorae/tutor-tui/internal/api"
	"github.com/mentorae/tutor-tui/internal/ui/styles"
	"github.com/mentorae/tutor-tui/internal/util"
)

// RenderSources renders the web sources panel shown under a
// search-backed reply: page results first, then educational videos,
// each list capped at max entries.
func RenderSources(theme *styles.Theme, data *api.SearchData, max, width int) string {
	if data == nil {
		return ""
	}
	if max <= 0 {
		max = len(data.Results)
	}

	innerWidth := width - 6
	if innerWidth < 24 {
		innerWidth = 24
	}

	var lines []string

	if len(data.Results) > 0 {
		lines = append(lines, theme.SourcesHeader.Render("Web sources"))
		for i, r := range data.Results {
			if i == max {
				break
			}
			title := r.Title
			if title == "" {
				title = r.URL
			}
			lines = append(lines,
				theme.SourceTitle.Render(util.TruncateWidth(title, innerWidth)))
			meta := r.Domain
			if meta == "" {
				meta = r.URL
			}
			lines = append(lines,
				"  "+theme.SourceDomain.Render(util.TruncateWidth(meta, innerWidth-2)))
		}
	}

	if len(data.Videos) > 0 {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, theme.SourcesHeader.Render("Educational videos"))
		for i, v := range data.Videos {
			if i == max {
				break
			}
			lines = append(lines,
				theme.VideoTag.Render("[video]")+" "+
					theme.SourceTitle.Render(util.TruncateWidth(v.Title, innerWidth-8)))
			meta := v.Channel
			if v.Duration != "" {
				meta = fmt.Sprintf("%s (%s)", meta, v.Duration)
			}
			lines = append(lines,
				"  "+theme.SourceSnippet.Render(util.TruncateWidth(meta, innerWidth-2)))
		}
	}

	if len(lines) == 0 {
		return ""
	}

	if data.TotalResults > 0 {
		lines = append(lines, "",
			theme.SourceSnippet.Render(fmt.Sprintf("%d results for %q",
				data.TotalResults, data.Query)))
	}

	return theme.SourcesBox.MaxWidth(width).Render(strings.Join(lines, "\n"))
}

// RenderReferences renders the reference pill attached under a reply
// built from scraped pages or retrieved documents.
func RenderReferences(theme *styles.Theme, refs []string, width int) string {
	if len(refs) == 0 {
		return ""
	}

	innerWidth := width - 4
	if innerWidth < 24 {
		innerWidth = 24
	}

	lines := make([]string, 0, len(refs)+1)
	lines = append(lines, theme.SourcesHeader.Render("References"))
	for _, ref := range refs {
		ref = util.TruncateWidth(ref, innerWidth)
		if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
			ref = theme.ReferenceLink.Render(ref)
		}
		lines = append(lines, ref)
	}

	return theme.ReferencePill.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
