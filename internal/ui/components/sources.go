// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/raglec-tui/internal/model"
	"github.com/jeranaias/raglec-tui/internal/ui/styles"
)

// =============================================================================
// SOURCE PANEL
// =============================================================================

// RenderSources renders the retrieval sources attached to an answer.
// Collapsed, only a summary line shows; expanded, each fragment renders
// with its document heading, similarity and content.
func RenderSources(theme *styles.Theme, sources []model.Source, expanded bool, width int) string {
	if len(sources) == 0 {
		return ""
	}

	if !expanded {
		summary := fmt.Sprintf("▸ %d source fragment%s (ctrl+s to expand)",
			len(sources), plural(len(sources)))
		return theme.SourceCollapse.Render(summary)
	}

	contentWidth := width - 8
	if contentWidth < 20 {
		contentWidth = 20
	}

	var parts []string
	parts = append(parts, theme.SourceCollapse.Render(
		fmt.Sprintf("▾ %d source fragment%s", len(sources), plural(len(sources)))))

	for i, src := range sources {
		header := theme.SourceHeader.Render(src.Title(i + 1))
		if src.Similarity != nil {
			header += " " + theme.SourceMeta.Render(
				fmt.Sprintf("(%.0f%% match)", *src.Similarity*100))
		}

		body := theme.SourceBody.
			Width(contentWidth).
			Render(src.Content)

		parts = append(parts, header, body)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// RenderVotes renders the feedback indicator for an answer.
func RenderVotes(theme *styles.Theme, vote int) string {
	up := theme.VoteInactive.Render("▲")
	down := theme.VoteInactive.Render("▼")
	switch {
	case vote > 0:
		up = theme.VoteUp.Render("▲")
	case vote < 0:
		down = theme.VoteDown.Render("▼")
	}
	hint := theme.ShortcutDesc.Render("alt+u/alt+d to rate")
	return strings.Join([]string{up, down, hint}, " ")
}
