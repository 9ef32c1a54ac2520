// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// TruncateDisplay truncates a string to at most maxWidth display columns,
// appending "..." when truncation occurs. Width is measured in terminal
// cells (via go-runewidth), not bytes or runes, so wide CJK characters and
// combining marks are handled correctly.
func TruncateDisplay(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// CollapseWhitespace replaces newlines and carriage returns with spaces and
// squeezes runs of spaces, for single-line previews and titles.
func CollapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.Join(strings.Fields(s), " ")
}

// PadDisplay pads a string with spaces to the given display width.
// Strings already at or beyond the width are returned unchanged.
func PadDisplay(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
