// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/raglec-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// Welcome is the banner shown over an empty conversation.
type Welcome struct {
	version    string
	backendURL string

	width  int
	height int

	theme *styles.Theme
}

// NewWelcome creates a welcome banner.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		version: "dev",
		theme:   theme,
	}
}

// SetVersion sets the version string.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetBackendURL sets the backend URL shown in the banner.
func (w *Welcome) SetBackendURL(url string) {
	w.backendURL = url
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// View renders the welcome banner.
func (w Welcome) View() string {
	t := w.theme

	var b strings.Builder
	b.WriteString(t.WelcomeLogo.Render("raglec"))
	b.WriteString("\n")
	b.WriteString(t.WelcomeInfo.Render(fmt.Sprintf("version %s", w.version)))
	b.WriteString("\n\n")
	b.WriteString(t.WelcomeInfo.Render("Ask a question about your documents."))
	b.WriteString("\n")
	if w.backendURL != "" {
		b.WriteString(t.WelcomeInfo.Render(fmt.Sprintf("backend: %s", w.backendURL)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	keys := [][2]string{
		{"enter", "ask"},
		{"ctrl+n", "new conversation"},
		{"ctrl+o", "switch conversation"},
		{"ctrl+c", "quit"},
	}
	for _, k := range keys {
		b.WriteString(t.WelcomeKey.Render(k[0]))
		b.WriteString(t.WelcomeInfo.Render("  " + k[1]))
		b.WriteString("\n")
	}

	box := t.WelcomeBox.Render(b.String())
	if w.width > 0 && w.height > 0 {
		return lipgloss.Place(w.width, w.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
