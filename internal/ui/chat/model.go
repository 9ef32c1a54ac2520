// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/raglec-tui/internal/backend"
	"github.com/jeranaias/raglec-tui/internal/config"
	"github.com/jeranaias/raglec-tui/internal/exchange"
	"github.com/jeranaias/raglec-tui/internal/feedback"
	"github.com/jeranaias/raglec-tui/internal/model"
	"github.com/jeranaias/raglec-tui/internal/session"
	"github.com/jeranaias/raglec-tui/internal/ui/components"
	"github.com/jeranaias/raglec-tui/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view. It wires the exchange
// controller, the session repository and the feedback reporter to the
// terminal.
type Model struct {
	// Configuration
	cfg *config.Config

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Domain wiring
	repo       *session.Repository
	transcript *session.Transcript
	controller *exchange.Controller
	reporter   *feedback.Reporter
	client     *backend.Client

	// Word-by-word reveal progress for the in-flight answer
	revealShown string

	// Source panel expansion, keyed by message ID
	expandedSources map[string]bool

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	notices  *components.NoticeManager
	welcome  components.Welcome

	// Markdown rendering for committed answers
	markdown *glamour.TermRenderer

	// Session picker overlay
	pickerOpen  bool
	pickerIndex int

	// Key bindings
	keyMap KeyMap

	quitting bool
}

// New creates the chat model over an initialized repository.
func New(cfg *config.Config, repo *session.Repository, client *backend.Client) Model {
	theme := themeFor(cfg, repo)

	transcript := session.NewTranscript(repo.Active())

	input := textinput.New()
	input.Placeholder = "Ask a question..."
	input.CharLimit = 4000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	welcome := components.NewWelcome(theme)
	welcome.SetBackendURL(client.BaseURL())

	return Model{
		cfg:             cfg,
		theme:           theme,
		repo:            repo,
		transcript:      transcript,
		controller:      exchange.NewController(client, transcript),
		reporter:        feedback.NewReporter(client),
		client:          client,
		expandedSources: make(map[string]bool),
		viewport:        viewport.New(0, 0),
		input:           input,
		spinner:         sp,
		notices:         components.NewNoticeManager(),
		welcome:         welcome,
		keyMap:          DefaultKeyMap(),
	}
}

// themeFor resolves the theme mode: a persisted choice wins over the
// configured default.
func themeFor(cfg *config.Config, repo *session.Repository) *styles.Theme {
	mode := cfg.UI.Theme
	if stored := repo.Theme(); stored != "" {
		mode = stored
	}
	return styles.NewTheme(mode)
}

// Init starts the spinner and notice ticking.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		components.NoticeTickCmd(),
		textinput.Blink,
	)
}

// =============================================================================
// LAYOUT
// =============================================================================

// handleResize recalculates component dimensions for a new terminal size.
func (m *Model) handleResize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.welcome.SetSize(width, height-inputAreaHeight-statusBarHeight)

	m.input.Width = width - 6

	viewportHeight := height - headerHeight - inputAreaHeight - statusBarHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	m.viewport.Width = width
	m.viewport.Height = viewportHeight

	// Wrap markdown to the bubble width, not the full terminal.
	m.markdown = newMarkdownRenderer(m.theme, bubbleWidth(width))
	m.refreshViewport()
}

// Fixed component heights used for viewport sizing.
const (
	headerHeight    = 1
	inputAreaHeight = 3
	statusBarHeight = 1
)

// bubbleWidth returns the content width for message bubbles.
func bubbleWidth(termWidth int) int {
	w := termWidth - 12
	if w < 20 {
		w = 20
	}
	return w
}

// newMarkdownRenderer builds a glamour renderer for the theme, nil when
// construction fails; callers fall back to plain text.
func newMarkdownRenderer(theme *styles.Theme, wrap int) *glamour.TermRenderer {
	style := glamour.WithStandardStyle("light")
	if theme.IsDark {
		style = glamour.WithStandardStyle("dark")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(wrap))
	if err != nil {
		return nil
	}
	return r
}

// =============================================================================
// SESSION SWITCHING
// =============================================================================

// switchToActive points the transcript and controller at the repository's
// active session, abandoning any exchange in progress.
func (m *Model) switchToActive() {
	m.transcript = session.NewTranscript(m.repo.Active())
	m.controller.ReplaceTranscript(m.transcript)
	m.revealShown = ""
	m.refreshViewport()
}

// commitDelivery lands the fully delivered answer: transcript append,
// write-through persist, back to idle.
func (m *Model) commitDelivery(cancel bool) {
	var err error
	if cancel {
		_, err = m.controller.CancelDelivery()
	} else {
		_, err = m.controller.CompleteDelivery()
	}
	if err != nil {
		return
	}
	m.revealShown = ""
	m.controller.Acknowledge()
	if err := m.repo.Persist(); err != nil {
		m.notices.AddError("Failed to save conversation: " + err.Error())
	}
	m.refreshViewport()
}

// lastVotable returns the most recent assistant message that can receive
// a vote, nil when there is none.
func (m *Model) lastVotable() *model.Message {
	msgs := m.transcript.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].CanVote() {
			return msgs[i]
		}
	}
	return nil
}
