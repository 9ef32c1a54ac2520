// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/raglec-tui/internal/exchange"
	"github.com/jeranaias/raglec-tui/internal/feedback"
	"github.com/jeranaias/raglec-tui/internal/ui/components"
	"github.com/jeranaias/raglec-tui/internal/ui/styles"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case QueryResultMsg:
		return m.handleQueryResult(msg)

	case RevealTickMsg:
		return m.handleRevealTick(msg)

	case FeedbackResultMsg:
		return m.handleFeedbackResult(msg)

	case ExportDoneMsg:
		if msg.Err != nil {
			m.notices.AddError("Export failed: " + msg.Err.Error())
		} else {
			m.notices.AddSuccess("Exported to " + msg.Path)
		}
		return m, nil

	case components.NoticeTickMsg:
		m.notices.Tick()
		return m, components.NoticeTickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateComponents(msg)
}

// updateComponents forwards unhandled messages to the focused components.
func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.pickerOpen {
		return m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keyMap.Cancel):
		if m.controller.State() == exchange.StateDelivering {
			m.commitDelivery(true)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.NewSession):
		return m.handleNewSession()

	case key.Matches(msg, m.keyMap.Sessions):
		m.pickerOpen = true
		m.pickerIndex = m.activePickerIndex()
		return m, nil

	case key.Matches(msg, m.keyMap.ClearSession):
		return m.handleClearSession()

	case key.Matches(msg, m.keyMap.Export):
		return m, exportCmd(m.repo)

	case key.Matches(msg, m.keyMap.ToggleSources):
		m.toggleLastSources()
		return m, nil

	case key.Matches(msg, m.keyMap.ToggleTheme):
		return m.handleToggleTheme()

	case key.Matches(msg, m.keyMap.VoteUp):
		return m.handleVote(feedback.VoteUp)

	case key.Matches(msg, m.keyMap.VoteDown):
		return m.handleVote(feedback.VoteDown)

	case key.Matches(msg, m.keyMap.Up), key.Matches(msg, m.keyMap.Down),
		key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSubmit stages the typed query and launches the round trip.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	req, err := m.controller.Submit(m.input.Value())
	if err != nil {
		switch {
		case errors.Is(err, exchange.ErrEmptyQuery):
			// Ignore; nothing to ask.
		case errors.Is(err, exchange.ErrBusy):
			m.notices.AddInfo("Waiting for the current answer to finish")
		}
		return m, nil
	}

	m.repo.TitleActiveFromQuery(req.Message.Content)
	if err := m.repo.Persist(); err != nil {
		m.notices.AddError("Failed to save conversation: " + err.Error())
	}

	m.input.Reset()
	m.refreshViewport()
	m.viewport.GotoBottom()

	return m, queryCmd(m.controller, req, m.cfg.Timeout())
}

func (m Model) handleNewSession() (tea.Model, tea.Cmd) {
	if m.controller.State() == exchange.StateDelivering {
		m.commitDelivery(true)
	}
	if _, err := m.repo.CreateSession(); err != nil {
		m.notices.AddError("Failed to create conversation: " + err.Error())
		return m, nil
	}
	m.switchToActive()
	return m, nil
}

func (m Model) handleClearSession() (tea.Model, tea.Cmd) {
	if m.controller.Busy() {
		return m, nil
	}
	if err := m.repo.ClearActive(); err != nil {
		m.notices.AddError("Failed to clear conversation: " + err.Error())
		return m, nil
	}
	m.switchToActive()
	return m, nil
}

func (m Model) handleToggleTheme() (tea.Model, tea.Cmd) {
	mode := "dark"
	if m.theme.IsDark {
		mode = "light"
	}
	// Swap in place so every component holding the theme pointer follows.
	*m.theme = *styles.NewTheme(mode)
	m.spinner.Style = m.theme.Spinner
	if err := m.repo.SetTheme(mode); err != nil {
		m.notices.AddError("Failed to save theme: " + err.Error())
	}
	m.markdown = newMarkdownRenderer(m.theme, bubbleWidth(m.width))
	m.refreshViewport()
	return m, nil
}

func (m Model) handleVote(vote feedback.Vote) (tea.Model, tea.Cmd) {
	target := m.lastVotable()
	if target == nil {
		m.notices.AddInfo("No answer to rate yet")
		return m, nil
	}
	return m, feedbackCmd(m.reporter, target, vote, m.cfg.Timeout())
}

// toggleLastSources flips the source panel on the most recent answer that
// carries sources.
func (m *Model) toggleLastSources() {
	msgs := m.transcript.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if len(msgs[i].Sources) > 0 {
			m.expandedSources[msgs[i].ID] = !m.sourcesExpanded(msgs[i].ID)
			m.refreshViewport()
			return
		}
	}
}

// sourcesExpanded resolves a message's panel state against the configured
// default.
func (m *Model) sourcesExpanded(messageID string) bool {
	if state, ok := m.expandedSources[messageID]; ok {
		return state
	}
	return m.cfg.UI.SourcesExpanded
}

// =============================================================================
// EXCHANGE RESULTS
// =============================================================================

func (m Model) handleQueryResult(msg QueryResultMsg) (tea.Model, tea.Cmd) {
	// A result from an abandoned exchange: drop it.
	if msg.Generation != m.controller.Generation() ||
		m.controller.State() != exchange.StatePending {
		return m, nil
	}

	if msg.Err != nil {
		m.controller.Fail(msg.Err)
		m.notices.AddError(msg.Err.Error())
		m.controller.Acknowledge()
		m.refreshViewport()
		return m, nil
	}

	stream, err := m.controller.Deliver(msg.Response)
	if err != nil {
		return m, nil
	}

	if !m.cfg.UI.Reveal {
		stream.Finish()
		m.commitDelivery(false)
		m.viewport.GotoBottom()
		return m, nil
	}

	// Reveal the first word immediately, then pace the rest.
	token, delay, ok := stream.Next()
	if !ok {
		m.commitDelivery(false)
		return m, nil
	}
	m.revealShown = token
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, revealTickCmd(delay, msg.Generation)
}

func (m Model) handleRevealTick(msg RevealTickMsg) (tea.Model, tea.Cmd) {
	if msg.Generation != m.controller.Generation() ||
		m.controller.State() != exchange.StateDelivering {
		return m, nil
	}

	stream := m.controller.Stream()
	token, delay, ok := stream.Next()
	if !ok {
		m.commitDelivery(false)
		m.viewport.GotoBottom()
		return m, nil
	}

	m.revealShown += token
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, revealTickCmd(delay, msg.Generation)
}

func (m Model) handleFeedbackResult(msg FeedbackResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if errors.Is(msg.Err, feedback.ErrNotVotable) {
			return m, nil
		}
		m.notices.AddError("Failed to send feedback: " + msg.Err.Error())
		m.refreshViewport()
		return m, nil
	}
	m.notices.AddSuccess("Feedback recorded")
	m.refreshViewport()
	return m, nil
}

// =============================================================================
// SESSION PICKER
// =============================================================================

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sessions := m.repo.Sessions()

	switch msg.String() {
	case "esc", "ctrl+o":
		m.pickerOpen = false
		return m, nil

	case "up":
		if m.pickerIndex > 0 {
			m.pickerIndex--
		}
		return m, nil

	case "down":
		if m.pickerIndex < len(sessions)-1 {
			m.pickerIndex++
		}
		return m, nil

	case "enter":
		m.pickerOpen = false
		if m.pickerIndex >= 0 && m.pickerIndex < len(sessions) {
			if m.controller.State() == exchange.StateDelivering {
				m.commitDelivery(true)
			}
			if _, err := m.repo.SelectSession(sessions[m.pickerIndex].ID); err != nil {
				m.notices.AddError("Failed to switch conversation: " + err.Error())
				return m, nil
			}
			m.switchToActive()
		}
		return m, nil

	case "delete", "backspace":
		if m.pickerIndex >= 0 && m.pickerIndex < len(sessions) {
			if err := m.repo.DeleteSession(sessions[m.pickerIndex].ID); err != nil {
				m.notices.AddError("Failed to delete conversation: " + err.Error())
				return m, nil
			}
			if m.pickerIndex >= m.repo.Count() {
				m.pickerIndex = m.repo.Count() - 1
			}
			m.switchToActive()
		}
		return m, nil
	}

	return m, nil
}

// activePickerIndex returns the active session's position in the list.
func (m *Model) activePickerIndex() int {
	for i, s := range m.repo.Sessions() {
		if s.ID == m.repo.ActiveID() {
			return i
		}
	}
	return 0
}
