// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file contains the rendering logic for the chat interface: the
// header, the message log, the source panels, the input area and the
// status bar, plus the session picker overlay.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/raglec-tui/internal/exchange"
	"github.com/jeranaias/raglec-tui/internal/model"
	"github.com/jeranaias/raglec-tui/internal/ui/components"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the complete chat view.
// Layout: header (1 line) + messages (viewport) + input (3 lines) + status (1 line).
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.pickerOpen {
		return m.renderPicker()
	}

	sections := []string{
		m.renderHeader(),
		m.viewport.View(),
	}

	if notices := m.notices.Active(); len(notices) > 0 {
		sections = append(sections, components.RenderNotices(m.theme, notices, m.width))
	}

	sections = append(sections,
		m.renderInput(),
		m.renderStatusBar(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// refreshViewport rebuilds the viewport content from the transcript and
// the current exchange state.
func (m *Model) refreshViewport() {
	if m.width == 0 {
		return
	}
	m.viewport.SetContent(m.renderMessages())
}

// =============================================================================
// MESSAGE LOG
// =============================================================================

func (m *Model) renderMessages() string {
	msgs := m.transcript.Messages()

	if len(msgs) == 0 && !m.controller.Busy() {
		return m.welcome.View()
	}

	var parts []string
	for _, msg := range msgs {
		parts = append(parts, m.renderMessage(msg))
	}

	switch m.controller.State() {
	case exchange.StatePending:
		parts = append(parts, m.renderThinking())
	case exchange.StateDelivering:
		parts = append(parts, m.renderRevealing())
	}

	return strings.Join(parts, "\n\n")
}

func (m *Model) renderMessage(msg *model.Message) string {
	t := m.theme

	label := t.MessageLabel.Render(msg.Role.DisplayName()) + " " +
		t.MessageTime.Render(msg.Timestamp.Format("15:04"))

	if msg.Role == model.RoleUser {
		bubble := t.UserBubble.Width(bubbleWidth(m.width)).Render(msg.Content)
		return lipgloss.JoinVertical(lipgloss.Right, label, bubble)
	}

	bubble := t.AssistantBubble.Width(bubbleWidth(m.width)).Render(m.renderAnswer(msg.Content))
	parts := []string{label, bubble}

	if len(msg.Sources) > 0 {
		parts = append(parts, components.RenderSources(
			t, msg.Sources, m.sourcesExpanded(msg.ID), m.width))
	}
	if msg.CanVote() {
		vote := m.reporter.Selection(msg.AnswerID)
		parts = append(parts, components.RenderVotes(t, int(vote)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderAnswer renders answer text as Markdown, falling back to the raw
// text when the renderer is unavailable.
func (m *Model) renderAnswer(content string) string {
	if m.markdown == nil {
		return content
	}
	rendered, err := m.markdown.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

func (m *Model) renderThinking() string {
	return m.spinner.View() + " " + m.theme.ThinkingText.Render("Searching documents...")
}

// renderRevealing shows the partial answer during the word-by-word
// reveal. The text stays plain until commit; partial Markdown renders
// badly.
func (m *Model) renderRevealing() string {
	label := m.theme.MessageLabel.Render(model.RoleAssistant.DisplayName())
	bubble := m.theme.AssistantBubble.Width(bubbleWidth(m.width)).Render(m.revealShown)
	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

// =============================================================================
// CHROME
// =============================================================================

func (m Model) renderHeader() string {
	title := m.repo.Active().DisplayTitle()
	count := m.theme.HeaderSubtitle.Render(
		fmt.Sprintf(" (%d conversations)", m.repo.Count()))
	header := m.theme.HeaderTitle.Render(title) + count
	return m.theme.Header.Width(m.width).Render(header)
}

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width - 2).Render(
		m.theme.InputPrompt.Render("❯ ") + m.input.View())
}

func (m Model) renderStatusBar() string {
	t := m.theme

	var state string
	switch m.controller.State() {
	case exchange.StatePending:
		state = "thinking"
	case exchange.StateDelivering:
		state = "answering"
	default:
		state = "ready"
	}

	var hints []string
	for _, b := range m.keyMap.ShortHelp() {
		hints = append(hints,
			t.ShortcutKey.Render(b.Help().Key)+" "+t.ShortcutDesc.Render(b.Help().Desc))
	}

	left := t.ShortcutDesc.Render(state)
	right := strings.Join(hints, "  ")
	return t.StatusBar.Width(m.width).Render(left + "  " + right)
}

// =============================================================================
// SESSION PICKER
// =============================================================================

func (m Model) renderPicker() string {
	t := m.theme
	sessions := m.repo.Sessions()

	var b strings.Builder
	b.WriteString(t.HeaderTitle.Render("Conversations"))
	b.WriteString("\n\n")

	// Newest last in storage order; show as stored so delete targeting
	// stays predictable.
	for i, s := range sessions {
		line := s.DisplayTitle()
		meta := fmt.Sprintf(" · %d messages · %s",
			s.MessageCount(), s.UpdatedAt.Format("Jan 2 15:04"))

		if i == m.pickerIndex {
			b.WriteString(t.SessionItemSelected.Render("▸ " + line))
		} else {
			b.WriteString(t.SessionItem.Render("  " + line))
		}
		b.WriteString(t.SessionMeta.Render(meta))
		if s.ID == m.repo.ActiveID() {
			b.WriteString(t.SessionMeta.Render(" (active)"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(t.ShortcutKey.Render("enter"))
	b.WriteString(t.ShortcutDesc.Render(" open  "))
	b.WriteString(t.ShortcutKey.Render("del"))
	b.WriteString(t.ShortcutDesc.Render(" delete  "))
	b.WriteString(t.ShortcutKey.Render("esc"))
	b.WriteString(t.ShortcutDesc.Render(" close"))

	box := t.SessionList.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
