// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the raglec TUI.
//
// This file implements non-blocking system notices. Unlike modal dialogs,
// notices appear above the input area and auto-dismiss, so the user keeps
// typing while they are displayed.
package components

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/raglec-tui/internal/ui/styles"
)

// =============================================================================
// NOTICE TYPES
// =============================================================================

// NoticeKind represents the type of system notice.
type NoticeKind int

const (
	// NoticeInfo is an informational notice (cyan color)
	NoticeInfo NoticeKind = iota
	// NoticeError is an error notice (rose/red color)
	NoticeError
	// NoticeSuccess is a success notice (emerald color)
	NoticeSuccess
)

// NoticeDuration is the auto-dismiss duration for all notices.
const NoticeDuration = 5 * time.Second

// =============================================================================
// NOTICE
// =============================================================================

// Notice is a non-blocking system notification.
type Notice struct {
	ID        int           // Unique identifier for this notice
	Message   string        // The notice message
	Kind      NoticeKind    // Type of notice
	CreatedAt time.Time     // When the notice was created
	Duration  time.Duration // How long before auto-dismiss
}

// NewNotice creates a notice of the given kind.
func NewNotice(message string, kind NoticeKind) Notice {
	return Notice{
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
		Duration:  NoticeDuration,
	}
}

// IsExpired returns true if the notice should be dismissed.
func (n *Notice) IsExpired() bool {
	return time.Since(n.CreatedAt) >= n.Duration
}

// =============================================================================
// NOTICE MANAGER
// =============================================================================

// NoticeManager manages the stack of active notices.
type NoticeManager struct {
	notices    []Notice
	nextID     int
	maxNotices int
	mutex      sync.Mutex
}

// NewNoticeManager creates a notice manager.
func NewNoticeManager() *NoticeManager {
	return &NoticeManager{
		notices:    make([]Notice, 0),
		nextID:     1,
		maxNotices: 3,
	}
}

// Add adds a notice and returns its ID.
func (m *NoticeManager) Add(notice Notice) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if notice.ID == 0 {
		notice.ID = m.nextID
		m.nextID++
	}

	// Newest first
	m.notices = append([]Notice{notice}, m.notices...)
	if len(m.notices) > m.maxNotices {
		m.notices = m.notices[:m.maxNotices]
	}
	return notice.ID
}

// AddInfo is a convenience method to add an info notice.
func (m *NoticeManager) AddInfo(message string) int {
	return m.Add(NewNotice(message, NoticeInfo))
}

// AddError is a convenience method to add an error notice.
func (m *NoticeManager) AddError(message string) int {
	return m.Add(NewNotice(message, NoticeError))
}

// AddSuccess is a convenience method to add a success notice.
func (m *NoticeManager) AddSuccess(message string) int {
	return m.Add(NewNotice(message, NoticeSuccess))
}

// Tick removes expired notices and returns the remaining ones.
// Called periodically from the update loop.
func (m *NoticeManager) Tick() []Notice {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	active := make([]Notice, 0, len(m.notices))
	for _, n := range m.notices {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	m.notices = active
	return m.notices
}

// Active returns a copy of the current notices.
func (m *NoticeManager) Active() []Notice {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	result := make([]Notice, len(m.notices))
	copy(result, m.notices)
	return result
}

// HasNotices returns true if any notice is showing.
func (m *NoticeManager) HasNotices() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.notices) > 0
}

// =============================================================================
// NOTICE MESSAGES
// =============================================================================

// NoticeTickMsg is sent periodically to expire notices.
type NoticeTickMsg struct {
	Time time.Time
}

// NoticeTickCmd returns a command that ticks notices every 250ms.
func NoticeTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return NoticeTickMsg{Time: t}
	})
}

// =============================================================================
// NOTICE RENDERING
// =============================================================================

// RenderNotice renders a single notice for the given terminal width.
func RenderNotice(theme *styles.Theme, notice Notice, width int) string {
	var icon string
	var color lipgloss.AdaptiveColor
	switch notice.Kind {
	case NoticeError:
		icon = "✗"
		color = styles.Rose
	case NoticeSuccess:
		icon = "✓"
		color = styles.Emerald
	default:
		icon = "ℹ"
		color = styles.Cyan
	}

	maxWidth := 60
	if width > 0 && width-4 < maxWidth {
		maxWidth = width - 4
	}

	box := lipgloss.NewStyle().
		Foreground(color).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		MaxWidth(maxWidth)

	return box.Render(icon + " " + notice.Message)
}

// RenderNotices renders the active notices stacked newest first.
func RenderNotices(theme *styles.Theme, notices []Notice, width int) string {
	if len(notices) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(notices))
	for _, n := range notices {
		rendered = append(rendered, RenderNotice(theme, n, width))
	}
	return strings.Join(rendered, "\n")
}
