// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/raglec-tui/internal/util"
)

// DefaultTitle is the title of a session before its first user message.
const DefaultTitle = "New conversation"

// MaxTitleWidth caps session titles at 30 display columns; longer first
// messages are truncated with an ellipsis.
const MaxTitleWidth = 30

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session holds one persisted conversation thread: identity, a derived
// title and the chronological message log. Message order is append-only;
// the only bulk mutation is full replacement when a stored session is
// loaded.
type Session struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Messages  []*Message `json:"messages"`
}

// NewSession creates an empty session with a generated ID and the default
// title.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Title:     DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
	}
}

// Append adds a message to the end of the log.
func (s *Session) Append(msg *Message) {
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = time.Now()
}

// HasDefaultTitle reports whether the session still carries the default
// title, meaning automatic titling from the first user message applies.
func (s *Session) HasDefaultTitle() bool {
	return s.Title == "" || s.Title == DefaultTitle
}

// SetTitle sets the session title verbatim (explicit user rename).
func (s *Session) SetTitle(title string) {
	s.Title = title
	s.UpdatedAt = time.Now()
}

// DisplayTitle returns the title, falling back to the default.
func (s *Session) DisplayTitle() string {
	if s.Title == "" {
		return DefaultTitle
	}
	return s.Title
}

// MessageCount returns the number of messages.
func (s *Session) MessageCount() int {
	return len(s.Messages)
}

// IsEmpty returns true if there are no messages.
func (s *Session) IsEmpty() bool {
	return len(s.Messages) == 0
}

// LastAssistantMessage returns the most recent assistant message, or nil.
func (s *Session) LastAssistantMessage() *Message {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAssistant {
			return s.Messages[i]
		}
	}
	return nil
}

// Clear removes all messages and restores the default title. Used by the
// "clear conversation" action; the session keeps its identity.
func (s *Session) Clear() {
	s.Messages = make([]*Message, 0)
	s.Title = DefaultTitle
	s.UpdatedAt = time.Now()
}

// TitleFromQuery derives a session title from the first user message:
// whitespace collapsed and capped at MaxTitleWidth display columns.
func TitleFromQuery(query string) string {
	title := util.TruncateDisplay(util.CollapseWhitespace(query), MaxTitleWidth)
	if title == "" {
		return DefaultTitle
	}
	return title
}
