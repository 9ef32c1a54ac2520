// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/raglec-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in a session's transcript. User messages carry
// only content; assistant messages additionally carry the retrieval sources
// that justify the answer and the backend-issued answer identifier used to
// correlate feedback votes.
//
// An assistant message is constructed only once its full text has been
// received: the word-by-word reveal is a view concern, and the transcript
// always holds final text.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Assistant-only fields
	Sources  []Source `json:"sources,omitempty"`
	AnswerID string   `json:"query_id,omitempty"`
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return &Message{
		ID:        generateMessageID(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates a new assistant message from a complete
// answer. answerID may be empty when the backend did not issue one; such
// messages cannot receive feedback votes.
func NewAssistantMessage(content string, sources []Source, answerID string) *Message {
	return &Message{
		ID:        generateMessageID(),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
		Sources:   sources,
		AnswerID:  answerID,
	}
}

// Preview returns a single-line preview of the message content truncated to
// maxWidth display columns.
func (m *Message) Preview(maxWidth int) string {
	return util.TruncateDisplay(util.CollapseWhitespace(m.Content), maxWidth)
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// CanVote reports whether the message can receive a feedback vote.
func (m *Message) CanVote() bool {
	return m.Role == RoleAssistant && m.AnswerID != ""
}

// generateMessageID creates a unique message ID.
func generateMessageID() string {
	return "msg_" + uuid.NewString()
}
