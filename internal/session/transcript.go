// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"github.com/jeranaias/raglec-tui/internal/model"
)

// =============================================================================
// TRANSCRIPT
// =============================================================================

// HistoryWindow is how many recent messages accompany a query as context.
// Older turns still render and persist; they just stop informing retrieval.
const HistoryWindow = 10

// Transcript is the in-order message log of one conversation, the working
// view the exchange flow appends to. It wraps the active session's message
// slice so appends land in the persisted model directly.
type Transcript struct {
	session *model.Session
}

// NewTranscript creates a transcript over the given session.
func NewTranscript(s *model.Session) *Transcript {
	return &Transcript{session: s}
}

// Session returns the underlying session.
func (t *Transcript) Session() *model.Session {
	return t.session
}

// Append adds a message to the end of the log.
func (t *Transcript) Append(msg *model.Message) {
	t.session.Append(msg)
}

// Messages returns the full log in chronological order.
func (t *Transcript) Messages() []*model.Message {
	return t.session.Messages
}

// Len returns the number of messages in the log.
func (t *Transcript) Len() int {
	return len(t.session.Messages)
}

// ReplaceAll swaps in a different session, discarding the previous view.
// Used when the active session changes.
func (t *Transcript) ReplaceAll(s *model.Session) {
	t.session = s
}

// RecentWindow returns the most recent HistoryWindow messages, oldest
// first. Taken right after a query is appended, the window ends with the
// query itself, which is the shape the backend expects.
func (t *Transcript) RecentWindow() []*model.Message {
	msgs := t.session.Messages
	if len(msgs) <= HistoryWindow {
		return msgs
	}
	return msgs[len(msgs)-HistoryWindow:]
}

// Last returns the final message, or nil for an empty log.
func (t *Transcript) Last() *model.Message {
	msgs := t.session.Messages
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}
