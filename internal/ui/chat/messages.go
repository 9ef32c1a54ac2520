// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines all Bubble Tea message types used by the chat
// interface. Messages are organized into the following categories:
//   - Query: backend round-trip results
//   - Reveal: word-by-word answer display ticks
//   - Feedback: vote delivery results
//   - UI State: resize and notice ticks
//
// All message types follow Bubble Tea conventions and are immutable.
package chat

import (
	"github.com/jeranaias/raglec-tui/internal/backend"
	"github.com/jeranaias/raglec-tui/internal/feedback"
)

// =============================================================================
// QUERY MESSAGES
// =============================================================================

// QueryResultMsg delivers the outcome of a backend round trip. Generation
// identifies the exchange the result belongs to; stale generations are
// dropped.
type QueryResultMsg struct {
	Generation int
	Response   *backend.QueryResponse
	Err        error
}

// =============================================================================
// REVEAL MESSAGES
// =============================================================================

// RevealTickMsg advances the word-by-word reveal by one token.
type RevealTickMsg struct {
	Generation int
}

// =============================================================================
// FEEDBACK MESSAGES
// =============================================================================

// FeedbackResultMsg reports a completed (or failed) vote send.
type FeedbackResultMsg struct {
	AnswerID string
	Vote     feedback.Vote
	Err      error
}

// =============================================================================
// PERSISTENCE MESSAGES
// =============================================================================

// ExportDoneMsg reports the result of a conversation export.
type ExportDoneMsg struct {
	Path string
	Err  error
}
