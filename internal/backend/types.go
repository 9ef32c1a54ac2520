// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import "github.com/jeranaias/raglec-tui/internal/model"

// =============================================================================
// WIRE TYPES
// =============================================================================

// HistoryEntry is one prior conversation turn on the wire.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// QueryRequest is the /api/query request payload.
type QueryRequest struct {
	Query               string         `json:"query"`
	ConversationHistory []HistoryEntry `json:"conversation_history"`
}

// QueryResponse is the /api/query response payload. Error is populated
// instead of the other fields when the backend could not answer.
type QueryResponse struct {
	Response string         `json:"response"`
	Sources  []model.Source `json:"sources"`
	AnswerID string         `json:"query_id"`
	Error    string         `json:"error,omitempty"`
}

// FeedbackRequest is the /api/feedback request payload. Feedback is +1 for
// a positive vote, -1 for a negative one.
type FeedbackRequest struct {
	AnswerID string `json:"query_id"`
	Feedback int    `json:"feedback"`
}

// FeedbackResponse is the /api/feedback response payload.
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
