// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feedback

import (
	"context"
	"sync"

	"github.com/jeranaias/raglec-tui/internal/model"
)

// =============================================================================
// VOTES
// =============================================================================

// Vote is a user's judgment of one answer.
type Vote int

const (
	// VoteNone means no judgment has been recorded.
	VoteNone Vote = 0

	// VoteUp marks an answer helpful.
	VoteUp Vote = 1

	// VoteDown marks an answer unhelpful.
	VoteDown Vote = -1
)

// String returns the vote name for logs.
func (v Vote) String() string {
	switch v {
	case VoteUp:
		return "up"
	case VoteDown:
		return "down"
	default:
		return "none"
	}
}

// =============================================================================
// ERRORS
// =============================================================================

// ReporterError represents a feedback flow error.
// It supports comparison with errors.Is.
type ReporterError struct {
	Message string
}

// Error implements the error interface.
func (e *ReporterError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing reporter errors.
func (e *ReporterError) Is(target error) bool {
	t, ok := target.(*ReporterError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// ErrNotVotable is returned for messages that cannot receive a vote:
// user messages, and answers the backend issued no identifier for.
var ErrNotVotable = &ReporterError{Message: "message cannot receive feedback"}

// =============================================================================
// REPORTER
// =============================================================================

// Sender delivers one vote to the backend. *backend.Client satisfies it.
type Sender interface {
	SendFeedback(ctx context.Context, answerID string, value int) error
}

// Reporter records votes on answers and forwards them to the backend. The
// local selection updates before the send so the indicator flips
// instantly, and a failed send keeps the selection: the user said what
// they thought, the delivery failure is reported separately. Re-voting is
// allowed and the last vote wins, locally and at the backend.
//
// Safe for concurrent use: sends run off the UI thread while the view
// reads selections.
type Reporter struct {
	sender     Sender
	mutex      sync.Mutex
	selections map[string]Vote
}

// NewReporter creates a reporter over the given sender.
func NewReporter(sender Sender) *Reporter {
	return &Reporter{
		sender:     sender,
		selections: make(map[string]Vote),
	}
}

// Selection returns the recorded vote for an answer, VoteNone when the
// answer has not been voted on.
func (r *Reporter) Selection(answerID string) Vote {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.selections[answerID]
}

// Submit records and sends a vote for the given message. Messages without
// an answer identifier return ErrNotVotable; there is nothing for the
// backend to attach the vote to.
func (r *Reporter) Submit(ctx context.Context, msg *model.Message, vote Vote) error {
	if msg == nil || !msg.CanVote() {
		return ErrNotVotable
	}

	r.mutex.Lock()
	r.selections[msg.AnswerID] = vote
	r.mutex.Unlock()

	return r.sender.SendFeedback(ctx, msg.AnswerID, int(vote))
}
