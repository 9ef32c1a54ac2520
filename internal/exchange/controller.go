// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exchange

import (
	"context"
	"strings"

	"github.com/jeranaias/raglec-tui/internal/backend"
	"github.com/jeranaias/raglec-tui/internal/model"
	"github.com/jeranaias/raglec-tui/internal/reveal"
	"github.com/jeranaias/raglec-tui/internal/session"
)

// =============================================================================
// STATE
// =============================================================================

// State is the phase of the current exchange.
type State int

const (
	// StateIdle accepts a new query.
	StateIdle State = iota

	// StatePending has a query in flight at the backend.
	StatePending

	// StateDelivering is revealing a received answer word by word.
	StateDelivering

	// StateFailed holds a backend failure until acknowledged.
	StateFailed

	// StateCompleted holds a finished answer until acknowledged.
	StateCompleted
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateDelivering:
		return "delivering"
	case StateFailed:
		return "failed"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// =============================================================================
// ERRORS
// =============================================================================

// ExchangeError represents an exchange flow error.
// It supports comparison with errors.Is.
type ExchangeError struct {
	Message string
}

// Error implements the error interface.
func (e *ExchangeError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing exchange errors.
func (e *ExchangeError) Is(target error) bool {
	t, ok := target.(*ExchangeError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

var (
	// ErrEmptyQuery is returned for queries that are blank after trimming.
	ErrEmptyQuery = &ExchangeError{Message: "query is empty"}

	// ErrBusy is returned when a submit arrives mid-exchange. One
	// exchange at a time keeps the transcript's alternation intact.
	ErrBusy = &ExchangeError{Message: "an exchange is already in progress"}

	// ErrNotPending is returned when a result arrives outside Pending.
	ErrNotPending = &ExchangeError{Message: "no exchange is pending"}
)

// =============================================================================
// TRANSPORT
// =============================================================================

// Transport performs one query round trip. *backend.Client satisfies it;
// tests substitute fakes.
type Transport interface {
	Query(ctx context.Context, query string, history []*model.Message) (*backend.QueryResponse, error)
}

// =============================================================================
// REQUEST
// =============================================================================

// Request is one staged round trip, captured as plain values at submit
// time. The transport call runs on another goroutine and reads only the
// request, so the event loop is free to move the controller on (session
// switch, acknowledge) without synchronization.
type Request struct {
	// Query is the trimmed query text.
	Query string

	// History is the context window sent alongside the query. It ends
	// with the query's own user message.
	History []*model.Message

	// Generation identifies the exchange this request belongs to.
	Generation int

	// Message is the optimistic user message already in the transcript.
	Message *model.Message
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller runs the ask-answer cycle over a transcript. The caller
// drives it: Submit stages a query with an optimistic user message,
// Execute performs the round trip, Deliver or Fail records the outcome,
// CompleteDelivery or CancelDelivery commits the answer, Acknowledge
// returns to idle.
//
// Exactly one exchange runs at a time. The transcript only ever gains
// complete messages; the in-progress reveal lives in the stream, not the
// log.
type Controller struct {
	transport  Transport
	transcript *session.Transcript

	state      State
	generation int
	response   *backend.QueryResponse
	stream     *reveal.Stream
	failure    error
}

// NewController creates a controller over the given transport and
// transcript.
func NewController(transport Transport, transcript *session.Transcript) *Controller {
	return &Controller{
		transport:  transport,
		transcript: transcript,
		state:      StateIdle,
	}
}

// State returns the current phase.
func (c *Controller) State() State {
	return c.state
}

// Busy reports whether an exchange is in flight or delivering.
func (c *Controller) Busy() bool {
	return c.state == StatePending || c.state == StateDelivering
}

// Generation identifies the current exchange. Async results and reveal
// ticks carry the generation they were started under; a mismatch means
// the exchange they belong to is gone and they must be dropped.
func (c *Controller) Generation() int {
	return c.generation
}

// Transcript returns the transcript the controller appends to.
func (c *Controller) Transcript() *session.Transcript {
	return c.transcript
}

// Submit stages a query. The trimmed query is appended to the transcript
// immediately, before any network activity, so the user sees their words
// land the instant they press enter. The history window is captured after
// the append: the query rides along as the newest history entry.
//
// Blank queries return ErrEmptyQuery and change nothing. Submissions while
// busy return ErrBusy.
func (c *Controller) Submit(raw string) (*Request, error) {
	query := strings.TrimSpace(raw)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if c.Busy() {
		return nil, ErrBusy
	}

	msg := model.NewUserMessage(query)
	c.transcript.Append(msg)

	window := c.transcript.RecentWindow()
	history := make([]*model.Message, len(window))
	copy(history, window)

	c.state = StatePending
	c.generation++
	c.response = nil
	c.stream = nil
	c.failure = nil
	return &Request{
		Query:      query,
		History:    history,
		Generation: c.generation,
		Message:    msg,
	}, nil
}

// Execute performs the round trip for a staged request. It reads only the
// request and the immutable transport, never controller fields, so it is
// safe from a goroutine while the event loop abandons or settles the
// exchange. Feed the result to Deliver or Fail.
func (c *Controller) Execute(ctx context.Context, req *Request) (*backend.QueryResponse, error) {
	return c.transport.Query(ctx, req.Query, req.History)
}

// Deliver records a successful answer and opens its reveal stream.
func (c *Controller) Deliver(resp *backend.QueryResponse) (*reveal.Stream, error) {
	if c.state != StatePending {
		return nil, ErrNotPending
	}
	c.response = resp
	c.stream = reveal.NewStream(resp.Response)
	c.state = StateDelivering
	return c.stream, nil
}

// Fail records a backend failure. The optimistic user message stays in the
// transcript; the user retries by resubmitting.
func (c *Controller) Fail(err error) error {
	if c.state != StatePending {
		return ErrNotPending
	}
	c.failure = err
	c.state = StateFailed
	return nil
}

// Stream returns the active reveal stream, nil outside Delivering.
func (c *Controller) Stream() *reveal.Stream {
	return c.stream
}

// CompleteDelivery commits the fully revealed answer to the transcript.
func (c *Controller) CompleteDelivery() (*model.Message, error) {
	if c.state != StateDelivering {
		return nil, ErrNotPending
	}
	return c.commitAnswer(), nil
}

// CancelDelivery cuts the reveal short and commits the complete answer
// immediately. The transcript holds final text either way; cancellation
// only skips the pacing.
func (c *Controller) CancelDelivery() (*model.Message, error) {
	if c.state != StateDelivering {
		return nil, ErrNotPending
	}
	c.stream.Finish()
	return c.commitAnswer(), nil
}

func (c *Controller) commitAnswer() *model.Message {
	msg := model.NewAssistantMessage(c.response.Response, c.response.Sources, c.response.AnswerID)
	c.transcript.Append(msg)
	c.state = StateCompleted
	c.stream = nil
	c.response = nil
	return msg
}

// Failure returns the recorded failure, nil outside Failed.
func (c *Controller) Failure() error {
	return c.failure
}

// Acknowledge returns a settled controller to idle. It is a no-op while
// busy.
func (c *Controller) Acknowledge() {
	if c.state == StateFailed || c.state == StateCompleted {
		c.state = StateIdle
		c.failure = nil
	}
}

// ReplaceTranscript points the controller at a different conversation,
// abandoning any exchange in progress. The generation bump orphans stale
// async results and reveal ticks.
func (c *Controller) ReplaceTranscript(t *session.Transcript) {
	c.transcript = t
	c.generation++
	c.state = StateIdle
	c.response = nil
	c.stream = nil
	c.failure = nil
}
