// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exchange

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jeranaias/raglec-tui/internal/backend"
	"github.com/jeranaias/raglec-tui/internal/model"
	"github.com/jeranaias/raglec-tui/internal/session"
)

// fakeTransport records queries and returns a canned result.
type fakeTransport struct {
	lastQuery   string
	lastHistory []*model.Message
	resp        *backend.QueryResponse
	err         error
}

func (f *fakeTransport) Query(ctx context.Context, query string, history []*model.Message) (*backend.QueryResponse, error) {
	f.lastQuery = query
	f.lastHistory = history
	return f.resp, f.err
}

// blockingTransport holds the round trip open until released, so a test
// can interleave event-loop work with an in-flight query.
type blockingTransport struct {
	release     <-chan struct{}
	lastQuery   string
	lastHistory []*model.Message
	resp        *backend.QueryResponse
}

func (b *blockingTransport) Query(ctx context.Context, query string, history []*model.Message) (*backend.QueryResponse, error) {
	<-b.release
	b.lastQuery = query
	b.lastHistory = history
	return b.resp, nil
}

func newTestController(transport Transport) (*Controller, *session.Transcript) {
	tr := session.NewTranscript(model.NewSession())
	return NewController(transport, tr), tr
}

func TestSubmitOptimisticAppend(t *testing.T) {
	transport := &fakeTransport{}
	c, tr := newTestController(transport)

	req, err := c.Submit("  What is RAG?  ")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if req.Message.Content != "What is RAG?" {
		t.Errorf("submitted content = %q, want trimmed query", req.Message.Content)
	}
	if req.Message.Role != model.RoleUser {
		t.Errorf("submitted role = %q, want user", req.Message.Role)
	}
	if req.Generation != c.Generation() {
		t.Errorf("request generation = %d, want %d", req.Generation, c.Generation())
	}
	if tr.Len() != 1 {
		t.Errorf("transcript len = %d, want 1 before any network result", tr.Len())
	}
	if c.State() != StatePending {
		t.Errorf("State() = %v, want pending", c.State())
	}
}

func TestSubmitEmpty(t *testing.T) {
	c, tr := newTestController(&fakeTransport{})

	for _, raw := range []string{"", "   ", "\n\t "} {
		if _, err := c.Submit(raw); !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("Submit(%q) error = %v, want ErrEmptyQuery", raw, err)
		}
	}
	if tr.Len() != 0 {
		t.Errorf("transcript len = %d, blank submits appended", tr.Len())
	}
	if c.State() != StateIdle {
		t.Errorf("State() = %v after blank submits, want idle", c.State())
	}
}

func TestSubmitWhileBusy(t *testing.T) {
	c, tr := newTestController(&fakeTransport{})

	if _, err := c.Submit("first"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := c.Submit("second"); !errors.Is(err, ErrBusy) {
		t.Errorf("Submit() while pending error = %v, want ErrBusy", err)
	}

	c.Deliver(&backend.QueryResponse{Response: "answer", AnswerID: "q-1"})
	if _, err := c.Submit("third"); !errors.Is(err, ErrBusy) {
		t.Errorf("Submit() while delivering error = %v, want ErrBusy", err)
	}

	if tr.Len() != 1 {
		t.Errorf("transcript len = %d, rejected submits appended", tr.Len())
	}
}

func TestHistoryIncludesOwnQuery(t *testing.T) {
	transport := &fakeTransport{resp: &backend.QueryResponse{Response: "ok", AnswerID: "q-1"}}
	c, tr := newTestController(transport)

	tr.Append(model.NewUserMessage("earlier question"))
	tr.Append(model.NewAssistantMessage("earlier answer", nil, "q-0"))

	req, err := c.Submit("What is RAG?")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := c.Execute(context.Background(), req); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if transport.lastQuery != "What is RAG?" {
		t.Errorf("transport query = %q, want the submitted query", transport.lastQuery)
	}
	if len(transport.lastHistory) != 3 {
		t.Fatalf("history len = %d, want 3 (the query is its own newest entry)", len(transport.lastHistory))
	}
	if transport.lastHistory[1].Content != "earlier answer" {
		t.Errorf("history[1] = %q, want the prior answer", transport.lastHistory[1].Content)
	}
	if transport.lastHistory[2].Content != "What is RAG?" {
		t.Errorf("history[2] = %q, want the query itself", transport.lastHistory[2].Content)
	}
}

func TestHistoryWindowCap(t *testing.T) {
	transport := &fakeTransport{resp: &backend.QueryResponse{Response: "ok"}}
	c, tr := newTestController(transport)

	for i := 0; i < 14; i++ {
		tr.Append(model.NewUserMessage(fmt.Sprintf("turn %d", i)))
	}

	req, _ := c.Submit("latest")
	c.Execute(context.Background(), req)

	if len(transport.lastHistory) != session.HistoryWindow {
		t.Fatalf("history len = %d, want %d", len(transport.lastHistory), session.HistoryWindow)
	}
	if transport.lastHistory[0].Content != "turn 5" {
		t.Errorf("history[0] = %q, want %q", transport.lastHistory[0].Content, "turn 5")
	}
	if last := transport.lastHistory[session.HistoryWindow-1]; last.Content != "latest" {
		t.Errorf("history tail = %q, want the query itself", last.Content)
	}
}

func TestDeliverAndComplete(t *testing.T) {
	c, tr := newTestController(&fakeTransport{})
	c.Submit("What is RAG?")

	resp := &backend.QueryResponse{
		Response: "Retrieval augmented generation.",
		Sources:  []model.Source{{FileName: "intro.pdf", TotalChunks: 2}},
		AnswerID: "q-42",
	}
	stream, err := c.Deliver(resp)
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if c.State() != StateDelivering {
		t.Errorf("State() = %v, want delivering", c.State())
	}

	// Mid-reveal the transcript still holds only the user message.
	stream.Next()
	if tr.Len() != 1 {
		t.Errorf("transcript len mid-reveal = %d, want 1", tr.Len())
	}

	for !stream.Done() {
		stream.Next()
	}
	msg, err := c.CompleteDelivery()
	if err != nil {
		t.Fatalf("CompleteDelivery() error = %v", err)
	}

	if msg.Content != resp.Response {
		t.Errorf("committed content = %q, want full answer", msg.Content)
	}
	if msg.AnswerID != "q-42" {
		t.Errorf("committed answer ID = %q, want q-42", msg.AnswerID)
	}
	if len(msg.Sources) != 1 {
		t.Errorf("committed sources len = %d, want 1", len(msg.Sources))
	}
	if tr.Len() != 2 {
		t.Errorf("transcript len = %d, want 2", tr.Len())
	}
	if c.State() != StateCompleted {
		t.Errorf("State() = %v, want completed", c.State())
	}

	c.Acknowledge()
	if c.State() != StateIdle {
		t.Errorf("State() after Acknowledge = %v, want idle", c.State())
	}
}

func TestCancelDeliveryCommitsFullText(t *testing.T) {
	c, tr := newTestController(&fakeTransport{})
	c.Submit("question")

	stream, _ := c.Deliver(&backend.QueryResponse{
		Response: "a long answer with many words to reveal",
		AnswerID: "q-7",
	})
	stream.Next() // reveal only the first word

	msg, err := c.CancelDelivery()
	if err != nil {
		t.Fatalf("CancelDelivery() error = %v", err)
	}
	if msg.Content != "a long answer with many words to reveal" {
		t.Errorf("cancelled commit = %q, want the complete answer", msg.Content)
	}
	if tr.Len() != 2 {
		t.Errorf("transcript len = %d, want 2", tr.Len())
	}
	if c.State() != StateCompleted {
		t.Errorf("State() = %v, want completed", c.State())
	}
}

func TestFailKeepsUserMessage(t *testing.T) {
	c, tr := newTestController(&fakeTransport{})
	c.Submit("doomed question")

	failure := &backend.ClientError{Message: "backend unreachable: connection refused"}
	if err := c.Fail(failure); err != nil {
		t.Fatalf("Fail() error = %v", err)
	}

	if c.State() != StateFailed {
		t.Errorf("State() = %v, want failed", c.State())
	}
	if !errors.Is(c.Failure(), failure) {
		t.Errorf("Failure() = %v, want the recorded error", c.Failure())
	}
	if tr.Len() != 1 {
		t.Errorf("transcript len = %d, the optimistic message must survive failure", tr.Len())
	}

	// Acknowledge clears the failure and reopens for a retry.
	c.Acknowledge()
	if c.State() != StateIdle {
		t.Errorf("State() after Acknowledge = %v, want idle", c.State())
	}
	if c.Failure() != nil {
		t.Error("Failure() != nil after Acknowledge")
	}
	if _, err := c.Submit("doomed question"); err != nil {
		t.Errorf("retry Submit() error = %v", err)
	}
}

func TestResultOutsidePending(t *testing.T) {
	c, _ := newTestController(&fakeTransport{})

	if _, err := c.Deliver(&backend.QueryResponse{}); !errors.Is(err, ErrNotPending) {
		t.Errorf("Deliver() while idle error = %v, want ErrNotPending", err)
	}
	if err := c.Fail(errors.New("x")); !errors.Is(err, ErrNotPending) {
		t.Errorf("Fail() while idle error = %v, want ErrNotPending", err)
	}
	if _, err := c.CompleteDelivery(); !errors.Is(err, ErrNotPending) {
		t.Errorf("CompleteDelivery() while idle error = %v, want ErrNotPending", err)
	}
}

func TestReplaceTranscriptAbandonsExchange(t *testing.T) {
	c, _ := newTestController(&fakeTransport{})
	c.Submit("in flight")
	gen := c.Generation()

	fresh := session.NewTranscript(model.NewSession())
	c.ReplaceTranscript(fresh)

	if c.State() != StateIdle {
		t.Errorf("State() after replace = %v, want idle", c.State())
	}
	if c.Generation() == gen {
		t.Error("Generation() unchanged after replace; stale results would land")
	}
	if c.Transcript() != fresh {
		t.Error("Transcript() does not point at the replacement")
	}
}

func TestSessionSwitchLeavesStagedRequestIntact(t *testing.T) {
	block := make(chan struct{})
	transport := &blockingTransport{
		release: block,
		resp:    &backend.QueryResponse{Response: "late answer", AnswerID: "q-9"},
	}
	c, _ := newTestController(transport)

	req, err := c.Submit("asked before the switch")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	wantHistory := len(req.History)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Execute(context.Background(), req)
	}()

	// Switch conversations while the round trip is still in flight.
	c.ReplaceTranscript(session.NewTranscript(model.NewSession()))
	close(block)
	<-done

	if transport.lastQuery != "asked before the switch" {
		t.Errorf("transport query = %q, the switch disturbed the staged request", transport.lastQuery)
	}
	if len(transport.lastHistory) != wantHistory {
		t.Errorf("history len = %d, want %d", len(transport.lastHistory), wantHistory)
	}

	// The abandoned exchange's result has nowhere to land.
	if _, err := c.Deliver(transport.resp); !errors.Is(err, ErrNotPending) {
		t.Errorf("Deliver() after switch error = %v, want ErrNotPending", err)
	}
}

func TestGenerationAdvancesPerSubmit(t *testing.T) {
	c, _ := newTestController(&fakeTransport{})

	c.Submit("one")
	first := c.Generation()
	c.Deliver(&backend.QueryResponse{Response: "a"})
	c.CompleteDelivery()
	c.Acknowledge()

	c.Submit("two")
	if c.Generation() == first {
		t.Error("Generation() did not advance across exchanges")
	}
}
