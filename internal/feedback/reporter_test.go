// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/jeranaias/raglec-tui/internal/model"
)

// fakeSender records sent votes and optionally fails.
type fakeSender struct {
	sent []struct {
		answerID string
		value    int
	}
	err error
}

func (f *fakeSender) SendFeedback(ctx context.Context, answerID string, value int) error {
	f.sent = append(f.sent, struct {
		answerID string
		value    int
	}{answerID, value})
	return f.err
}

func TestSubmitVote(t *testing.T) {
	sender := &fakeSender{}
	r := NewReporter(sender)
	msg := model.NewAssistantMessage("answer", nil, "q-1")

	if err := r.Submit(context.Background(), msg, VoteUp); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if got := r.Selection("q-1"); got != VoteUp {
		t.Errorf("Selection() = %v, want up", got)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent count = %d, want 1", len(sender.sent))
	}
	if sender.sent[0].answerID != "q-1" || sender.sent[0].value != 1 {
		t.Errorf("sent = %+v, want q-1/+1", sender.sent[0])
	}
}

func TestRevoteLastWriteWins(t *testing.T) {
	sender := &fakeSender{}
	r := NewReporter(sender)
	msg := model.NewAssistantMessage("answer", nil, "q-1")

	r.Submit(context.Background(), msg, VoteUp)
	r.Submit(context.Background(), msg, VoteDown)

	if got := r.Selection("q-1"); got != VoteDown {
		t.Errorf("Selection() = %v, want down after re-vote", got)
	}
	if len(sender.sent) != 2 {
		t.Errorf("sent count = %d, want 2 (every vote forwards)", len(sender.sent))
	}
	if sender.sent[1].value != -1 {
		t.Errorf("last sent value = %d, want -1", sender.sent[1].value)
	}
}

func TestSubmitNotVotable(t *testing.T) {
	r := NewReporter(&fakeSender{})

	userMsg := model.NewUserMessage("a question")
	if err := r.Submit(context.Background(), userMsg, VoteUp); !errors.Is(err, ErrNotVotable) {
		t.Errorf("Submit(user message) error = %v, want ErrNotVotable", err)
	}

	noID := model.NewAssistantMessage("answer", nil, "")
	if err := r.Submit(context.Background(), noID, VoteUp); !errors.Is(err, ErrNotVotable) {
		t.Errorf("Submit(no answer ID) error = %v, want ErrNotVotable", err)
	}

	if err := r.Submit(context.Background(), nil, VoteUp); !errors.Is(err, ErrNotVotable) {
		t.Errorf("Submit(nil) error = %v, want ErrNotVotable", err)
	}
}

func TestSubmitFailureKeepsSelection(t *testing.T) {
	sender := &fakeSender{err: errors.New("backend unreachable")}
	r := NewReporter(sender)
	msg := model.NewAssistantMessage("answer", nil, "q-1")

	if err := r.Submit(context.Background(), msg, VoteUp); err == nil {
		t.Fatal("Submit() error = nil, want send failure")
	}
	if got := r.Selection("q-1"); got != VoteUp {
		t.Errorf("Selection() = %v after failed send, want the optimistic vote", got)
	}

	// A failed re-vote still records the newer choice.
	if err := r.Submit(context.Background(), msg, VoteDown); err == nil {
		t.Fatal("Submit() error = nil, want send failure")
	}
	if got := r.Selection("q-1"); got != VoteDown {
		t.Errorf("Selection() = %v after failed re-vote, want the latest vote", got)
	}
}
