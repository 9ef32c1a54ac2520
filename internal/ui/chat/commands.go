// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/raglec-tui/internal/exchange"
	"github.com/jeranaias/raglec-tui/internal/feedback"
	"github.com/jeranaias/raglec-tui/internal/model"
	"github.com/jeranaias/raglec-tui/internal/session"
	"github.com/jeranaias/raglec-tui/internal/util"
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// queryCmd runs the staged round trip off the UI thread. The goroutine
// works from the request values alone; the request's generation travels
// with the result so a stale answer never lands in a newer exchange.
func queryCmd(controller *exchange.Controller, req *exchange.Request, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		resp, err := controller.Execute(ctx, req)
		return QueryResultMsg{
			Generation: req.Generation,
			Response:   resp,
			Err:        err,
		}
	}
}

// revealTickCmd schedules the next reveal step after the given pause.
func revealTickCmd(delay time.Duration, generation int) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return RevealTickMsg{Generation: generation}
	})
}

// feedbackCmd sends a vote off the UI thread.
func feedbackCmd(reporter *feedback.Reporter, msg *model.Message, vote feedback.Vote, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := reporter.Submit(ctx, msg, vote)
		return FeedbackResultMsg{
			AnswerID: msg.AnswerID,
			Vote:     vote,
			Err:      err,
		}
	}
}

// exportCmd writes the active conversation as Markdown next to the
// working directory.
func exportCmd(repo *session.Repository) tea.Cmd {
	return func() tea.Msg {
		content, err := repo.ExportMarkdown()
		if err != nil {
			return ExportDoneMsg{Err: err}
		}

		name := fmt.Sprintf("raglec-%s.md", time.Now().Format("20060102-150405"))
		cwd, err := os.Getwd()
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		path := filepath.Join(cwd, name)

		if err := util.AtomicWriteFile(path, []byte(content), 0644); err != nil {
			return ExportDoneMsg{Err: err}
		}
		return ExportDoneMsg{Path: path}
	}
}
