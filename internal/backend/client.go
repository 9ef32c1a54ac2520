// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jeranaias/raglec-tui/internal/model"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultTimeout bounds a full query round trip. Retrieval plus
	// generation is slow; users would rather wait than get a spurious
	// timeout.
	DefaultTimeout = 60 * time.Second

	// maxResponseSize caps how much of a response body we read (10MB).
	maxResponseSize = 10 * 1024 * 1024
)

// Shared HTTP client for connection pooling across requests.
var httpClient = &http.Client{
	Timeout: DefaultTimeout,
}

// =============================================================================
// ERRORS
// =============================================================================

// ClientError represents a backend communication error.
// It supports comparison with errors.Is.
type ClientError struct {
	Message string
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing client errors.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// ErrMissingAnswerID is returned when a feedback vote has no answer
// identifier to attach to.
var ErrMissingAnswerID = &ClientError{Message: "answer has no identifier for feedback"}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the RAG backend over its JSON HTTP API. The backend does
// retrieval, generation and feedback recording; the client only moves
// payloads and classifies failures.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// SetTimeout overrides the round-trip timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.http = &http.Client{Timeout: d}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Query sends a question plus its recent conversation window and returns
// the backend's answer. A transport failure, a non-2xx status, an
// unparseable body, or a populated error field in the payload all resolve
// to an error; the caller never sees a partial answer.
func (c *Client) Query(ctx context.Context, query string, history []*model.Message) (*QueryResponse, error) {
	req := QueryRequest{
		Query:               query,
		ConversationHistory: historyEntries(history),
	}

	var resp QueryResponse
	if err := c.post(ctx, "/api/query", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &ClientError{Message: resp.Error}
	}
	return &resp, nil
}

// SendFeedback records a vote for the answer with the given identifier.
// value is +1 or -1.
func (c *Client) SendFeedback(ctx context.Context, answerID string, value int) error {
	if answerID == "" {
		return ErrMissingAnswerID
	}

	req := FeedbackRequest{
		AnswerID: answerID,
		Feedback: value,
	}

	var resp FeedbackResponse
	if err := c.post(ctx, "/api/feedback", req, &resp); err != nil {
		return err
	}
	if resp.Error != "" {
		return &ClientError{Message: resp.Error}
	}
	if !resp.Success {
		return &ClientError{Message: "backend rejected feedback"}
	}
	return nil
}

// post sends a JSON request and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &ClientError{Message: fmt.Sprintf("backend unreachable: %v", err)}
	}
	defer resp.Body.Close()

	data, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Error payloads still carry a useful message when they parse.
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return &ClientError{Message: apiErr.Error}
		}
		return &ClientError{Message: fmt.Sprintf("backend returned %s", resp.Status)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &ClientError{Message: "backend returned an unparseable response"}
	}
	return nil
}

// readResponse reads a response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &ClientError{Message: fmt.Sprintf("failed to read response: %v", err)}
	}
	return data, nil
}

// historyEntries converts transcript messages to wire history entries.
func historyEntries(history []*model.Message) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(history))
	for _, msg := range history {
		entries = append(entries, HistoryEntry{
			Role:    msg.Role.String(),
			Content: msg.Content,
		})
	}
	return entries
}
