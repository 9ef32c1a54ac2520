// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "fmt"

// =============================================================================
// SOURCE TYPE
// =============================================================================

// Source is a retrieved document fragment returned by the backend to
// justify an answer. It is supplied verbatim and never mutated; the wire
// field names match the backend's JSON.
type Source struct {
	FileName    string `json:"file_name"`
	ChunkIndex  int    `json:"chunk_index"`  // zero-based on the wire
	TotalChunks int    `json:"total_chunks"` // >= 1
	Content     string `json:"content"`

	// Similarity is the retrieval score in [0,1]. Optional: some backend
	// deployments omit it.
	Similarity *float64 `json:"similarity,omitempty"`
}

// DisplayIndex returns the one-based fragment number for display.
func (s Source) DisplayIndex() int {
	return s.ChunkIndex + 1
}

// Title returns the display heading for a source, e.g.
// "Document 2: notes.txt (fragment 1 of 3)". position is the one-based
// position of the source within the answer's source list.
func (s Source) Title(position int) string {
	name := s.FileName
	if name == "" {
		name = "unnamed document"
	}
	return fmt.Sprintf("Document %d: %s (fragment %d of %d)",
		position, name, s.DisplayIndex(), s.TotalChunks)
}
