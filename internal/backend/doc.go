// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend is the HTTP client for the RAG query service: one call
// to ask a question with its recent conversation window, one to record a
// feedback vote. All failure modes collapse to a typed error so callers
// never act on a partial answer.
package backend
