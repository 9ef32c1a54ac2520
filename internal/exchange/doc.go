// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package exchange sequences one ask-answer cycle: stage a query with an
// optimistic transcript append, run the backend round trip, then commit
// the answer through a paced reveal or record the failure. One exchange
// runs at a time so the transcript keeps its user/assistant alternation.
package exchange
