// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reveal

import (
	"strings"
	"time"
	"unicode"
)

// =============================================================================
// PACING
// =============================================================================

const (
	// MinDelay is the shortest pause between revealed words.
	MinDelay = 10 * time.Millisecond

	// MaxDelay is the longest pause for an ordinary word.
	MaxDelay = 30 * time.Millisecond

	// perRune scales delay with word length: longer words linger longer.
	perRune = 5 * time.Millisecond

	// punctuationFactor stretches the pause after clause-ending
	// punctuation, mimicking a speaker's cadence.
	punctuationFactor = 3
)

// Delay returns the pause to hold after revealing word. The base delay is
// proportional to word length, clamped to [MinDelay, MaxDelay]; words
// ending in clause punctuation get punctuationFactor times that.
func Delay(word string) time.Duration {
	trimmed := strings.TrimRightFunc(word, unicode.IsSpace)

	d := time.Duration(len([]rune(trimmed))) * perRune
	if d < MinDelay {
		d = MinDelay
	}
	if d > MaxDelay {
		d = MaxDelay
	}

	if endsClause(trimmed) {
		d *= punctuationFactor
	}
	return d
}

// endsClause reports whether the word ends with clause punctuation.
func endsClause(word string) bool {
	if word == "" {
		return false
	}
	switch word[len(word)-1] {
	case '.', ',', ';', ':', '?', '!':
		return true
	}
	return false
}

// =============================================================================
// TOKENIZATION
// =============================================================================

// Split breaks text into reveal tokens, each a word plus its trailing
// whitespace. Concatenating the tokens reproduces text byte for byte, so
// the reveal is lossless: no whitespace is collapsed, no newline dropped.
func Split(text string) []string {
	if text == "" {
		return nil
	}

	var tokens []string
	start := 0
	inSpace := false
	for i, r := range text {
		isSpace := unicode.IsSpace(r)
		if inSpace && !isSpace {
			// Trailing whitespace ends here; the next word begins.
			tokens = append(tokens, text[start:i])
			start = i
		}
		inSpace = isSpace
	}
	tokens = append(tokens, text[start:])
	return tokens
}

// =============================================================================
// STREAM
// =============================================================================

// Stream walks a complete answer one word at a time, producing each token
// together with the pause to hold before the next. The stream never
// reorders, drops or duplicates tokens; draining it yields the original
// text exactly.
//
// Cancellation is the caller's concern: abandon the stream and use Text
// to commit the full answer at once.
type Stream struct {
	text   string
	tokens []string
	index  int
}

// NewStream creates a reveal stream over a complete answer.
func NewStream(text string) *Stream {
	return &Stream{
		text:   text,
		tokens: Split(text),
	}
}

// Next returns the next token and the pause to hold after showing it.
// ok is false once the stream is exhausted.
func (s *Stream) Next() (token string, delay time.Duration, ok bool) {
	if s.index >= len(s.tokens) {
		return "", 0, false
	}
	token = s.tokens[s.index]
	s.index++
	return token, Delay(token), true
}

// Revealed returns the prefix of the answer shown so far.
func (s *Stream) Revealed() string {
	if s.index >= len(s.tokens) {
		return s.text
	}
	return strings.Join(s.tokens[:s.index], "")
}

// Done reports whether every token has been produced.
func (s *Stream) Done() bool {
	return s.index >= len(s.tokens)
}

// Text returns the complete answer regardless of progress.
func (s *Stream) Text() string {
	return s.text
}

// Finish jumps the stream to its end. Used when a reveal is cut short and
// the full answer must land immediately.
func (s *Stream) Finish() {
	s.index = len(s.tokens)
}
