// Package memory provides bounded conversation memory with automatic
// summarization.
//
// Information Hiding:
// - Token budget enforcement and eviction policy hidden behind History
// - Summarization prompt and fallback format encapsulated in Summarizer
// - Tokenizer availability hidden behind the TokenCounter interface
package memory

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the tokenizer encoding used when none is specified.
const DefaultEncoding = "cl100k_base"

// TokenCounter estimates token counts for text.
// Implementations must return at least 1 for any input, including empty
// text, so that token accounting never divides by or accumulates zero.
type TokenCounter interface {
	// Count returns the estimated token count for text. Always >= 1.
	Count(text string) int

	// Truncate returns text cut to at most maxTokens tokens.
	// Text already within the budget is returned unchanged.
	Truncate(text string, maxTokens int) string
}

// NewTokenCounter creates a TokenCounter for the given encoding.
// If the encoding cannot be loaded the returned counter degrades to the
// chars/4 heuristic and the error describes the degradation; the counter
// is usable either way, so callers may log the error and continue.
func NewTokenCounter(encoding string) (TokenCounter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return HeuristicCounter{}, fmt.Errorf("tokenizer %q unavailable, using heuristic estimation: %w", encoding, err)
	}
	return &TiktokenCounter{encoding: encoding, enc: enc}, nil
}

// TiktokenCounter counts tokens exactly using a tiktoken encoding.
// Deterministic: the same text and encoding always yield the same count.
type TiktokenCounter struct {
	encoding string
	enc      *tiktoken.Tiktoken
}

// Encoding returns the encoding identifier this counter was built with.
func (c *TiktokenCounter) Encoding() string {
	return c.encoding
}

// Count returns the exact token count, floored at 1.
func (c *TiktokenCounter) Count(text string) int {
	n := len(c.enc.Encode(text, nil, nil))
	if n < 1 {
		return 1
	}
	return n
}

// Truncate cuts text at the token boundary and decodes the kept prefix.
func (c *TiktokenCounter) Truncate(text string, maxTokens int) string {
	tokens := c.enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	if maxTokens < 0 {
		maxTokens = 0
	}
	return c.enc.Decode(tokens[:maxTokens])
}

// HeuristicCounter estimates tokens as one per four characters, floored
// at 1. Rough, but good enough for triggering summarization thresholds.
type HeuristicCounter struct{}

// Count returns max(1, chars/4). Characters are counted as runes so that
// Count and Truncate agree on multibyte text.
func (HeuristicCounter) Count(text string) int {
	n := len([]rune(text)) / 4
	if n < 1 {
		return 1
	}
	return n
}

// Truncate cuts text to maxTokens*4 characters.
func (HeuristicCounter) Truncate(text string, maxTokens int) string {
	if maxTokens < 0 {
		maxTokens = 0
	}
	maxChars := maxTokens * 4
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}

// Verify both counters implement TokenCounter
var (
	_ TokenCounter = (*TiktokenCounter)(nil)
	_ TokenCounter = HeuristicCounter{}
)
