package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrGeneratorUnavailable reports that no generation capability was supplied.
// Routine generation failures never surface as errors; they degrade to the
// topic-list fallback. This error exists only for the misconfiguration case.
var ErrGeneratorUnavailable = errors.New("memory: generation capability unavailable")

// Generator is the narrow generation capability the memory core depends on.
// Implemented by llm.Client; test doubles implement it trivially.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// DefaultSummaryTimeout bounds a single summarization call.
const DefaultSummaryTimeout = 30 * time.Second

const (
	summaryPrefix  = "Previous conversation summary: "
	fallbackPrefix = "Previous conversation covered topics: "

	// Per-exchange preview and fallback-topic limits, in characters.
	answerPreviewChars = 200
	topicChars         = 50
)

// Summarizer compresses a batch of old exchanges into prose using an
// injected Generator, with a deterministic fallback when generation fails.
type Summarizer struct {
	generator Generator
	timeout   time.Duration
}

// NewSummarizer creates a Summarizer over the given generator.
// A non-positive timeout selects DefaultSummaryTimeout.
func NewSummarizer(generator Generator, timeout time.Duration) (*Summarizer, error) {
	if generator == nil {
		return nil, ErrGeneratorUnavailable
	}
	if timeout <= 0 {
		timeout = DefaultSummaryTimeout
	}
	return &Summarizer{generator: generator, timeout: timeout}, nil
}

// Summarize compresses exchanges into a single summary string.
// Never fails: generation errors, timeouts, and empty responses all fall
// back to a deterministic topic list, so the caller's compression pass
// always terminates with non-empty text for a non-empty batch.
func (s *Summarizer) Summarize(ctx context.Context, exchanges []Exchange) string {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	generated, err := s.generator.Generate(ctx, buildSummaryPrompt(exchanges))
	if err != nil || strings.TrimSpace(generated) == "" {
		return fallbackSummary(exchanges)
	}
	return summaryPrefix + strings.TrimSpace(generated)
}

// buildSummaryPrompt embeds each exchange's question and a truncated
// answer preview into the summarization request.
func buildSummaryPrompt(exchanges []Exchange) string {
	var b strings.Builder
	b.WriteString("Summarize this conversation history in 2-3 sentences, focusing on the main topics discussed and key information provided:\n\nConversation:\n")
	for _, ex := range exchanges {
		fmt.Fprintf(&b, "Q: %s\nA: %s...\n\n", ex.Question, truncateChars(ex.Answer, answerPreviewChars))
	}
	return b.String()
}

// fallbackSummary joins truncated questions into a topic list.
// Byte-identical across repeated calls for the same batch.
func fallbackSummary(exchanges []Exchange) string {
	topics := make([]string, len(exchanges))
	for i, ex := range exchanges {
		topics[i] = truncateChars(ex.Question, topicChars)
	}
	return fallbackPrefix + strings.Join(topics, ", ")
}

// truncateChars cuts s to at most n characters without appending a marker.
func truncateChars(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
