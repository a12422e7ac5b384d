package memory

import (
	"context"
	"time"
)

// Default conversation memory sizing.
const (
	DefaultMaxTokens          = 500
	DefaultMaxRecentExchanges = 3
)

// summaryInfoWindow is the raw-exchange window returned by SummaryInfo,
// fixed independently of the configured recent window.
const summaryInfoWindow = 3

// Config holds conversation memory tuning. The zero value selects
// defaults for every field.
type Config struct {
	// MaxTokens is the budget on live exchange token mass that triggers
	// compression. Defaults to DefaultMaxTokens.
	MaxTokens int

	// MaxRecentExchanges is the number of newest exchanges kept verbatim
	// in composed context. Defaults to DefaultMaxRecentExchanges.
	MaxRecentExchanges int

	// SummaryTimeout bounds each summarization call. Defaults to
	// DefaultSummaryTimeout.
	SummaryTimeout time.Duration

	// Counter overrides the token estimator. Defaults to a counter for
	// DefaultEncoding, degrading to the heuristic if unavailable.
	Counter TokenCounter
}

// SummaryInfo bundles the accumulated summary, the last few raw
// exchanges, and the live-window stats for introspection surfaces.
type SummaryInfo struct {
	Summary       string     `json:"summary"`
	RecentHistory []Exchange `json:"recent_history"`
	Stats         Stats      `json:"stats"`
}

// Manager is the public surface of conversation memory: it owns one
// History and composes prompt context from it. One Manager serves one
// conversation; create a new instance per concurrent conversation.
type Manager struct {
	history *History
}

// NewManager creates a conversation memory manager backed by the given
// generation capability. Returns ErrGeneratorUnavailable if generator is
// nil; a missing tokenizer is not an error (the heuristic estimator takes
// over silently).
func NewManager(generator Generator, cfg Config) (*Manager, error) {
	summarizer, err := NewSummarizer(generator, cfg.SummaryTimeout)
	if err != nil {
		return nil, err
	}

	counter := cfg.Counter
	if counter == nil {
		counter, _ = NewTokenCounter(DefaultEncoding)
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	maxRecent := cfg.MaxRecentExchanges
	if maxRecent <= 0 {
		maxRecent = DefaultMaxRecentExchanges
	}

	return &Manager{
		history: NewHistory(counter, summarizer, maxTokens, maxRecent),
	}, nil
}

// AddExchange records one completed question/answer turn. Call once per
// turn, after the answer-generation step has produced its final answer
// and citations. May block on summarization when the budget is crossed.
func (m *Manager) AddExchange(ctx context.Context, question, answer string, sources []Source) {
	m.history.AddExchange(ctx, question, answer, sources)
}

// ContextForPrompt renders the current summary and recent window into the
// context string for the next answer-generation prompt. Returns "" for a
// fresh conversation.
func (m *Manager) ContextForPrompt() string {
	summary, recent := m.history.Snapshot()
	return ComposeContext(summary, recent)
}

// Stats reports live-window counters. Well-defined zero values before the
// first exchange.
func (m *Manager) Stats() Stats {
	return m.history.Stats()
}

// SummaryInfo returns the summary, the last 3 raw exchanges, and stats.
func (m *Manager) SummaryInfo() SummaryInfo {
	summary, _ := m.history.Snapshot()
	return SummaryInfo{
		Summary:       summary,
		RecentHistory: m.history.Recent(summaryInfoWindow),
		Stats:         m.history.Stats(),
	}
}

// Reset discards the conversation: history and summary both cleared.
func (m *Manager) Reset() {
	m.history.Reset()
}
