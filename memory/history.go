package memory

import (
	"context"
	"sync"
)

// Stats describes the current state of a conversation's live window.
//
// TotalExchanges and TotalTokens cover only retained raw exchanges, not
// the ones already compressed into the summary: they measure the live
// window, not the whole conversation. SummarizedExchanges carries the
// cumulative evicted count so callers can tell the two apart.
type Stats struct {
	TotalExchanges      int  `json:"total_exchanges"`
	TotalTokens         int  `json:"total_tokens"`
	HasSummary          bool `json:"has_summary"`
	SummaryLength       int  `json:"summary_length"`
	SummarizedExchanges int  `json:"summarized_exchanges"`
}

// History holds an ordered sequence of exchanges plus an accumulated
// summary of everything evicted so far, enforcing a token budget by
// compressing the oldest half of history whenever the budget is exceeded.
//
// A History serves one logical conversation. Concurrent conversations
// must each own their own instance; the internal mutex only protects
// against incidental sharing, it is not a multi-conversation design.
type History struct {
	mu         sync.Mutex
	counter    TokenCounter
	summarizer *Summarizer
	maxTokens  int
	maxRecent  int

	exchanges  []Exchange
	summary    string
	summarized int
}

// NewHistory creates an empty History with the given budget and recent
// window size.
func NewHistory(counter TokenCounter, summarizer *Summarizer, maxTokens, maxRecent int) *History {
	return &History{
		counter:    counter,
		summarizer: summarizer,
		maxTokens:  maxTokens,
		maxRecent:  maxRecent,
	}
}

// AddExchange appends one completed turn, then compresses older history
// if the token budget is exceeded. Compression runs synchronously: by the
// time AddExchange returns, the budget invariant holds again (or a single
// oversized exchange remains, which is accepted).
//
// Inputs are not validated; empty strings produce a degenerate but
// well-formed exchange. Summarization failures are absorbed by the
// Summarizer's fallback, so this method has no error to report.
func (h *History) AddExchange(ctx context.Context, question, answer string, sources []Source) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.exchanges = append(h.exchanges, newExchange(question, answer, sources, h.counter))
	h.compress(ctx)
}

// compress runs oldest-half eviction passes until the token budget holds
// or only one exchange remains. Caller must hold h.mu.
func (h *History) compress(ctx context.Context) {
	for h.totalTokens() > h.maxTokens && len(h.exchanges) > 1 {
		split := len(h.exchanges) / 2
		older := h.exchanges[:split]

		text := h.summarizer.Summarize(ctx, older)
		if h.summary == "" {
			h.summary = text
		} else {
			h.summary = h.summary + "\n\n" + text
		}

		h.summarized += split
		h.exchanges = append([]Exchange(nil), h.exchanges[split:]...)
	}
}

// totalTokens sums the token counts of retained exchanges.
// Caller must hold h.mu.
func (h *History) totalTokens() int {
	total := 0
	for _, ex := range h.exchanges {
		total += ex.Tokens
	}
	return total
}

// Snapshot returns the accumulated summary (may be empty) and a copy of
// the most recent exchanges, oldest-of-the-window first. The window never
// exceeds the configured recent size.
func (h *History) Snapshot() (string, []Exchange) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.summary, h.recent(h.maxRecent)
}

// Recent returns a copy of the last n raw exchanges, oldest first.
func (h *History) Recent(n int) []Exchange {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.recent(n)
}

// recent copies the last n exchanges. Caller must hold h.mu.
func (h *History) recent(n int) []Exchange {
	if n > len(h.exchanges) {
		n = len(h.exchanges)
	}
	if n < 0 {
		n = 0
	}
	window := make([]Exchange, n)
	copy(window, h.exchanges[len(h.exchanges)-n:])
	return window
}

// Stats reports the live window counters. Safe to call on an empty
// History; all fields are zero values then.
func (h *History) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	return Stats{
		TotalExchanges:      len(h.exchanges),
		TotalTokens:         h.totalTokens(),
		HasSummary:          h.summary != "",
		SummaryLength:       len(h.summary),
		SummarizedExchanges: h.summarized,
	}
}

// Reset discards all exchanges and the summary. There is no partial reset.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.exchanges = nil
	h.summary = ""
	h.summarized = 0
}
