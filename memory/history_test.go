package memory

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
)

// fixedCounter reports the same token count for every text.
type fixedCounter struct {
	tokens int
}

func (c fixedCounter) Count(text string) int {
	return c.tokens
}

func (c fixedCounter) Truncate(text string, maxTokens int) string {
	return text
}

func newTestHistory(t *testing.T, generator Generator, counter TokenCounter, maxTokens, maxRecent int) *History {
	t.Helper()
	summarizer, err := NewSummarizer(generator, 0)
	if err != nil {
		t.Fatalf("NewSummarizer failed: %v", err)
	}
	return NewHistory(counter, summarizer, maxTokens, maxRecent)
}

func TestAddExchangeNoCompressionUnderBudget(t *testing.T) {
	h := newTestHistory(t, &stubGenerator{response: "summary"}, fixedCounter{tokens: 150}, 500, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		h.AddExchange(ctx, fmt.Sprintf("question %d", i), "answer", nil)
	}

	stats := h.Stats()
	if stats.TotalExchanges != 3 {
		t.Errorf("expected 3 exchanges, got %d", stats.TotalExchanges)
	}
	if stats.TotalTokens != 450 {
		t.Errorf("expected 450 tokens, got %d", stats.TotalTokens)
	}
	if stats.HasSummary {
		t.Error("expected no summary under budget")
	}
}

func TestCompressionEvictsOldestHalf(t *testing.T) {
	h := newTestHistory(t, &stubGenerator{response: "older topics"}, fixedCounter{tokens: 150}, 500, 3)
	ctx := context.Background()

	// Exchange 4 crosses the budget (600 > 500): split=2, oldest two evicted.
	for i := 0; i < 4; i++ {
		h.AddExchange(ctx, fmt.Sprintf("question %d", i), "answer", nil)
	}

	stats := h.Stats()
	if stats.TotalExchanges != 2 {
		t.Errorf("expected 2 exchanges after compression, got %d", stats.TotalExchanges)
	}
	if !stats.HasSummary {
		t.Error("expected summary after compression")
	}
	if stats.SummarizedExchanges != 2 {
		t.Errorf("expected 2 summarized exchanges, got %d", stats.SummarizedExchanges)
	}

	// The retained exchanges are the newer half, in order.
	_, recent := h.Snapshot()
	if recent[0].Question != "question 2" || recent[1].Question != "question 3" {
		t.Errorf("expected questions 2 and 3 retained, got %q and %q", recent[0].Question, recent[1].Question)
	}
}

func TestFiveExchangeScenario(t *testing.T) {
	h := newTestHistory(t, &stubGenerator{response: "summary"}, fixedCounter{tokens: 150}, 500, 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		h.AddExchange(ctx, fmt.Sprintf("question %d", i), "answer", nil)
	}

	stats := h.Stats()
	if stats.TotalExchanges != 3 {
		t.Errorf("expected 3 exchanges, got %d", stats.TotalExchanges)
	}
	if !stats.HasSummary {
		t.Error("expected non-empty summary")
	}
}

func TestSingleOversizedExchangeNeverSummarized(t *testing.T) {
	h := newTestHistory(t, &stubGenerator{response: "summary"}, fixedCounter{tokens: 10000}, 500, 3)
	ctx := context.Background()

	h.AddExchange(ctx, "huge question", "huge answer", nil)

	stats := h.Stats()
	if stats.TotalExchanges != 1 {
		t.Errorf("expected single exchange retained, got %d", stats.TotalExchanges)
	}
	if stats.HasSummary {
		t.Error("expected no summary for a single oversized exchange")
	}
	if stats.TotalTokens != 10000 {
		t.Errorf("expected token mass left above budget, got %d", stats.TotalTokens)
	}
}

func TestSummaryMonotonicAppend(t *testing.T) {
	gen := &stubGenerator{response: "block"}
	h := newTestHistory(t, gen, fixedCounter{tokens: 150}, 500, 3)
	ctx := context.Background()

	var prevLen int
	for i := 0; i < 10; i++ {
		h.AddExchange(ctx, fmt.Sprintf("question %d", i), "answer", nil)
		stats := h.Stats()
		if stats.SummaryLength < prevLen {
			t.Fatalf("summary length decreased: %d -> %d", prevLen, stats.SummaryLength)
		}
		prevLen = stats.SummaryLength
	}
}

func TestFailingGeneratorTwoCompressionPasses(t *testing.T) {
	h := newTestHistory(t, &stubGenerator{err: errors.New("always fails")}, fixedCounter{tokens: 150}, 500, 3)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		h.AddExchange(ctx, fmt.Sprintf("question %d", i), "answer", nil)
	}

	summary, _ := h.Snapshot()
	blocks := strings.Split(summary, "\n\n")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 fallback blocks, got %d: %q", len(blocks), summary)
	}
	for _, block := range blocks {
		if !strings.HasPrefix(block, "Previous conversation covered topics: ") {
			t.Errorf("expected fallback block, got %q", block)
		}
	}
}

func TestSnapshotWindowBound(t *testing.T) {
	h := newTestHistory(t, &stubGenerator{response: "summary"}, fixedCounter{tokens: 1}, 500, 3)
	ctx := context.Background()

	// Fewer exchanges than the window.
	h.AddExchange(ctx, "q1", "a1", nil)
	h.AddExchange(ctx, "q2", "a2", nil)
	if _, recent := h.Snapshot(); len(recent) != 2 {
		t.Errorf("expected 2 recent exchanges, got %d", len(recent))
	}

	// More exchanges than the window.
	for i := 0; i < 10; i++ {
		h.AddExchange(ctx, fmt.Sprintf("q%d", i+3), "a", nil)
	}
	_, recent := h.Snapshot()
	if len(recent) != 3 {
		t.Errorf("expected window capped at 3, got %d", len(recent))
	}
	if recent[len(recent)-1].Question != "q12" {
		t.Errorf("expected newest exchange last, got %q", recent[len(recent)-1].Question)
	}
}

func TestResetClearsEverything(t *testing.T) {
	h := newTestHistory(t, &stubGenerator{response: "summary"}, fixedCounter{tokens: 150}, 500, 3)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		h.AddExchange(ctx, fmt.Sprintf("question %d", i), "answer", nil)
	}

	h.Reset()

	stats := h.Stats()
	if stats != (Stats{}) {
		t.Errorf("expected zero stats after reset, got %+v", stats)
	}
	summary, recent := h.Snapshot()
	if summary != "" || len(recent) != 0 {
		t.Errorf("expected empty snapshot after reset, got %q and %d exchanges", summary, len(recent))
	}
}

func TestEvictionConvergenceRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		maxTokens := 50 + rng.Intn(500)
		h := newTestHistory(t, &stubGenerator{response: "summary"}, HeuristicCounter{}, maxTokens, 3)
		ctx := context.Background()

		for i := 0; i < 30; i++ {
			q := strings.Repeat("q", 1+rng.Intn(400))
			a := strings.Repeat("a", 1+rng.Intn(2000))
			h.AddExchange(ctx, q, a, nil)

			stats := h.Stats()
			if stats.TotalTokens > maxTokens && stats.TotalExchanges != 1 {
				t.Fatalf("trial %d: invariant violated: %d tokens > %d budget with %d exchanges",
					trial, stats.TotalTokens, maxTokens, stats.TotalExchanges)
			}
		}
	}
}
