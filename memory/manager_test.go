package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func newTestManager(t *testing.T, generator Generator, cfg Config) *Manager {
	t.Helper()
	if cfg.Counter == nil {
		cfg.Counter = HeuristicCounter{}
	}
	m, err := NewManager(generator, cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestManagerBeforeFirstExchange(t *testing.T) {
	m := newTestManager(t, &stubGenerator{response: "summary"}, Config{})

	if got := m.ContextForPrompt(); got != "" {
		t.Errorf("expected empty context, got %q", got)
	}
	if stats := m.Stats(); stats != (Stats{}) {
		t.Errorf("expected zero stats, got %+v", stats)
	}

	info := m.SummaryInfo()
	if info.Summary != "" || len(info.RecentHistory) != 0 {
		t.Errorf("expected empty summary info, got %+v", info)
	}
}

func TestManagerContextReflectsExchanges(t *testing.T) {
	m := newTestManager(t, &stubGenerator{response: "summary"}, Config{MaxTokens: 10000})
	ctx := context.Background()

	m.AddExchange(ctx, "What is the refund policy?", "30 days, full refund.", nil)

	got := m.ContextForPrompt()
	if !strings.Contains(got, "Human: What is the refund policy?") {
		t.Errorf("expected question in context, got %q", got)
	}
	if !strings.Contains(got, "Assistant: 30 days, full refund....") {
		t.Errorf("expected answer in context, got %q", got)
	}
}

func TestManagerSummaryInfoWindowFixedAtThree(t *testing.T) {
	// Configure a larger recent window; SummaryInfo stays at 3.
	m := newTestManager(t, &stubGenerator{response: "summary"}, Config{
		MaxTokens:          100000,
		MaxRecentExchanges: 10,
	})
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		m.AddExchange(ctx, fmt.Sprintf("question %d", i), "answer", nil)
	}

	info := m.SummaryInfo()
	if len(info.RecentHistory) != 3 {
		t.Errorf("expected 3 exchanges in summary info, got %d", len(info.RecentHistory))
	}
	if info.RecentHistory[2].Question != "question 5" {
		t.Errorf("expected newest exchange last, got %q", info.RecentHistory[2].Question)
	}
	if info.Stats.TotalExchanges != 6 {
		t.Errorf("expected stats over all retained exchanges, got %d", info.Stats.TotalExchanges)
	}
}

func TestManagerSourcesPassThrough(t *testing.T) {
	m := newTestManager(t, &stubGenerator{response: "summary"}, Config{MaxTokens: 10000})
	ctx := context.Background()

	sources := []Source{
		{Page: 4, Document: "manual.pdf", ChunkID: "chunk-1", ContentPreview: "Warranty covers..."},
	}
	m.AddExchange(ctx, "q", "a", sources)

	info := m.SummaryInfo()
	if len(info.RecentHistory) != 1 || len(info.RecentHistory[0].Sources) != 1 {
		t.Fatalf("expected sources retained, got %+v", info.RecentHistory)
	}
	if info.RecentHistory[0].Sources[0] != sources[0] {
		t.Errorf("expected source passed through unmodified, got %+v", info.RecentHistory[0].Sources[0])
	}
}

func TestManagerReset(t *testing.T) {
	m := newTestManager(t, &stubGenerator{err: errors.New("fail")}, Config{MaxTokens: 50})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		m.AddExchange(ctx, strings.Repeat("q", 100), strings.Repeat("a", 100), nil)
	}
	m.Reset()

	if stats := m.Stats(); stats != (Stats{}) {
		t.Errorf("expected zero stats after reset, got %+v", stats)
	}
	if got := m.ContextForPrompt(); got != "" {
		t.Errorf("expected empty context after reset, got %q", got)
	}
}

func TestNewManagerRequiresGenerator(t *testing.T) {
	_, err := NewManager(nil, Config{})
	if !errors.Is(err, ErrGeneratorUnavailable) {
		t.Errorf("expected ErrGeneratorUnavailable, got %v", err)
	}
}
