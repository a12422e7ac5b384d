package memory

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// stubGenerator returns a fixed response or error.
type stubGenerator struct {
	response string
	err      error
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.response, g.err
}

// slowGenerator blocks until its context is cancelled.
type slowGenerator struct{}

func (slowGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func testExchanges() []Exchange {
	return []Exchange{
		{Question: "What is the warranty period?", Answer: "Two years from purchase.", Tokens: 10},
		{Question: "Does it cover water damage?", Answer: "No, water damage is excluded.", Tokens: 10},
	}
}

func TestSummarizeSuccessAddsPrefix(t *testing.T) {
	s, err := NewSummarizer(&stubGenerator{response: "The user asked about warranty terms."}, 0)
	if err != nil {
		t.Fatalf("NewSummarizer failed: %v", err)
	}

	got := s.Summarize(context.Background(), testExchanges())
	want := "Previous conversation summary: The user asked about warranty terms."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSummarizeFallbackOnError(t *testing.T) {
	s, err := NewSummarizer(&stubGenerator{err: errors.New("api down")}, 0)
	if err != nil {
		t.Fatalf("NewSummarizer failed: %v", err)
	}

	got := s.Summarize(context.Background(), testExchanges())
	want := "Previous conversation covered topics: What is the warranty period?, Does it cover water damage?"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSummarizeFallbackOnEmptyResponse(t *testing.T) {
	s, err := NewSummarizer(&stubGenerator{response: "   "}, 0)
	if err != nil {
		t.Fatalf("NewSummarizer failed: %v", err)
	}

	got := s.Summarize(context.Background(), testExchanges())
	if !strings.HasPrefix(got, "Previous conversation covered topics: ") {
		t.Errorf("expected fallback summary, got %q", got)
	}
}

func TestSummarizeFallbackDeterministic(t *testing.T) {
	s, err := NewSummarizer(&stubGenerator{err: errors.New("always fails")}, 0)
	if err != nil {
		t.Fatalf("NewSummarizer failed: %v", err)
	}

	exchanges := testExchanges()
	first := s.Summarize(context.Background(), exchanges)
	for i := 0; i < 5; i++ {
		if got := s.Summarize(context.Background(), exchanges); got != first {
			t.Fatalf("fallback not deterministic: %q vs %q", got, first)
		}
	}
}

func TestSummarizeFallbackTruncatesLongQuestions(t *testing.T) {
	s, err := NewSummarizer(&stubGenerator{err: errors.New("fail")}, 0)
	if err != nil {
		t.Fatalf("NewSummarizer failed: %v", err)
	}

	long := strings.Repeat("q", 80)
	got := s.Summarize(context.Background(), []Exchange{{Question: long}})
	want := "Previous conversation covered topics: " + strings.Repeat("q", 50)
	if got != want {
		t.Errorf("expected question truncated to 50 chars, got %q", got)
	}
}

func TestSummarizeFallbackOnTimeout(t *testing.T) {
	s, err := NewSummarizer(slowGenerator{}, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSummarizer failed: %v", err)
	}

	got := s.Summarize(context.Background(), testExchanges())
	if !strings.HasPrefix(got, "Previous conversation covered topics: ") {
		t.Errorf("expected fallback on timeout, got %q", got)
	}
}

func TestNewSummarizerNilGenerator(t *testing.T) {
	_, err := NewSummarizer(nil, 0)
	if !errors.Is(err, ErrGeneratorUnavailable) {
		t.Errorf("expected ErrGeneratorUnavailable, got %v", err)
	}
}
