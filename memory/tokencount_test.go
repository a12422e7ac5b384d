package memory

import (
	"strings"
	"testing"
)

func TestHeuristicCountFloorsAtOne(t *testing.T) {
	c := HeuristicCounter{}

	if got := c.Count(""); got != 1 {
		t.Errorf("expected 1 for empty text, got %d", got)
	}
	if got := c.Count("ab"); got != 1 {
		t.Errorf("expected 1 for short text, got %d", got)
	}
}

func TestHeuristicCountScalesWithLength(t *testing.T) {
	c := HeuristicCounter{}

	text := strings.Repeat("a", 400)
	if got := c.Count(text); got != 100 {
		t.Errorf("expected 100 tokens for 400 chars, got %d", got)
	}
}

func TestHeuristicTruncateNoOpWithinBudget(t *testing.T) {
	c := HeuristicCounter{}

	text := "short text"
	if got := c.Truncate(text, 100); got != text {
		t.Errorf("expected unchanged text, got %q", got)
	}
}

func TestHeuristicTruncateCutsToCharBudget(t *testing.T) {
	c := HeuristicCounter{}

	text := strings.Repeat("x", 100)
	got := c.Truncate(text, 10)
	if len(got) != 40 {
		t.Errorf("expected 40 chars (10 tokens * 4), got %d", len(got))
	}
}

func TestHeuristicCountAndTruncateAgreeOnMultibyteText(t *testing.T) {
	c := HeuristicCounter{}

	text := strings.Repeat("é", 80)
	if got := c.Count(text); got != 20 {
		t.Errorf("expected 20 tokens for 80 chars, got %d", got)
	}

	truncated := c.Truncate(text, 10)
	if got := len([]rune(truncated)); got != 40 {
		t.Errorf("expected 40 chars (10 tokens * 4), got %d", got)
	}
	if got := c.Count(truncated); got > 10 {
		t.Errorf("truncated text counts %d tokens, exceeds budget of 10", got)
	}
}

func TestNewTokenCounterDegradesOnUnknownEncoding(t *testing.T) {
	counter, err := NewTokenCounter("no_such_encoding")
	if err == nil {
		t.Error("expected degradation error for unknown encoding")
	}
	if counter == nil {
		t.Fatal("expected a usable counter despite the error")
	}

	// Degraded counter must still satisfy the >= 1 floor.
	if got := counter.Count(""); got != 1 {
		t.Errorf("expected 1 for empty text, got %d", got)
	}
}
