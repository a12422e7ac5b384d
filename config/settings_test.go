package config

import (
	"os"
	"sort"
	"testing"
)

func TestNewValidProvider(t *testing.T) {
	settings, err := New("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "gemini" {
		t.Errorf("expected provider 'gemini', got %q", settings.LLM.Provider)
	}
	if settings.LLM.EmbeddingModel == "" {
		t.Error("expected default embedding model for gemini")
	}
}

func TestNewWithAlias(t *testing.T) {
	settings, err := New("google")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "gemini" {
		t.Errorf("expected provider 'gemini' (normalized from 'google'), got %q", settings.LLM.Provider)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New("unknown_provider")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewDefaults(t *testing.T) {
	settings, err := New("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Document.ChunkSize != 2000 {
		t.Errorf("expected chunk size 2000, got %d", settings.Document.ChunkSize)
	}
	if settings.Document.ChunkOverlap != 400 {
		t.Errorf("expected chunk overlap 400, got %d", settings.Document.ChunkOverlap)
	}
	if settings.Memory.MaxTokens != 500 {
		t.Errorf("expected memory tokens 500, got %d", settings.Memory.MaxTokens)
	}
	if settings.Memory.MaxRecentExchanges != 3 {
		t.Errorf("expected 3 recent exchanges, got %d", settings.Memory.MaxRecentExchanges)
	}
	if settings.Retrieval.TopK != 6 {
		t.Errorf("expected retrieval k 6, got %d", settings.Retrieval.TopK)
	}
}

func TestNewEnvOverride(t *testing.T) {
	original := os.Getenv("DOCKY_MEMORY_TOKENS")
	os.Setenv("DOCKY_MEMORY_TOKENS", "1200")
	defer os.Setenv("DOCKY_MEMORY_TOKENS", original)

	settings, err := New("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Memory.MaxTokens != 1200 {
		t.Errorf("expected memory tokens 1200, got %d", settings.Memory.MaxTokens)
	}
}

func TestNewInvalidEnvValue(t *testing.T) {
	original := os.Getenv("DOCKY_CHUNK_SIZE")
	os.Setenv("DOCKY_CHUNK_SIZE", "not_a_number")
	defer os.Setenv("DOCKY_CHUNK_SIZE", original)

	if _, err := New("gemini"); err == nil {
		t.Error("expected error for invalid env value")
	}
}

func TestAPIKeyForValidProvider(t *testing.T) {
	original := os.Getenv("GEMINI_API_KEY")
	os.Setenv("GEMINI_API_KEY", "test-key")
	defer os.Setenv("GEMINI_API_KEY", original)

	key, err := APIKeyFor("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "test-key" {
		t.Errorf("expected 'test-key', got %q", key)
	}
}

func TestAPIKeyForMissing(t *testing.T) {
	original := os.Getenv("GEMINI_API_KEY")
	os.Unsetenv("GEMINI_API_KEY")
	defer os.Setenv("GEMINI_API_KEY", original)

	if _, err := APIKeyFor("gemini"); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestSupportsEmbedding(t *testing.T) {
	if !SupportsEmbedding("gemini") {
		t.Error("expected gemini to support embeddings")
	}
	if !SupportsEmbedding("openai") {
		t.Error("expected openai to support embeddings")
	}
	if SupportsEmbedding("anthropic") {
		t.Error("expected anthropic to not support embeddings")
	}
}

func TestSupportedProvidersSorted(t *testing.T) {
	names := SupportedProviders()
	if !sort.StringsAreSorted(names) {
		t.Errorf("expected sorted provider names, got %v", names)
	}
	for _, want := range []string{"anthropic", "deepseek", "gemini", "openai"} {
		i := sort.SearchStrings(names, want)
		if i == len(names) || names[i] != want {
			t.Errorf("expected %q in supported providers, got %v", want, names)
		}
	}
}
