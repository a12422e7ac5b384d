package llm

import (
	"testing"
)

func TestParseProviderType(t *testing.T) {
	cases := []struct {
		input string
		want  ProviderType
	}{
		{"gemini", ProviderGemini},
		{"google", ProviderGemini},
		{"GEMINI", ProviderGemini},
		{"openai", ProviderOpenAI},
		{"gpt", ProviderOpenAI},
		{"anthropic", ProviderAnthropic},
		{"claude", ProviderAnthropic},
		{"deepseek", ProviderDeepSeek},
	}

	for _, c := range cases {
		got, err := ParseProviderType(c.input)
		if err != nil {
			t.Errorf("ParseProviderType(%q) failed: %v", c.input, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseProviderType(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestParseProviderTypeUnknown(t *testing.T) {
	if _, err := ParseProviderType("mystery"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestProviderTypeString(t *testing.T) {
	if got := ProviderGemini.String(); got != "gemini" {
		t.Errorf("expected 'gemini', got %q", got)
	}
	if got := ProviderType(99).String(); got != "unknown" {
		t.Errorf("expected 'unknown', got %q", got)
	}
}

func TestDefaultEmbeddingModel(t *testing.T) {
	if got := ProviderGemini.DefaultEmbeddingModel(); got != ModelGeminiEmbedding {
		t.Errorf("expected %q, got %q", ModelGeminiEmbedding, got)
	}
	if got := ProviderAnthropic.DefaultEmbeddingModel(); got != "" {
		t.Errorf("expected empty embedding model for anthropic, got %q", got)
	}
}

func TestNewEmbedderUnsupportedProvider(t *testing.T) {
	if _, err := NewEmbedder(ProviderAnthropic, "key", ""); err == nil {
		t.Error("expected error for provider without embedding endpoint")
	}
	if _, err := NewEmbedder(ProviderDeepSeek, "key", ""); err == nil {
		t.Error("expected error for provider without embedding endpoint")
	}
}

func TestBuilderDefaults(t *testing.T) {
	provider, err := ProviderOpenAI.APIKey("test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != "openai" {
		t.Errorf("expected 'openai', got %q", provider.Name())
	}
	if provider.Model() != ModelOpenAIGPT4o {
		t.Errorf("expected default model, got %q", provider.Model())
	}
}

func TestBuilderCustomModel(t *testing.T) {
	provider, err := ProviderDeepSeek.Model(ModelDeepSeekReasoner).APIKey("test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Model() != ModelDeepSeekReasoner {
		t.Errorf("expected %q, got %q", ModelDeepSeekReasoner, provider.Model())
	}
}

func TestMessageConstructors(t *testing.T) {
	if msg := SystemMessage("s"); msg.Role != "system" || msg.Content != "s" {
		t.Errorf("unexpected system message: %+v", msg)
	}
	if msg := UserMessage("u"); msg.Role != "user" || msg.Content != "u" {
		t.Errorf("unexpected user message: %+v", msg)
	}
	if msg := AssistantMessage("a"); msg.Role != "assistant" || msg.Content != "a" {
		t.Errorf("unexpected assistant message: %+v", msg)
	}
}
