// Package config provides application settings loaded from environment variables.
//
// Settings are created via New() which handles:
// - Environment variable parsing with validation
// - Default value application
// - Provider-specific configuration lookup

package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Settings holds all application configuration.
type Settings struct {
	LLM       LLMConfig
	Document  DocumentConfig
	Memory    MemoryConfig
	Retrieval RetrievalConfig
}

// LLMConfig holds LLM provider configuration.
type LLMConfig struct {
	Provider       string
	Model          string
	EmbeddingModel string
	MaxTokens      uint32
	Temperature    float64
}

// DocumentConfig holds document chunking configuration.
type DocumentConfig struct {
	ChunkSize    int
	ChunkOverlap int
}

// MemoryConfig holds conversation memory configuration.
type MemoryConfig struct {
	MaxTokens          int
	MaxRecentExchanges int
	SummaryTimeout     time.Duration
}

// RetrievalConfig holds vector store and retrieval configuration.
type RetrievalConfig struct {
	DBPath string
	TopK   int
}

// providerInfo holds configuration for a specific LLM provider.
type providerInfo struct {
	modelEnv          string
	defaultModel      string
	embeddingModelEnv string
	defaultEmbedding  string
	apiKeyEnv         string
}

// Supported providers and their configuration. Embedding defaults are
// empty for providers without an embedding endpoint.
var providers = map[string]providerInfo{
	"gemini":    {"GEMINI_MODEL", "gemini-2.5-flash", "GEMINI_EMBEDDING_MODEL", "gemini-embedding-001", "GEMINI_API_KEY"},
	"openai":    {"OPENAI_MODEL", "gpt-4o", "OPENAI_EMBEDDING_MODEL", "text-embedding-3-small", "OPENAI_API_KEY"},
	"anthropic": {"ANTHROPIC_MODEL", "claude-sonnet-4-20250514", "", "", "ANTHROPIC_API_KEY"},
	"deepseek":  {"DEEPSEEK_MODEL", "deepseek-chat", "", "", "DEEPSEEK_API_KEY"},
}

// Provider aliases map to canonical names.
var providerAliases = map[string]string{
	"google": "gemini",
	"claude": "anthropic",
	"gpt":    "openai",
}

// New creates settings for the specified provider, loading values from environment variables.
// Returns an error if the provider is unknown or environment variables contain invalid values.
func New(provider string) (Settings, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return Settings{}, err
	}

	maxTokens, err := getEnvUint32("LLM_MAX_TOKENS", 4096)
	if err != nil {
		return Settings{}, err
	}

	temperature, err := getEnvFloat64("LLM_TEMPERATURE", 0.7)
	if err != nil {
		return Settings{}, err
	}

	chunkSize, err := getEnvInt("DOCKY_CHUNK_SIZE", 2000)
	if err != nil {
		return Settings{}, err
	}

	chunkOverlap, err := getEnvInt("DOCKY_CHUNK_OVERLAP", 400)
	if err != nil {
		return Settings{}, err
	}

	memoryTokens, err := getEnvInt("DOCKY_MEMORY_TOKENS", 500)
	if err != nil {
		return Settings{}, err
	}

	maxRecent, err := getEnvInt("DOCKY_MAX_RECENT_EXCHANGES", 3)
	if err != nil {
		return Settings{}, err
	}

	summaryTimeout, err := getEnvInt("DOCKY_SUMMARY_TIMEOUT_SECONDS", 30)
	if err != nil {
		return Settings{}, err
	}

	topK, err := getEnvInt("DOCKY_RETRIEVAL_K", 6)
	if err != nil {
		return Settings{}, err
	}

	// Get models from environment or use provider defaults
	model := os.Getenv(info.modelEnv)
	if model == "" {
		model = info.defaultModel
	}
	embeddingModel := info.defaultEmbedding
	if info.embeddingModelEnv != "" {
		if val := os.Getenv(info.embeddingModelEnv); val != "" {
			embeddingModel = val
		}
	}

	dbPath := os.Getenv("DOCKY_DB_PATH")
	if dbPath == "" {
		dbPath = "docky.db"
	}

	return Settings{
		LLM: LLMConfig{
			Provider:       provider,
			Model:          model,
			EmbeddingModel: embeddingModel,
			MaxTokens:      maxTokens,
			Temperature:    temperature,
		},
		Document: DocumentConfig{
			ChunkSize:    chunkSize,
			ChunkOverlap: chunkOverlap,
		},
		Memory: MemoryConfig{
			MaxTokens:          memoryTokens,
			MaxRecentExchanges: maxRecent,
			SummaryTimeout:     time.Duration(summaryTimeout) * time.Second,
		},
		Retrieval: RetrievalConfig{
			DBPath: dbPath,
			TopK:   topK,
		},
	}, nil
}

// normalizeProvider converts provider aliases to canonical names.
func normalizeProvider(provider string) string {
	provider = strings.ToLower(provider)
	if canonical, ok := providerAliases[provider]; ok {
		return canonical
	}
	return provider
}

// getProviderInfo returns configuration for a provider.
func getProviderInfo(provider string) (providerInfo, error) {
	info, ok := providers[provider]
	if !ok {
		return providerInfo{}, fmt.Errorf("unknown provider: %q", provider)
	}
	return info, nil
}

// APIKeyFor returns the API key for a provider from environment variables.
func APIKeyFor(provider string) (string, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return "", err
	}

	key := os.Getenv(info.apiKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%s environment variable not set", info.apiKeyEnv)
	}
	return key, nil
}

// SupportsEmbedding reports whether a provider has an embedding endpoint.
func SupportsEmbedding(provider string) bool {
	info, err := getProviderInfo(normalizeProvider(provider))
	return err == nil && info.defaultEmbedding != ""
}

// SupportedProviders returns the supported provider names, sorted for
// stable display.
func SupportedProviders() []string {
	result := make([]string, 0, len(providers))
	for name := range providers {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Environment variable helpers with proper error handling

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return i, nil
}

func getEnvUint32(key string, defaultVal uint32) (uint32, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return uint32(i), nil
}

func getEnvFloat64(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return f, nil
}
