// Command execution for CLI commands.
//
// Information Hiding:
// - Provider/embedder/store setup hidden
// - Output formatting hidden

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/richinex/docky/config"
	"github.com/richinex/docky/llm"
	"github.com/richinex/docky/memory"
	"github.com/richinex/docky/rag"
	"github.com/richinex/docky/vectorstore"
)

// Options holds CLI execution options.
type Options struct {
	Provider  string
	DBPath    string
	Stateless bool
}

// DefaultOptions returns default CLI options.
func DefaultOptions() Options {
	return Options{
		Provider: "gemini",
	}
}

// Ask ingests the document and answers a single question.
func Ask(ctx context.Context, docPath, question string, opts Options) error {
	engine, cleanup, err := createEngine(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := ingest(ctx, engine, docPath); err != nil {
		return err
	}

	var answer *rag.Answer
	if opts.Stateless {
		answer, err = engine.AskStateless(ctx, question)
	} else {
		answer, err = engine.Ask(ctx, question)
	}
	if err != nil {
		return err
	}

	printAnswer(answer)
	return nil
}

// Chat ingests the document and starts an interactive session.
func Chat(ctx context.Context, docPath string, opts Options) error {
	engine, cleanup, err := createEngine(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := ingest(ctx, engine, docPath); err != nil {
		return err
	}

	fmt.Printf("Model: %s\n", engine.Model())
	fmt.Println("Ask questions about the document. Commands: /stats, /summary, /clear, /quit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch input {
		case "/quit", "exit", "quit":
			return scanner.Err()
		case "/stats":
			printStats(engine.ConversationStats())
			continue
		case "/summary":
			printSummary(engine.ConversationSummary())
			continue
		case "/clear":
			engine.ClearConversation()
			fmt.Println("Conversation history cleared.")
			fmt.Println()
			continue
		}

		fmt.Println()
		answer, err := engine.AskStreaming(ctx, input, func(chunk string) {
			fmt.Print(chunk)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
			continue
		}
		fmt.Print("\n\n")
		printSources(answer.Sources)
	}

	return scanner.Err()
}

// Info ingests the document and prints collection and conversation state.
func Info(ctx context.Context, docPath string, opts Options) error {
	engine, cleanup, err := createEngine(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	stats, err := engine.Ingest(ctx, docPath)
	if err != nil {
		return err
	}

	fmt.Printf("Document:  %s\n", stats.Document)
	fmt.Printf("Chunks:    %d\n", stats.Chunks)
	fmt.Printf("Chars:     %d\n", stats.Chars)
	if stats.Reused {
		fmt.Println("Source:    existing collection")
	} else {
		fmt.Println("Source:    newly processed")
	}
	fmt.Println()
	printStats(engine.ConversationStats())
	return nil
}

// createEngine assembles the provider, embedder, store, and engine.
// The returned cleanup closes the vector store.
func createEngine(opts Options) (*rag.Engine, func(), error) {
	providerName := opts.Provider
	if providerName == "" {
		providerName = DefaultOptions().Provider
	}

	settings, err := config.New(providerName)
	if err != nil {
		return nil, nil, err
	}
	if opts.DBPath != "" {
		settings.Retrieval.DBPath = opts.DBPath
	}

	provider, err := createProvider(settings)
	if err != nil {
		return nil, nil, err
	}

	embedder, err := createEmbedder(settings)
	if err != nil {
		return nil, nil, err
	}

	store, err := vectorstore.Open(settings.Retrieval.DBPath)
	if err != nil {
		return nil, nil, err
	}

	// A missing tokenizer is non-fatal; warn and continue on the heuristic.
	counter, err := memory.NewTokenCounter(memory.DefaultEncoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	engine, err := rag.NewEngine(rag.Options{
		Provider: provider,
		Embedder: embedder,
		Store:    store,
		Settings: settings,
		Counter:  counter,
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	return engine, func() { store.Close() }, nil
}

func createProvider(settings config.Settings) (llm.Provider, error) {
	providerType, err := llm.ParseProviderType(settings.LLM.Provider)
	if err != nil {
		return nil, err
	}

	apiKey, err := config.APIKeyFor(settings.LLM.Provider)
	if err != nil {
		return nil, err
	}

	return llm.NewProviderBuilder(providerType).
		Model(settings.LLM.Model).
		MaxTokens(settings.LLM.MaxTokens).
		Temperature(float32(settings.LLM.Temperature)).
		APIKey(apiKey)
}

// createEmbedder resolves an embedding provider. Chat providers without
// an embedding endpoint borrow one from gemini or openai, whichever has
// an API key configured.
func createEmbedder(settings config.Settings) (llm.Embedder, error) {
	if config.SupportsEmbedding(settings.LLM.Provider) {
		providerType, err := llm.ParseProviderType(settings.LLM.Provider)
		if err != nil {
			return nil, err
		}
		apiKey, err := config.APIKeyFor(settings.LLM.Provider)
		if err != nil {
			return nil, err
		}
		return llm.NewEmbedder(providerType, apiKey, settings.LLM.EmbeddingModel)
	}

	for _, fallback := range []llm.ProviderType{llm.ProviderGemini, llm.ProviderOpenAI} {
		if apiKey := os.Getenv(fallback.EnvVar()); apiKey != "" {
			return llm.NewEmbedder(fallback, apiKey, "")
		}
	}

	return nil, fmt.Errorf("provider %s has no embedding endpoint; set GEMINI_API_KEY or OPENAI_API_KEY for embeddings", settings.LLM.Provider)
}

func ingest(ctx context.Context, engine *rag.Engine, docPath string) error {
	fmt.Printf("Processing %s...\n", docPath)
	stats, err := engine.Ingest(ctx, docPath)
	if err != nil {
		return err
	}

	if stats.Reused {
		fmt.Printf("Loaded existing collection with %d chunks\n\n", stats.Chunks)
	} else {
		fmt.Printf("Created new collection with %d chunks (%d chars)\n\n", stats.Chunks, stats.Chars)
	}
	return nil
}

func printAnswer(answer *rag.Answer) {
	fmt.Printf("\n%s\n\n", answer.Answer)
	printSources(answer.Sources)
}

func printSources(sources []memory.Source) {
	if len(sources) == 0 {
		return
	}
	fmt.Println("Sources:")
	for _, source := range sources {
		fmt.Printf("  [Page %d] %s\n", source.Page, source.ContentPreview)
	}
	fmt.Println()
}

func printStats(stats memory.Stats) {
	fmt.Printf("Exchanges:   %d live", stats.TotalExchanges)
	if stats.SummarizedExchanges > 0 {
		fmt.Printf(" (%d summarized)", stats.SummarizedExchanges)
	}
	fmt.Println()
	fmt.Printf("Tokens:      %d\n", stats.TotalTokens)
	if stats.HasSummary {
		fmt.Printf("Summary:     %d chars\n", stats.SummaryLength)
	} else {
		fmt.Println("Summary:     none")
	}
	fmt.Println()
}

func printSummary(info memory.SummaryInfo) {
	if info.Summary != "" {
		fmt.Printf("%s\n\n", info.Summary)
	} else {
		fmt.Println("No summary yet.")
		fmt.Println()
	}

	for _, ex := range info.RecentHistory {
		fmt.Printf("[%s] Q: %s\n", ex.Timestamp.Format("15:04:05"), ex.Question)
	}
	if len(info.RecentHistory) > 0 {
		fmt.Println()
	}
}
