// Package rag wires document ingestion, retrieval, generation, and
// conversation memory into one question-answering engine.
//
// Information Hiding:
// - Prompt construction and citation extraction
// - Embedding batch sizing
// - The order of memory reads and writes around the generation step

package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/richinex/docky/config"
	"github.com/richinex/docky/document"
	"github.com/richinex/docky/llm"
	"github.com/richinex/docky/memory"
	"github.com/richinex/docky/vectorstore"
)

// Chunks embedded per provider call during ingestion.
const embedBatchSize = 64

// Characters of chunk content kept in a citation preview.
const sourcePreviewChars = 200

// Options configures an Engine.
type Options struct {
	Provider llm.Provider
	Embedder llm.Embedder
	Store    *vectorstore.Store
	Settings config.Settings

	// Counter overrides the memory token estimator (optional).
	Counter memory.TokenCounter
}

// Answer is the result of one question.
type Answer struct {
	Question string          `json:"question"`
	Answer   string          `json:"answer"`
	Sources  []memory.Source `json:"sources"`
	Usage    *llm.TokenUsage `json:"usage,omitempty"`
	Stats    memory.Stats    `json:"conversation_stats"`
}

// IngestStats describes the outcome of document ingestion.
type IngestStats struct {
	Document string
	Chunks   int
	Chars    int
	Reused   bool
}

// Engine answers questions against an ingested document, threading
// bounded conversation memory through each turn.
type Engine struct {
	client   *llm.Client
	embedder llm.Embedder
	store    *vectorstore.Store
	chunker  *document.Chunker
	memory   *memory.Manager
	topK     int
}

// NewEngine creates an engine from the given collaborators and settings.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("rag: provider is required")
	}
	if opts.Embedder == nil {
		return nil, fmt.Errorf("rag: embedder is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("rag: vector store is required")
	}

	client := llm.NewClient(opts.Provider)

	mem, err := memory.NewManager(client, memory.Config{
		MaxTokens:          opts.Settings.Memory.MaxTokens,
		MaxRecentExchanges: opts.Settings.Memory.MaxRecentExchanges,
		SummaryTimeout:     opts.Settings.Memory.SummaryTimeout,
		Counter:            opts.Counter,
	})
	if err != nil {
		return nil, fmt.Errorf("rag: %w", err)
	}

	topK := opts.Settings.Retrieval.TopK
	if topK <= 0 {
		topK = 6
	}

	return &Engine{
		client:   client,
		embedder: opts.Embedder,
		store:    opts.Store,
		chunker:  document.NewChunker(opts.Settings.Document.ChunkSize, opts.Settings.Document.ChunkOverlap),
		memory:   mem,
		topK:     topK,
	}, nil
}

// Ingest loads, chunks, embeds, and stores the document at path.
// A document already present in the store is reused without re-embedding.
func (e *Engine) Ingest(ctx context.Context, path string) (IngestStats, error) {
	doc, err := document.Load(path)
	if err != nil {
		return IngestStats{}, err
	}

	exists, err := e.store.HasDocument(ctx, doc.Name)
	if err != nil {
		return IngestStats{}, err
	}
	if exists {
		count, err := e.store.ChunkCount(ctx, doc.Name)
		if err != nil {
			return IngestStats{}, err
		}
		return IngestStats{Document: doc.Name, Chunks: count, Chars: doc.CharCount(), Reused: true}, nil
	}

	chunks := e.chunker.Split(doc)
	if len(chunks) == 0 {
		return IngestStats{}, fmt.Errorf("no chunks produced from %s", doc.Name)
	}

	vectors, err := e.embedChunks(ctx, chunks)
	if err != nil {
		return IngestStats{}, err
	}

	if err := e.store.AddDocument(ctx, doc, chunks, vectors); err != nil {
		return IngestStats{}, err
	}

	return IngestStats{Document: doc.Name, Chunks: len(chunks), Chars: doc.CharCount()}, nil
}

func (e *Engine) embedChunks(ctx context.Context, chunks []document.Chunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.Text)
		}

		batch, err := e.embedder.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunks %d-%d: %w", start, end-1, err)
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

// Ask answers a question using retrieval plus conversation memory.
// The composed memory context reflects state before this question; the
// completed exchange is recorded afterwards, which may trigger a
// synchronous summarization pass.
func (e *Engine) Ask(ctx context.Context, question string) (*Answer, error) {
	conversationContext := e.memory.ContextForPrompt()

	docContext, sources, err := e.retrieve(ctx, question)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(memoryAwareUserTemplate, conversationContext, docContext, question)
	answer, usage, err := e.client.ChatWithUsage(ctx, []llm.ChatMessage{
		llm.SystemMessage(memoryAwareSystemPrompt),
		llm.UserMessage(prompt),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	e.memory.AddExchange(ctx, question, answer, sources)

	return &Answer{
		Question: question,
		Answer:   answer,
		Sources:  sources,
		Usage:    usage,
		Stats:    e.memory.Stats(),
	}, nil
}

// streamResult carries the outcome of a streaming generation call.
type streamResult struct {
	usage *llm.TokenUsage
	err   error
}

// AskStreaming answers like Ask but forwards answer text to onChunk as
// it arrives from the provider. The exchange recorded in memory and the
// returned Answer hold the full accumulated text.
func (e *Engine) AskStreaming(ctx context.Context, question string, onChunk func(string)) (*Answer, error) {
	conversationContext := e.memory.ContextForPrompt()

	docContext, sources, err := e.retrieve(ctx, question)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(memoryAwareUserTemplate, conversationContext, docContext, question)
	messages := []llm.ChatMessage{
		llm.SystemMessage(memoryAwareSystemPrompt),
		llm.UserMessage(prompt),
	}

	chunks := make(chan string)
	resultCh := make(chan streamResult, 1)
	go func() {
		defer close(chunks)
		usage, err := e.client.StreamChat(ctx, messages, chunks)
		resultCh <- streamResult{usage: usage, err: err}
	}()

	var b strings.Builder
	for chunk := range chunks {
		b.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}

	result := <-resultCh
	if result.err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", result.err)
	}

	answer := b.String()
	e.memory.AddExchange(ctx, question, answer, sources)

	return &Answer{
		Question: question,
		Answer:   answer,
		Sources:  sources,
		Usage:    result.usage,
		Stats:    e.memory.Stats(),
	}, nil
}

// AskStateless answers a question without reading or writing
// conversation memory.
func (e *Engine) AskStateless(ctx context.Context, question string) (*Answer, error) {
	docContext, sources, err := e.retrieve(ctx, question)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(basicUserTemplate, docContext, question)
	answer, usage, err := e.client.ChatWithUsage(ctx, []llm.ChatMessage{
		llm.SystemMessage(basicSystemPrompt),
		llm.UserMessage(prompt),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	return &Answer{Question: question, Answer: answer, Sources: sources, Usage: usage}, nil
}

// retrieve embeds the question and fetches the top-k chunks, returning
// the document context block and the citation records.
func (e *Engine) retrieve(ctx context.Context, question string) (string, []memory.Source, error) {
	vectors, err := e.embedder.Embed(ctx, []string{question})
	if err != nil {
		return "", nil, fmt.Errorf("failed to embed question: %w", err)
	}
	if len(vectors) != 1 {
		return "", nil, fmt.Errorf("expected 1 query embedding, got %d", len(vectors))
	}

	results, err := e.store.Search(ctx, vectors[0], e.topK)
	if err != nil {
		return "", nil, fmt.Errorf("retrieval failed: %w", err)
	}

	var b strings.Builder
	sources := make([]memory.Source, 0, len(results))
	for _, result := range results {
		fmt.Fprintf(&b, "[Page %d] %s\n\n", result.Chunk.Page, result.Chunk.Text)
		sources = append(sources, memory.Source{
			Page:           result.Chunk.Page,
			Document:       result.Chunk.Document,
			ChunkID:        result.Chunk.ID,
			ContentPreview: contentPreview(result.Chunk.Text),
		})
	}

	return strings.TrimSpace(b.String()), sources, nil
}

// contentPreview cuts chunk content for citation display.
func contentPreview(content string) string {
	runes := []rune(content)
	if len(runes) <= sourcePreviewChars {
		return content
	}
	return string(runes[:sourcePreviewChars]) + "..."
}

// Model reports the provider and model answering questions, for display.
func (e *Engine) Model() string {
	p := e.client.Provider()
	return fmt.Sprintf("%s/%s", p.Name(), p.Model())
}

// ConversationStats reports the live conversation window counters.
func (e *Engine) ConversationStats() memory.Stats {
	return e.memory.Stats()
}

// ConversationSummary returns the accumulated summary, recent raw
// exchanges, and stats.
func (e *Engine) ConversationSummary() memory.SummaryInfo {
	return e.memory.SummaryInfo()
}

// ClearConversation discards conversation state, leaving the document
// store untouched.
func (e *Engine) ClearConversation() {
	e.memory.Reset()
}
