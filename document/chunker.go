package document

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Chunk is one retrievable slice of a document.
type Chunk struct {
	ID       string
	Document string
	Page     int
	Index    int
	Text     string
}

// Matches a sentence up to and including its terminator.
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+["')\]]*\s*|[^.!?]+$`)

// Chunker splits extracted documents into overlapping chunks, preferring
// sentence boundaries so retrieval never sees a cut mid-sentence.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given size and overlap, both in
// characters. Overlap is clamped below the chunk size.
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 2000
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 5
	}
	return &Chunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// Split chunks every page of doc. Chunk indices are sequential across the
// whole document; page numbers are carried per chunk for citation.
func (c *Chunker) Split(doc *Document) []Chunk {
	var chunks []Chunk
	index := 0

	for _, page := range doc.Pages {
		for _, text := range c.splitText(page.Text) {
			chunks = append(chunks, Chunk{
				ID:       uuid.New().String(),
				Document: doc.Name,
				Page:     page.Number,
				Index:    index,
				Text:     text,
			})
			index++
		}
	}

	return chunks
}

// splitText packs sentences greedily up to the chunk size, carrying a
// tail of roughly chunkOverlap characters into the next chunk.
func (c *Chunker) splitText(text string) []string {
	text = normalizeSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= c.chunkSize {
		return []string{text}
	}

	sentences := splitSentences(text)

	var chunks []string
	var current []string
	currentLen := 0

	flush := func() {
		if currentLen == 0 {
			return
		}
		chunks = append(chunks, strings.TrimSpace(strings.Join(current, " ")))

		// Seed the next chunk with trailing sentences up to the overlap.
		var tail []string
		tailLen := 0
		for i := len(current) - 1; i >= 0 && tailLen < c.chunkOverlap; i-- {
			tail = append([]string{current[i]}, tail...)
			tailLen += len(current[i]) + 1
		}
		current = tail
		currentLen = tailLen
	}

	for _, sentence := range sentences {
		// A single sentence longer than the chunk size is emitted alone.
		if len(sentence) > c.chunkSize {
			flush()
			chunks = append(chunks, sentence)
			current = nil
			currentLen = 0
			continue
		}

		if currentLen+len(sentence)+1 > c.chunkSize {
			flush()
		}
		current = append(current, sentence)
		currentLen += len(sentence) + 1
	}

	if currentLen > 0 {
		chunk := strings.TrimSpace(strings.Join(current, " "))
		// Skip a final chunk that is pure overlap of the previous one.
		if len(chunks) == 0 || !strings.HasSuffix(chunks[len(chunks)-1], chunk) {
			chunks = append(chunks, chunk)
		}
	}

	return chunks
}

// splitSentences segments text at sentence terminators.
func splitSentences(text string) []string {
	matches := sentencePattern.FindAllString(text, -1)
	sentences := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if m != "" {
			sentences = append(sentences, m)
		}
	}
	return sentences
}

var spacePattern = regexp.MustCompile(`[ \t]+`)

// normalizeSpace collapses runs of spaces and tabs and trims the result.
func normalizeSpace(text string) string {
	text = strings.ReplaceAll(text, "­", "")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}
