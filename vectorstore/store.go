// Package vectorstore provides SQLite-backed storage and similarity
// search for document chunk embeddings.
//
// Information Hiding:
// - SQLite connection management and schema hidden behind the Store
// - Embedding vector encoding (little-endian float32 blobs) encapsulated
// - Similarity scoring hidden behind Search

package vectorstore

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/mattn/go-sqlite3"

	"github.com/richinex/docky/document"
)

// Store persists document chunks with their embedding vectors and serves
// nearest-neighbour queries over them.
// Thread-safe: sql.DB handles connection pooling and concurrent access.
type Store struct {
	db *sql.DB
}

// Open opens or creates a vector store database at the given path.
// Creates parent directories if they don't exist.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// OpenInMemory creates an in-memory store (useful for testing).
func OpenInMemory() (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite: %w", err)
	}

	store := &Store{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			name TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			document TEXT NOT NULL,
			page INTEGER NOT NULL,
			chunk_index INTEGER NOT NULL,
			content TEXT NOT NULL,
			embedding BLOB NOT NULL,
			FOREIGN KEY (document) REFERENCES documents(name) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_chunks_document
		ON chunks(document, chunk_index);
	`
	_, err := s.db.Exec(schema)
	return err
}

// AddDocument registers a document and stores its chunks with their
// embedding vectors in one transaction. vectors[i] belongs to chunks[i].
func (s *Store) AddDocument(ctx context.Context, doc *document.Document, chunks []document.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO documents (name, path) VALUES (?, ?)`,
		doc.Name, doc.Path,
	); err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO chunks (id, document, page, chunk_index, content, embedding)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx,
			chunk.ID, chunk.Document, chunk.Page, chunk.Index, chunk.Text, encodeVector(vectors[i]),
		); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", chunk.Index, err)
		}
	}

	return tx.Commit()
}

// HasDocument reports whether a document with stored chunks exists.
func (s *Store) HasDocument(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chunks WHERE document = ?`, name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query document: %w", err)
	}
	return count > 0, nil
}

// ChunkCount returns the number of stored chunks for a document.
func (s *Store) ChunkCount(ctx context.Context, name string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chunks WHERE document = ?`, name,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

// DeleteDocument removes a document and all its chunks.
func (s *Store) DeleteDocument(ctx context.Context, name string) error {
	// CASCADE is not enforced by default in SQLite; delete chunks explicitly.
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE document = ?`, name); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// SearchResult is one retrieved chunk with its similarity score.
type SearchResult struct {
	Chunk document.Chunk
	Score float64
}

// Search returns the k chunks most similar to the query vector, best
// first, scored by cosine similarity.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document, page, chunk_index, content, embedding FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var chunk document.Chunk
		var blob []byte
		if err := rows.Scan(&chunk.ID, &chunk.Document, &chunk.Page, &chunk.Index, &chunk.Text, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}

		vector, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("corrupt embedding for chunk %s: %w", chunk.ID, err)
		}

		results = append(results, SearchResult{
			Chunk: chunk,
			Score: cosineSimilarity(query, vector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chunks: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// encodeVector packs a float32 vector into a little-endian blob.
func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// decodeVector unpacks a blob produced by encodeVector.
func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("blob length %d not a multiple of 4", len(blob))
	}
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vector, nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths or zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
