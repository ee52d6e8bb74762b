package store

import (
	"context"
)

// Chunk is one indexed piece of a data room document.
type Chunk struct {
	// ID is the deterministic chunk identifier, derived from run ID,
	// category and position so re-indexing upserts in place.
	ID string
	// RunID scopes the chunk to one analysis run.
	RunID string
	// Category is the document category the chunk came from.
	Category string
	// SourceFile is the originating filename.
	SourceFile string
	// Content is the chunk text.
	Content string
	// Embedding is the embedding vector.
	Embedding []float32
}

// SearchResult is one retrieved chunk with its similarity score.
type SearchResult struct {
	ID         string
	RunID      string
	Category   string
	SourceFile string
	Content    string
	Score      float32
}

// VectorStore defines the vector storage interface. Every search is
// scoped to a single run.
type VectorStore interface {
	// EnsureCollection prepares the backing collection for the given
	// embedding dimension.
	EnsureCollection(ctx context.Context, dimension int) error

	// Upsert writes chunks, replacing any with the same ID.
	Upsert(ctx context.Context, chunks []*Chunk) error

	// Search returns the topK most similar chunks within one run.
	Search(ctx context.Context, embedding []float32, runID string, topK int) ([]*SearchResult, error)

	// Count returns the total number of stored chunks.
	Count(ctx context.Context) (int64, error)

	// Close releases the store.
	Close(ctx context.Context) error
}
