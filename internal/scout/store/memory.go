package store

import (
	"context"
	"sort"
	"sync"

	"github.com/venturescout/venturescout/internal/pkg/textutil"
)

// MemoryStore implements VectorStore in process memory. It is used for
// local runs and tests where no Milvus deployment is available.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks map[string]*Chunk
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		chunks: make(map[string]*Chunk),
	}
}

// EnsureCollection is a no-op for the in-memory store.
func (s *MemoryStore) EnsureCollection(_ context.Context, _ int) error {
	return nil
}

// Upsert stores chunks, replacing any with the same ID.
func (s *MemoryStore) Upsert(_ context.Context, chunks []*Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		s.chunks[chunk.ID] = chunk
	}
	return nil
}

// Search ranks chunks of one run by cosine similarity.
func (s *MemoryStore) Search(_ context.Context, embedding []float32, runID string, topK int) ([]*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*SearchResult
	for _, chunk := range s.chunks {
		if chunk.RunID != runID {
			continue
		}
		score := textutil.CosineSimilarity(embedding, chunk.Embedding)
		results = append(results, &SearchResult{
			ID:         chunk.ID,
			RunID:      chunk.RunID,
			Category:   chunk.Category,
			SourceFile: chunk.SourceFile,
			Content:    chunk.Content,
			Score:      float32(score),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Count returns the number of stored chunks.
func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.chunks)), nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close(_ context.Context) error {
	return nil
}

var _ VectorStore = (*MemoryStore)(nil)
