package store

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus/client/v2/entity"

	"github.com/venturescout/venturescout/pkg/component/milvus"
)

const collectionName = "startup_knowledge_base"

var outputFields = []string{"run_id", "category", "source_file", "content"}

// MilvusStore implements VectorStore on Milvus.
type MilvusStore struct {
	client *milvus.Client
}

// NewMilvusStore creates a Milvus-backed store.
func NewMilvusStore(client *milvus.Client) *MilvusStore {
	return &MilvusStore{client: client}
}

// EnsureCollection creates the knowledge base collection if missing.
func (s *MilvusStore) EnsureCollection(ctx context.Context, dimension int) error {
	schema := &milvus.CollectionSchema{
		Name:        collectionName,
		Description: "Run-scoped data room chunks",
		Dimension:   dimension,
		MetaFields: []milvus.MetaField{
			{Name: "run_id", DataType: entity.FieldTypeVarChar, MaxLen: 64},
			{Name: "category", DataType: entity.FieldTypeVarChar, MaxLen: 32},
			{Name: "source_file", DataType: entity.FieldTypeVarChar, MaxLen: 255},
			{Name: "content", DataType: entity.FieldTypeVarChar, MaxLen: 65535},
		},
	}
	return s.client.EnsureCollection(ctx, schema)
}

// Upsert writes document chunks into Milvus.
func (s *MilvusStore) Upsert(ctx context.Context, chunks []*Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	data := &milvus.UpsertData{
		IDs:        make([]string, len(chunks)),
		Embeddings: make([][]float32, len(chunks)),
		Metadata: map[string][]string{
			"run_id":      make([]string, len(chunks)),
			"category":    make([]string, len(chunks)),
			"source_file": make([]string, len(chunks)),
			"content":     make([]string, len(chunks)),
		},
	}

	for i, chunk := range chunks {
		data.IDs[i] = chunk.ID
		data.Embeddings[i] = chunk.Embedding
		data.Metadata["run_id"][i] = chunk.RunID
		data.Metadata["category"][i] = chunk.Category
		data.Metadata["source_file"][i] = chunk.SourceFile
		data.Metadata["content"][i] = chunk.Content
	}

	if err := s.client.Upsert(ctx, collectionName, data); err != nil {
		return fmt.Errorf("failed to upsert into milvus: %w", err)
	}
	return nil
}

// Search performs a run-scoped similarity search.
func (s *MilvusStore) Search(ctx context.Context, embedding []float32, runID string, topK int) ([]*SearchResult, error) {
	expr := fmt.Sprintf("run_id == %q", runID)
	results, err := s.client.SearchWithFilter(ctx, collectionName, embedding, expr, topK, outputFields)
	if err != nil {
		return nil, fmt.Errorf("failed to search milvus: %w", err)
	}

	searchResults := make([]*SearchResult, 0, len(results))
	for _, r := range results {
		searchResults = append(searchResults, &SearchResult{
			ID:         r.ID,
			RunID:      r.Metadata["run_id"],
			Category:   r.Metadata["category"],
			SourceFile: r.Metadata["source_file"],
			Content:    r.Metadata["content"],
			Score:      r.Score,
		})
	}
	return searchResults, nil
}

// Count returns the number of indexed chunks.
func (s *MilvusStore) Count(ctx context.Context) (int64, error) {
	return s.client.GetCollectionStats(ctx, collectionName)
}

// Close closes the Milvus connection.
func (s *MilvusStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

var _ VectorStore = (*MilvusStore)(nil)
