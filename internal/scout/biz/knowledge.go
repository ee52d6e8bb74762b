package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/kart-io/logger"

	"github.com/venturescout/venturescout/internal/model"
	"github.com/venturescout/venturescout/internal/pkg/textutil"
	"github.com/venturescout/venturescout/internal/scout/store"
	"github.com/venturescout/venturescout/pkg/llm"
)

const (
	// ContextSeparator joins retrieved chunks into one prompt context.
	ContextSeparator = "\n\n---\n\n"

	// NoContextSentinel is returned when retrieval finds no chunks for
	// the run. Stages pass it through to the model as-is.
	NoContextSentinel = "No relevant data room context found for this query."
)

// KnowledgeConfig configures the knowledge base.
type KnowledgeConfig struct {
	// ChunkSize is the chunk size in Unicode characters.
	ChunkSize int
	// ChunkOverlap is the overlap between consecutive chunks.
	ChunkOverlap int
	// TopK is the default number of chunks per retrieval.
	TopK int
	// EmbeddingDim is the embedding vector dimension.
	EmbeddingDim int
}

// DefaultKnowledgeConfig returns the default knowledge base configuration.
func DefaultKnowledgeConfig() *KnowledgeConfig {
	return &KnowledgeConfig{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		TopK:         5,
		EmbeddingDim: 768,
	}
}

// Knowledge is the run-scoped knowledge base over a startup's data room.
// Indexing failures are hard errors that abort the run; retrieval
// failures degrade to an empty context so reasoning can continue.
type Knowledge struct {
	store    store.VectorStore
	embedder llm.EmbeddingProvider
	config   *KnowledgeConfig
}

// NewKnowledge creates a knowledge base instance.
func NewKnowledge(vectorStore store.VectorStore, embedder llm.EmbeddingProvider, config *KnowledgeConfig) *Knowledge {
	if config == nil {
		config = DefaultKnowledgeConfig()
	}
	return &Knowledge{
		store:    vectorStore,
		embedder: embedder,
		config:   config,
	}
}

// Index chunks, embeds and stores all documents of a run. Chunk IDs are
// deterministic, so indexing the same data room twice replaces rows
// instead of duplicating them. Returns the number of chunks indexed.
func (k *Knowledge) Index(ctx context.Context, runID string, docs model.DocumentSet) (int, error) {
	if err := k.store.EnsureCollection(ctx, k.config.EmbeddingDim); err != nil {
		return 0, fmt.Errorf("failed to prepare collection: %w", err)
	}

	var chunks []*store.Chunk
	for _, category := range model.Categories() {
		for docIdx, doc := range docs[category] {
			pieces := doc.Chunks
			if pieces == nil {
				pieces = textutil.SplitIntoChunks(doc.Text, k.config.ChunkSize, k.config.ChunkOverlap)
			}
			for chunkIdx, content := range pieces {
				chunks = append(chunks, &store.Chunk{
					ID:         fmt.Sprintf("%s_%s_%d_%d", runID, category, docIdx, chunkIdx),
					RunID:      runID,
					Category:   string(category),
					SourceFile: doc.Filename,
					Content:    content,
				})
			}
		}
	}

	if len(chunks) == 0 {
		logger.Warnw("No indexable content in data room", "run_id", runID)
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	embeddings, err := k.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed data room chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embedding count mismatch: got %d for %d chunks", len(embeddings), len(chunks))
	}
	for i, embedding := range embeddings {
		chunks[i].Embedding = embedding
	}

	if err := k.store.Upsert(ctx, chunks); err != nil {
		return 0, fmt.Errorf("failed to store data room chunks: %w", err)
	}

	logger.Infow("Indexed data room", "run_id", runID, "documents", docs.Total(), "chunks", len(chunks))
	return len(chunks), nil
}

// Retrieve returns the topK most relevant chunks of the run joined into a
// single context string. Retrieval errors degrade to "" and an empty
// result set to NoContextSentinel; neither interrupts the calling stage.
func (k *Knowledge) Retrieve(ctx context.Context, query, runID string, topK int) string {
	if topK <= 0 {
		topK = k.config.TopK
	}

	embedding, err := k.embedder.EmbedSingle(ctx, query)
	if err != nil {
		logger.Errorw("Failed to embed retrieval query", "run_id", runID, "error", err.Error())
		return ""
	}

	results, err := k.store.Search(ctx, embedding, runID, topK)
	if err != nil {
		logger.Errorw("Data room retrieval failed", "run_id", runID, "error", err.Error())
		return ""
	}

	if len(results) == 0 {
		return NoContextSentinel
	}

	contents := make([]string, len(results))
	for i, r := range results {
		contents[i] = r.Content
	}
	return strings.Join(contents, ContextSeparator)
}

// Count reports how many chunks are stored across all runs.
func (k *Knowledge) Count(ctx context.Context) (int64, error) {
	return k.store.Count(ctx)
}
