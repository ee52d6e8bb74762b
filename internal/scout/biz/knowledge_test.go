package biz_test

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venturescout/venturescout/internal/model"
	"github.com/venturescout/venturescout/internal/scout/biz"
	"github.com/venturescout/venturescout/internal/scout/store"
)

const fakeEmbeddingDim = 16

// fakeEmbedder hashes words into a small fixed-dimension bag-of-words
// vector, so texts sharing words score higher cosine similarity.
type fakeEmbedder struct {
	failEmbed  bool
	failSingle bool
}

func (f *fakeEmbedder) embed(text string) []float32 {
	vec := make([]float32, fakeEmbeddingDim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(strings.Trim(word, ".,:;!?")))
		vec[h.Sum32()%fakeEmbeddingDim]++
	}
	return vec
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.failEmbed {
		return nil, errors.New("embedding backend unavailable")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.embed(t)
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedSingle(_ context.Context, text string) ([]float32, error) {
	if f.failSingle {
		return nil, errors.New("embedding backend unavailable")
	}
	return f.embed(text), nil
}

func (f *fakeEmbedder) Name() string { return "fake" }

func newTestKnowledge(embedder *fakeEmbedder) *biz.Knowledge {
	cfg := biz.DefaultKnowledgeConfig()
	cfg.EmbeddingDim = fakeEmbeddingDim
	cfg.ChunkSize = 120
	cfg.ChunkOverlap = 20
	return biz.NewKnowledge(store.NewMemoryStore(), embedder, cfg)
}

func TestKnowledgeIndexAndRetrieve(t *testing.T) {
	ctx := context.Background()
	k := newTestKnowledge(&fakeEmbedder{})

	docs := model.DocumentSet{}
	docs.Add(model.CategoryPitchDeck, model.Document{
		Filename: "deck.pdf",
		Text:     "Acme builds billing software. Revenue grew from 10k MRR to 50k MRR this year. The founding team previously built payment infrastructure at a public company.",
	})

	n, err := k.Index(ctx, "run1", docs)
	require.NoError(t, err)
	assert.Greater(t, n, 0)

	result := k.Retrieve(ctx, "revenue MRR growth", "run1", 3)
	assert.Contains(t, result, "MRR")
}

func TestKnowledgeRetrieveEmptyRun(t *testing.T) {
	ctx := context.Background()
	k := newTestKnowledge(&fakeEmbedder{})

	result := k.Retrieve(ctx, "anything", "no-such-run", 5)
	assert.Equal(t, biz.NoContextSentinel, result)
}

func TestKnowledgeRetrieveScopedToRun(t *testing.T) {
	ctx := context.Background()
	k := newTestKnowledge(&fakeEmbedder{})

	docsA := model.DocumentSet{}
	docsA.Add(model.CategoryPitchDeck, model.Document{Filename: "a.pdf", Text: "Alpha sells rockets to satellite operators."})
	docsB := model.DocumentSet{}
	docsB.Add(model.CategoryPitchDeck, model.Document{Filename: "b.pdf", Text: "Beta sells sandwiches to office workers."})

	_, err := k.Index(ctx, "runA", docsA)
	require.NoError(t, err)
	_, err = k.Index(ctx, "runB", docsB)
	require.NoError(t, err)

	result := k.Retrieve(ctx, "rockets satellite", "runB", 5)
	assert.NotContains(t, result, "rockets")
}

func TestKnowledgeIndexEmbeddingFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	k := newTestKnowledge(&fakeEmbedder{failEmbed: true})

	docs := model.DocumentSet{}
	docs.Add(model.CategoryPitchDeck, model.Document{Filename: "deck.pdf", Text: "some content"})

	_, err := k.Index(ctx, "run1", docs)
	assert.Error(t, err)
}

func TestKnowledgeRetrieveEmbeddingFailureDegrades(t *testing.T) {
	ctx := context.Background()
	k := newTestKnowledge(&fakeEmbedder{failSingle: true})

	result := k.Retrieve(ctx, "query", "run1", 5)
	assert.Equal(t, "", result)
}

func TestKnowledgeIndexEmptyDataRoom(t *testing.T) {
	ctx := context.Background()
	k := newTestKnowledge(&fakeEmbedder{})

	n, err := k.Index(ctx, "run1", model.DocumentSet{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestKnowledgeIndexIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	cfg := biz.DefaultKnowledgeConfig()
	cfg.EmbeddingDim = fakeEmbeddingDim
	k := biz.NewKnowledge(s, &fakeEmbedder{}, cfg)

	docs := model.DocumentSet{}
	docs.Add(model.CategoryPitchDeck, model.Document{Filename: "deck.pdf", Text: "stable content"})

	n1, err := k.Index(ctx, "run1", docs)
	require.NoError(t, err)
	n2, err := k.Index(ctx, "run1", docs)
	require.NoError(t, err)
	assert.Equal(t, n1, n2)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(n1), count)
}

func TestKnowledgeIndexPreChunkedDocuments(t *testing.T) {
	ctx := context.Background()
	k := newTestKnowledge(&fakeEmbedder{})

	docs := model.DocumentSet{}
	docs.Add(model.CategoryTranscript, model.Document{
		Filename: "[Transcript] call.txt",
		Chunks:   []string{"first chunk", "second chunk"},
	})

	n, err := k.Index(ctx, "run1", docs)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
