package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturescout/venturescout/internal/model"
	"github.com/venturescout/venturescout/internal/scout/biz"
	"github.com/venturescout/venturescout/internal/scout/handler"
	"github.com/venturescout/venturescout/internal/scout/router"
	"github.com/venturescout/venturescout/internal/scout/store"
	"github.com/venturescout/venturescout/pkg/llm"
)

// embedStub returns constant small vectors.
type embedStub struct{}

func (embedStub) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i := range vecs {
		vecs[i] = []float32{1, 0, 0, 1}
	}
	return vecs, nil
}

func (embedStub) EmbedSingle(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0, 0, 1}, nil
}

func (embedStub) Name() string { return "stub" }

// downInvoker fails every reasoning call, forcing stage defaults.
type downInvoker struct{}

func (downInvoker) Invoke(_ context.Context, _ *llm.GenerateRequest) (*llm.Result, error) {
	return nil, errors.New("model backend unavailable")
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	knowledge := biz.NewKnowledge(store.NewMemoryStore(), embedStub{}, &biz.KnowledgeConfig{
		ChunkSize:    200,
		ChunkOverlap: 40,
		TopK:         3,
		EmbeddingDim: 4,
	})
	pipeline := biz.NewPipeline(knowledge, downInvoker{}, biz.DefaultModelTiers(), nil, nil)
	h := handler.NewAnalysisHandler(pipeline, knowledge, nil, nil, time.Minute)

	engine := gin.New()
	router.Register(engine, h)
	return engine
}

func multipartBody(t *testing.T, files map[string]string, notes string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	if notes != "" {
		require.NoError(t, writer.WriteField("notes", notes))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestAnalyze_RequiresFiles(t *testing.T) {
	engine := newTestEngine(t)

	body, contentType := multipartBody(t, nil, "")
	req := httptest.NewRequest(http.MethodPost, "/v1/analysis", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var errResp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Message, "at least one file")
}

func TestAnalyze_DegradedBackendStillDelivers(t *testing.T) {
	engine := newTestEngine(t)

	body, contentType := multipartBody(t, map[string]string{
		"deck.pdf":               "Acme builds robots. Revenue is growing fast.",
		"[Transcript] call.txt":  "Founder discussed the roadmap.",
		"[Update] q2_update.txt": "Shipped v2 to 40 customers.",
	}, "Focus on traction.")

	req := httptest.NewRequest(http.MethodPost, "/v1/analysis", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var memo model.Deliverable
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &memo))

	// Every stage failed, so the memo is the neutral default, but the
	// run still completes with an id and status.
	assert.NotEmpty(t, memo.ID)
	assert.Equal(t, "COMPLETED", memo.Status)
	assert.Equal(t, model.VerdictWatch, memo.Verdict)
	assert.Equal(t, 50.0, memo.Scores.Overall)
}

func TestGet_WithoutCacheReturnsNotFound(t *testing.T) {
	engine := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/analysis/01ARZ3NDEKTSV4RRFFQ69G5FAV", nil)
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestStats_ReportsIndexedChunks(t *testing.T) {
	engine := newTestEngine(t)

	body, contentType := multipartBody(t, map[string]string{"deck.pdf": "Acme builds robots."}, "")
	req := httptest.NewRequest(http.MethodPost, "/v1/analysis", body)
	req.Header.Set("Content-Type", contentType)
	engine.ServeHTTP(httptest.NewRecorder(), req)

	statsReq := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, statsReq)

	require.Equal(t, http.StatusOK, resp.Code)

	var stats handler.StatsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &stats))
	assert.Greater(t, stats.IndexedChunks, int64(0))
}

func TestHealthz(t *testing.T) {
	engine := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "operational")
}
