// Package handler provides HTTP handlers for the analysis service.
package handler

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/venturescout/venturescout/internal/model"
	"github.com/venturescout/venturescout/internal/scout/biz"
	"github.com/venturescout/venturescout/pkg/infra/pool"
)

// maxFileSize caps one uploaded document at 20 MiB.
const maxFileSize = 20 << 20

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// AnalysisHandler handles analysis HTTP requests.
type AnalysisHandler struct {
	pipeline  *biz.Pipeline
	knowledge *biz.Knowledge
	cache     *biz.ReportCache
	workers   *pool.Pool
	timeout   time.Duration
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(pipeline *biz.Pipeline, knowledge *biz.Knowledge, cache *biz.ReportCache, workers *pool.Pool, timeout time.Duration) *AnalysisHandler {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &AnalysisHandler{
		pipeline:  pipeline,
		knowledge: knowledge,
		cache:     cache,
		workers:   workers,
		timeout:   timeout,
	}
}

// Analyze runs a full analysis over the uploaded data room.
// Files are categorized by filename prefix; unprefixed files are treated
// as pitch deck material.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: "invalid multipart form: " + err.Error()})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: "at least one file is required"})
		return
	}

	notes := c.PostForm("notes")
	if notes == "" {
		notes = "Standard analysis."
	}

	docs, err := readDocuments(files)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: err.Error()})
		return
	}

	logger.Infow("Received analysis request", "files", len(files), "notes_length", len(notes))

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	memo, err := h.pipeline.Run(ctx, docs, notes)
	if err != nil {
		logger.Errorw("Analysis pipeline failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 500, Message: "analysis failed: " + err.Error()})
		return
	}

	if h.cache != nil {
		_ = h.cache.Set(ctx, memo)
	}

	c.JSON(http.StatusOK, memo)
}

// Get fetches a finished memo by run ID from the report cache.
func (h *AnalysisHandler) Get(c *gin.Context) {
	runID := c.Param("id")
	if runID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 400, Message: "missing analysis id"})
		return
	}

	if h.cache == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Code: 404, Message: "report cache is disabled"})
		return
	}

	memo, err := h.cache.Get(c.Request.Context(), runID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 500, Message: err.Error()})
		return
	}
	if memo == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Code: 404, Message: "analysis not found"})
		return
	}

	c.JSON(http.StatusOK, memo)
}

// StatsResponse reports knowledge base and worker pool statistics.
type StatsResponse struct {
	IndexedChunks int64       `json:"indexed_chunks"`
	Workers       *pool.Stats `json:"workers,omitempty"`
}

// Stats returns service statistics.
func (h *AnalysisHandler) Stats(c *gin.Context) {
	count, err := h.knowledge.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 500, Message: err.Error()})
		return
	}

	resp := StatsResponse{IndexedChunks: count}
	if h.workers != nil {
		stats := h.workers.Stats()
		resp.Workers = &stats
	}
	c.JSON(http.StatusOK, resp)
}

// readDocuments reads and categorizes all uploaded files.
func readDocuments(files []*multipart.FileHeader) (model.DocumentSet, error) {
	docs := model.DocumentSet{}
	for _, fh := range files {
		if fh.Size > maxFileSize {
			return nil, &fileTooLargeError{name: fh.Filename}
		}

		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(io.LimitReader(f, maxFileSize))
		closeErr := f.Close()
		if err != nil {
			return nil, err
		}
		if closeErr != nil {
			return nil, closeErr
		}

		category, name := model.CategorizeFilename(fh.Filename)
		docs.Add(category, model.Document{
			Filename: name,
			Text:     string(content),
		})
	}
	return docs, nil
}

type fileTooLargeError struct {
	name string
}

func (e *fileTooLargeError) Error() string {
	return "file exceeds size limit: " + e.name
}
