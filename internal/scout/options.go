// Package scout provides the VentureScout analysis service application.
package scout

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/venturescout/venturescout/internal/scout/biz"
	logopts "github.com/venturescout/venturescout/pkg/options/logger"
	milvusopts "github.com/venturescout/venturescout/pkg/options/milvus"
	redisopts "github.com/venturescout/venturescout/pkg/options/redis"
)

// Store backends selectable via --store.backend.
const (
	StoreBackendMemory = "memory"
	StoreBackendMilvus = "milvus"
)

// Options contains all VentureScout service options.
type Options struct {
	// HTTP contains HTTP server configuration.
	HTTP *HTTPOptions `json:"http" mapstructure:"http"`

	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`

	// Store contains vector store configuration.
	Store *StoreOptions `json:"store" mapstructure:"store"`

	// Milvus contains Milvus database configuration.
	Milvus *milvusopts.Options `json:"milvus" mapstructure:"milvus"`

	// Gemini contains Gemini provider configuration.
	Gemini *GeminiOptions `json:"gemini" mapstructure:"gemini"`

	// Knowledge contains knowledge base configuration.
	Knowledge *KnowledgeOptions `json:"knowledge" mapstructure:"knowledge"`

	// Cache contains deliverable cache configuration.
	Cache *CacheOptions `json:"cache" mapstructure:"cache"`

	// Webhook contains deliverable notification configuration.
	Webhook *WebhookOptions `json:"webhook" mapstructure:"webhook"`

	// Pool contains worker pool configuration.
	Pool *PoolOptions `json:"pool" mapstructure:"pool"`
}

// HTTPOptions contains HTTP server configuration.
type HTTPOptions struct {
	// Addr is the address the HTTP server listens on.
	Addr string `json:"addr" mapstructure:"addr"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`

	// AnalysisTimeout bounds a single analysis run end to end.
	AnalysisTimeout time.Duration `json:"analysis-timeout" mapstructure:"analysis-timeout"`
}

// StoreOptions selects and configures the vector store backend.
type StoreOptions struct {
	// Backend is the vector store backend (memory, milvus).
	Backend string `json:"backend" mapstructure:"backend"`
}

// GeminiOptions contains Gemini API configuration.
type GeminiOptions struct {
	// BaseURL is the Gemini API base URL.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey is the Gemini API key.
	APIKey string `json:"-" mapstructure:"api-key"`

	// EmbedModel is the embedding model name.
	EmbedModel string `json:"embed-model" mapstructure:"embed-model"`

	// FastModel handles extraction, risk, and growth reasoning.
	FastModel string `json:"fast-model" mapstructure:"fast-model"`

	// ProModel handles market, benchmark, and recommendation reasoning.
	ProModel string `json:"pro-model" mapstructure:"pro-model"`

	// Timeout is the per-request timeout.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries caps retry attempts for transient failures.
	MaxRetries int `json:"max-retries" mapstructure:"max-retries"`
}

// ToConfigMap converts the options into a provider factory config map.
func (o *GeminiOptions) ToConfigMap() map[string]any {
	return map[string]any{
		"base_url":    o.BaseURL,
		"api_key":     o.APIKey,
		"embed_model": o.EmbedModel,
		"timeout":     o.Timeout,
	}
}

// ModelTiers returns the reasoning model tiers.
func (o *GeminiOptions) ModelTiers() biz.ModelTiers {
	return biz.ModelTiers{
		Fast: o.FastModel,
		Pro:  o.ProModel,
	}
}

// KnowledgeOptions contains knowledge base configuration.
type KnowledgeOptions struct {
	// ChunkSize is the size of text chunks in characters.
	ChunkSize int `json:"chunk-size" mapstructure:"chunk-size"`

	// ChunkOverlap is the overlap between consecutive chunks.
	ChunkOverlap int `json:"chunk-overlap" mapstructure:"chunk-overlap"`

	// TopK is the number of chunks returned per retrieval query.
	TopK int `json:"top-k" mapstructure:"top-k"`

	// EmbeddingDim is the dimension of embedding vectors.
	EmbeddingDim int `json:"embedding-dim" mapstructure:"embedding-dim"`
}

// ToConfig converts the options into a biz.KnowledgeConfig.
func (o *KnowledgeOptions) ToConfig() *biz.KnowledgeConfig {
	return &biz.KnowledgeConfig{
		ChunkSize:    o.ChunkSize,
		ChunkOverlap: o.ChunkOverlap,
		TopK:         o.TopK,
		EmbeddingDim: o.EmbeddingDim,
	}
}

// CacheOptions contains deliverable cache configuration.
type CacheOptions struct {
	// Enabled turns the Redis-backed deliverable cache on.
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// TTL is how long finished deliverables stay cached.
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`

	// KeyPrefix namespaces cache keys.
	KeyPrefix string `json:"key-prefix" mapstructure:"key-prefix"`

	// Redis contains Redis connection configuration.
	Redis *redisopts.Options `json:"redis" mapstructure:"redis"`
}

// WebhookOptions contains deliverable notification configuration.
type WebhookOptions struct {
	// URL is the webhook endpoint. Empty disables dispatch.
	URL string `json:"url" mapstructure:"url"`

	// Timeout bounds a single dispatch attempt.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// PoolOptions contains worker pool configuration.
type PoolOptions struct {
	// Capacity is the maximum number of concurrent stage workers.
	Capacity int `json:"capacity" mapstructure:"capacity"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		HTTP: &HTTPOptions{
			Addr:            ":8090",
			ShutdownTimeout: 10 * time.Second,
			AnalysisTimeout: 10 * time.Minute,
		},
		Log:    logopts.NewOptions(),
		Store:  &StoreOptions{Backend: StoreBackendMemory},
		Milvus: milvusopts.NewOptions(),
		Gemini: &GeminiOptions{
			BaseURL:    "https://generativelanguage.googleapis.com/v1beta",
			EmbedModel: "text-embedding-004",
			FastModel:  "gemini-3-flash-preview",
			ProModel:   "gemini-3-pro-preview",
			Timeout:    120 * time.Second,
			MaxRetries: 3,
		},
		Knowledge: &KnowledgeOptions{
			ChunkSize:    1000,
			ChunkOverlap: 200,
			TopK:         5,
			EmbeddingDim: 768,
		},
		Cache: &CacheOptions{
			Enabled:   false,
			TTL:       24 * time.Hour,
			KeyPrefix: "scout:report:",
			Redis:     redisopts.NewOptions(),
		},
		Webhook: &WebhookOptions{
			Timeout: 15 * time.Second,
		},
		Pool: &PoolOptions{Capacity: 32},
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.HTTP.Addr, "http.addr", o.HTTP.Addr, "HTTP server listen address")
	fs.DurationVar(&o.HTTP.ShutdownTimeout, "http.shutdown-timeout", o.HTTP.ShutdownTimeout, "Graceful shutdown timeout")
	fs.DurationVar(&o.HTTP.AnalysisTimeout, "http.analysis-timeout", o.HTTP.AnalysisTimeout, "End-to-end analysis run timeout")

	o.Log.AddFlags(fs)
	o.Milvus.AddFlags(fs)
	o.Cache.Redis.AddFlags(fs)

	fs.StringVar(&o.Store.Backend, "store.backend", o.Store.Backend, "Vector store backend (memory, milvus)")

	fs.StringVar(&o.Gemini.BaseURL, "gemini.base-url", o.Gemini.BaseURL, "Gemini API base URL")
	fs.StringVar(&o.Gemini.APIKey, "gemini.api-key", o.Gemini.APIKey, "Gemini API key (use GEMINI_API_KEY env var instead)")
	fs.StringVar(&o.Gemini.EmbedModel, "gemini.embed-model", o.Gemini.EmbedModel, "Embedding model name")
	fs.StringVar(&o.Gemini.FastModel, "gemini.fast-model", o.Gemini.FastModel, "Model for extraction, risk, and growth stages")
	fs.StringVar(&o.Gemini.ProModel, "gemini.pro-model", o.Gemini.ProModel, "Model for market, benchmark, and recommendation stages")
	fs.DurationVar(&o.Gemini.Timeout, "gemini.timeout", o.Gemini.Timeout, "Gemini request timeout")
	fs.IntVar(&o.Gemini.MaxRetries, "gemini.max-retries", o.Gemini.MaxRetries, "Max retries for transient Gemini failures")

	fs.IntVar(&o.Knowledge.ChunkSize, "knowledge.chunk-size", o.Knowledge.ChunkSize, "Size of text chunks in characters")
	fs.IntVar(&o.Knowledge.ChunkOverlap, "knowledge.chunk-overlap", o.Knowledge.ChunkOverlap, "Overlap between consecutive chunks")
	fs.IntVar(&o.Knowledge.TopK, "knowledge.top-k", o.Knowledge.TopK, "Number of chunks per retrieval query")
	fs.IntVar(&o.Knowledge.EmbeddingDim, "knowledge.embedding-dim", o.Knowledge.EmbeddingDim, "Embedding vector dimension")

	fs.BoolVar(&o.Cache.Enabled, "cache.enabled", o.Cache.Enabled, "Enable the Redis deliverable cache")
	fs.DurationVar(&o.Cache.TTL, "cache.ttl", o.Cache.TTL, "Deliverable cache TTL")
	fs.StringVar(&o.Cache.KeyPrefix, "cache.key-prefix", o.Cache.KeyPrefix, "Deliverable cache key prefix")

	fs.StringVar(&o.Webhook.URL, "webhook.url", o.Webhook.URL, "Webhook URL for finished deliverables (empty disables)")
	fs.DurationVar(&o.Webhook.Timeout, "webhook.timeout", o.Webhook.Timeout, "Webhook dispatch timeout")

	fs.IntVar(&o.Pool.Capacity, "pool.capacity", o.Pool.Capacity, "Stage worker pool capacity")
}

// Complete fills in values that can be derived from the environment.
func (o *Options) Complete() error {
	if o.Gemini.APIKey == "" {
		o.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	return nil
}

// Validate validates the options.
func (o *Options) Validate() error {
	if err := o.Log.Validate(); err != nil {
		return err
	}

	switch o.Store.Backend {
	case StoreBackendMemory:
	case StoreBackendMilvus:
		if errs := o.Milvus.Validate(); len(errs) > 0 {
			return fmt.Errorf("invalid milvus options: %v", errs)
		}
	default:
		return fmt.Errorf("unknown store backend %q (expected memory or milvus)", o.Store.Backend)
	}

	if o.Gemini.APIKey == "" {
		return fmt.Errorf("gemini.api-key is required (or set GEMINI_API_KEY)")
	}
	if o.Gemini.FastModel == "" || o.Gemini.ProModel == "" {
		return fmt.Errorf("gemini.fast-model and gemini.pro-model are required")
	}

	if o.Knowledge.ChunkSize <= 0 {
		return fmt.Errorf("knowledge.chunk-size must be positive")
	}
	if o.Knowledge.ChunkOverlap < 0 || o.Knowledge.ChunkOverlap >= o.Knowledge.ChunkSize {
		return fmt.Errorf("knowledge.chunk-overlap must be in [0, chunk-size)")
	}
	if o.Knowledge.TopK <= 0 {
		return fmt.Errorf("knowledge.top-k must be positive")
	}

	if o.Cache.Enabled {
		if err := o.Cache.Redis.Validate(); err != nil {
			return err
		}
	}

	if o.Pool.Capacity <= 0 {
		return fmt.Errorf("pool.capacity must be positive")
	}

	return nil
}
