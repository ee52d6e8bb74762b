package scout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/venturescout/venturescout/internal/scout/biz"
	"github.com/venturescout/venturescout/internal/scout/handler"
	"github.com/venturescout/venturescout/internal/scout/notify"
	"github.com/venturescout/venturescout/internal/scout/router"
	"github.com/venturescout/venturescout/internal/scout/store"
	milvuscomp "github.com/venturescout/venturescout/pkg/component/milvus"
	"github.com/venturescout/venturescout/pkg/infra/app"
	"github.com/venturescout/venturescout/pkg/infra/pool"
	"github.com/venturescout/venturescout/pkg/llm"
	"github.com/venturescout/venturescout/pkg/llm/resilience"

	// Register the Gemini provider.
	_ "github.com/venturescout/venturescout/pkg/llm/gemini"
)

const (
	appName        = "venture-scout"
	appDescription = `VentureScout Analysis Service

An automated startup evaluation pipeline for venture capital.

This server provides:
  - Data room indexing with vector embeddings
  - Six-stage investment analysis (extraction, market, risk,
    benchmarking, growth, recommendation)
  - Investment memo delivery over HTTP and webhooks`
)

// NewApp creates a new application instance.
func NewApp() *app.App {
	opts := NewOptions()

	return app.NewApp(
		app.WithName(appName),
		app.WithDescription(appDescription),
		app.WithOptions(opts),
		app.WithRunFunc(func() error {
			return Run(opts)
		}),
	)
}

// Run runs the VentureScout service with the given options.
func Run(opts *Options) error {
	opts.Log.AddInitialField("service.name", appName)
	opts.Log.AddInitialField("service.version", app.GetVersion())
	if err := opts.Log.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Starting VentureScout service...")

	// Vector store.
	vectorStore, err := newVectorStore(opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := vectorStore.Close(context.Background()); err != nil {
			logger.Warnw("Failed to close vector store", "error", err.Error())
		}
	}()
	logger.Infow("Vector store initialized", "backend", opts.Store.Backend)

	// Gemini provider and resilient client.
	provider, err := llm.NewProvider("gemini", opts.Gemini.ToConfigMap())
	if err != nil {
		return fmt.Errorf("failed to initialize gemini provider: %w", err)
	}
	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = opts.Gemini.MaxRetries
	invoker := llm.NewClient(provider, retry)
	logger.Infow("Gemini client initialized",
		"fast_model", opts.Gemini.FastModel,
		"pro_model", opts.Gemini.ProModel,
	)

	// Knowledge base.
	knowledge := biz.NewKnowledge(vectorStore, provider, opts.Knowledge.ToConfig())

	// Worker pool for stage fan-out.
	poolConfig := pool.DefaultConfig()
	poolConfig.Capacity = opts.Pool.Capacity
	workers, err := pool.New("analysis-stages", poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer workers.Release()

	// Webhook notifier. An empty URL leaves dispatch disabled.
	var notifier biz.Notifier
	if opts.Webhook.URL != "" {
		notifier = notify.NewWebhook(&notify.WebhookConfig{
			URL:     opts.Webhook.URL,
			Timeout: opts.Webhook.Timeout,
		})
		logger.Infow("Webhook notifier initialized", "url", opts.Webhook.URL)
	}

	pipeline := biz.NewPipeline(knowledge, invoker, opts.Gemini.ModelTiers(), workers, notifier)
	logger.Info("Analysis pipeline initialized")

	// Deliverable cache.
	var cache *biz.ReportCache
	if opts.Cache.Enabled {
		redisClient := goredis.NewClient(&goredis.Options{
			Addr:         opts.Cache.Redis.Addr(),
			Password:     opts.Cache.Redis.Password,
			DB:           opts.Cache.Redis.Database,
			MaxRetries:   opts.Cache.Redis.MaxRetries,
			PoolSize:     opts.Cache.Redis.PoolSize,
			DialTimeout:  opts.Cache.Redis.DialTimeout,
			ReadTimeout:  opts.Cache.Redis.ReadTimeout,
			WriteTimeout: opts.Cache.Redis.WriteTimeout,
		})
		defer redisClient.Close()
		cache = biz.NewReportCache(redisClient, &biz.ReportCacheConfig{
			Enabled:   true,
			TTL:       opts.Cache.TTL,
			KeyPrefix: opts.Cache.KeyPrefix,
		})
		logger.Infow("Report cache initialized", "addr", opts.Cache.Redis.Addr())
	}

	analysisHandler := handler.NewAnalysisHandler(pipeline, knowledge, cache, workers, opts.HTTP.AnalysisTimeout)

	if !opts.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	router.Register(engine, analysisHandler)

	return serveHTTP(opts, engine)
}

// newVectorStore builds the configured vector store backend.
func newVectorStore(opts *Options) (store.VectorStore, error) {
	switch opts.Store.Backend {
	case StoreBackendMilvus:
		client, err := milvuscomp.New(opts.Milvus)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize milvus: %w", err)
		}
		return store.NewMilvusStore(client), nil
	case StoreBackendMemory:
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Store.Backend)
	}
}

// serveHTTP runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully within the configured timeout.
func serveHTTP(opts *Options, engine *gin.Engine) error {
	srv := &http.Server{
		Addr:    opts.HTTP.Addr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("HTTP server listening", "addr", opts.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
