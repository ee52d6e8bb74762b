package biz

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/kart-io/logger"
	"github.com/oklog/ulid/v2"

	"github.com/venturescout/venturescout/internal/model"
	"github.com/venturescout/venturescout/pkg/infra/pool"
)

// Notifier dispatches a finished memo to an external consumer.
type Notifier interface {
	Dispatch(ctx context.Context, memo *model.Deliverable) error
}

// Pipeline runs the full analysis: index the data room, then six
// reasoning stages, then merge into the final memo.
type Pipeline struct {
	knowledge      *Knowledge
	extraction     *ExtractionStage
	market         *MarketStage
	risk           *RiskStage
	benchmark      *BenchmarkStage
	growth         *GrowthStage
	recommendation *RecommendationStage
	workers        *pool.Pool
	notifier       Notifier
	entropy        *ulid.MonotonicEntropy
	entropyMu      sync.Mutex
}

// NewPipeline assembles the pipeline. workers and notifier may be nil:
// without a pool the sibling stages run on plain goroutines, and without
// a notifier dispatch is skipped.
func NewPipeline(knowledge *Knowledge, invoker Invoker, tiers ModelTiers, workers *pool.Pool, notifier Notifier) *Pipeline {
	return &Pipeline{
		knowledge:      knowledge,
		extraction:     NewExtractionStage(invoker, knowledge, tiers),
		market:         NewMarketStage(invoker, knowledge, tiers),
		risk:           NewRiskStage(invoker, knowledge, tiers),
		benchmark:      NewBenchmarkStage(invoker, knowledge, tiers),
		growth:         NewGrowthStage(invoker, knowledge, tiers),
		recommendation: NewRecommendationStage(invoker, tiers),
		workers:        workers,
		notifier:       notifier,
		entropy:        ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// NewRunID generates a new analysis run identifier.
func (p *Pipeline) NewRunID() string {
	p.entropyMu.Lock()
	defer p.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), p.entropy).String()
}

// Run executes one full analysis. Indexing failures abort the run; every
// stage past that point degrades to its default on failure, so a started
// run always produces a complete memo.
func (p *Pipeline) Run(ctx context.Context, docs model.DocumentSet, notes string) (*model.Deliverable, error) {
	runID := p.NewRunID()
	logger.Infow("Starting analysis run", "run_id", runID, "documents", docs.Total())

	if _, err := p.knowledge.Index(ctx, runID, docs); err != nil {
		return nil, fmt.Errorf("failed to index data room: %w", err)
	}

	profile := p.extraction.Run(ctx, runID)

	// Market, risk and benchmark depend only on the profile and run
	// concurrently. Each carries its own fallback, so one failing never
	// touches the others.
	var (
		market    *model.MarketAnalysis
		risks     *model.RiskAudit
		benchmark *model.BenchmarkReport
		wg        sync.WaitGroup
	)
	wg.Add(3)
	p.submit(func() { defer wg.Done(); market = p.market.Run(ctx, runID, profile) })
	p.submit(func() { defer wg.Done(); risks = p.risk.Run(ctx, runID, profile) })
	p.submit(func() { defer wg.Done(); benchmark = p.benchmark.Run(ctx, runID, profile) })
	wg.Wait()

	growth := p.growth.Run(ctx, runID, profile, benchmark)
	memo := p.recommendation.Run(ctx, runID, profile, market, risks, benchmark, growth, notes)

	memo.ID = runID
	memo.Timestamp = time.Now().UTC().Format(time.RFC3339)
	memo.Status = "COMPLETED"
	memo.Sources = benchmark.Sources
	memo.MarketDetails = market

	p.dispatch(ctx, memo)

	logger.Infow("Analysis run complete", "run_id", runID, "verdict", memo.Verdict)
	return memo, nil
}

// submit runs a task on the worker pool, falling back to a plain
// goroutine when no pool is configured or submission fails.
func (p *Pipeline) submit(task func()) {
	if p.workers != nil {
		err := p.workers.Submit(task)
		if err == nil {
			return
		}
		logger.Warnw("Worker pool submission failed, falling back to goroutine", "error", err.Error())
	}
	go task()
}

// dispatch sends the memo to the notifier. Dispatch is best effort:
// failures are logged and never affect the returned memo.
func (p *Pipeline) dispatch(ctx context.Context, memo *model.Deliverable) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.Dispatch(ctx, memo); err != nil {
		logger.Errorw("Failed to dispatch memo", "run_id", memo.ID, "error", err.Error())
	}
}
