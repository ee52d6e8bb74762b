package biz

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/venturescout/venturescout/internal/model"
)

// ReportCacheConfig configures the finished memo cache.
type ReportCacheConfig struct {
	// Enabled toggles the cache.
	Enabled bool
	// TTL is how long finished memos stay retrievable.
	TTL time.Duration
	// KeyPrefix is the cache key prefix.
	KeyPrefix string
}

// DefaultReportCacheConfig returns the default cache configuration.
func DefaultReportCacheConfig() *ReportCacheConfig {
	return &ReportCacheConfig{
		Enabled:   false,
		TTL:       24 * time.Hour,
		KeyPrefix: "scout:report:",
	}
}

// ReportCache stores finished memos in Redis keyed by run ID, so a
// completed analysis can be fetched again without re-running the stages.
type ReportCache struct {
	redis  *goredis.Client
	config *ReportCacheConfig
}

// NewReportCache creates a report cache instance.
func NewReportCache(redis *goredis.Client, config *ReportCacheConfig) *ReportCache {
	if config == nil {
		config = DefaultReportCacheConfig()
	}
	return &ReportCache{
		redis:  redis,
		config: config,
	}
}

func (c *ReportCache) key(runID string) string {
	return c.config.KeyPrefix + runID
}

// Get fetches a cached memo by run ID. A miss returns (nil, nil);
// calling Get on a disabled cache returns an error.
func (c *ReportCache) Get(ctx context.Context, runID string) (*model.Deliverable, error) {
	if !c.config.Enabled || c.redis == nil {
		return nil, fmt.Errorf("report cache not enabled")
	}

	cacheKey := c.key(runID)
	data, err := c.redis.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err == goredis.Nil {
			logger.Debugw("Report cache miss", "run_id", runID)
			return nil, nil
		}
		logger.Warnw("Failed to read report cache", "run_id", runID, "error", err.Error())
		return nil, err
	}

	var memo model.Deliverable
	if err := json.Unmarshal(data, &memo); err != nil {
		logger.Warnw("Failed to unmarshal cached report", "run_id", runID, "error", err.Error())
		_ = c.redis.Del(ctx, cacheKey).Err()
		return nil, err
	}

	return &memo, nil
}

// Set stores a finished memo.
func (c *ReportCache) Set(ctx context.Context, memo *model.Deliverable) error {
	if !c.config.Enabled || c.redis == nil {
		return nil
	}

	data, err := json.Marshal(memo)
	if err != nil {
		logger.Warnw("Failed to marshal report for caching", "run_id", memo.ID, "error", err.Error())
		return err
	}

	if err := c.redis.Set(ctx, c.key(memo.ID), data, c.config.TTL).Err(); err != nil {
		logger.Warnw("Failed to cache report", "run_id", memo.ID, "error", err.Error())
		return err
	}

	logger.Infow("Cached report", "run_id", memo.ID, "ttl", c.config.TTL)
	return nil
}
