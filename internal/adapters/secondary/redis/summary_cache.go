package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/helpdesk-io/helpdesk-backend/internal/core/domain"
	"github.com/helpdesk-io/helpdesk-backend/internal/core/ports"
)

const summaryKey = "helpdesk:summary"

// SummaryCache caches the aggregated status counts in Redis for a short TTL.
// The summary endpoint scans every ticket, so even a few seconds of caching
// takes the load off the database under dashboard polling.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.SummaryCache = (*SummaryCache)(nil)

// Config holds the Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewSummaryCache connects to Redis and returns the cache. The connection is
// verified with a ping; a failed ping is reported but not fatal since every
// cache operation is best-effort anyway.
func NewSummaryCache(ctx context.Context, cfg Config, logger *slog.Logger) (*SummaryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info("connected to redis", "addr", cfg.Addr, "summary_ttl", cfg.TTL.String())

	return &SummaryCache{
		client: client,
		ttl:    cfg.TTL,
		logger: logger,
	}, nil
}

// Get returns the cached summary, or (nil, nil) on a miss.
func (c *SummaryCache) Get(ctx context.Context) (*domain.Summary, error) {
	payload, err := c.client.Get(ctx, summaryKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var summary domain.Summary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, fmt.Errorf("decode cached summary: %w", err)
	}
	return &summary, nil
}

// Set stores the summary under the configured TTL.
func (c *SummaryCache) Set(ctx context.Context, summary *domain.Summary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := c.client.Set(ctx, summaryKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate drops the cached summary. Called after any write that moves a
// ticket between statuses.
func (c *SummaryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, summaryKey).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (c *SummaryCache) Close() error {
	return c.client.Close()
}
