package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pairdesk/pairtrader/internal/domain"
)

// PairSeriesCache implements domain.PairSeriesCache by storing the joined
// price series as a JSON blob under "pair:{asset1}:{asset2}:{days}". Entries
// expire after the configured TTL so the feed is hit at most once per window
// for the same request shape.
type PairSeriesCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPairSeriesCache creates a PairSeriesCache backed by the given Client.
func NewPairSeriesCache(c *Client, ttl time.Duration) *PairSeriesCache {
	return &PairSeriesCache{rdb: c.rdb, ttl: ttl}
}

func pairKey(k domain.PairKey) string {
	return fmt.Sprintf("pair:%s:%s:%d", k.Asset1, k.Asset2, k.Days)
}

// Get retrieves a cached series. It returns domain.ErrNotFound on a miss.
func (pc *PairSeriesCache) Get(ctx context.Context, key domain.PairKey) (domain.PairSeries, error) {
	var series domain.PairSeries

	raw, err := pc.rdb.Get(ctx, pairKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return series, domain.ErrNotFound
	}
	if err != nil {
		return series, fmt.Errorf("redis: get pair series %s: %w", pairKey(key), err)
	}

	if err := json.Unmarshal(raw, &series); err != nil {
		return series, fmt.Errorf("redis: decode pair series %s: %w", pairKey(key), err)
	}
	return series, nil
}

// Set stores a series under its key with the cache TTL.
func (pc *PairSeriesCache) Set(ctx context.Context, key domain.PairKey, series domain.PairSeries) error {
	raw, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("redis: encode pair series %s: %w", pairKey(key), err)
	}
	if err := pc.rdb.Set(ctx, pairKey(key), raw, pc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set pair series %s: %w", pairKey(key), err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.PairSeriesCache = (*PairSeriesCache)(nil)
