package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pairdesk/pairtrader/internal/domain"
)

// QuoteCache implements domain.QuoteCache using Redis hashes. Each ticker's
// latest close is stored at "quote:{ticker}" with fields "price" and "ts"
// (Unix nanosecond timestamp), expiring after the configured TTL.
type QuoteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewQuoteCache creates a QuoteCache backed by the given Client.
func NewQuoteCache(c *Client, ttl time.Duration) *QuoteCache {
	return &QuoteCache{rdb: c.rdb, ttl: ttl}
}

func quoteKey(ticker string) string {
	return "quote:" + ticker
}

// SetQuote stores the latest close and observation time for a ticker.
func (qc *QuoteCache) SetQuote(ctx context.Context, ticker string, price float64, ts time.Time) error {
	key := quoteKey(ticker)
	fields := map[string]interface{}{
		"price": strconv.FormatFloat(price, 'f', -1, 64),
		"ts":    strconv.FormatInt(ts.UnixNano(), 10),
	}

	pipe := qc.rdb.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, qc.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: set quote %s: %w", ticker, err)
	}
	return nil
}

// GetQuote retrieves the latest close and observation time for a ticker. It
// returns domain.ErrNotFound when no fresh quote is cached.
func (qc *QuoteCache) GetQuote(ctx context.Context, ticker string) (float64, time.Time, error) {
	vals, err := qc.rdb.HGetAll(ctx, quoteKey(ticker)).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis: get quote %s: %w", ticker, err)
	}
	if len(vals) == 0 {
		return 0, time.Time{}, domain.ErrNotFound
	}

	priceStr, ok := vals["price"]
	if !ok {
		return 0, time.Time{}, domain.ErrNotFound
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis: parse quote price %s: %w", ticker, err)
	}

	tsStr, ok := vals["ts"]
	if !ok {
		return 0, time.Time{}, domain.ErrNotFound
	}
	tsNano, err := strconv.ParseInt(tsStr, 10, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis: parse quote ts %s: %w", ticker, err)
	}

	return price, time.Unix(0, tsNano), nil
}

// Compile-time interface check.
var _ domain.QuoteCache = (*QuoteCache)(nil)
