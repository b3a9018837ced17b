package domain

import (
	"context"
	"time"
)

// PairSeriesCache stores fetched pair series for a bounded time-to-live so
// repeated dashboard submissions do not hammer the price feed. A miss is
// reported as ErrNotFound.
type PairSeriesCache interface {
	Get(ctx context.Context, key PairKey) (PairSeries, error)
	Set(ctx context.Context, key PairKey, series PairSeries) error
}

// QuoteCache stores the latest observed close per ticker.
type QuoteCache interface {
	SetQuote(ctx context.Context, ticker string, price float64, ts time.Time) error
	GetQuote(ctx context.Context, ticker string) (float64, time.Time, error)
}
