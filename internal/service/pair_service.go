// Package service coordinates the feed, caches, analytics, and strategy into
// the operations exposed by the HTTP API and the monitor loop.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pairdesk/pairtrader/internal/analytics"
	"github.com/pairdesk/pairtrader/internal/config"
	"github.com/pairdesk/pairtrader/internal/domain"
	"github.com/pairdesk/pairtrader/internal/spreadexpr"
	"github.com/pairdesk/pairtrader/internal/strategy"
)

// Feed fetches aligned daily closes for a ticker pair.
type Feed interface {
	FetchPair(ctx context.Context, asset1, asset2 string, days int) (domain.PairSeries, error)
}

// AnalyzeRequest carries one analysis submission. Zero-valued fields fall
// back to the configured defaults, so a dashboard can submit only holdings
// and rely on the server's pair setup.
type AnalyzeRequest struct {
	Asset1Ticker  string `json:"asset1_ticker"`
	Asset2Ticker  string `json:"asset2_ticker"`
	SpreadFormula string `json:"spread_formula"`
	HistoryDays   int    `json:"history_days"`
	RollingWindow int    `json:"rolling_window"`

	ZScoreHigh       float64 `json:"z_score_high"`
	ZScoreLow        float64 `json:"z_score_low"`
	TargetAsset1Pct  int     `json:"target_asset1_pct"`
	MaterialityFloor float64 `json:"materiality_floor"`
	PortfolioCap     float64 `json:"portfolio_cap"`

	Holdings domain.Holdings `json:"holdings"`
}

// AnalysisResult is the full advisory output for one submission. ZScore,
// Mean, and Std are zero (never NaN) when the corresponding Valid flag is
// false; Status explains why the Z-score is undefined.
type AnalysisResult struct {
	Asset1Ticker string    `json:"asset1_ticker"`
	Asset2Ticker string    `json:"asset2_ticker"`
	AsOf         time.Time `json:"as_of"`

	Asset1Price float64 `json:"asset1_price"`
	Asset2Price float64 `json:"asset2_price"`

	Spread     float64 `json:"spread"`
	Mean       float64 `json:"mean"`
	Std        float64 `json:"std"`
	ZScore     float64 `json:"z_score"`
	StatsValid bool    `json:"stats_valid"`
	ZValid     bool    `json:"z_valid"`
	Status     string  `json:"status"`

	Advice domain.Advice `json:"advice"`

	TotalValue float64          `json:"total_value"`
	Asset1Plan domain.OrderPlan `json:"asset1_plan"`
	Asset2Plan domain.OrderPlan `json:"asset2_plan"`

	CashOutSurplus   float64 `json:"cash_out_surplus"`
	CashOutTriggered bool    `json:"cash_out_triggered"`

	// Series backs the chart endpoint; it is not part of the JSON payload.
	Series domain.SpreadSeries `json:"-"`
}

// PairService runs the analysis pipeline: price series (cache, then feed),
// spread Z-scores, threshold advice, and the rebalance order plan.
type PairService struct {
	feed   Feed
	cache  domain.PairSeriesCache
	quotes domain.QuoteCache
	cfg    config.PairConfig
	strat  config.StrategyConfig
	logger *slog.Logger
}

// NewPairService creates a PairService. cache and quotes may be nil, in which
// case every request goes straight to the feed.
func NewPairService(
	feed Feed,
	cache domain.PairSeriesCache,
	quotes domain.QuoteCache,
	cfg config.PairConfig,
	strat config.StrategyConfig,
	logger *slog.Logger,
) *PairService {
	return &PairService{
		feed:   feed,
		cache:  cache,
		quotes: quotes,
		cfg:    cfg,
		strat:  strat,
		logger: logger,
	}
}

// applyDefaults fills zero-valued request fields from the configured pair and
// strategy settings.
func (s *PairService) applyDefaults(req AnalyzeRequest) AnalyzeRequest {
	if req.Asset1Ticker == "" {
		req.Asset1Ticker = s.cfg.Asset1Ticker
	}
	if req.Asset2Ticker == "" {
		req.Asset2Ticker = s.cfg.Asset2Ticker
	}
	if req.SpreadFormula == "" {
		req.SpreadFormula = s.cfg.SpreadFormula
	}
	if req.HistoryDays <= 0 {
		req.HistoryDays = s.cfg.HistoryDays
	}
	if req.RollingWindow <= 0 {
		req.RollingWindow = s.cfg.RollingWindow
	}
	if req.ZScoreHigh == 0 {
		req.ZScoreHigh = s.strat.ZScoreHigh
	}
	if req.ZScoreLow == 0 {
		req.ZScoreLow = s.strat.ZScoreLow
	}
	if req.TargetAsset1Pct <= 0 {
		req.TargetAsset1Pct = s.strat.TargetAsset1Pct
	}
	if req.MaterialityFloor <= 0 {
		req.MaterialityFloor = s.strat.MaterialityFloor
	}
	if req.PortfolioCap == 0 {
		req.PortfolioCap = s.strat.PortfolioCap
	}
	return req
}

// Analyze runs the full pipeline for one request. Distinct failure modes keep
// their domain sentinel: an unreachable feed wraps ErrFeedUnavailable, an
// empty series wraps ErrNoData, and a malformed formula wraps
// ErrInvalidFormula. An undefined Z-score is NOT an error; the result carries
// a Hold advice and a Status explaining why.
func (s *PairService) Analyze(ctx context.Context, req AnalyzeRequest) (AnalysisResult, error) {
	req = s.applyDefaults(req)
	var res AnalysisResult

	expr, err := spreadexpr.Parse(req.SpreadFormula)
	if err != nil {
		return res, fmt.Errorf("pair_service: %w: %v", domain.ErrInvalidFormula, err)
	}

	series, err := s.fetchSeries(ctx, req.Asset1Ticker, req.Asset2Ticker, req.HistoryDays)
	if err != nil {
		return res, err
	}

	spreads, err := analytics.ComputeZScores(series.Points, expr, req.RollingWindow)
	if err != nil {
		return res, fmt.Errorf("pair_service: compute z-scores: %w", err)
	}

	latestPrice, _ := series.Latest()
	s.cacheQuotes(ctx, req, latestPrice)

	res = AnalysisResult{
		Asset1Ticker: req.Asset1Ticker,
		Asset2Ticker: req.Asset2Ticker,
		AsOf:         latestPrice.Date,
		Asset1Price:  latestPrice.Asset1,
		Asset2Price:  latestPrice.Asset2,
		Series:       spreads,
	}

	latest, zerr := analytics.LatestZScore(spreads)
	res.Spread = latest.Spread
	res.StatsValid = latest.StatsValid
	res.ZValid = latest.ZValid
	if latest.StatsValid {
		res.Mean = latest.Mean
		res.Std = latest.Std
	}

	advice := domain.AdviceHold
	switch {
	case zerr == nil:
		res.ZScore = latest.ZScore
		res.Status = "ok"
		advice = strategy.AdviceFor(latest.ZScore, req.ZScoreHigh, req.ZScoreLow)
	case errors.Is(zerr, domain.ErrInsufficientHistory):
		res.Status = "insufficient history for rolling window"
	case errors.Is(zerr, domain.ErrDegenerateStats):
		res.Status = "rolling standard deviation is zero"
	default:
		return res, fmt.Errorf("pair_service: latest z-score: %w", zerr)
	}
	res.Advice = advice

	val1, val2, total := strategy.PortfolioValues(req.Holdings, latestPrice.Asset1, latestPrice.Asset2)
	target := domain.TargetAllocation{Asset1Pct: req.TargetAsset1Pct}
	tgt1, tgt2 := strategy.TargetValues(total, target)
	delta1, delta2 := strategy.ComputeOrders(advice, val1, val2, tgt1, tgt2, req.Holdings.Cash, total)

	res.TotalValue = total
	res.Asset1Plan = strategy.BuildOrderPlan(req.Asset1Ticker, delta1, latestPrice.Asset1, req.MaterialityFloor)
	res.Asset2Plan = strategy.BuildOrderPlan(req.Asset2Ticker, delta2, latestPrice.Asset2, req.MaterialityFloor)
	res.CashOutSurplus, res.CashOutTriggered = strategy.CashOutSignal(total, req.PortfolioCap)

	return res, nil
}

// fetchSeries returns the pair series from the cache when fresh, falling back
// to the feed and repopulating the cache on a miss. Cache failures degrade to
// a feed fetch rather than failing the request.
func (s *PairService) fetchSeries(ctx context.Context, asset1, asset2 string, days int) (domain.PairSeries, error) {
	key := domain.PairKey{Asset1: asset1, Asset2: asset2, Days: days}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "pair_service: series cache read failed",
				slog.String("asset1", asset1),
				slog.String("asset2", asset2),
				slog.String("error", err.Error()),
			)
		}
	}

	series, err := s.feed.FetchPair(ctx, asset1, asset2, days)
	if err != nil {
		return series, fmt.Errorf("pair_service: fetch pair: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, series); err != nil {
			s.logger.WarnContext(ctx, "pair_service: series cache write failed",
				slog.String("asset1", asset1),
				slog.String("asset2", asset2),
				slog.String("error", err.Error()),
			)
		}
	}

	return series, nil
}

// cacheQuotes stores the latest observed closes, best effort.
func (s *PairService) cacheQuotes(ctx context.Context, req AnalyzeRequest, latest domain.PricePoint) {
	if s.quotes == nil {
		return
	}
	if err := s.quotes.SetQuote(ctx, req.Asset1Ticker, latest.Asset1, latest.Date); err != nil {
		s.logger.WarnContext(ctx, "pair_service: quote cache write failed",
			slog.String("ticker", req.Asset1Ticker),
			slog.String("error", err.Error()),
		)
	}
	if err := s.quotes.SetQuote(ctx, req.Asset2Ticker, latest.Asset2, latest.Date); err != nil {
		s.logger.WarnContext(ctx, "pair_service: quote cache write failed",
			slog.String("ticker", req.Asset2Ticker),
			slog.String("error", err.Error()),
		)
	}
}
