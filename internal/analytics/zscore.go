// Package analytics derives the spread series and its rolling Z-score from an
// aligned pair of price series. All functions are pure; definedness of the
// rolling statistics is tracked explicitly instead of leaking NaN into
// downstream decision logic.
package analytics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pairdesk/pairtrader/internal/domain"
	"github.com/pairdesk/pairtrader/internal/spreadexpr"
)

// ComputeZScores evaluates the spread formula for every aligned trading day
// and computes the rolling mean, rolling sample standard deviation, and
// Z-score over a trailing window of `window` observations.
//
// Rolling statistics are undefined (StatsValid=false) for the first window-1
// points. The Z-score is additionally undefined (ZValid=false) when the
// standard deviation is zero or when the spread itself is non-finite (for
// example a formula dividing by a zero price).
func ComputeZScores(prices []domain.PricePoint, expr *spreadexpr.Expr, window int) (domain.SpreadSeries, error) {
	if expr == nil {
		return nil, fmt.Errorf("analytics: nil spread expression")
	}
	if window <= 0 {
		return nil, fmt.Errorf("analytics: window must be positive, got %d", window)
	}
	if len(prices) == 0 {
		return nil, domain.ErrNoData
	}

	spreads := make([]float64, len(prices))
	series := make(domain.SpreadSeries, len(prices))
	for i, p := range prices {
		spreads[i] = expr.Eval(p.Asset1, p.Asset2)
		series[i] = domain.SpreadPoint{
			Date:   p.Date,
			Spread: spreads[i],
		}
	}

	for i := range series {
		if i < window-1 {
			continue
		}
		win := spreads[i-window+1 : i+1]
		if !allFinite(win) {
			continue
		}

		mean := stat.Mean(win, nil)
		std := math.Sqrt(stat.Variance(win, nil)) // sample (n-1) variance
		if math.IsNaN(std) {
			// window of 1: sample variance is undefined
			continue
		}

		series[i].Mean = mean
		series[i].Std = std
		series[i].StatsValid = true

		if std > 0 {
			series[i].ZScore = (spreads[i] - mean) / std
			series[i].ZValid = true
		}
	}

	return series, nil
}

// LatestZScore returns the most recent point with a defined Z-score
// requirement applied: it returns the last point of the series and a
// classification error when that point's Z-score is undefined.
func LatestZScore(series domain.SpreadSeries) (domain.SpreadPoint, error) {
	pt, ok := series.Latest()
	if !ok {
		return domain.SpreadPoint{}, domain.ErrNoData
	}
	if !pt.StatsValid {
		return pt, domain.ErrInsufficientHistory
	}
	if !pt.ZValid {
		return pt, domain.ErrDegenerateStats
	}
	return pt, nil
}

func allFinite(vals []float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
