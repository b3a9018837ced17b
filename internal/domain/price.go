package domain

import "time"

// PricePoint is one trading day of aligned closing prices for the pair.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Asset1 float64   `json:"asset1"`
	Asset2 float64   `json:"asset2"`
}

// PairSeries is an ordered sequence of aligned daily closes for two tickers.
// Dates are strictly increasing with no duplicates; days where either side
// has no close are dropped during alignment.
type PairSeries struct {
	Asset1Ticker string       `json:"asset1_ticker"`
	Asset2Ticker string       `json:"asset2_ticker"`
	Points       []PricePoint `json:"points"`
}

// Len returns the number of aligned trading days.
func (s PairSeries) Len() int { return len(s.Points) }

// Latest returns the most recent price point. The boolean is false when the
// series is empty.
func (s PairSeries) Latest() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// PairKey identifies a cached pair series fetch.
type PairKey struct {
	Asset1 string
	Asset2 string
	Days   int
}
