package domain

import "time"

// SpreadPoint is one day of the derived spread with its rolling statistics.
// Mean and Std are only meaningful when StatsValid is true (at least `window`
// spread values have accumulated). ZScore is only meaningful when ZValid is
// true: stats must be valid and Std must be non-zero.
type SpreadPoint struct {
	Date       time.Time `json:"date"`
	Spread     float64   `json:"spread"`
	Mean       float64   `json:"mean"`
	Std        float64   `json:"std"`
	ZScore     float64   `json:"z_score"`
	StatsValid bool      `json:"stats_valid"`
	ZValid     bool      `json:"z_valid"`
}

// SpreadSeries is aligned 1:1 with the PairSeries it was derived from.
type SpreadSeries []SpreadPoint

// Latest returns the most recent spread point. The boolean is false when the
// series is empty.
func (s SpreadSeries) Latest() (SpreadPoint, bool) {
	if len(s) == 0 {
		return SpreadPoint{}, false
	}
	return s[len(s)-1], true
}
