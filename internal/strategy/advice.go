// Package strategy holds the decision logic of the pair-trading advisor: the
// threshold advice derived from the latest Z-score and the rebalance order
// arithmetic that moves the portfolio toward its target allocation.
package strategy

import (
	"math"

	"github.com/pairdesk/pairtrader/internal/domain"
)

// AdviceFor maps the latest Z-score to a discrete recommendation.
// high and low are the configured thresholds (conventionally high > 0 > low;
// ordering is validated at configuration time). The function is total: a NaN
// Z-score deterministically maps to Hold.
func AdviceFor(zScore, high, low float64) domain.Advice {
	if math.IsNaN(zScore) {
		return domain.AdviceHold
	}
	switch {
	case zScore > high:
		// Spread unusually wide: asset2 judged relatively expensive.
		return domain.AdviceFavorAsset1
	case zScore < low:
		// Spread unusually narrow: asset2 judged relatively cheap.
		return domain.AdviceFavorAsset2
	default:
		return domain.AdviceHold
	}
}
