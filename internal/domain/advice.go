package domain

// Advice is the discrete recommendation derived from the latest Z-score.
type Advice int

const (
	// AdviceHold means the spread is within its normal range; rebalance
	// proportionally toward the target allocation.
	AdviceHold Advice = iota
	// AdviceFavorAsset1 means asset2 is judged relatively expensive;
	// concentrate new cash into asset1.
	AdviceFavorAsset1
	// AdviceFavorAsset2 means asset2 is judged relatively cheap; concentrate
	// new cash into asset2.
	AdviceFavorAsset2
)

// String returns the wire name of the advice.
func (a Advice) String() string {
	switch a {
	case AdviceFavorAsset1:
		return "favor_asset1"
	case AdviceFavorAsset2:
		return "favor_asset2"
	default:
		return "hold"
	}
}

// MarshalText encodes the advice by its wire name so JSON payloads carry
// "hold" rather than an opaque integer.
func (a Advice) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
