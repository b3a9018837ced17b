package domain

// OrderAction is the side of a recommended trade.
type OrderAction string

const (
	OrderActionBuy  OrderAction = "BUY"
	OrderActionSell OrderAction = "SELL"
	OrderActionHold OrderAction = "HOLD"
)

// OrderPlan is the actionable recommendation for one asset. Amount is the
// absolute currency value of the trade; Units is Amount divided by the asset
// price (0 when the price is not positive). Deltas below the materiality
// floor are reported as HOLD with zero amount.
type OrderPlan struct {
	Ticker string      `json:"ticker"`
	Action OrderAction `json:"action"`
	Amount float64     `json:"amount"`
	Units  float64     `json:"units"`
}

// TargetAllocation is the desired value split between the two assets.
// Asset2's share is always the complement, so the split sums to 100.
type TargetAllocation struct {
	Asset1Pct int `json:"asset1_pct"`
}

// Asset2Pct returns the complementary percentage for asset2.
func (t TargetAllocation) Asset2Pct() int { return 100 - t.Asset1Pct }
