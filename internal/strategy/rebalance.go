package strategy

import (
	"math"

	"github.com/pairdesk/pairtrader/internal/domain"
)

// DefaultMaterialityFloor is the minimum absolute currency delta worth
// recommending; anything smaller is reported as Hold.
const DefaultMaterialityFloor = 10.0

// PortfolioValues converts holdings and prices into current currency values.
// Total includes the cash waiting to be deployed.
func PortfolioValues(h domain.Holdings, priceAsset1, priceAsset2 float64) (val1, val2, total float64) {
	val1 = h.Asset1Qty * priceAsset1
	val2 = h.Asset2Qty * priceAsset2
	total = val1 + val2 + h.Cash
	return val1, val2, total
}

// TargetValues splits the total portfolio value according to the target
// allocation percentages.
func TargetValues(total float64, target domain.TargetAllocation) (tgt1, tgt2 float64) {
	tgt1 = total * float64(target.Asset1Pct) / 100
	tgt2 = total * float64(target.Asset2Pct()) / 100
	return tgt1, tgt2
}

// ComputeOrders returns the currency deltas (positive = buy, negative = sell)
// that move the portfolio toward target. On Hold both assets rebalance
// proportionally toward target, deploying the cash:
//
//	val1 + delta1 + val2 + delta2 == total
//
// On a favor advice all deployable cash plus any overweight in the other
// asset is concentrated into the favored asset and the other delta is the
// residual that keeps invested value constant:
//
//	val1 + delta1 + val2 + delta2 == total - cash
func ComputeOrders(advice domain.Advice, val1, val2, tgt1, tgt2, cash, total float64) (delta1, delta2 float64) {
	switch advice {
	case domain.AdviceFavorAsset2:
		delta2 = cash + math.Max(0, val1-tgt1)
		newVal2 := val2 + delta2
		newVal1 := total - newVal2 - cash
		delta1 = newVal1 - val1
	case domain.AdviceFavorAsset1:
		delta1 = cash + math.Max(0, val2-tgt2)
		newVal1 := val1 + delta1
		newVal2 := total - newVal1 - cash
		delta2 = newVal2 - val2
	default:
		delta1 = tgt1 - val1
		delta2 = tgt2 - val2
	}
	return delta1, delta2
}

// BuildOrderPlan converts a currency delta into an actionable card. Deltas
// below the materiality floor are suppressed as Hold. Units are 0 when the
// price is not positive.
func BuildOrderPlan(ticker string, delta, price, floor float64) domain.OrderPlan {
	if math.Abs(delta) < floor {
		return domain.OrderPlan{Ticker: ticker, Action: domain.OrderActionHold}
	}

	action := domain.OrderActionBuy
	if delta < 0 {
		action = domain.OrderActionSell
	}

	var units float64
	if price > 0 {
		units = math.Abs(delta) / price
	}
	return domain.OrderPlan{
		Ticker: ticker,
		Action: action,
		Amount: math.Abs(delta),
		Units:  units,
	}
}

// CashOutSignal reports the surplus above the portfolio cap. A cap of zero or
// less disables the signal.
func CashOutSignal(totalValue, portCap float64) (surplus float64, triggered bool) {
	if portCap <= 0 || totalValue <= portCap {
		return 0, false
	}
	return totalValue - portCap, true
}
