package strategy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairdesk/pairtrader/internal/domain"
)

func TestPortfolioValues(t *testing.T) {
	h := domain.Holdings{Asset1Qty: 3, Asset2Qty: 100, Cash: 1000}
	v1, v2, total := PortfolioValues(h, 2000, 25)
	assert.Equal(t, 6000.0, v1)
	assert.Equal(t, 2500.0, v2)
	assert.Equal(t, 9500.0, total)
}

func TestTargetValuesSumToTotal(t *testing.T) {
	tgt1, tgt2 := TargetValues(10000, domain.TargetAllocation{Asset1Pct: 60})
	assert.Equal(t, 6000.0, tgt1)
	assert.Equal(t, 4000.0, tgt2)
	assert.Equal(t, 10000.0, tgt1+tgt2)
}

func TestHoldBranchProportionalRebalance(t *testing.T) {
	// 6000/4000 holdings, 50/50 target, no cash: sell 1000 of asset1, buy
	// 1000 of asset2.
	d1, d2 := ComputeOrders(domain.AdviceHold, 6000, 4000, 5000, 5000, 0, 10000)
	assert.Equal(t, -1000.0, d1)
	assert.Equal(t, 1000.0, d2)
}

func TestFavorAsset2ConcentratesCashAndOverweight(t *testing.T) {
	// Asset1 is 1000 overweight and 500 cash is waiting: all 1500 goes into
	// asset2, asset1 sells down by the same amount.
	val1, val2, cash := 6000.0, 4000.0, 500.0
	total := val1 + val2 + cash
	tgt1, tgt2 := TargetValues(total, domain.TargetAllocation{Asset1Pct: 50})
	require.Equal(t, 5250.0, tgt1)

	d1, d2 := ComputeOrders(domain.AdviceFavorAsset2, val1, val2, tgt1, tgt2, cash, total)
	assert.Equal(t, cash+750, d2) // cash + overweight of asset1
	assert.Equal(t, -d2, d1)      // funded entirely by selling asset1
}

func TestFavorAsset1IsSymmetric(t *testing.T) {
	val1, val2, cash := 4000.0, 6000.0, 500.0
	total := val1 + val2 + cash
	tgt1, tgt2 := TargetValues(total, domain.TargetAllocation{Asset1Pct: 50})

	d1, d2 := ComputeOrders(domain.AdviceFavorAsset1, val1, val2, tgt1, tgt2, cash, total)
	assert.Equal(t, cash+750, d1)
	assert.Equal(t, -d1, d2)
}

func TestConservationOfValueAcrossBranches(t *testing.T) {
	// Randomized holdings/targets/cash: in every branch the recommended
	// deltas must neither create nor destroy value. On Hold the deltas
	// deploy the cash (invested value ends at total); on a favor advice the
	// concentration is a pure swap (invested value is unchanged and the cash
	// stays inside the favored delta).
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		val1 := rng.Float64() * 50000
		val2 := rng.Float64() * 50000
		cash := rng.Float64() * 10000
		total := val1 + val2 + cash
		pct := rng.Intn(101)
		tgt1, tgt2 := TargetValues(total, domain.TargetAllocation{Asset1Pct: pct})

		d1, d2 := ComputeOrders(domain.AdviceHold, val1, val2, tgt1, tgt2, cash, total)
		assert.InDelta(t, total, val1+d1+val2+d2, 1e-6,
			"hold val1=%f val2=%f cash=%f pct=%d", val1, val2, cash, pct)

		for _, advice := range []domain.Advice{domain.AdviceFavorAsset1, domain.AdviceFavorAsset2} {
			d1, d2 := ComputeOrders(advice, val1, val2, tgt1, tgt2, cash, total)
			assert.InDelta(t, total-cash, val1+d1+val2+d2, 1e-6,
				"advice=%v val1=%f val2=%f cash=%f pct=%d", advice, val1, val2, cash, pct)
			assert.InDelta(t, -d2, d1, 1e-6)
		}
	}
}

func TestHoldBranchDeploysCash(t *testing.T) {
	// On Hold the deltas push both assets to target, which absorbs the cash.
	val1, val2, cash := 5000.0, 5000.0, 1000.0
	total := val1 + val2 + cash
	tgt1, tgt2 := TargetValues(total, domain.TargetAllocation{Asset1Pct: 50})

	d1, d2 := ComputeOrders(domain.AdviceHold, val1, val2, tgt1, tgt2, cash, total)
	assert.Equal(t, 500.0, d1)
	assert.Equal(t, 500.0, d2)
}

func TestBuildOrderPlan(t *testing.T) {
	buy := BuildOrderPlan("GC=F", 1000, 2000, DefaultMaterialityFloor)
	assert.Equal(t, domain.OrderActionBuy, buy.Action)
	assert.Equal(t, 1000.0, buy.Amount)
	assert.InDelta(t, 0.5, buy.Units, 1e-12)

	sell := BuildOrderPlan("SI=F", -250, 25, DefaultMaterialityFloor)
	assert.Equal(t, domain.OrderActionSell, sell.Action)
	assert.Equal(t, 250.0, sell.Amount)
	assert.InDelta(t, 10.0, sell.Units, 1e-12)
}

func TestMaterialityFloorSuppressesNoise(t *testing.T) {
	for _, delta := range []float64{0, 0.01, 9.99, -9.99, -5} {
		plan := BuildOrderPlan("GC=F", delta, 2000, DefaultMaterialityFloor)
		assert.Equal(t, domain.OrderActionHold, plan.Action, "delta %f", delta)
		assert.Zero(t, plan.Amount)
		assert.Zero(t, plan.Units)
	}

	// Exactly at the floor is material.
	plan := BuildOrderPlan("GC=F", 10, 2000, DefaultMaterialityFloor)
	assert.Equal(t, domain.OrderActionBuy, plan.Action)
}

func TestBuildOrderPlanNonPositivePrice(t *testing.T) {
	plan := BuildOrderPlan("GC=F", 500, 0, DefaultMaterialityFloor)
	assert.Equal(t, domain.OrderActionBuy, plan.Action)
	assert.Equal(t, 500.0, plan.Amount)
	assert.Zero(t, plan.Units)
}

func TestCashOutSignal(t *testing.T) {
	surplus, ok := CashOutSignal(25000, 20000)
	assert.True(t, ok)
	assert.Equal(t, 5000.0, surplus)

	_, ok = CashOutSignal(15000, 20000)
	assert.False(t, ok)

	_, ok = CashOutSignal(15000, 0) // cap disabled
	assert.False(t, ok)
}
