package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairdesk/pairtrader/internal/domain"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		in     string
		side   Side
		amount float64
	}{
		{"BUY:1.2345", SideBuy, 1.2345},
		{"SELL:0.5", SideSell, 0.5},
		{"BUY 0.3", SideBuy, 0.3},
		{"sell 4.56", SideSell, 4.56},
		{"Buy:2", SideBuy, 2},
		{"  BUY : 7.5  ", SideBuy, 7.5},
	}
	for _, tt := range tests {
		act, ok, err := ParseAction(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		require.True(t, ok)
		assert.Equal(t, tt.side, act.Side)
		assert.Equal(t, tt.amount, act.Amount)
	}
}

func TestParseActionSentinel(t *testing.T) {
	for _, in := range []string{"-", "", "   "} {
		_, ok, err := ParseAction(in)
		assert.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestParseActionMalformed(t *testing.T) {
	for _, in := range []string{"BUY", "HOLD:1.2", "BUY:abc", "BUY:", "1.5:BUY"} {
		_, _, err := ParseAction(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestFormatActionRoundTrip(t *testing.T) {
	out := FormatAction(Action{Side: SideBuy, Amount: 1.23456})
	assert.Equal(t, "BUY:1.2346", out)

	act, ok, err := ParseAction(out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, SideBuy, act.Side)
	assert.InDelta(t, 1.2346, act.Amount, 1e-12)
}

func TestReplay(t *testing.T) {
	txs := []domain.Transaction{
		{ID: 1, Asset1Action: "BUY:1.5", Asset2Action: "SELL:0.2"},
		{ID: 2, Asset1Action: "BUY 0.3", Asset2Action: "-"},
	}

	res := Replay(txs)
	assert.InDelta(t, 1.8, res.Asset1Qty, 1e-12)
	assert.InDelta(t, -0.2, res.Asset2Qty, 1e-12)
	assert.Equal(t, 2, res.Rows)
	assert.Empty(t, res.Skipped)
}

func TestReplaySkipsMalformedRowsWithDiagnostics(t *testing.T) {
	txs := []domain.Transaction{
		{ID: 1, Asset1Action: "BUY:1.0", Asset2Action: "SELL:2.0"},
		{ID: 2, Asset1Action: "BUY:oops", Asset2Action: "BUY:1.0"},
		{ID: 3, Asset1Action: "SHORT:5", Asset2Action: "-"},
	}

	res := Replay(txs)
	assert.InDelta(t, 1.0, res.Asset1Qty, 1e-12)
	assert.InDelta(t, -1.0, res.Asset2Qty, 1e-12)
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, int64(2), res.Skipped[0].TransactionID)
	assert.Equal(t, "asset1_action", res.Skipped[0].Field)
	assert.Equal(t, int64(3), res.Skipped[1].TransactionID)
}

func TestReplayIsIdempotent(t *testing.T) {
	txs := []domain.Transaction{
		{ID: 1, Asset1Action: "BUY:3.5", Asset2Action: "SELL:1.0"},
		{ID: 2, Asset1Action: "SELL:0.5", Asset2Action: "BUY 2.0"},
	}

	first := Replay(txs)
	second := Replay(txs)
	assert.Equal(t, first, second)
}

func TestReplayEmptyLog(t *testing.T) {
	res := Replay(nil)
	assert.Zero(t, res.Asset1Qty)
	assert.Zero(t, res.Asset2Qty)
	assert.Zero(t, res.Rows)
}

func TestReplayAllowsNegativeResult(t *testing.T) {
	// An inconsistent log (selling more than was bought) must be surfaced,
	// not clamped.
	res := Replay([]domain.Transaction{
		{ID: 1, Asset1Action: "SELL:2.0", Asset2Action: "-"},
	})
	assert.InDelta(t, -2.0, res.Asset1Qty, 1e-12)
}
