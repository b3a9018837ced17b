package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pairdesk/pairtrader/internal/domain"
)

func TestMonitorStateAdviceTransitions(t *testing.T) {
	m := &monitorState{}

	// First observation beyond a threshold fires immediately.
	assert.True(t, m.adviceCrossed(domain.AdviceFavorAsset2))

	// Repeats of the same advice stay quiet.
	assert.False(t, m.adviceCrossed(domain.AdviceFavorAsset2))
	assert.False(t, m.adviceCrossed(domain.AdviceFavorAsset2))

	// Returning to hold never fires.
	assert.False(t, m.adviceCrossed(domain.AdviceHold))

	// Crossing the other threshold fires again.
	assert.True(t, m.adviceCrossed(domain.AdviceFavorAsset1))
}

func TestMonitorStateStartsQuietOnHold(t *testing.T) {
	m := &monitorState{}

	assert.False(t, m.adviceCrossed(domain.AdviceHold))
	assert.True(t, m.adviceCrossed(domain.AdviceFavorAsset1))
}

func TestMonitorStateCashOutEdge(t *testing.T) {
	m := &monitorState{}

	assert.False(t, m.cashOutCrossed(false))
	assert.True(t, m.cashOutCrossed(true))

	// Still over the cap: no repeat notification.
	assert.False(t, m.cashOutCrossed(true))

	// Dips back under, then over again: fires once more.
	assert.False(t, m.cashOutCrossed(false))
	assert.True(t, m.cashOutCrossed(true))
}
