package chart

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairdesk/pairtrader/internal/domain"
)

func zPoint(day int, z float64, valid bool) domain.SpreadPoint {
	return domain.SpreadPoint{
		Date:       time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC),
		ZScore:     z,
		StatsValid: valid,
		ZValid:     valid,
	}
}

func TestRenderZScorePNG(t *testing.T) {
	series := domain.SpreadSeries{
		zPoint(1, 0, false), // warm-up, must be skipped
		zPoint(2, 0.3, true),
		zPoint(3, -1.1, true),
		zPoint(4, 2.4, true),
	}

	img, err := RenderZScore(series, 2.0, -2.0)
	require.NoError(t, err)

	// PNG signature.
	assert.True(t, bytes.HasPrefix(img, []byte("\x89PNG\r\n\x1a\n")))
}

func TestRenderZScoreInsufficientPoints(t *testing.T) {
	series := domain.SpreadSeries{
		zPoint(1, 0, false),
		zPoint(2, 0.3, true),
	}

	_, err := RenderZScore(series, 2.0, -2.0)
	assert.ErrorIs(t, err, domain.ErrInsufficientHistory)
}
