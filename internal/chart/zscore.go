// Package chart renders the rolling Z-score series as a PNG line chart for
// the dashboard.
package chart

import (
	"fmt"

	"github.com/vicanso/go-charts/v2"

	"github.com/pairdesk/pairtrader/internal/domain"
)

// RenderZScore draws the defined portion of the Z-score series together with
// flat lines at the two advice thresholds. Points before the rolling window
// fills, or where the standard deviation is zero, are omitted rather than
// plotted as zero.
func RenderZScore(series domain.SpreadSeries, high, low float64) ([]byte, error) {
	var (
		labels []string
		zs     []float64
	)
	for _, pt := range series {
		if !pt.ZValid {
			continue
		}
		labels = append(labels, pt.Date.Format("Jan 02"))
		zs = append(zs, pt.ZScore)
	}
	if len(zs) < 2 {
		return nil, fmt.Errorf("chart: %w: need at least 2 defined z-scores, have %d", domain.ErrInsufficientHistory, len(zs))
	}

	highLine := make([]float64, len(zs))
	lowLine := make([]float64, len(zs))
	for i := range zs {
		highLine[i] = high
		lowLine[i] = low
	}

	names := []string{"z-score", "high threshold", "low threshold"}
	seriesList := charts.NewSeriesListDataFromValues([][]float64{zs, highLine, lowLine}, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}

	split := 10
	if len(labels) < split {
		split = len(labels)
	}

	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc("Spread Z-Score"),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: split}),
		charts.YAxisOptionFunc(charts.YAxisOption{DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("chart: render z-score: %w", err)
	}

	img, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("chart: encode z-score png: %w", err)
	}
	return img, nil
}
