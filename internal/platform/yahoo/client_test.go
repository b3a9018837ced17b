package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairdesk/pairtrader/internal/domain"
)

// chartBody builds a minimal v8 chart payload for the given day offsets (in
// days before base) and closes.
func chartBody(base time.Time, offsets []int, closes []float64) string {
	ts := make([]string, len(offsets))
	cs := make([]string, len(closes))
	for i, off := range offsets {
		ts[i] = fmt.Sprintf("%d", base.AddDate(0, 0, -off).Unix())
	}
	for i, c := range closes {
		cs[i] = fmt.Sprintf("%g", c)
	}
	return fmt.Sprintf(`{"chart":{"result":[{"timestamp":[%s],"indicators":{"quote":[{"close":[%s]}]}}],"error":null}}`,
		strings.Join(ts, ","), strings.Join(cs, ","))
}

func TestFetchDailyCloses(t *testing.T) {
	base := time.Date(2026, 8, 28, 21, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v8/finance/chart/GC=F")
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		fmt.Fprint(w, chartBody(base, []int{2, 1, 0}, []float64{2000, 0, 2010}))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	closes, err := c.FetchDailyCloses(context.Background(), "GC=F", 30)
	require.NoError(t, err)

	// The zero close is dropped.
	require.Len(t, closes, 2)
	assert.Equal(t, 2000.0, closes[0].Close)
	assert.Equal(t, 2010.0, closes[1].Close)
	assert.True(t, closes[0].Date.Before(closes[1].Date))
	assert.Equal(t, 0, closes[0].Date.Hour(), "dates are truncated to midnight UTC")
}

func TestFetchDailyClosesNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchDailyCloses(context.Background(), "NOPE", 30)
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestFetchDailyClosesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchDailyCloses(context.Background(), "NOPE", 30)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFeedUnavailable)
	assert.NotErrorIs(t, err, domain.ErrNoData)
}

func TestFetchDailyClosesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchDailyCloses(context.Background(), "GC=F", 30)
	assert.ErrorIs(t, err, domain.ErrFeedUnavailable)
}

func TestFetchPairInnerJoin(t *testing.T) {
	base := time.Date(2026, 8, 28, 21, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "GC=F"):
			fmt.Fprint(w, chartBody(base, []int{3, 2, 1, 0}, []float64{2000, 2005, 2010, 2015}))
		case strings.Contains(r.URL.Path, "SI=F"):
			// Missing the day at offset 1.
			fmt.Fprint(w, chartBody(base, []int{3, 2, 0}, []float64{24, 24.5, 25}))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	series, err := NewClient(srv.URL).FetchPair(context.Background(), "GC=F", "SI=F", 30)
	require.NoError(t, err)

	require.Equal(t, 3, series.Len())
	assert.Equal(t, "GC=F", series.Asset1Ticker)
	assert.Equal(t, 2000.0, series.Points[0].Asset1)
	assert.Equal(t, 24.0, series.Points[0].Asset2)
	assert.Equal(t, 2015.0, series.Points[2].Asset1)
	assert.Equal(t, 25.0, series.Points[2].Asset2)
}

func TestFetchPairNoOverlap(t *testing.T) {
	base := time.Date(2026, 8, 28, 21, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "GC=F") {
			fmt.Fprint(w, chartBody(base, []int{10, 9}, []float64{2000, 2005}))
			return
		}
		fmt.Fprint(w, chartBody(base, []int{1, 0}, []float64{24, 25}))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchPair(context.Background(), "GC=F", "SI=F", 30)
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestFetchQuote(t *testing.T) {
	base := time.Date(2026, 8, 28, 21, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody(base, []int{1, 0}, []float64{2000, 2042}))
	}))
	defer srv.Close()

	quote, err := NewClient(srv.URL).FetchQuote(context.Background(), "GC=F")
	require.NoError(t, err)
	assert.Equal(t, 2042.0, quote)
}

func TestFetchDailyClosesRejectsBadDays(t *testing.T) {
	_, err := NewClient("").FetchDailyCloses(context.Background(), "GC=F", 0)
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNoData))
}
