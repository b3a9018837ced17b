// Package yahoo implements a read-only client for the Yahoo Finance v8 chart
// API, used as the daily close price feed.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pairdesk/pairtrader/internal/domain"
)

// DefaultBaseURL is the public Yahoo Finance query host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client fetches historical daily closes for a ticker. It is safe for
// concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a Yahoo Finance chart client. An empty baseURL selects
// the public endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// Yahoo rejects the default Go user agent.
		userAgent: "curl/8",
	}
}

// chartResponse mirrors the Yahoo v8 chart response, trimmed to the fields we
// read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// DailyClose is one trading day's closing price for a single ticker.
type DailyClose struct {
	Date  time.Time
	Close float64
}

// FetchDailyCloses returns up to days trailing daily closes for ticker, oldest
// first. Days with a missing or zero close are dropped. It returns
// domain.ErrNoData when the feed responds but has no usable bars; transport
// and HTTP failures are returned as ordinary wrapped errors so callers can
// tell an empty series from an unreachable feed.
func (c *Client) FetchDailyCloses(ctx context.Context, ticker string, days int) ([]DailyClose, error) {
	if days <= 0 {
		return nil, fmt.Errorf("yahoo: days must be positive, got %d", days)
	}

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%dd&interval=1d",
		c.baseURL, url.PathEscape(ticker), days)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("yahoo: create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo: %w: fetch %s: %v", domain.ErrFeedUnavailable, ticker, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo: read response for %s: %w", ticker, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: %w: fetch %s: status %d", domain.ErrFeedUnavailable, ticker, resp.StatusCode)
	}

	var cr chartResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("yahoo: decode response for %s: %w", ticker, err)
	}
	if cr.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: %w: fetch %s: %s (%s)", domain.ErrFeedUnavailable,
			ticker, cr.Chart.Error.Description, cr.Chart.Error.Code)
	}
	if len(cr.Chart.Result) == 0 || len(cr.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: %w: no chart result for %s", domain.ErrNoData, ticker)
	}

	ts := cr.Chart.Result[0].Timestamp
	closes := cr.Chart.Result[0].Indicators.Quote[0].Close

	out := make([]DailyClose, 0, len(ts))
	for i := range ts {
		if i >= len(closes) || closes[i] == 0 {
			continue
		}
		out = append(out, DailyClose{
			Date:  time.Unix(ts[i], 0).UTC().Truncate(24 * time.Hour),
			Close: closes[i],
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("yahoo: %w: no usable bars for %s", domain.ErrNoData, ticker)
	}
	return out, nil
}

// FetchQuote returns the most recent daily close for ticker.
func (c *Client) FetchQuote(ctx context.Context, ticker string) (float64, error) {
	closes, err := c.FetchDailyCloses(ctx, ticker, 5)
	if err != nil {
		return 0, err
	}
	return closes[len(closes)-1].Close, nil
}

// FetchPair fetches daily closes for both tickers and joins them on trading
// date. Days present for only one asset are dropped so every returned point
// carries both prices. It returns domain.ErrNoData when the two series share
// no trading days.
func (c *Client) FetchPair(ctx context.Context, asset1, asset2 string, days int) (domain.PairSeries, error) {
	series := domain.PairSeries{Asset1Ticker: asset1, Asset2Ticker: asset2}

	closes1, err := c.FetchDailyCloses(ctx, asset1, days)
	if err != nil {
		return series, err
	}
	closes2, err := c.FetchDailyCloses(ctx, asset2, days)
	if err != nil {
		return series, err
	}

	byDate := make(map[time.Time]float64, len(closes2))
	for _, dc := range closes2 {
		byDate[dc.Date] = dc.Close
	}

	points := make([]domain.PricePoint, 0, len(closes1))
	for _, dc := range closes1 {
		p2, ok := byDate[dc.Date]
		if !ok {
			continue
		}
		points = append(points, domain.PricePoint{
			Date:   dc.Date,
			Asset1: dc.Close,
			Asset2: p2,
		})
	}
	if len(points) == 0 {
		return series, fmt.Errorf("yahoo: %w: %s and %s share no trading days", domain.ErrNoData, asset1, asset2)
	}

	series.Points = points
	return series, nil
}
