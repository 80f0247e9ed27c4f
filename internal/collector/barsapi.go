package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"TickerCompare/internal/model"
)

// BarsAPIFetcher implements Fetcher against a generic bar REST API:
//
//	GET {base}/api/v1/bars/{monthly|daily}?symbol=..&from=..&to=..
//
// answering a JSON array of {timestamp, open, high, low, close, volume}.
type BarsAPIFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewBarsAPIFetcher creates a new fetcher with optional proxy support.
func NewBarsAPIFetcher(baseURL, apiKey, proxyURL string) *BarsAPIFetcher {
	return &BarsAPIFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *BarsAPIFetcher) Name() string { return "barsapi" }

// apiBar is the expected JSON shape from the bars API.
type apiBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (f *BarsAPIFetcher) FetchBars(ctx context.Context, symbol string, start, end time.Time, interval model.Interval) ([]model.OHLCV, error) {
	if interval != model.IntervalMonthly {
		return nil, fail(f.Name(), symbol, KindUnknown, fmt.Errorf("%w: %q", ErrUnsupportedInterval, interval))
	}
	// Try the monthly endpoint first; if the API only provides daily bars, aggregate internally.
	bars, err := f.fetchBars(ctx, symbol, f.endpoint("monthly", symbol, start, end))
	if err == nil {
		return bars, nil
	}
	if KindOf(err) == KindNotFound {
		return nil, err
	}
	daily, dailyErr := f.fetchBars(ctx, symbol, f.endpoint("daily", symbol, start, end))
	if dailyErr != nil {
		return nil, fail(f.Name(), symbol, KindOf(dailyErr),
			fmt.Errorf("monthly fetch failed: %w; daily fallback also failed: %w", err, dailyErr))
	}
	return aggregateDailyToMonthly(daily), nil
}

func (f *BarsAPIFetcher) endpoint(resolution, symbol string, start, end time.Time) string {
	return fmt.Sprintf("%s/api/v1/bars/%s?symbol=%s&from=%d&to=%d",
		f.BaseURL, resolution, url.QueryEscape(symbol), start.Unix(), end.Unix())
}

func (f *BarsAPIFetcher) fetchBars(ctx context.Context, symbol, endpoint string) ([]model.OHLCV, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fail(f.Name(), symbol, KindUnknown, err)
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fail(f.Name(), symbol, KindTransport, fmt.Errorf("fetch bars: %w", err))
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fail(f.Name(), symbol, KindNotFound, fmt.Errorf("fetch bars: status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fail(f.Name(), symbol, KindTransport, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body)))
	}
	var raw []apiBar
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fail(f.Name(), symbol, KindUnknown, fmt.Errorf("decode bars: %w", err))
	}
	bars := make([]model.OHLCV, len(raw))
	for i, b := range raw {
		bars[i] = model.OHLCV{
			Time:   time.Unix(b.Timestamp, 0).UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// aggregateDailyToMonthly converts chronological daily bars into calendar-month bars.
// Each monthly bar is stamped with the first trading day of its month.
func aggregateDailyToMonthly(daily []model.OHLCV) []model.OHLCV {
	if len(daily) == 0 {
		return nil
	}
	var monthly []model.OHLCV
	month := daily[0]
	for _, d := range daily[1:] {
		if d.Time.Year() != month.Time.Year() || d.Time.Month() != month.Time.Month() {
			monthly = append(monthly, month)
			month = d
			continue
		}
		if d.High > month.High {
			month.High = d.High
		}
		if d.Low < month.Low {
			month.Low = d.Low
		}
		month.Close = d.Close
		month.Volume += d.Volume
	}
	return append(monthly, month)
}
