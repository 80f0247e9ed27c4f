package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"TickerCompare/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultEODHDURL is the EODHD API host.
const DefaultEODHDURL = "https://eodhd.com"

// EODHDFetcher implements Fetcher using the eodhd.com end-of-day API.
// Tickers use the EODHD "SYMBOL.EXCHANGE" form, e.g. MCD.US.
type EODHDFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewEODHDFetcher creates a fetcher with optional proxy support.
func NewEODHDFetcher(apiKey, proxyURL string) *EODHDFetcher {
	return &EODHDFetcher{
		BaseURL: DefaultEODHDURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *EODHDFetcher) Name() string { return "eodhd" }

// eodBar is one element of the /api/eod payload.
//
//	{"date": "2024-02-01", "open": 675.06, "high": 684.21, "low": 648.65,
//	 "close": 668.44, "adjusted_close": 667.70, "volume": 0}
type eodBar struct {
	Date          string          `json:"date"`
	Open          decimal.Decimal `json:"open"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	Close         decimal.Decimal `json:"close"`
	AdjustedClose decimal.Decimal `json:"adjusted_close"`
	Volume        decimal.Decimal `json:"volume"`
}

func (f *EODHDFetcher) FetchBars(ctx context.Context, symbol string, start, end time.Time, interval model.Interval) ([]model.OHLCV, error) {
	if interval != model.IntervalMonthly {
		return nil, fail(f.Name(), symbol, KindUnknown, fmt.Errorf("%w: %q", ErrUnsupportedInterval, interval))
	}
	addr := fmt.Sprintf("%s/api/eod/%s?fmt=json&period=m&api_token=%s&from=%s&to=%s",
		f.BaseURL, url.PathEscape(symbol), url.QueryEscape(f.APIKey), start.Format("2006-01-02"), end.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fail(f.Name(), symbol, KindUnknown, err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fail(f.Name(), symbol, KindTransport, fmt.Errorf("eodhd fetch: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fail(f.Name(), symbol, KindNotFound, fmt.Errorf("cannot http GET %v: %v", resp.Request.URL.Path, resp.Status))
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return nil, fail(f.Name(), symbol, KindTransport, fmt.Errorf("eodhd: status %d, body: %s", resp.StatusCode, string(body)))
	}

	content := make([]eodBar, 0)
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return nil, fail(f.Name(), symbol, KindUnknown, fmt.Errorf("eodhd decode: %w", err))
	}

	bars := make([]model.OHLCV, 0, len(content))
	for _, b := range content {
		on, err := time.Parse("2006-01-02", b.Date)
		if err != nil {
			return nil, fail(f.Name(), symbol, KindUnknown, fmt.Errorf("eodhd date %q: %w", b.Date, err))
		}
		closing := b.AdjustedClose
		if closing.IsZero() {
			closing = b.Close
		}
		bars = append(bars, model.OHLCV{
			Time:   on,
			Open:   b.Open.InexactFloat64(),
			High:   b.High.InexactFloat64(),
			Low:    b.Low.InexactFloat64(),
			Close:  closing.InexactFloat64(),
			Volume: b.Volume.InexactFloat64(),
		})
	}
	return bars, nil
}
