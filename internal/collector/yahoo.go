package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata" // exchange zones on hosts without a zoneinfo database

	"TickerCompare/internal/model"
)

// DefaultYahooURL is the public Yahoo Finance query host.
const DefaultYahooURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps user identifiers to Yahoo tickers
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string, aliases map[string]string) *YahooFetcher {
	symbols := map[string]string{
		"SPX500": "^GSPC",
		"SPX":    "^GSPC",
		"SP500":  "^GSPC",
	}
	for k, v := range aliases {
		symbols[strings.ToUpper(k)] = v
	}
	return &YahooFetcher{
		BaseURL:   DefaultYahooURL,
		Client:    newHTTPClient(proxyURL),
		SymbolMap: symbols,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[strings.ToUpper(symbol)]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				GMTOffset    int    `json:"gmtoffset"`
				ExchangeName string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []interface{} `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// toFloat reads a decoded JSON number; nulls report false.
func toFloat(v interface{}) (float64, bool) {
	n, ok := v.(float64)
	return n, ok
}

// exchangeLocation returns the exchange's time zone with its DST rules,
// falling back to the fixed offset Yahoo reports for the request time.
func exchangeLocation(name string, gmtOffset int) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.FixedZone(name, gmtOffset)
}

func at(values []interface{}, i int) float64 {
	if i >= len(values) {
		return 0
	}
	v, _ := toFloat(values[i])
	return v
}

func yahooInterval(interval model.Interval) (string, error) {
	switch interval {
	case model.IntervalMonthly:
		return "1mo", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedInterval, interval)
	}
}

// FetchBars returns adjusted monthly bars. Close holds the split and dividend adjusted close
// when Yahoo reports the adjclose indicator; bars without an adjusted value are skipped.
func (f *YahooFetcher) FetchBars(ctx context.Context, symbol string, start, end time.Time, interval model.Interval) ([]model.OHLCV, error) {
	yi, err := yahooInterval(interval)
	if err != nil {
		return nil, fail(f.Name(), symbol, KindUnknown, err)
	}
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=%s&events=history",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), start.Unix(), end.Unix(), yi)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fail(f.Name(), symbol, KindUnknown, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fail(f.Name(), symbol, KindTransport, fmt.Errorf("yahoo fetch: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fail(f.Name(), symbol, KindTransport, fmt.Errorf("yahoo read body: %w", err))
	}

	var chart yahooChart
	decodeErr := json.Unmarshal(body, &chart)
	if decodeErr == nil && chart.Chart.Error != nil {
		kind := KindUnknown
		if chart.Chart.Error.Code == "Not Found" || resp.StatusCode == http.StatusNotFound {
			kind = KindNotFound
		}
		return nil, fail(f.Name(), symbol, kind, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description))
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fail(f.Name(), symbol, KindNotFound, fmt.Errorf("yahoo: status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, fail(f.Name(), symbol, KindTransport, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body)))
	case decodeErr != nil:
		return nil, fail(f.Name(), symbol, KindUnknown, fmt.Errorf("yahoo decode: %w", decodeErr))
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, nil
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fail(f.Name(), symbol, KindUnknown, errors.New("yahoo: missing quote indicators"))
	}
	quote := result.Indicators.Quote[0]
	var adj []interface{}
	if len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0].AdjClose
	}
	loc := exchangeLocation(result.Meta.ExchangeName, result.Meta.GMTOffset)

	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		c, ok := toFloat(quote.Close[i])
		if !ok {
			continue // skip null bars (holidays, pending month)
		}
		// Never mix adjusted and raw closes in one series.
		if adj != nil {
			if i >= len(adj) {
				continue
			}
			if c, ok = toFloat(adj[i]); !ok {
				continue
			}
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).In(loc),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}
	return bars, nil
}
