package collector

import (
	"context"
	"errors"
	"time"

	"TickerCompare/internal/model"

	log "github.com/sirupsen/logrus"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols present in Errors fail, symbols present in Bars return those bars,
// any other symbol gets generated monthly bars when Price is set and no data otherwise.
type MockFetcher struct {
	Price  float64
	Bars   map[string][]model.OHLCV
	Errors map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, symbol string, start, end time.Time, _ model.Interval) ([]model.OHLCV, error) {
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	if m.Price > 0 {
		return generateMockBars(m.Price, start, end), nil
	}
	return nil, nil
}

// generateMockBars returns one bar on the first day of each month within [start, end].
func generateMockBars(basePrice float64, start, end time.Time) []model.OHLCV {
	var bars []model.OHLCV
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	if first.Before(start) {
		first = first.AddDate(0, 1, 0)
	}
	for i, on := 0, first; !on.After(end); i, on = i+1, on.AddDate(0, 1, 0) {
		p := basePrice * (1 + float64(i)*0.01)
		bars = append(bars, model.OHLCV{
			Time:   on,
			Open:   p * 0.99,
			High:   p * 1.02,
			Low:    p * 0.98,
			Close:  p,
			Volume: 1000000,
		})
	}
	return bars
}

// FetchResult is the outcome of one acquisition attempt.
// Err is non-nil for failures; otherwise Series may still be empty.
type FetchResult struct {
	Symbol string
	Series model.PriceSeries
	Err    error
}

// Collector runs acquisitions against a Fetcher.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Acquire fetches the price history of symbol for the window of req.
// Errors not already tagged by the fetcher are tagged KindUnknown.
func (c *Collector) Acquire(ctx context.Context, req model.Request, symbol string) FetchResult {
	started := time.Now()
	bars, err := c.Fetcher.FetchBars(ctx, symbol, req.Start, req.End, req.Interval)
	entry := log.WithFields(log.Fields{
		"provider": c.Fetcher.Name(),
		"symbol":   symbol,
		"elapsed":  time.Since(started).Round(time.Millisecond),
	})
	if err != nil {
		var tagged *AcquisitionError
		if !errors.As(err, &tagged) {
			err = fail(c.Fetcher.Name(), symbol, KindUnknown, err)
		}
		entry.WithField("kind", KindOf(err)).Debugf("acquisition failed: %v", err)
		return FetchResult{Symbol: symbol, Err: err}
	}
	series := model.NewPriceSeries(symbol, bars)
	entry.WithField("points", series.Len()).Debug("acquisition done")
	return FetchResult{Symbol: symbol, Series: series}
}
