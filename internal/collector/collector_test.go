package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"TickerCompare/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	windowStart = time.Date(2020, time.October, 18, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2025, time.October, 17, 0, 0, 0, 0, time.UTC)
)

const yahooOK = `{"chart":{"result":[{
	"meta":{"gmtoffset":-14400,"exchangeTimezoneName":"America/New_York"},
	"timestamp":[1609477200,1612155600,1614574800],
	"indicators":{
		"quote":[{"open":[10,11,null],"high":[12,13,null],"low":[9,10,null],"close":[11,12,null],"volume":[100,200,null]}],
		"adjclose":[{"adjclose":[10.5,11.5,null]}]
	}}],"error":null}}`

const yahooNotFound = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

func newYahoo(t *testing.T, h http.HandlerFunc) *YahooFetcher {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	f := NewYahooFetcher("", map[string]string{"gold": "GC=F"})
	f.BaseURL = srv.URL
	return f
}

func TestYahooFetcher_FetchBars(t *testing.T) {
	var gotPath, gotQuery string
	f := newYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		fmt.Fprint(w, yahooOK)
	})

	bars, err := f.FetchBars(context.Background(), "AAPL", windowStart, windowEnd, model.IntervalMonthly)
	require.NoError(t, err)
	require.Len(t, bars, 2, "null bar must be skipped")

	assert.Equal(t, "/v8/finance/chart/AAPL", gotPath)
	assert.Contains(t, gotQuery, "interval=1mo")
	assert.Contains(t, gotQuery, fmt.Sprintf("period1=%d", windowStart.Unix()))
	assert.Equal(t, 10.5, bars[0].Close, "adjusted close preferred")
	assert.Equal(t, 10.0, bars[0].Open)

	// 2021-01-01 05:00 UTC is the first of the month in New York.
	y, m, d := bars[0].Time.Date()
	assert.Equal(t, []int{2021, 1, 1}, []int{y, int(m), d})
}

func TestYahooFetcher_UsesExchangeDSTRules(t *testing.T) {
	// 2021-07-01 00:00 EDT, fetched in winter when the reported offset is EST.
	f := newYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{
			"meta":{"gmtoffset":-18000,"exchangeTimezoneName":"America/New_York"},
			"timestamp":[1625112000],
			"indicators":{"quote":[{"close":[100]}],"adjclose":[{"adjclose":[99]}]}}],"error":null}}`)
	})
	bars, err := f.FetchBars(context.Background(), "AAPL", windowStart, windowEnd, model.IntervalMonthly)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, time.Date(2021, time.July, 1, 0, 0, 0, 0, time.UTC), model.Day(bars[0].Time))
}

func TestExchangeLocation(t *testing.T) {
	loc := exchangeLocation("America/New_York", -18000)
	assert.Equal(t, "America/New_York", loc.String())

	fixed := exchangeLocation("Nowhere/Land", -18000)
	_, offset := time.Date(2021, time.July, 1, 0, 0, 0, 0, fixed).Zone()
	assert.Equal(t, -18000, offset)
}

func TestYahooFetcher_SkipsBarsWithoutAdjustedClose(t *testing.T) {
	f := newYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{
			"meta":{"gmtoffset":-14400,"exchangeTimezoneName":"America/New_York"},
			"timestamp":[1609477200,1612155600,1614574800],
			"indicators":{"quote":[{"close":[11,12,13]}],"adjclose":[{"adjclose":[10.5,null,12.5]}]}}],"error":null}}`)
	})
	bars, err := f.FetchBars(context.Background(), "AAPL", windowStart, windowEnd, model.IntervalMonthly)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 10.5, bars[0].Close)
	assert.Equal(t, 12.5, bars[1].Close)
}

func TestYahooFetcher_RawCloseWithoutAdjustedIndicator(t *testing.T) {
	f := newYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{
			"meta":{"gmtoffset":-14400,"exchangeTimezoneName":"America/New_York"},
			"timestamp":[1609477200,1612155600],
			"indicators":{"quote":[{"close":[11,12]}]}}],"error":null}}`)
	})
	bars, err := f.FetchBars(context.Background(), "^GSPC", windowStart, windowEnd, model.IntervalMonthly)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 11.0, bars[0].Close)
	assert.Equal(t, 12.0, bars[1].Close)
}

func TestYahooFetcher_SymbolAlias(t *testing.T) {
	var gotPath string
	f := newYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, yahooOK)
	})
	_, err := f.FetchBars(context.Background(), "sp500", windowStart, windowEnd, model.IntervalMonthly)
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/^GSPC", gotPath)

	_, err = f.FetchBars(context.Background(), "GOLD", windowStart, windowEnd, model.IntervalMonthly)
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/GC=F", gotPath)
}

func TestYahooFetcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Kind
	}{
		{"not found payload", http.StatusNotFound, yahooNotFound, KindNotFound},
		{"bare 404", http.StatusNotFound, "nope", KindNotFound},
		{"server error", http.StatusInternalServerError, "oops", KindTransport},
		{"garbage", http.StatusOK, "{not json", KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newYahoo(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})
			bars, err := f.FetchBars(context.Background(), "ZZZZ", windowStart, windowEnd, model.IntervalMonthly)
			require.Error(t, err)
			assert.Nil(t, bars)
			assert.Equal(t, tt.want, KindOf(err))

			var ae *AcquisitionError
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, "ZZZZ", ae.Symbol)
			assert.Equal(t, "yahoo", ae.Provider)
		})
	}
}

func TestYahooFetcher_EmptyRangeIsNotAnError(t *testing.T) {
	f := newYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{},"indicators":{"quote":[{}]}}],"error":null}}`)
	})
	bars, err := f.FetchBars(context.Background(), "NEW", windowStart, windowEnd, model.IntervalMonthly)
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestYahooFetcher_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	f := NewYahooFetcher("", nil)
	f.BaseURL = srv.URL

	_, err := f.FetchBars(context.Background(), "AAPL", windowStart, windowEnd, model.IntervalMonthly)
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
}

func TestEODHDFetcher_FetchBars(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/eod/MCD.US") {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `[
			{"date":"2024-01-31","open":1.5,"high":2,"low":1,"close":1.75,"adjusted_close":1.70,"volume":10},
			{"date":"2024-02-29","open":1.8,"high":2.1,"low":1.6,"close":2.0,"adjusted_close":0,"volume":12}
		]`)
	}))
	defer srv.Close()

	f := NewEODHDFetcher("demo", "")
	f.BaseURL = srv.URL

	bars, err := f.FetchBars(context.Background(), "MCD.US", windowStart, windowEnd, model.IntervalMonthly)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Contains(t, gotQuery, "period=m")
	assert.Contains(t, gotQuery, "from=2020-10-18")
	assert.Contains(t, gotQuery, "api_token=demo")
	assert.Equal(t, 1.70, bars[0].Close)
	assert.Equal(t, 2.0, bars[1].Close, "falls back to close without an adjusted close")
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), bars[1].Time)

	_, err = f.FetchBars(context.Background(), "NOPE.US", windowStart, windowEnd, model.IntervalMonthly)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestBarsAPIFetcher_FallsBackToDaily(t *testing.T) {
	day := func(m time.Month, d int) int64 { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC).Unix() }
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/api/v1/bars/monthly":
			w.WriteHeader(http.StatusNotImplemented)
		case "/api/v1/bars/daily":
			fmt.Fprintf(w, `[
				{"timestamp":%d,"open":1,"high":3,"low":1,"close":2,"volume":1},
				{"timestamp":%d,"open":2,"high":5,"low":0.5,"close":4,"volume":1},
				{"timestamp":%d,"open":4,"high":4,"low":3,"close":3,"volume":1}
			]`, day(1, 3), day(1, 4), day(2, 1))
		}
	}))
	defer srv.Close()

	f := NewBarsAPIFetcher(srv.URL, "secret", "")
	bars, err := f.FetchBars(context.Background(), "ABC", windowStart, windowEnd, model.IntervalMonthly)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, model.OHLCV{Time: time.Unix(day(1, 3), 0).UTC(), Open: 1, High: 5, Low: 0.5, Close: 4, Volume: 2}, bars[0])
	assert.Equal(t, 3.0, bars[1].Close)
}

func TestBarsAPIFetcher_NotFoundSkipsFallback(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewBarsAPIFetcher(srv.URL, "", "").FetchBars(context.Background(), "ABC", windowStart, windowEnd, model.IntervalMonthly)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, 1, calls)
}

func TestAggregateDailyToMonthly(t *testing.T) {
	assert.Nil(t, aggregateDailyToMonthly(nil))

	d := func(y int, m time.Month, day int, c float64) model.OHLCV {
		return model.OHLCV{Time: time.Date(y, m, day, 0, 0, 0, 0, time.UTC), Open: c, High: c, Low: c, Close: c, Volume: 1}
	}
	monthly := aggregateDailyToMonthly([]model.OHLCV{d(2022, 12, 30, 1), d(2023, 1, 2, 2), d(2023, 1, 31, 3)})
	require.Len(t, monthly, 2)
	assert.Equal(t, 1.0, monthly[0].Close)
	assert.Equal(t, 3.0, monthly[1].Close)
	assert.Equal(t, 2.0, monthly[1].Open)
	assert.Equal(t, 2.0, monthly[1].Volume)
}

func TestUnsupportedInterval(t *testing.T) {
	fetchers := []Fetcher{NewYahooFetcher("", nil), NewEODHDFetcher("k", ""), NewBarsAPIFetcher("http://127.0.0.1:0", "", "")}
	for _, f := range fetchers {
		_, err := f.FetchBars(context.Background(), "X", windowStart, windowEnd, model.Interval("hourly"))
		assert.ErrorIs(t, err, ErrUnsupportedInterval, f.Name())
	}
}

func TestCollector_Acquire(t *testing.T) {
	boom := errors.New("boom")
	mock := &MockFetcher{
		Bars: map[string][]model.OHLCV{
			"AAA": {
				{Time: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Close: 2},
				{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Close: 1},
			},
		},
		Errors: map[string]error{"BAD": boom},
	}
	c := NewCollector(mock)
	req := model.Request{Start: windowStart, End: windowEnd, Interval: model.IntervalMonthly}

	ok := c.Acquire(context.Background(), req, "AAA")
	require.NoError(t, ok.Err)
	require.Equal(t, 2, ok.Series.Len())
	assert.Equal(t, 1.0, ok.Series.Points[0].Value, "series must be chronological")

	empty := c.Acquire(context.Background(), req, "NONE")
	require.NoError(t, empty.Err)
	assert.Equal(t, 0, empty.Series.Len())

	bad := c.Acquire(context.Background(), req, "BAD")
	require.Error(t, bad.Err)
	assert.ErrorIs(t, bad.Err, boom)
	assert.Equal(t, KindUnknown, KindOf(bad.Err))
}

func TestMockFetcher_GeneratesMonthlyBars(t *testing.T) {
	m := &MockFetcher{Price: 50}
	bars, err := m.FetchBars(context.Background(), "ANY", windowStart, windowEnd, model.IntervalMonthly)
	require.NoError(t, err)
	assert.Len(t, bars, 60)
	assert.Equal(t, time.Date(2020, time.November, 1, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.Equal(t, 50.0, bars[0].Close)
}
