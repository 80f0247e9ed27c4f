package model

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Interval is the sampling interval of a price history.
type Interval string

const (
	IntervalMonthly Interval = "monthly"
)

// ParseInterval accepts the interval names used in config files.
func ParseInterval(s string) (Interval, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "monthly", "month", "1mo":
		return IntervalMonthly, nil
	default:
		return "", fmt.Errorf("unsupported interval %q", s)
	}
}

// OHLCV represents a single candlestick bar.
// Time carries the exchange location when the data source reports one.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Point is one dated observation. Date is midnight UTC of the observation's calendar day.
type Point struct {
	Date  time.Time
	Value float64
}

// PriceSeries holds the close prices of one instrument, strictly increasing by date.
type PriceSeries struct {
	Symbol string
	Points []Point
}

// Day truncates t to its calendar day in its own location, returned as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewPriceSeries builds a PriceSeries from bars in any order.
// Bars falling on the same calendar day collapse to the latest one.
func NewPriceSeries(symbol string, bars []OHLCV) PriceSeries {
	sorted := make([]OHLCV, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	points := make([]Point, 0, len(sorted))
	for _, b := range sorted {
		day := Day(b.Time)
		if n := len(points); n > 0 && points[n-1].Date.Equal(day) {
			points[n-1].Value = b.Close
			continue
		}
		points = append(points, Point{Date: day, Value: b.Close})
	}
	return PriceSeries{Symbol: symbol, Points: points}
}

// Len returns the number of observations.
func (s PriceSeries) Len() int { return len(s.Points) }

// NormalizedSeries is a PriceSeries rescaled so that its first value is 100.
type NormalizedSeries struct {
	Symbol string
	Points []Point
}

// Missing returns the marker used for undefined aligned values.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether v marks an undefined aligned value.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// AlignedSeries is a normalized series reindexed onto a shared date index.
type AlignedSeries struct {
	Symbol string
	Values []float64
}

// Last returns the last defined value.
func (s AlignedSeries) Last() (float64, bool) {
	for i := len(s.Values) - 1; i >= 0; i-- {
		if !IsMissing(s.Values[i]) {
			return s.Values[i], true
		}
	}
	return 0, false
}

// Defined returns the defined values in order.
func (s AlignedSeries) Defined() []float64 {
	out := make([]float64, 0, len(s.Values))
	for _, v := range s.Values {
		if !IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}

// AlignedPair holds two aligned series sharing one date index.
type AlignedPair struct {
	Dates []time.Time
	A     AlignedSeries
	B     AlignedSeries
}

// Len returns the size of the shared date index.
func (p *AlignedPair) Len() int { return len(p.Dates) }
