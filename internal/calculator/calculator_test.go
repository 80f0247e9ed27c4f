package calculator

import (
	"math"
	"testing"
	"time"

	"TickerCompare/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(i int) time.Time {
	return time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0)
}

func series(symbol string, start int, closes ...float64) model.PriceSeries {
	s := model.PriceSeries{Symbol: symbol}
	for i, c := range closes {
		s.Points = append(s.Points, model.Point{Date: month(start + i), Value: c})
	}
	return s
}

func TestNormalize_FirstValueIsBaseline(t *testing.T) {
	tests := []model.PriceSeries{
		series("A", 0, 100, 110, 121),
		series("B", 3, 0.37, 0.41),
		series("C", 0, 1234.5678),
		series("D", 0, 3, 1, 7, 9.5),
	}
	for _, s := range tests {
		n, err := Normalize(s)
		require.NoError(t, err, s.Symbol)
		require.Len(t, n.Points, len(s.Points))
		assert.Equal(t, 100.0, n.Points[0].Value, s.Symbol)
		for i := range s.Points {
			assert.Equal(t, s.Points[i].Date, n.Points[i].Date)
			assert.InDelta(t, s.Points[i].Value/s.Points[0].Value*100, n.Points[i].Value, 1e-9)
		}
	}
}

func TestNormalize_Errors(t *testing.T) {
	_, err := Normalize(model.PriceSeries{Symbol: "EMPTY"})
	assert.ErrorIs(t, err, ErrEmptySeries)

	_, err = Normalize(series("ZERO", 0, 0, 10))
	assert.ErrorIs(t, err, ErrInvalidBaseline)

	_, err = Normalize(series("NAN", 0, math.NaN(), 10))
	assert.ErrorIs(t, err, ErrInvalidBaseline)

	_, err = Normalize(series("LATE", 0, 10, math.Inf(1)))
	assert.ErrorIs(t, err, ErrInvalidBaseline)
}

func TestAlign_ScenarioA(t *testing.T) {
	a, err := Normalize(series("A", 0, 100, 110, 121))
	require.NoError(t, err)
	b, err := Normalize(series("B", 1, 50, 55))
	require.NoError(t, err)

	pair, err := Align(a, b)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{month(0), month(1), month(2)}, pair.Dates)
	assert.InDeltaSlice(t, []float64{100, 110, 121}, pair.A.Values, 1e-9)
	require.Len(t, pair.B.Values, 3)
	assert.True(t, model.IsMissing(pair.B.Values[0]))
	assert.InDelta(t, 100.0, pair.B.Values[1], 1e-9)
	assert.InDelta(t, 110.0, pair.B.Values[2], 1e-9)

	sum, err := Summarize(pair.B)
	require.NoError(t, err)
	assert.InDelta(t, 110.0, sum.FinalValue, 1e-9)
	assert.InDelta(t, 10.0, sum.PercentChange, 1e-9)
	assert.Equal(t, 2, sum.Points)
}

func TestAlign_CarriesForwardOnly(t *testing.T) {
	// A trades every month, B only every third month starting in month 2.
	a, err := Normalize(series("A", 0, 10, 11, 12, 13, 14, 15, 16, 17))
	require.NoError(t, err)
	b := model.NormalizedSeries{Symbol: "B", Points: []model.Point{
		{Date: month(2), Value: 100},
		{Date: month(5), Value: 90},
	}}

	pair, err := Align(a, b)
	require.NoError(t, err)
	require.Equal(t, pair.Len(), len(pair.A.Values))
	require.Equal(t, pair.Len(), len(pair.B.Values))
	assert.Equal(t, 8, pair.Len())

	assert.True(t, model.IsMissing(pair.B.Values[0]))
	assert.True(t, model.IsMissing(pair.B.Values[1]))
	assert.Equal(t, []float64{100, 100, 100, 90, 90, 90}, pair.B.Values[2:])
}

func TestAlign_DisjointCalendars(t *testing.T) {
	a := model.NormalizedSeries{Symbol: "A", Points: []model.Point{
		{Date: month(0), Value: 100}, {Date: month(2), Value: 120},
	}}
	b := model.NormalizedSeries{Symbol: "B", Points: []model.Point{
		{Date: month(1), Value: 100}, {Date: month(3), Value: 80},
	}}

	pair, err := Align(a, b)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{month(0), month(1), month(2), month(3)}, pair.Dates)
	assert.Equal(t, []float64{100, 100, 120, 120}, pair.A.Values)
	assert.True(t, model.IsMissing(pair.B.Values[0]))
	assert.Equal(t, []float64{100, 100, 80}, pair.B.Values[1:])
}

func TestAlign_FullOverlapIsIdentity(t *testing.T) {
	a, err := Normalize(series("A", 0, 20, 22, 19, 25))
	require.NoError(t, err)
	b, err := Normalize(series("B", 0, 5, 4, 6, 7))
	require.NoError(t, err)

	pair, err := Align(a, b)
	require.NoError(t, err)
	assert.Equal(t, extractValues(a.Points), pair.A.Values)
	assert.Equal(t, extractValues(b.Points), pair.B.Values)
}

func TestAlign_RejectsUnorderedInput(t *testing.T) {
	bad := model.NormalizedSeries{Symbol: "BAD", Points: []model.Point{
		{Date: month(1), Value: 100}, {Date: month(1), Value: 101},
	}}
	good := model.NormalizedSeries{Symbol: "OK", Points: []model.Point{{Date: month(0), Value: 100}}}

	_, err := Align(good, bad)
	assert.ErrorIs(t, err, ErrUnorderedSeries)
}

func TestAlign_EmptySide(t *testing.T) {
	a, err := Normalize(series("A", 0, 1, 2))
	require.NoError(t, err)

	pair, err := Align(a, model.NormalizedSeries{Symbol: "B"})
	require.NoError(t, err)
	assert.Equal(t, 2, pair.Len())

	_, err = Summarize(pair.B)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestSummarize(t *testing.T) {
	s := model.AlignedSeries{Symbol: "X", Values: []float64{model.Missing(), 100, 120, 90, 130, 117}}
	sum, err := Summarize(s)
	require.NoError(t, err)
	assert.Equal(t, "X", sum.Symbol)
	assert.InDelta(t, 117.0, sum.FinalValue, 1e-9)
	assert.InDelta(t, 17.0, sum.PercentChange, 1e-9)
	assert.Equal(t, 130.0, sum.High)
	assert.Equal(t, 90.0, sum.Low)
	assert.InDelta(t, -25.0, sum.MaxDrawdown, 1e-9)
	assert.Equal(t, 5, sum.Points)
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		final float64
		want  float64
	}{
		{100, 0},
		{110, 10},
		{50, -50},
		{250, 150},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, PercentChange(tt.final), 1e-9, "final %.1f", tt.final)
	}
}

func TestMaxDrawdown(t *testing.T) {
	assert.Equal(t, 0.0, MaxDrawdown([]float64{100, 101, 102}))
	assert.Equal(t, 0.0, MaxDrawdown(nil))
	assert.InDelta(t, -50.0, MaxDrawdown([]float64{100, 200, 100, 150}), 1e-9)
}

func TestSeriesRange(t *testing.T) {
	_, _, err := SeriesRange(nil)
	assert.ErrorIs(t, err, ErrEmptySeries)

	high, low, err := SeriesRange([]float64{3, 9, 1})
	require.NoError(t, err)
	assert.Equal(t, 9.0, high)
	assert.Equal(t, 1.0, low)
}
