package calculator

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"TickerCompare/internal/model"
)

// Align reindexes a and b onto the sorted union of their dates.
// A missing date takes the last earlier value of its series; dates before a
// series' first observation stay missing.
func Align(a, b model.NormalizedSeries) (*model.AlignedPair, error) {
	if err := checkOrder(a); err != nil {
		return nil, err
	}
	if err := checkOrder(b); err != nil {
		return nil, err
	}

	index := slices.Collect(union(dates(a), dates(b)))
	return &model.AlignedPair{
		Dates: index,
		A:     model.AlignedSeries{Symbol: a.Symbol, Values: carryForward(a.Points, index)},
		B:     model.AlignedSeries{Symbol: b.Symbol, Values: carryForward(b.Points, index)},
	}, nil
}

func checkOrder(s model.NormalizedSeries) error {
	for i := 1; i < len(s.Points); i++ {
		if !s.Points[i].Date.After(s.Points[i-1].Date) {
			return fmt.Errorf("align %s at %s: %w", s.Symbol, s.Points[i].Date.Format("2006-01-02"), ErrUnorderedSeries)
		}
	}
	return nil
}

func dates(s model.NormalizedSeries) []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Date
	}
	return out
}

// union iterates over the unique dates of several sorted date lists, in order.
func union(series ...[]time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		indexes := make([]int, len(series))
		for {
			var next time.Time
			found := false
			for i, index := range indexes {
				if index >= len(series[i]) {
					continue
				}
				if on := series[i][index]; !found || on.Before(next) {
					next, found = on, true
				}
			}
			if !found {
				return
			}
			// consume every head equal to the minimum
			for i, index := range indexes {
				if index < len(series[i]) && series[i][index].Equal(next) {
					indexes[i]++
				}
			}
			if !yield(next) {
				return
			}
		}
	}
}

func carryForward(points []model.Point, index []time.Time) []float64 {
	values := make([]float64, len(index))
	last := model.Missing()
	j := 0
	for i, on := range index {
		for j < len(points) && !points[j].Date.After(on) {
			last = points[j].Value
			j++
		}
		values[i] = last
	}
	return values
}
