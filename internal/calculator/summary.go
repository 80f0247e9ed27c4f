package calculator

import (
	"fmt"

	"TickerCompare/internal/model"
)

// Summarize computes the performance scalars of an aligned series.
func Summarize(s model.AlignedSeries) (model.PerformanceSummary, error) {
	final, ok := s.Last()
	if !ok {
		return model.PerformanceSummary{}, fmt.Errorf("summarize %s: %w", s.Symbol, ErrEmptySeries)
	}
	defined := s.Defined()
	high, low, err := SeriesRange(defined)
	if err != nil {
		return model.PerformanceSummary{}, fmt.Errorf("summarize %s: %w", s.Symbol, err)
	}
	return model.PerformanceSummary{
		Symbol:        s.Symbol,
		FinalValue:    final,
		PercentChange: PercentChange(final),
		High:          high,
		Low:           low,
		MaxDrawdown:   MaxDrawdown(defined),
		Points:        len(defined),
	}, nil
}

// PercentChange returns the change of a normalized value relative to Baseline, in percent.
func PercentChange(final float64) float64 {
	return (final - Baseline) / Baseline * 100
}
