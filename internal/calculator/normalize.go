package calculator

import (
	"fmt"
	"math"

	"TickerCompare/internal/model"
)

// Baseline is the value every normalized series starts at.
const Baseline = 100.0

// Normalize rescales a price series so that its first value is exactly Baseline.
func Normalize(s model.PriceSeries) (model.NormalizedSeries, error) {
	if len(s.Points) == 0 {
		return model.NormalizedSeries{}, fmt.Errorf("normalize %s: %w", s.Symbol, ErrEmptySeries)
	}
	base := s.Points[0].Value
	if base == 0 || math.IsNaN(base) || math.IsInf(base, 0) {
		return model.NormalizedSeries{}, fmt.Errorf("normalize %s: first close %v: %w", s.Symbol, base, ErrInvalidBaseline)
	}

	points := make([]model.Point, len(s.Points))
	points[0] = model.Point{Date: s.Points[0].Date, Value: Baseline}
	for i := 1; i < len(s.Points); i++ {
		v := s.Points[i].Value / base * Baseline
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return model.NormalizedSeries{}, fmt.Errorf("normalize %s: close %v on %s: %w",
				s.Symbol, s.Points[i].Value, s.Points[i].Date.Format("2006-01-02"), ErrInvalidBaseline)
		}
		points[i] = model.Point{Date: s.Points[i].Date, Value: v}
	}
	return model.NormalizedSeries{Symbol: s.Symbol, Points: points}, nil
}

func extractValues(points []model.Point) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return values
}
