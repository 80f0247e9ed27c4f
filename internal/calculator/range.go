package calculator

import "math"

// SeriesRange returns the highest and lowest of the given values.
func SeriesRange(values []float64) (high, low float64, err error) {
	if len(values) == 0 {
		return 0, 0, ErrEmptySeries
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, v := range values {
		if v > high {
			high = v
		}
		if v < low {
			low = v
		}
	}
	return high, low, nil
}

// MaxDrawdown returns the largest peak-to-trough decline of values, in percent.
// The result is zero for a series that never falls below a previous peak.
func MaxDrawdown(values []float64) float64 {
	peak := math.Inf(-1)
	worst := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
			continue
		}
		if peak > 0 {
			if dd := (v - peak) / peak * 100; dd < worst {
				worst = dd
			}
		}
	}
	return worst
}
