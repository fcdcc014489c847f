package stats

import (
	"fmt"
	"math"
)

// Decomposition splits a series into additive trend, seasonal, and residual
// components: y = trend + seasonal + residual. Positions without a full
// centered window around them carry NaN in the trend and residual.
type Decomposition struct {
	Trend    []float64
	Seasonal []float64
	Residual []float64
	Period   int
}

// Decompose performs classical additive seasonal decomposition using a
// centered moving average for the trend. Requires at least two full periods.
func Decompose(y []float64, period int) (*Decomposition, error) {
	n := len(y)
	if period < 2 {
		return nil, fmt.Errorf("period of %d, %w", period, ErrInvalidLag)
	}
	if n < 2*period {
		return nil, fmt.Errorf("need %d points for period %d, have %d, %w", 2*period, period, n, ErrInsufficientData)
	}

	trend := centeredMovingAverage(y, period)

	detrended := make([]float64, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(trend[i]) {
			detrended[i] = math.NaN()
			continue
		}
		detrended[i] = y[i] - trend[i]
	}

	// average the detrended values within each seasonal phase, then center
	// the pattern so the components sum back to the series
	pattern := make([]float64, period)
	counts := make([]int, period)
	for i := 0; i < n; i++ {
		if math.IsNaN(detrended[i]) {
			continue
		}
		pattern[i%period] += detrended[i]
		counts[i%period]++
	}
	var patternMean float64
	for i := 0; i < period; i++ {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
		patternMean += pattern[i]
	}
	patternMean /= float64(period)
	for i := range pattern {
		pattern[i] -= patternMean
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal[i] = pattern[i%period]
		if math.IsNaN(trend[i]) {
			residual[i] = math.NaN()
			continue
		}
		residual[i] = y[i] - trend[i] - seasonal[i]
	}

	return &Decomposition{
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
		Period:   period,
	}, nil
}

// centeredMovingAverage smooths with a window of one period. Even periods
// use the standard 2xMA so the window stays centered.
func centeredMovingAverage(y []float64, period int) []float64 {
	n := len(y)
	out := make([]float64, n)
	half := period / 2

	for i := 0; i < n; i++ {
		if i < half || i >= n-half {
			out[i] = math.NaN()
			continue
		}
		var sum float64
		if period%2 == 1 {
			for j := i - half; j <= i+half; j++ {
				sum += y[j]
			}
			out[i] = sum / float64(period)
			continue
		}
		sum = 0.5*y[i-half] + 0.5*y[i+half]
		for j := i - half + 1; j < i+half; j++ {
			sum += y[j]
		}
		out[i] = sum / float64(period)
	}
	return out
}
