package models

import (
	"fmt"
)

// DefaultNaivePeriod is the seasonal period of the naive baseline: hourly
// data with a daily cycle.
const DefaultNaivePeriod = 24

// SeasonalNaive predicts each point as the value one seasonal period earlier,
// drawn from the training data extended forward with its own predictions.
type SeasonalNaive struct {
	Period int

	train []float64
}

func NewSeasonalNaive(period int) *SeasonalNaive {
	return &SeasonalNaive{Period: period}
}

func (s *SeasonalNaive) Name() Method {
	return MethodSeasonalNaive
}

func (s *SeasonalNaive) Fit(y []float64) error {
	if s.Period < 1 {
		return fmt.Errorf("period of %d, %w", s.Period, ErrInvalidPeriod)
	}
	if len(y) < s.Period {
		return fmt.Errorf("have %d observations for period %d, %w", len(y), s.Period, ErrInsufficientData)
	}
	s.train = make([]float64, len(y))
	copy(s.train, y)
	return nil
}

func (s *SeasonalNaive) Forecast(horizon int) ([]float64, error) {
	if s.train == nil {
		return nil, ErrNotFitted
	}
	if horizon < 1 {
		return nil, fmt.Errorf("horizon of %d, %w", horizon, ErrInvalidHorizon)
	}

	history := make([]float64, len(s.train), len(s.train)+horizon)
	copy(history, s.train)

	// Fit guarantees at least one full period of history, so the lookback
	// index is always in range.
	res := make([]float64, 0, horizon)
	for i := 0; i < horizon; i++ {
		pred := history[len(history)-s.Period]
		res = append(res, pred)
		history = append(history, pred)
	}
	return res, nil
}
