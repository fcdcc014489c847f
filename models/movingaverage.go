package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const DefaultWindow = 3

// MovingAverage predicts each point as the mean of the trailing window of
// observed values. Under ForecastRolling the window slides over the training
// tail concatenated with the test actuals seen so far; positions with fewer
// than window observed values behind them are NaN.
type MovingAverage struct {
	Window int

	train []float64
}

func NewMovingAverage(window int) *MovingAverage {
	return &MovingAverage{Window: window}
}

func (m *MovingAverage) Name() Method {
	return MethodMovingAverage
}

func (m *MovingAverage) Fit(y []float64) error {
	if m.Window < 1 {
		return fmt.Errorf("window of %d, %w", m.Window, ErrInvalidWindow)
	}
	if len(y) == 0 {
		return ErrInsufficientData
	}
	m.train = make([]float64, len(y))
	copy(m.train, y)
	return nil
}

// Forecast extends the history with its own predictions, so every step past
// the first window converges to a constant. Preferred only when the test
// actuals are unavailable; see ForecastRolling.
func (m *MovingAverage) Forecast(horizon int) ([]float64, error) {
	if m.train == nil {
		return nil, ErrNotFitted
	}
	if horizon < 1 {
		return nil, fmt.Errorf("horizon of %d, %w", horizon, ErrInvalidHorizon)
	}

	history := make([]float64, len(m.train), len(m.train)+horizon)
	copy(history, m.train)

	res := make([]float64, 0, horizon)
	for i := 0; i < horizon; i++ {
		pred := m.trailingMean(history)
		res = append(res, pred)
		history = append(history, pred)
	}
	return res, nil
}

// ForecastRolling predicts one step ahead per test position using the actual
// values observed so far.
func (m *MovingAverage) ForecastRolling(actuals []float64) ([]float64, error) {
	if m.train == nil {
		return nil, ErrNotFitted
	}
	if len(actuals) == 0 {
		return nil, fmt.Errorf("horizon of %d, %w", len(actuals), ErrInvalidHorizon)
	}

	history := make([]float64, len(m.train), len(m.train)+len(actuals))
	copy(history, m.train)

	res := make([]float64, 0, len(actuals))
	for i := 0; i < len(actuals); i++ {
		res = append(res, m.trailingMean(history))
		history = append(history, actuals[i])
	}
	return res, nil
}

func (m *MovingAverage) trailingMean(history []float64) float64 {
	if len(history) < m.Window {
		return math.NaN()
	}
	tail := history[len(history)-m.Window:]
	return floats.Sum(tail) / float64(m.Window)
}
