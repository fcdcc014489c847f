package models

import (
	"fmt"
)

// ARIMAOrder holds the non-seasonal (p, d, q) order.
type ARIMAOrder struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

// DefaultARIMAOrder matches the fixed order used in the junction comparison.
func DefaultARIMAOrder() ARIMAOrder {
	return ARIMAOrder{P: 1, D: 1, Q: 1}
}

// ARIMA is a non-seasonal autoregressive integrated moving average model fit
// by conditional sum of squares.
type ARIMA struct {
	Order ARIMAOrder

	engine *cssEngine
	train  []float64
	diff   []float64
}

func NewARIMA(order ARIMAOrder) *ARIMA {
	return &ARIMA{Order: order}
}

func (a *ARIMA) Name() Method {
	return MethodARIMA
}

func (a *ARIMA) Fit(y []float64) error {
	minLen := a.Order.P + a.Order.D + a.Order.Q + 10
	if len(y) < minLen {
		return fmt.Errorf("have %d observations, need %d, %w", len(y), minLen, ErrInsufficientData)
	}

	a.train = make([]float64, len(y))
	copy(a.train, y)

	diff := a.train
	for i := 0; i < a.Order.D; i++ {
		diff = difference(diff, 1)
		if len(diff) == 0 {
			return fmt.Errorf("differencing emptied the series, %w", ErrInsufficientData)
		}
	}
	a.diff = diff

	engine := newCSSEngine(a.Order.P, a.Order.Q, 0, 0, 0)
	if err := engine.fit(a.diff); err != nil {
		return fmt.Errorf("unable to fit arima%v, %w", a.Order, err)
	}
	a.engine = engine
	return nil
}

func (a *ARIMA) Forecast(horizon int) ([]float64, error) {
	if a.engine == nil {
		return nil, ErrNotFitted
	}
	if horizon < 1 {
		return nil, fmt.Errorf("horizon of %d, %w", horizon, ErrInvalidHorizon)
	}

	res := a.engine.forecast(a.diff, horizon)

	// undo the differencing from innermost to outermost
	for i := a.Order.D - 1; i >= 0; i-- {
		prior := a.train
		for j := 0; j < i; j++ {
			prior = difference(prior, 1)
		}
		res = integrate(res, prior, 1)
	}
	return res, nil
}
