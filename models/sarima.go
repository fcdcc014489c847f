package models

import (
	"fmt"
)

// SARIMAOrder holds the non-seasonal (p, d, q) and seasonal (P, D, Q) orders
// with the seasonal period.
type SARIMAOrder struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`

	SP     int `json:"seasonal_p"`
	SD     int `json:"seasonal_d"`
	SQ     int `json:"seasonal_q"`
	Period int `json:"seasonal_period"`
}

// DefaultSARIMAOrder matches the fixed order used in the junction comparison.
// The seasonal period of 12 differs from the seasonal naive period of 24;
// both are kept as independent settings on purpose.
func DefaultSARIMAOrder() SARIMAOrder {
	return SARIMAOrder{P: 1, D: 1, Q: 1, SP: 1, SD: 1, SQ: 1, Period: 12}
}

// SARIMA is an ARIMA model with an added seasonal component, fit by
// conditional sum of squares.
type SARIMA struct {
	Order SARIMAOrder

	engine *cssEngine
	train  []float64
	diff   []float64
}

func NewSARIMA(order SARIMAOrder) *SARIMA {
	return &SARIMA{Order: order}
}

func (s *SARIMA) Name() Method {
	return MethodSARIMA
}

func (s *SARIMA) Fit(y []float64) error {
	o := s.Order
	if o.Period < 1 && (o.SP > 0 || o.SD > 0 || o.SQ > 0) {
		return fmt.Errorf("period of %d, %w", o.Period, ErrInvalidPeriod)
	}
	minLen := o.P + o.D + o.Q + (o.SP+o.SD+o.SQ)*o.Period + 20
	if len(y) < minLen {
		return fmt.Errorf("have %d observations, need %d, %w", len(y), minLen, ErrInsufficientData)
	}

	s.train = make([]float64, len(y))
	copy(s.train, y)

	diff := s.train
	for i := 0; i < o.D; i++ {
		diff = difference(diff, 1)
		if len(diff) == 0 {
			return fmt.Errorf("differencing emptied the series, %w", ErrInsufficientData)
		}
	}
	for i := 0; i < o.SD; i++ {
		diff = difference(diff, o.Period)
		if len(diff) == 0 {
			return fmt.Errorf("seasonal differencing emptied the series, %w", ErrInsufficientData)
		}
	}
	s.diff = diff

	engine := newCSSEngine(o.P, o.Q, o.SP, o.SQ, o.Period)
	if err := engine.fit(s.diff); err != nil {
		return fmt.Errorf("unable to fit sarima%v, %w", o, err)
	}
	s.engine = engine
	return nil
}

func (s *SARIMA) Forecast(horizon int) ([]float64, error) {
	if s.engine == nil {
		return nil, ErrNotFitted
	}
	if horizon < 1 {
		return nil, fmt.Errorf("horizon of %d, %w", horizon, ErrInvalidHorizon)
	}

	o := s.Order
	res := s.engine.forecast(s.diff, horizon)

	// undo differencing in reverse application order: seasonal first, then
	// regular, seeding each stage from the series at that differencing level
	for i := o.SD - 1; i >= 0; i-- {
		res = integrate(res, s.stage(o.D, i), o.Period)
	}
	for i := o.D - 1; i >= 0; i-- {
		res = integrate(res, s.stage(i, 0), 1)
	}
	return res, nil
}

// stage returns the training series after d regular and sd seasonal
// differences.
func (s *SARIMA) stage(d, sd int) []float64 {
	out := s.train
	for i := 0; i < d; i++ {
		out = difference(out, 1)
	}
	for i := 0; i < sd; i++ {
		out = difference(out, s.Order.Period)
	}
	return out
}
