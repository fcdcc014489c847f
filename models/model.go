// Package models is a collection of univariate forecasting baselines used to
// compare junction traffic predictions: moving average, seasonal naive,
// ARIMA, and SARIMA.
package models

// Method names one forecasting baseline in the comparison table.
type Method string

const (
	MethodMovingAverage Method = "moving_average"
	MethodSeasonalNaive Method = "seasonal_naive"
	MethodARIMA         Method = "arima"
	MethodSARIMA        Method = "sarima"
)

// Methods lists all baselines in their reporting order.
func Methods() []Method {
	return []Method{
		MethodMovingAverage,
		MethodSeasonalNaive,
		MethodARIMA,
		MethodSARIMA,
	}
}

// Model fits on a training series and produces point forecasts covering a
// horizon. Positions a model cannot predict are NaN in the forecast and
// skipped by the evaluator.
type Model interface {
	Name() Method
	Fit(y []float64) error
	Forecast(horizon int) ([]float64, error)
}

// Rolling is implemented by models whose predictions slide forward one step
// at a time over the actual values observed so far, rather than forecasting
// the whole horizon from the end of training.
type Rolling interface {
	ForecastRolling(actuals []float64) ([]float64, error)
}
