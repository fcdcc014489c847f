package models

import (
	"errors"
)

var (
	ErrNotFitted        = errors.New("model must be fitted before forecasting")
	ErrInsufficientData = errors.New("insufficient data points for the model order")
	ErrInvalidWindow    = errors.New("window size must be at least 1")
	ErrInvalidPeriod    = errors.New("seasonal period must be at least 1")
	ErrInvalidHorizon   = errors.New("horizon must be at least 1")
	ErrFitDiverged      = errors.New("model fit diverged")
)
