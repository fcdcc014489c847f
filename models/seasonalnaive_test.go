package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonalNaiveForecast(t *testing.T) {
	testData := map[string]struct {
		period   int
		train    []float64
		horizon  int
		expected []float64
	}{
		"period two extends forward": {
			period:   2,
			train:    []float64{1, 2, 3, 4},
			horizon:  3,
			expected: []float64{3, 4, 3},
		},
		"single period of history stays defined past the horizon": {
			period:   3,
			train:    []float64{5, 7, 9},
			horizon:  7,
			expected: []float64{5, 7, 9, 5, 7, 9, 5},
		},
		"daily cycle repeats": {
			period:   4,
			train:    []float64{10, 20, 30, 40, 10, 20, 30, 40},
			horizon:  6,
			expected: []float64{10, 20, 30, 40, 10, 20},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			m := NewSeasonalNaive(td.period)
			require.NoError(t, m.Fit(td.train))

			res, err := m.Forecast(td.horizon)
			require.NoError(t, err)
			assert.InDeltaSlice(t, td.expected, res, 1e-12)
		})
	}
}

func TestSeasonalNaiveErrors(t *testing.T) {
	m := NewSeasonalNaive(0)
	require.ErrorIs(t, m.Fit([]float64{1, 2}), ErrInvalidPeriod)

	m = NewSeasonalNaive(24)
	require.ErrorIs(t, m.Fit([]float64{1, 2, 3}), ErrInsufficientData)

	_, err := m.Forecast(2)
	require.ErrorIs(t, err, ErrNotFitted)

	m = NewSeasonalNaive(2)
	require.NoError(t, m.Fit([]float64{1, 2, 3, 4}))
	_, err = m.Forecast(0)
	require.ErrorIs(t, err, ErrInvalidHorizon)
}
