package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestACF(t *testing.T) {
	t.Run("alternating series", func(t *testing.T) {
		y := []float64{1, -1, 1, -1, 1, -1, 1, -1}
		r, err := ACF(y, 2)
		require.NoError(t, err)
		assert.Equal(t, 1.0, r[0])
		assert.Less(t, r[1], 0.0)
		assert.Greater(t, r[2], 0.0)
	})

	t.Run("constant series", func(t *testing.T) {
		_, err := ACF([]float64{5, 5, 5, 5}, 2)
		require.ErrorIs(t, err, ErrConstantSeries)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := ACF([]float64{1}, 1)
		require.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("lag capped to length", func(t *testing.T) {
		r, err := ACF([]float64{1, 2, 3, 4}, 10)
		require.NoError(t, err)
		assert.Len(t, r, 4)
	})
}

func TestCorrelations(t *testing.T) {
	t.Run("perfectly correlated", func(t *testing.T) {
		cols := [][]float64{
			{1, 2, 3, 4},
			{2, 4, 6, 8},
			{4, 3, 2, 1},
		}
		m, err := Correlations(cols)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, m[0][1], 1e-12)
		assert.InDelta(t, -1.0, m[0][2], 1e-12)
		assert.InDelta(t, m[1][2], m[2][1], 1e-12)
		for i := range m {
			assert.Equal(t, 1.0, m[i][i])
		}
	})

	t.Run("nan rows excluded", func(t *testing.T) {
		cols := [][]float64{
			{math.NaN(), 1, 2, 3},
			{5, 2, 4, 6},
		}
		m, err := Correlations(cols)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, m[0][1], 1e-12)
	})

	t.Run("insufficient complete rows", func(t *testing.T) {
		cols := [][]float64{
			{math.NaN(), math.NaN(), 2},
			{1, 2, 3},
		}
		_, err := Correlations(cols)
		require.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := Correlations([][]float64{{1, 2}, {1}})
		require.ErrorIs(t, err, ErrColumnLenMismatch)
	})
}

func TestDecompose(t *testing.T) {
	period := 4
	n := 40
	y := make([]float64, n)
	for i := range y {
		y[i] = 0.5*float64(i) + 3.0*math.Sin(2.0*math.Pi*float64(i)/float64(period))
	}

	d, err := Decompose(y, period)
	require.NoError(t, err)
	require.Len(t, d.Trend, n)

	// components must sum back to the original wherever the trend is defined
	for i := 0; i < n; i++ {
		if math.IsNaN(d.Trend[i]) {
			assert.True(t, math.IsNaN(d.Residual[i]))
			continue
		}
		assert.InDelta(t, y[i], d.Trend[i]+d.Seasonal[i]+d.Residual[i], 1e-9)
	}

	// seasonal pattern repeats with the period
	for i := period; i < n; i++ {
		assert.InDelta(t, d.Seasonal[i-period], d.Seasonal[i], 1e-12)
	}
}

func TestDecomposeErrors(t *testing.T) {
	_, err := Decompose([]float64{1, 2, 3}, 4)
	require.ErrorIs(t, err, ErrInsufficientData)

	_, err = Decompose([]float64{1, 2, 3, 4}, 1)
	require.ErrorIs(t, err, ErrInvalidLag)
}
