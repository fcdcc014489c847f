package evaluate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficlab/junctioncast/models"
	"github.com/trafficlab/junctioncast/timedataset"
)

func TestNewScores(t *testing.T) {
	testData := map[string]struct {
		predicted []float64
		actual    []float64
		mae       float64
		mse       float64
		err       error
	}{
		"perfect match": {
			predicted: []float64{1, 2, 3},
			actual:    []float64{1, 2, 3},
			mae:       0,
			mse:       0,
		},
		"constant offset": {
			predicted: []float64{3, 3, 3, 3},
			actual:    []float64{1, 5, 1, 5},
			mae:       2,
			mse:       4,
		},
		"nan positions ignored": {
			predicted: []float64{math.NaN(), 2, 4},
			actual:    []float64{1, math.NaN(), 1},
			mae:       3,
			mse:       9,
		},
		"length mismatch": {
			predicted: []float64{1, 2},
			actual:    []float64{1, 2, 3},
			err:       ErrResLenMismatch,
		},
		"all undefined": {
			predicted: []float64{math.NaN(), math.NaN()},
			actual:    []float64{1, 2},
			err:       ErrNoValidPoints,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			scores, err := NewScores(td.predicted, td.actual)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, td.mae, scores.MAE, 1e-12)
			assert.InDelta(t, td.mse, scores.MSE, 1e-12)
			assert.InDelta(t, scores.MSE, scores.RMSE*scores.RMSE, 1e-9)
		})
	}
}

func TestTableSort(t *testing.T) {
	tb := Table{
		{Junction: 2, Method: models.MethodSARIMA},
		{Junction: 1, Method: models.MethodSeasonalNaive},
		{Junction: 2, Method: models.MethodARIMA},
		{Junction: 1, Method: models.MethodARIMA, Err: "fit diverged"},
	}
	tb.Sort()

	assert.Equal(t, timedataset.Junction(1), tb[0].Junction)
	assert.Equal(t, models.MethodARIMA, tb[0].Method)
	assert.True(t, tb[0].Failed())
	assert.Equal(t, models.MethodSeasonalNaive, tb[1].Method)
	assert.Equal(t, timedataset.Junction(2), tb[2].Junction)
	assert.Equal(t, models.MethodARIMA, tb[2].Method)
}
