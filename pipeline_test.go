package junctioncast

import (
	"math"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficlab/junctioncast/evaluate"
	"github.com/trafficlab/junctioncast/models"
	"github.com/trafficlab/junctioncast/timedataset"
)

func generateTraffic(t *testing.T, n int, bias, amp float64) *timedataset.TimeDataset {
	t.Helper()
	start := time.Date(2015, 11, 1, 0, 0, 0, 0, time.UTC)
	y := make([]float64, n)
	for i := range y {
		daily := amp * math.Sin(2.0*math.Pi*float64(i)/24.0)
		y[i] = math.Max(0, math.Round(bias+daily+0.01*float64(i)))
	}
	td, err := timedataset.NewUnivariateDataset(timedataset.GenerateT(n, start), y)
	require.NoError(t, err)
	return td
}

func TestPipelineRun(t *testing.T) {
	series := map[timedataset.Junction]*timedataset.TimeDataset{
		1: generateTraffic(t, 240, 30, 12),
		2: generateTraffic(t, 240, 12, 5),
	}

	p := New(nil)
	res, err := p.Run(series)
	require.NoError(t, err)

	require.Len(t, res.Table, len(series)*len(models.Methods()))
	require.Len(t, res.Junctions, 2)

	// table stays ordered by junction then method
	for i := 1; i < len(res.Table); i++ {
		prev, curr := res.Table[i-1], res.Table[i]
		ordered := prev.Junction < curr.Junction ||
			(prev.Junction == curr.Junction && prev.Method <= curr.Method)
		assert.True(t, ordered, "table out of order at %d", i)
	}

	for _, rec := range res.Table {
		require.False(t, rec.Failed(), "cell (%v, %v) failed: %s", rec.Junction, rec.Method, rec.Err)
		assert.InDelta(t, rec.Scores.MSE, rec.Scores.RMSE*rec.Scores.RMSE, 1e-9)
		assert.GreaterOrEqual(t, rec.Scores.MAE, 0.0)
	}

	horizon := res.Junctions[1].Split.Test.Len()
	for _, method := range models.Methods() {
		assert.Len(t, res.Junctions[1].Forecasts[method], horizon)
	}
}

func TestPipelineIdempotent(t *testing.T) {
	series := map[timedataset.Junction]*timedataset.TimeDataset{
		1: generateTraffic(t, 240, 30, 12),
		3: generateTraffic(t, 240, 20, 8),
	}

	first, err := New(nil).Run(series)
	require.NoError(t, err)
	second, err := New(nil).Run(series)
	require.NoError(t, err)

	assert.Equal(t, first.Table, second.Table)
}

func TestPipelineShortJunction(t *testing.T) {
	start := time.Date(2015, 11, 1, 0, 0, 0, 0, time.UTC)
	y := []float64{10, 12, 11, 13, 14, 15, 16, 14, 13, 12}
	td, err := timedataset.NewUnivariateDataset(timedataset.GenerateT(len(y), start), y)
	require.NoError(t, err)

	res, err := New(nil).Run(map[timedataset.Junction]*timedataset.TimeDataset{1: td})
	require.NoError(t, err)
	require.Len(t, res.Table, len(models.Methods()))

	byMethod := make(map[models.Method]evaluate.Record)
	for _, rec := range res.Table {
		byMethod[rec.Method] = rec
	}

	// the moving average still works on 8 training rows; the seasonal and
	// ARIMA family methods fail on insufficient data but stay in the table
	ma := byMethod[models.MethodMovingAverage]
	require.False(t, ma.Failed(), "moving average failed: %s", ma.Err)

	for _, method := range []models.Method{models.MethodSeasonalNaive, models.MethodARIMA, models.MethodSARIMA} {
		rec := byMethod[method]
		assert.True(t, rec.Failed(), "%v should have failed", method)
		assert.NotEmpty(t, rec.Err)
	}

	// first test prediction is the mean of the last three training values
	forecast := res.Junctions[1].Forecasts[models.MethodMovingAverage]
	require.Len(t, forecast, 2)
	assert.InDelta(t, (15.0+16.0+14.0)/3.0, forecast[0], 1e-12)
}

func TestPipelineTooShortToSplit(t *testing.T) {
	start := time.Date(2015, 11, 1, 0, 0, 0, 0, time.UTC)
	td, err := timedataset.NewUnivariateDataset(timedataset.GenerateT(1, start), []float64{5})
	require.NoError(t, err)

	res, err := New(nil).Run(map[timedataset.Junction]*timedataset.TimeDataset{7: td})
	require.NoError(t, err)

	require.Len(t, res.Table, len(models.Methods()))
	for _, rec := range res.Table {
		assert.True(t, rec.Failed())
		assert.Contains(t, rec.Err, timedataset.ErrTooShort.Error())
	}
}

func TestPipelineNoJunctions(t *testing.T) {
	_, err := New(nil).Run(nil)
	require.Error(t, err)
}

func TestPipelineLogScale(t *testing.T) {
	opt := NewDefaultOptions()
	opt.Scale = ScaleLog

	series := map[timedataset.Junction]*timedataset.TimeDataset{
		1: generateTraffic(t, 240, 30, 12),
	}
	res, err := New(opt).Run(series)
	require.NoError(t, err)

	raw, err := New(nil).Run(series)
	require.NoError(t, err)

	for i, rec := range res.Table {
		if rec.Failed() || raw.Table[i].Failed() {
			continue
		}
		// log-scale errors are on a compressed scale
		assert.Less(t, rec.Scores.RMSE, raw.Table[i].Scores.RMSE)
	}
}

func TestResultsToJSON(t *testing.T) {
	series := map[timedataset.Junction]*timedataset.TimeDataset{
		1: generateTraffic(t, 240, 30, 12),
	}
	res, err := New(nil).Run(series)
	require.NoError(t, err)

	out, err := res.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(out), "comparison")
	assert.Contains(t, string(out), "root_mean_squared_error")

	var decoded struct {
		Forecasts map[string]map[string][]*float64 `json:"forecasts"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Contains(t, decoded.Forecasts, "1")
	forecast := decoded.Forecasts["1"][string(models.MethodMovingAverage)]
	assert.Len(t, forecast, res.Junctions[1].Split.Test.Len())
	require.NotNil(t, forecast[0])
	assert.InDelta(t, res.Junctions[1].Forecasts[models.MethodMovingAverage][0], *forecast[0], 1e-9)
}

func TestResultsToJSONUndefinedForecast(t *testing.T) {
	// A three-row junction splits 2/1, leaving the moving average with less
	// history than its window, so its single forecast position is undefined.
	// The export must render that position as null rather than fail on NaN.
	t0 := time.Date(2015, time.November, 1, 0, 0, 0, 0, time.UTC)
	ds, err := timedataset.NewUnivariateDataset(timedataset.GenerateT(3, t0), []float64{12, 15, 14})
	require.NoError(t, err)

	res, err := New(nil).Run(map[timedataset.Junction]*timedataset.TimeDataset{1: ds})
	require.NoError(t, err)

	out, err := res.ToJSON()
	require.NoError(t, err)

	var decoded struct {
		Forecasts map[string]map[string][]*float64 `json:"forecasts"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	forecast := decoded.Forecasts["1"][string(models.MethodMovingAverage)]
	require.Len(t, forecast, 1)
	assert.Nil(t, forecast[0])
}
