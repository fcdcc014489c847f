// Package junctioncast compares univariate forecasting baselines on hourly
// vehicle counts at a fixed set of road junctions. A pipeline run loads and
// cleans the raw CSV, derives per-junction features, splits each series
// chronologically, fits each baseline on the training prefix, and scores the
// forecasts against the held-out suffix into one comparison table.
package junctioncast

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/trafficlab/junctioncast/evaluate"
	"github.com/trafficlab/junctioncast/feature"
	"github.com/trafficlab/junctioncast/loader"
	"github.com/trafficlab/junctioncast/models"
	"github.com/trafficlab/junctioncast/timedataset"
)

// Pipeline runs the full comparison. Each (junction, method) cell is
// independent; a cell that cannot be fit is recorded as failed and never
// aborts the remaining cells.
type Pipeline struct {
	opt *Options
}

// New creates a Pipeline using the provided options. If no options are
// provided a default is used.
func New(opt *Options) *Pipeline {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	return &Pipeline{opt: opt}
}

// RunFile loads the CSV at path and runs the comparison over every junction
// found in it.
func (p *Pipeline) RunFile(path string) (*Results, error) {
	series, stats, err := loader.Load(path, p.opt.LoaderOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to load input, %w", err)
	}
	slog.Info("loaded input",
		"rows", stats.Rows, "kept", stats.Kept,
		"dropped", stats.Dropped, "junctions", len(series))

	res, err := p.Run(series)
	if err != nil {
		return nil, err
	}
	res.Stats = stats
	return res, nil
}

// Run executes the comparison over already-loaded per-junction series.
func (p *Pipeline) Run(series map[timedataset.Junction]*timedataset.TimeDataset) (*Results, error) {
	if len(series) == 0 {
		return nil, loader.ErrNoUsableJunctions
	}

	junctions := make([]timedataset.Junction, 0, len(series))
	for junction := range series {
		junctions = append(junctions, junction)
	}
	sort.Slice(junctions, func(i, j int) bool { return junctions[i] < junctions[j] })

	res := &Results{
		Junctions: make(map[timedataset.Junction]*JunctionResult, len(series)),
		Scale:     p.opt.Scale,
	}

	for _, junction := range junctions {
		jr, records := p.runJunction(junction, series[junction])
		if jr != nil {
			res.Junctions[junction] = jr
		}
		res.Table = append(res.Table, records...)
	}

	res.Table.Sort()
	return res, nil
}

// runJunction evaluates every method on one junction. A split failure marks
// all cells failed; a single method failure marks only its own cell.
func (p *Pipeline) runJunction(junction timedataset.Junction, td *timedataset.TimeDataset) (*JunctionResult, []evaluate.Record) {
	derived := feature.Derive(td, p.opt.FeatureOptions)

	split, err := td.SplitAt(p.opt.SplitFraction)
	if err != nil {
		slog.Warn("unable to split series", "junction", junction, "error", err.Error())
		records := make([]evaluate.Record, 0, len(models.Methods()))
		for _, method := range models.Methods() {
			records = append(records, evaluate.Record{
				Junction: junction,
				Method:   method,
				Err:      err.Error(),
			})
		}
		return nil, records
	}

	jr := &JunctionResult{
		Junction:  junction,
		Derived:   derived,
		Split:     split,
		Forecasts: make(map[models.Method][]float64, len(models.Methods())),
	}

	actuals := split.Test.Y
	if p.opt.Scale == ScaleLog {
		actuals = split.Test.Log1p().Y
	}

	records := make([]evaluate.Record, 0, len(models.Methods()))
	for _, method := range models.Methods() {
		rec := evaluate.Record{Junction: junction, Method: method}

		forecast, err := p.runCell(method, split)
		if err != nil {
			slog.Warn("cell failed", "junction", junction, "method", method, "error", err.Error())
			rec.Err = err.Error()
			records = append(records, rec)
			continue
		}
		jr.Forecasts[method] = forecast

		scores, err := evaluate.NewScores(forecast, actuals)
		if err != nil {
			rec.Err = err.Error()
			records = append(records, rec)
			continue
		}
		rec.Scores = scores
		records = append(records, rec)
	}
	return jr, records
}

// runCell fits one method on the training prefix and forecasts the test
// horizon on the configured scale. The ARIMA family always fits on the
// log1p-transformed series to stabilize variance; its forecasts are mapped
// back with expm1 when the raw scale is selected.
func (p *Pipeline) runCell(method models.Method, split timedataset.Split) ([]float64, error) {
	train := split.Train.Y
	testActuals := split.Test.Y
	if p.opt.Scale == ScaleLog {
		train = split.Train.Log1p().Y
		testActuals = split.Test.Log1p().Y
	}

	var m models.Model
	fitY := train
	logFit := false
	switch method {
	case models.MethodMovingAverage:
		m = models.NewMovingAverage(p.opt.Window)
	case models.MethodSeasonalNaive:
		m = models.NewSeasonalNaive(p.opt.NaivePeriod)
	case models.MethodARIMA:
		m = models.NewARIMA(p.opt.ARIMAOrder)
		fitY = split.Train.Log1p().Y
		logFit = true
	case models.MethodSARIMA:
		m = models.NewSARIMA(p.opt.SARIMAOrder)
		fitY = split.Train.Log1p().Y
		logFit = true
	default:
		return nil, fmt.Errorf("unknown method %q", method)
	}

	if err := m.Fit(fitY); err != nil {
		return nil, err
	}

	var res []float64
	var err error
	if r, ok := m.(models.Rolling); ok {
		res, err = r.ForecastRolling(testActuals)
	} else {
		res, err = m.Forecast(split.Test.Len())
	}
	if err != nil {
		return nil, err
	}
	if logFit {
		res = p.fromLogScale(res)
	}
	return res, nil
}

func (p *Pipeline) fromLogScale(forecast []float64) []float64 {
	if p.opt.Scale == ScaleLog {
		return forecast
	}
	out := make([]float64, len(forecast))
	for i, v := range forecast {
		out[i] = math.Expm1(v)
	}
	return out
}
