package junctioncast

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"

	"github.com/trafficlab/junctioncast/evaluate"
	"github.com/trafficlab/junctioncast/feature"
	"github.com/trafficlab/junctioncast/loader"
	"github.com/trafficlab/junctioncast/models"
	"github.com/trafficlab/junctioncast/timedataset"
)

// JunctionResult carries everything the report layer needs for one junction:
// the derived series for exploratory plots, the chronological split, and the
// point forecasts per method aligned with the test set.
type JunctionResult struct {
	Junction  timedataset.Junction
	Derived   *feature.DerivedSeries
	Split     timedataset.Split
	Forecasts map[models.Method][]float64
}

// Results is the output of one full pipeline run.
type Results struct {
	Junctions map[timedataset.Junction]*JunctionResult
	Table     evaluate.Table
	Stats     loader.Stats
	Scale     Scale
}

// nullableFloat marshals NaN as null so forecast sequences with undefined
// positions stay valid JSON.
type nullableFloat float64

func (f nullableFloat) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

type resultsExport struct {
	Comparison evaluate.Table                                             `json:"comparison"`
	Forecasts  map[timedataset.Junction]map[models.Method][]nullableFloat `json:"forecasts"`
	Stats      loader.Stats                                               `json:"load_stats"`
	Scale      Scale                                                      `json:"scale"`
}

// ToJSON serializes the comparison table, the per-junction forecast
// sequences, and the load stats.
func (r *Results) ToJSON() ([]byte, error) {
	export := resultsExport{
		Comparison: r.Table,
		Forecasts:  make(map[timedataset.Junction]map[models.Method][]nullableFloat, len(r.Junctions)),
		Stats:      r.Stats,
		Scale:      r.Scale,
	}
	for junction, jr := range r.Junctions {
		byMethod := make(map[models.Method][]nullableFloat, len(jr.Forecasts))
		for method, forecast := range jr.Forecasts {
			vals := make([]nullableFloat, len(forecast))
			for i, v := range forecast {
				vals[i] = nullableFloat(v)
			}
			byMethod[method] = vals
		}
		export.Forecasts[junction] = byMethod
	}

	out, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("unable to marshal results, %w", err)
	}
	return out, nil
}
