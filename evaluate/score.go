// Package evaluate computes forecast accuracy metrics and assembles the
// per-junction, per-method comparison table.
package evaluate

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/trafficlab/junctioncast/models"
	"github.com/trafficlab/junctioncast/timedataset"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrNoValidPoints  = errors.New("no overlapping defined points between predicted and actual")
)

// Scores tracks the error metrics of one forecast against the held-out
// actuals. Positions where either side is NaN are ignored.
type Scores struct {
	MAE  float64 `json:"mean_absolute_error"`
	MSE  float64 `json:"mean_squared_error"`
	RMSE float64 `json:"root_mean_squared_error"`
}

// NewScores calculates the error metrics given the predicted and actual
// input slice values.
func NewScores(predicted, actual []float64) (*Scores, error) {
	if len(predicted) != len(actual) {
		return nil, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	var absSum, sqSum float64
	var n int
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		diff := actual[i] - predicted[i]
		absSum += math.Abs(diff)
		sqSum += diff * diff
		n++
	}
	if n == 0 {
		return nil, ErrNoValidPoints
	}

	mse := sqSum / float64(n)
	return &Scores{
		MAE:  absSum / float64(n),
		MSE:  mse,
		RMSE: math.Sqrt(mse),
	}, nil
}

// Record is one cell of the comparison table. Failed cells carry the failure
// reason and a nil Scores instead of being dropped.
type Record struct {
	Junction timedataset.Junction `json:"junction"`
	Method   models.Method        `json:"method"`
	Scores   *Scores              `json:"scores,omitempty"`
	Err      string               `json:"error,omitempty"`
}

// Failed reports whether the cell produced no usable metrics.
func (r Record) Failed() bool {
	return r.Scores == nil
}

// Table is the full comparison across junctions and methods.
type Table []Record

// Sort orders the table by junction then method for stable reporting.
func (tb Table) Sort() {
	sort.SliceStable(tb, func(i, j int) bool {
		if tb[i].Junction != tb[j].Junction {
			return tb[i].Junction < tb[j].Junction
		}
		return tb[i].Method < tb[j].Method
	})
}
