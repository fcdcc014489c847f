// Package stats holds the exploratory statistics behind the report layer:
// autocorrelations, lag-feature correlation matrices, and classical seasonal
// decomposition.
package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrInsufficientData  = errors.New("insufficient complete rows for correlation")
	ErrColumnLenMismatch = errors.New("columns have inconsistent lengths")
	ErrNoColumns         = errors.New("no columns given")
	ErrConstantSeries    = errors.New("series has zero variance")
	ErrInvalidLag        = errors.New("lag count must be at least 1")
)

// ACF computes autocorrelations of y up to maxLag, with lag 0 pinned to 1.
func ACF(y []float64, maxLag int) ([]float64, error) {
	n := len(y)
	if maxLag < 1 {
		return nil, ErrInvalidLag
	}
	if n < 2 {
		return nil, fmt.Errorf("have %d points, %w", n, ErrInsufficientData)
	}
	if maxLag >= n {
		maxLag = n - 1
	}

	mean := stat.Mean(y, nil)
	var c0 float64
	for _, v := range y {
		c0 += (v - mean) * (v - mean)
	}
	if c0 == 0 {
		return nil, ErrConstantSeries
	}

	r := make([]float64, maxLag+1)
	r[0] = 1
	for k := 1; k <= maxLag; k++ {
		var ck float64
		for t := k; t < n; t++ {
			ck += (y[t] - mean) * (y[t-k] - mean)
		}
		r[k] = ck / c0
	}
	return r, nil
}

// Correlations computes the Pearson correlation matrix over the given
// columns. Rows containing NaN in any column are excluded before computing;
// fewer than two surviving rows is an ErrInsufficientData.
func Correlations(cols [][]float64) ([][]float64, error) {
	if len(cols) == 0 {
		return nil, ErrNoColumns
	}
	n := len(cols[0])
	for _, col := range cols[1:] {
		if len(col) != n {
			return nil, ErrColumnLenMismatch
		}
	}

	complete := make([][]float64, len(cols))
	for i := range complete {
		complete[i] = make([]float64, 0, n)
	}
	for row := 0; row < n; row++ {
		valid := true
		for _, col := range cols {
			if math.IsNaN(col[row]) {
				valid = false
				break
			}
		}
		if !valid {
			continue
		}
		for i, col := range cols {
			complete[i] = append(complete[i], col[row])
		}
	}
	if len(complete[0]) < 2 {
		return nil, fmt.Errorf("have %d complete rows, %w", len(complete[0]), ErrInsufficientData)
	}

	out := make([][]float64, len(cols))
	for i := range out {
		out[i] = make([]float64, len(cols))
		out[i][i] = 1
	}
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			c := stat.Correlation(complete[i], complete[j], nil)
			out[i][j] = c
			out[j][i] = c
		}
	}
	return out, nil
}
