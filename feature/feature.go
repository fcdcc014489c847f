// Package feature derives per-record analysis columns from a junction's raw
// count series: calendar fields, the log1p transform, short lags, and first
// differences. Lags and differences never cross junction boundaries since
// each series is derived independently.
package feature

import (
	"errors"
	"math"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"

	"github.com/trafficlab/junctioncast/timedataset"
)

// NumLags is the number of trailing lag columns derived per record.
const NumLags = 3

var ErrInsufficientData = errors.New("no complete rows after lag filtering")

type Options struct {
	// Calendar flags public holidays in the derived calendar fields. Defaults
	// to the US holiday calendar.
	Calendar *cal.BusinessCalendar
}

func NewDefaultOptions() *Options {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(us.Holidays...)
	return &Options{Calendar: c}
}

// DerivedSeries extends a TimeDataset with computed columns. All column
// slices have the same length as the underlying dataset. Lag k is NaN for
// the first k records and Diff is NaN for the first record.
type DerivedSeries struct {
	*timedataset.TimeDataset

	DayOfWeek []time.Weekday
	Month     []time.Month
	Hour      []int
	Weekend   []bool
	Holiday   []bool

	Log1p []float64
	Lags  [NumLags][]float64
	Diff  []float64
}

// Derive computes all derived columns for one junction series.
func Derive(td *timedataset.TimeDataset, opt *Options) *DerivedSeries {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	n := td.Len()

	ds := &DerivedSeries{
		TimeDataset: td.Copy(),
		DayOfWeek:   make([]time.Weekday, n),
		Month:       make([]time.Month, n),
		Hour:        make([]int, n),
		Weekend:     make([]bool, n),
		Holiday:     make([]bool, n),
		Log1p:       make([]float64, n),
		Diff:        make([]float64, n),
	}
	for k := range ds.Lags {
		ds.Lags[k] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		pnt := ds.T[i]
		ds.DayOfWeek[i] = pnt.Weekday()
		ds.Month[i] = pnt.Month()
		ds.Hour[i] = pnt.Hour()

		switch pnt.Weekday() {
		case time.Saturday, time.Sunday:
			ds.Weekend[i] = true
		}
		if opt.Calendar != nil {
			actual, observed, _ := opt.Calendar.IsHoliday(pnt)
			ds.Holiday[i] = actual || observed
		}

		ds.Log1p[i] = math.Log1p(ds.Y[i])

		for k := range ds.Lags {
			if i <= k {
				ds.Lags[k][i] = math.NaN()
				continue
			}
			ds.Lags[k][i] = ds.Y[i-k-1]
		}

		if i == 0 {
			ds.Diff[i] = math.NaN()
			continue
		}
		ds.Diff[i] = ds.Y[i] - ds.Y[i-1]
	}
	return ds
}

// Complete returns a copy holding only the rows whose lag and difference
// columns are all defined, i.e. rows from index NumLags onward. Used before
// correlation analysis. Returns ErrInsufficientData when nothing survives.
func (ds *DerivedSeries) Complete() (*DerivedSeries, error) {
	n := ds.Len()
	if n <= NumLags {
		return nil, ErrInsufficientData
	}
	out := &DerivedSeries{
		TimeDataset: ds.Slice(NumLags, n),
		DayOfWeek:   append([]time.Weekday(nil), ds.DayOfWeek[NumLags:]...),
		Month:       append([]time.Month(nil), ds.Month[NumLags:]...),
		Hour:        append([]int(nil), ds.Hour[NumLags:]...),
		Weekend:     append([]bool(nil), ds.Weekend[NumLags:]...),
		Holiday:     append([]bool(nil), ds.Holiday[NumLags:]...),
		Log1p:       append([]float64(nil), ds.Log1p[NumLags:]...),
		Diff:        append([]float64(nil), ds.Diff[NumLags:]...),
	}
	for k := range ds.Lags {
		out.Lags[k] = append([]float64(nil), ds.Lags[k][NumLags:]...)
	}
	return out, nil
}

// LagColumns returns the value column alongside every lag and difference
// column with their labels, for correlation analysis over complete rows.
func (ds *DerivedSeries) LagColumns() ([]string, [][]float64) {
	labels := []string{"vehicles", "lag_1", "lag_2", "lag_3", "diff"}
	cols := [][]float64{ds.Y, ds.Lags[0], ds.Lags[1], ds.Lags[2], ds.Diff}
	return labels, cols
}
