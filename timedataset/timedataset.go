package timedataset

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrNoObservations = errors.New("no observations")
	ErrNonMonotonic   = errors.New("time feature is not monotonic")
	ErrLenMismatch    = errors.New("time feature has a different length than observations")
	ErrTooShort       = errors.New("series too short to split")
	ErrEmptySide      = errors.New("split fraction leaves an empty train or test set")
)

// Junction identifies one monitored road junction by its integer code.
type Junction int

func (j Junction) String() string {
	return fmt.Sprintf("junction_%d", int(j))
}

// TimeDataset holds one junction's hourly vehicle counts as parallel time and
// value slices of equal length, strictly increasing in time.
type TimeDataset struct {
	T []time.Time
	Y []float64
}

// NewUnivariateDataset validates and deep-copies the input slices into a
// TimeDataset. Timestamps must be strictly increasing.
func NewUnivariateDataset(t []time.Time, y []float64) (*TimeDataset, error) {
	if len(y) == 0 {
		return nil, ErrNoObservations
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrLenMismatch,
		)
	}

	var lastT time.Time
	for i := 0; i < len(t); i++ {
		currT := t[i]
		if currT.Before(lastT) || currT.Equal(lastT) {
			return nil, fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMonotonic)
		}
		lastT = currT
	}

	tSeries := make([]time.Time, len(t))
	ySeries := make([]float64, len(t))
	copy(tSeries, t)
	copy(ySeries, y)
	return &TimeDataset{T: tSeries, Y: ySeries}, nil
}

func (td *TimeDataset) Len() int {
	return len(td.Y)
}

func (td *TimeDataset) Copy() *TimeDataset {
	tSeries := make([]time.Time, len(td.T))
	ySeries := make([]float64, len(td.T))
	copy(tSeries, td.T)
	copy(ySeries, td.Y)
	return &TimeDataset{T: tSeries, Y: ySeries}
}

// Slice returns a copy of the dataset restricted to [start, end).
func (td *TimeDataset) Slice(start, end int) *TimeDataset {
	if start < 0 {
		start = 0
	}
	if end > td.Len() {
		end = td.Len()
	}
	if start >= end {
		return &TimeDataset{}
	}
	tSeries := make([]time.Time, end-start)
	ySeries := make([]float64, end-start)
	copy(tSeries, td.T[start:end])
	copy(ySeries, td.Y[start:end])
	return &TimeDataset{T: tSeries, Y: ySeries}
}

// Log1p returns a copy with values mapped through log(1+y). Counts are
// non-negative so the transform is defined everywhere and maps 0 to 0.
func (td *TimeDataset) Log1p() *TimeDataset {
	out := td.Copy()
	for i, v := range out.Y {
		out.Y[i] = math.Log1p(v)
	}
	return out
}

// Split is a chronological partition of a TimeDataset into a training prefix
// and a test suffix. Created once per junction and read-only afterward.
type Split struct {
	Train *TimeDataset
	Test  *TimeDataset
}

// SplitAt partitions the dataset at round(n*fraction). The two sides cover
// the whole dataset with the training prefix strictly preceding the test
// suffix. Returns an error when either side would be empty.
func (td *TimeDataset) SplitAt(fraction float64) (Split, error) {
	n := td.Len()
	if n < 2 {
		return Split{}, fmt.Errorf("have %d observations, %w", n, ErrTooShort)
	}
	cut := int(math.Round(float64(n) * fraction))
	if cut < 1 || cut >= n {
		return Split{}, fmt.Errorf("fraction %f cuts %d observations at %d, %w", fraction, n, cut, ErrEmptySide)
	}
	return Split{
		Train: td.Slice(0, cut),
		Test:  td.Slice(cut, n),
	}, nil
}

// GenerateT produces n hourly timestamps starting at start. Used to build
// synthetic series in tests and examples.
func GenerateT(n int, start time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, start.Add(time.Duration(i)*time.Hour))
	}
	return t
}
