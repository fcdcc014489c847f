// Package loader reads raw junction traffic CSV files and produces validated
// per-junction time series.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/trafficlab/junctioncast/timedataset"
)

const TimeLayout = "2006-01-02 15:04:05"

var (
	ErrNoUsableJunctions = errors.New("no usable junctions after cleaning")
	ErrMissingColumns    = errors.New("header is missing a required column")
)

// Options control how the raw CSV is interpreted. Column names follow the
// upstream dataset header: ID, DateTime, Junction, Vehicles.
type Options struct {
	DateTimeColumn string
	JunctionColumn string
	VehiclesColumn string
	TimeLayout     string
}

func NewDefaultOptions() *Options {
	return &Options{
		DateTimeColumn: "DateTime",
		JunctionColumn: "Junction",
		VehiclesColumn: "Vehicles",
		TimeLayout:     TimeLayout,
	}
}

// Stats reports how many rows survived cleaning. Reporting only, not part of
// the load contract.
type Stats struct {
	Rows       int
	Kept       int
	Dropped    int
	Duplicates int
}

type record struct {
	t time.Time
	y float64
}

// Load reads the CSV file at path and returns one validated TimeDataset per
// junction. Malformed rows are dropped with a warning; the load fails only
// when zero usable junctions remain.
func Load(path string, opt *Options) (map[timedataset.Junction]*timedataset.TimeDataset, Stats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("unable to open input file, %w", err)
	}
	defer file.Close()

	return LoadFrom(file, opt)
}

// LoadFrom reads CSV data from r. See Load.
func LoadFrom(r io.Reader, opt *Options) (map[timedataset.Junction]*timedataset.TimeDataset, Stats, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("unable to read header, %w", err)
	}

	dtIdx, jIdx, vIdx := -1, -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case opt.DateTimeColumn:
			dtIdx = i
		case opt.JunctionColumn:
			jIdx = i
		case opt.VehiclesColumn:
			vIdx = i
		}
	}
	if dtIdx < 0 || jIdx < 0 || vIdx < 0 {
		return nil, Stats{}, fmt.Errorf("header %v, %w", header, ErrMissingColumns)
	}

	var stats Stats
	byJunction := make(map[timedataset.Junction][]record)
	seen := make(map[string]struct{})

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			stats.Rows++
			stats.Dropped++
			slog.Warn("dropping malformed row", "error", err.Error())
			continue
		}
		stats.Rows++

		rec, junction, ok := parseRow(row, dtIdx, jIdx, vIdx, opt.TimeLayout)
		if !ok {
			stats.Dropped++
			continue
		}

		key := fmt.Sprintf("%d|%d", rec.t.Unix(), junction)
		if _, exists := seen[key]; exists {
			stats.Duplicates++
			stats.Dropped++
			continue
		}
		seen[key] = struct{}{}

		byJunction[junction] = append(byJunction[junction], rec)
		stats.Kept++
	}

	series := make(map[timedataset.Junction]*timedataset.TimeDataset, len(byJunction))
	for junction, recs := range byJunction {
		sort.Slice(recs, func(i, j int) bool { return recs[i].t.Before(recs[j].t) })

		t := make([]time.Time, 0, len(recs))
		y := make([]float64, 0, len(recs))
		for _, rec := range recs {
			t = append(t, rec.t)
			y = append(y, rec.y)
		}
		td, err := timedataset.NewUnivariateDataset(t, y)
		if err != nil {
			slog.Warn("dropping junction series", "junction", junction, "error", err.Error())
			continue
		}
		series[junction] = td
	}

	if len(series) == 0 {
		return nil, stats, ErrNoUsableJunctions
	}
	return series, stats, nil
}

func parseRow(row []string, dtIdx, jIdx, vIdx int, layout string) (record, timedataset.Junction, bool) {
	maxIdx := dtIdx
	if jIdx > maxIdx {
		maxIdx = jIdx
	}
	if vIdx > maxIdx {
		maxIdx = vIdx
	}
	if len(row) <= maxIdx {
		return record{}, 0, false
	}

	dtStr := strings.TrimSpace(row[dtIdx])
	jStr := strings.TrimSpace(row[jIdx])
	vStr := strings.TrimSpace(row[vIdx])
	if dtStr == "" || jStr == "" || vStr == "" {
		return record{}, 0, false
	}

	t, err := time.Parse(layout, dtStr)
	if err != nil {
		return record{}, 0, false
	}
	junction, err := strconv.Atoi(jStr)
	if err != nil {
		return record{}, 0, false
	}
	vehicles, err := strconv.Atoi(vStr)
	if err != nil || vehicles < 0 {
		return record{}, 0, false
	}
	return record{t: t, y: float64(vehicles)}, timedataset.Junction(junction), true
}
