package junctioncast

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/trafficlab/junctioncast/evaluate"
	"github.com/trafficlab/junctioncast/models"
	"github.com/trafficlab/junctioncast/stats"
	"github.com/trafficlab/junctioncast/timedataset"
)

// LineTSeries generates an echart multi-line chart for some arbitrary
// time/value combination. Each series in y must have the same length as t;
// NaN points are skipped.
func LineTSeries(title string, seriesName []string, t []time.Time, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	lineData := make([][]opts.LineData, len(y))
	for i := 0; i < len(y); i++ {
		lineData[i] = make([]opts.LineData, 0, len(y[i]))
		for j := 0; j < len(y[i]); j++ {
			if math.IsNaN(y[i][j]) {
				lineData[i] = append(lineData[i], opts.LineData{Value: nil})
				continue
			}
			lineData[i] = append(lineData[i], opts.LineData{Value: y[i][j]})
		}
	}

	line = line.SetXAxis(t)
	for i, series := range seriesName {
		line = line.AddSeries(series, lineData[i])
	}
	return line
}

// LineForecasts generates a line chart of the test-window actuals overlaid
// with every method's point forecasts for one junction.
func LineForecasts(jr *JunctionResult) *charts.Line {
	test := jr.Split.Test

	names := []string{"Actual"}
	series := [][]float64{test.Y}
	for _, method := range models.Methods() {
		forecast, exists := jr.Forecasts[method]
		if !exists {
			continue
		}
		names = append(names, string(method))
		series = append(series, forecast)
	}
	return LineTSeries(fmt.Sprintf("%s forecasts", jr.Junction), names, test.T, series)
}

// BarScores generates a grouped bar chart of RMSE per junction with one bar
// series per method. Failed cells are skipped.
func BarScores(table evaluate.Table) *charts.Bar {
	junctionSet := make(map[timedataset.Junction]struct{})
	for _, rec := range table {
		junctionSet[rec.Junction] = struct{}{}
	}
	junctions := make([]timedataset.Junction, 0, len(junctionSet))
	for junction := range junctionSet {
		junctions = append(junctions, junction)
	}
	sort.Slice(junctions, func(i, j int) bool { return junctions[i] < junctions[j] })

	xLabels := make([]string, 0, len(junctions))
	for _, junction := range junctions {
		xLabels = append(xLabels, junction.String())
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "RMSE by junction and method",
			},
		),
	)
	bar.SetXAxis(xLabels)

	for _, method := range models.Methods() {
		data := make([]opts.BarData, 0, len(junctions))
		for _, junction := range junctions {
			var val interface{}
			for _, rec := range table {
				if rec.Junction == junction && rec.Method == method && !rec.Failed() {
					val = rec.Scores.RMSE
					break
				}
			}
			data = append(data, opts.BarData{Value: val})
		}
		bar.AddSeries(string(method), data)
	}
	return bar
}

// HeatmapCorrelations generates a heatmap of the lag-feature correlation
// matrix for one junction.
func HeatmapCorrelations(title string, labels []string, corr [][]float64) *charts.HeatMap {
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithXAxisOpts(
			opts.XAxis{
				Type: "category",
				Data: labels,
			},
		),
		charts.WithYAxisOpts(
			opts.YAxis{
				Type: "category",
				Data: labels,
			},
		),
		charts.WithVisualMapOpts(
			opts.VisualMap{
				Min: -1,
				Max: 1,
			},
		),
	)

	data := make([]opts.HeatMapData, 0, len(corr)*len(corr))
	for i := range corr {
		for j := range corr[i] {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{i, j, corr[i][j]}})
		}
	}
	hm.AddSeries("correlation", data)
	return hm
}

// WriteReport renders the exploratory chart page to an html file: the raw
// series, the seasonal decomposition, the lag correlation heatmap, the
// forecast overlays, and the score bars.
func (r *Results) WriteReport(path string, decompositionPeriod int) error {
	page := components.NewPage()

	junctions := make([]timedataset.Junction, 0, len(r.Junctions))
	for junction := range r.Junctions {
		junctions = append(junctions, junction)
	}
	sort.Slice(junctions, func(i, j int) bool { return junctions[i] < junctions[j] })

	for _, junction := range junctions {
		jr := r.Junctions[junction]
		derived := jr.Derived

		page.AddCharts(LineTSeries(
			fmt.Sprintf("%s hourly vehicles", junction),
			[]string{"Vehicles"},
			derived.T,
			[][]float64{derived.Y},
		))

		if d, err := stats.Decompose(derived.Y, decompositionPeriod); err == nil {
			page.AddCharts(LineTSeries(
				fmt.Sprintf("%s decomposition", junction),
				[]string{"Trend", "Seasonal", "Residual"},
				derived.T,
				[][]float64{d.Trend, d.Seasonal, d.Residual},
			))
		} else {
			slog.Warn("skipping decomposition chart", "junction", junction, "error", err.Error())
		}

		if complete, err := derived.Complete(); err == nil {
			labels, cols := complete.LagColumns()
			if corr, err := stats.Correlations(cols); err == nil {
				page.AddCharts(HeatmapCorrelations(
					fmt.Sprintf("%s lag correlations", junction), labels, corr,
				))
			}
		} else {
			slog.Warn("skipping correlation chart", "junction", junction, "error", err.Error())
		}

		page.AddCharts(LineForecasts(jr))
	}

	page.AddCharts(BarScores(r.Table))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create report file, %w", err)
	}
	defer file.Close()

	return page.Render(io.MultiWriter(file))
}
