// Command junctioncast runs the junction traffic forecasting comparison over
// a CSV of hourly vehicle counts and writes the comparison table and an
// optional chart report.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/trafficlab/junctioncast"
	"github.com/trafficlab/junctioncast/models"
)

type flags struct {
	input        string
	split        float64
	window       int
	naivePeriod  int
	sarimaPeriod int
	scale        string
	reportPath   string
	jsonPath     string
	profileRun   bool
}

func main() {
	var f flags

	cmd := &cobra.Command{
		Use:           "junctioncast",
		Short:         "Compare forecasting baselines on hourly junction traffic counts",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(f)
		},
	}

	cmd.Flags().StringVarP(&f.input, "input", "i", "", "input CSV path (ID,DateTime,Junction,Vehicles)")
	cmd.Flags().Float64Var(&f.split, "split", junctioncast.DefaultSplitFraction, "train/test split fraction")
	cmd.Flags().IntVar(&f.window, "window", models.DefaultWindow, "moving average window size")
	cmd.Flags().IntVar(&f.naivePeriod, "naive-period", models.DefaultNaivePeriod, "seasonal naive period")
	cmd.Flags().IntVar(&f.sarimaPeriod, "sarima-period", models.DefaultSARIMAOrder().Period, "sarima seasonal period")
	cmd.Flags().StringVar(&f.scale, "scale", string(junctioncast.ScaleRaw), "evaluation scale: raw or log")
	cmd.Flags().StringVar(&f.reportPath, "report", "", "write chart report html to this path")
	cmd.Flags().StringVar(&f.jsonPath, "json", "", "write comparison table json to this path")
	cmd.Flags().BoolVar(&f.profileRun, "profile", false, "write a cpu profile for this run")
	_ = cmd.MarkFlagRequired("input")

	if err := cmd.Execute(); err != nil {
		slog.Error("run failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(f flags) error {
	if f.profileRun {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	opt := junctioncast.NewDefaultOptions()
	opt.SplitFraction = f.split
	opt.Window = f.window
	opt.NaivePeriod = f.naivePeriod
	opt.SARIMAOrder.Period = f.sarimaPeriod

	switch junctioncast.Scale(f.scale) {
	case junctioncast.ScaleRaw, junctioncast.ScaleLog:
		opt.Scale = junctioncast.Scale(f.scale)
	default:
		return fmt.Errorf("unknown scale %q", f.scale)
	}

	res, err := junctioncast.New(opt).RunFile(f.input)
	if err != nil {
		return err
	}

	printTable(os.Stdout, res)

	if f.jsonPath != "" {
		out, err := res.ToJSON()
		if err != nil {
			return err
		}
		if err := os.WriteFile(f.jsonPath, out, 0o644); err != nil {
			return fmt.Errorf("unable to write json output, %w", err)
		}
		slog.Info("wrote comparison json", "path", f.jsonPath)
	}

	if f.reportPath != "" {
		if err := res.WriteReport(f.reportPath, f.naivePeriod); err != nil {
			return err
		}
		slog.Info("wrote chart report", "path", f.reportPath)
	}
	return nil
}

func printTable(out io.Writer, res *junctioncast.Results) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "JUNCTION\tMETHOD\tMAE\tMSE\tRMSE\tNOTE")
	for _, rec := range res.Table {
		if rec.Failed() {
			fmt.Fprintf(w, "%d\t%s\t-\t-\t-\t%s\n", int(rec.Junction), rec.Method, rec.Err)
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%.3f\t%.3f\t%.3f\t\n",
			int(rec.Junction), rec.Method, rec.Scores.MAE, rec.Scores.MSE, rec.Scores.RMSE)
	}
	w.Flush()
}
