package junctioncast

import (
	"github.com/trafficlab/junctioncast/feature"
	"github.com/trafficlab/junctioncast/loader"
	"github.com/trafficlab/junctioncast/models"
)

// Scale selects which value scale feeds the evaluator. The choice applies
// uniformly to every (junction, method) cell so the error metrics stay
// comparable across models.
type Scale string

const (
	ScaleRaw Scale = "raw"
	ScaleLog Scale = "log"
)

const DefaultSplitFraction = 0.8

// Options configures the full comparison pipeline. The seasonal naive period
// (24) and the SARIMA seasonal period (12) are deliberately independent
// settings; the upstream analysis used both values and they are preserved
// here rather than unified.
type Options struct {
	SplitFraction float64
	Window        int
	NaivePeriod   int
	ARIMAOrder    models.ARIMAOrder
	SARIMAOrder   models.SARIMAOrder
	Scale         Scale

	LoaderOptions  *loader.Options
	FeatureOptions *feature.Options
}

func NewDefaultOptions() *Options {
	return &Options{
		SplitFraction: DefaultSplitFraction,
		Window:        models.DefaultWindow,
		NaivePeriod:   models.DefaultNaivePeriod,
		ARIMAOrder:    models.DefaultARIMAOrder(),
		SARIMAOrder:   models.DefaultSARIMAOrder(),
		Scale:         ScaleRaw,

		LoaderOptions:  loader.NewDefaultOptions(),
		FeatureOptions: feature.NewDefaultOptions(),
	}
}
