package models

import (
	"math"

	"github.com/trafficlab/junctioncast/stats"
)

// cssEngine estimates ARMA coefficients, optionally with seasonal terms, by
// minimizing the conditional sum of squares with momentum gradient descent.
// Coefficients are clamped to (-0.99, 0.99) to keep the process stationary
// and invertible.
type cssEngine struct {
	p, q    int
	sp, sq  int
	period  int
	maxIter int

	intercept float64
	ar, ma    []float64
	sar, sma  []float64
	residuals []float64
}

func newCSSEngine(p, q, sp, sq, period int) *cssEngine {
	return &cssEngine{
		p: p, q: q, sp: sp, sq: sq, period: period,
		maxIter: 200,
		ar:      make([]float64, p),
		ma:      make([]float64, q),
		sar:     make([]float64, sp),
		sma:     make([]float64, sq),
	}
}

// predictAt computes the one-step conditional expectation at index t given
// the series and residual history.
func (e *cssEngine) predictAt(y, residuals []float64, t int) float64 {
	pred := e.intercept
	for i := 0; i < e.p && t-i-1 >= 0; i++ {
		pred += e.ar[i] * (y[t-i-1] - e.intercept)
	}
	for i := 0; i < e.sp; i++ {
		if lag := (i + 1) * e.period; t-lag >= 0 {
			pred += e.sar[i] * (y[t-lag] - e.intercept)
		}
	}
	for i := 0; i < e.q && t-i-1 >= 0; i++ {
		pred += e.ma[i] * residuals[t-i-1]
	}
	for i := 0; i < e.sq; i++ {
		if lag := (i + 1) * e.period; t-lag >= 0 {
			pred += e.sma[i] * residuals[t-lag]
		}
	}
	return pred
}

func (e *cssEngine) fit(y []float64) error {
	n := len(y)

	var mean float64
	for _, v := range y {
		mean += v
	}
	e.intercept = mean / float64(n)

	if e.p > 0 {
		if r, err := stats.ACF(y, e.p); err == nil {
			copy(e.ar, levinsonDurbin(r, e.p))
		}
	}
	if e.sp > 0 {
		if r, err := stats.ACF(y, e.sp*e.period); err == nil {
			for i := 0; i < e.sp; i++ {
				if idx := (i + 1) * e.period; idx < len(r) {
					e.sar[i] = r[idx] * 0.5
				}
			}
		}
	}
	for i := range e.ma {
		e.ma[i] = 0.1
	}
	for i := range e.sma {
		e.sma[i] = 0.1
	}

	startIdx := e.p
	if e.q > startIdx {
		startIdx = e.q
	}
	if s := e.sp * e.period; s > startIdx {
		startIdx = s
	}
	if s := e.sq * e.period; s > startIdx {
		startIdx = s
	}
	if startIdx >= n-10 {
		startIdx = 0
	}

	learningRate := 0.005
	const (
		momentum  = 0.9
		decay     = 0.99
		tolerance = 1e-8
		patience  = 20
	)

	arVel := make([]float64, e.p)
	maVel := make([]float64, e.q)
	sarVel := make([]float64, e.sp)
	smaVel := make([]float64, e.sq)

	bestSSE := math.Inf(1)
	bestAR := make([]float64, e.p)
	bestMA := make([]float64, e.q)
	bestSAR := make([]float64, e.sp)
	bestSMA := make([]float64, e.sq)
	var noImprove int

	for iter := 0; iter < e.maxIter; iter++ {
		residuals := make([]float64, n)
		var sse float64
		for t := startIdx; t < n; t++ {
			residuals[t] = y[t] - e.predictAt(y, residuals, t)
			sse += residuals[t] * residuals[t]
		}
		if math.IsNaN(sse) || math.IsInf(sse, 0) {
			return ErrFitDiverged
		}

		if sse < bestSSE {
			bestSSE = sse
			copy(bestAR, e.ar)
			copy(bestMA, e.ma)
			copy(bestSAR, e.sar)
			copy(bestSMA, e.sma)
			noImprove = 0
		} else {
			noImprove++
		}
		if noImprove > patience {
			break
		}

		arGrad := make([]float64, e.p)
		maGrad := make([]float64, e.q)
		sarGrad := make([]float64, e.sp)
		smaGrad := make([]float64, e.sq)
		for t := startIdx; t < n; t++ {
			for i := 0; i < e.p && t-i-1 >= 0; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - e.intercept)
			}
			for i := 0; i < e.sp; i++ {
				if lag := (i + 1) * e.period; t-lag >= 0 {
					sarGrad[i] -= 2 * residuals[t] * (y[t-lag] - e.intercept)
				}
			}
			for i := 0; i < e.q && t-i-1 >= 0; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
			for i := 0; i < e.sq; i++ {
				if lag := (i + 1) * e.period; t-lag >= 0 {
					smaGrad[i] -= 2 * residuals[t] * residuals[t-lag]
				}
			}
		}

		step := func(coef, vel, grad []float64) {
			for i := range coef {
				vel[i] = momentum*vel[i] + learningRate*grad[i]/float64(n)
				coef[i] = clamp(coef[i]-vel[i], -0.99, 0.99)
			}
		}
		step(e.ar, arVel, arGrad)
		step(e.sar, sarVel, sarGrad)
		step(e.ma, maVel, maGrad)
		step(e.sma, smaVel, smaGrad)

		learningRate *= decay

		if iter > 0 && math.Abs(sse-bestSSE) < tolerance {
			break
		}
	}

	copy(e.ar, bestAR)
	copy(e.ma, bestMA)
	copy(e.sar, bestSAR)
	copy(e.sma, bestSMA)

	// final residual pass with the best coefficients
	e.residuals = make([]float64, n)
	for t := 0; t < n; t++ {
		e.residuals[t] = y[t] - e.predictAt(y, e.residuals, t)
	}
	return nil
}

// forecast produces h conditional expectations past the end of the fitted
// series on the differenced scale. Future residuals are zero in expectation.
func (e *cssEngine) forecast(y []float64, horizon int) []float64 {
	n := len(y)
	extY := make([]float64, n+horizon)
	copy(extY, y)
	extRes := make([]float64, n+horizon)
	copy(extRes, e.residuals)

	for h := 0; h < horizon; h++ {
		t := n + h
		extY[t] = e.predictAt(extY, extRes, t)
	}
	return extY[n:]
}

// difference applies a lag-k difference, shortening the series by k.
func difference(y []float64, k int) []float64 {
	if k <= 0 || len(y) <= k {
		return nil
	}
	out := make([]float64, len(y)-k)
	for i := k; i < len(y); i++ {
		out[i-k] = y[i] - y[i-k]
	}
	return out
}

// integrate undoes lag-k differencing of a forecast continuation, seeding
// from the tail of the pre-differencing series.
func integrate(forecasts, prior []float64, k int) []float64 {
	out := make([]float64, len(forecasts))
	copy(out, forecasts)
	for j := 0; j < len(out); j++ {
		if j < k {
			out[j] += prior[len(prior)-k+j]
			continue
		}
		out[j] += out[j-k]
	}
	return out
}

// levinsonDurbin solves the Yule-Walker equations for AR coefficients.
func levinsonDurbin(r []float64, order int) []float64 {
	if order <= 0 || len(r) <= order {
		return nil
	}

	phi := make([]float64, order)
	phi[0] = r[1]
	if order == 1 {
		return phi
	}

	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		lambda := r[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * r[i-j]
		}
		lambda /= v

		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)

		v *= 1 - lambda*lambda
		if v <= 0 {
			break
		}
	}
	return phi
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
