package stl

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// tricube is the standard loess neighborhood weight.
func tricube(u float64) float64 {
	if u >= 1.0 {
		return 0.0
	}
	c := 1.0 - u*u*u
	return c * c * c
}

// loess smooths y with locally weighted degree one regression over equally
// spaced points, evaluating at every index. rho carries robustness weights
// and may be nil for a uniform weighting.
func loess(y []float64, window int, rho []float64) []float64 {
	return loessRange(y, rho, window, 0, len(y)-1)
}

// loessRange evaluates the loess smooth of y at every integer position from
// through to inclusive. Positions outside [0, len(y)-1] are linear
// extrapolations from the nearest neighborhood, which is what the seasonal
// subseries extension relies on. Windows wider than the series stretch the
// tricube taper rather than clip it, so distinct widths remain distinct
// fits.
func loessRange(y, rho []float64, window, from, to int) []float64 {
	n := len(y)
	out := make([]float64, 0, to-from+1)

	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	ws := make([]float64, 0, n)

	half := window / 2
	for pos := from; pos <= to; pos++ {
		lo := pos - half
		hi := pos + half
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		// keep at least two points in the neighborhood so extrapolated
		// positions still get a line
		if hi-lo < 1 {
			if hi < n-1 {
				hi++
			} else if lo > 0 {
				lo--
			}
		}

		bandwidth := math.Max(float64(pos-lo), float64(hi-pos))
		if window > n {
			bandwidth += float64(window-n) / 2.0
		}
		bandwidth += 1.0

		xs = xs[:0]
		ys = ys[:0]
		ws = ws[:0]
		for j := lo; j <= hi; j++ {
			w := tricube(math.Abs(float64(j-pos)) / bandwidth)
			if rho != nil {
				w *= rho[j]
			}
			xs = append(xs, float64(j))
			ys = append(ys, y[j])
			ws = append(ws, w)
		}

		out = append(out, fitAt(xs, ys, ws, float64(pos)))
	}
	return out
}

// fitAt evaluates a weighted degree one least squares fit at x. Degenerate
// weightings fall back to an unweighted fit, then to the nearest value.
func fitAt(xs, ys, ws []float64, x float64) float64 {
	alpha, beta := stat.LinearRegression(xs, ys, ws, false)
	v := alpha + beta*x
	if !math.IsNaN(v) && !math.IsInf(v, 0) {
		return v
	}
	alpha, beta = stat.LinearRegression(xs, ys, nil, false)
	v = alpha + beta*x
	if !math.IsNaN(v) && !math.IsInf(v, 0) {
		return v
	}
	return ys[len(ys)/2]
}

// movingAverage returns the simple moving average of y with the given
// window, shrinking the output by window-1 points.
func movingAverage(y []float64, window int) []float64 {
	out := make([]float64, len(y)-window+1)
	var sum float64
	for i := 0; i < window; i++ {
		sum += y[i]
	}
	out[0] = sum / float64(window)
	for i := window; i < len(y); i++ {
		sum += y[i] - y[i-window]
		out[i-window+1] = sum / float64(window)
	}
	return out
}

// maxAbsDiff returns the largest elementwise absolute difference between
// two equal length slices.
func maxAbsDiff(a, b []float64) float64 {
	var max float64
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > max {
			max = d
		}
	}
	return max
}

func nextOdd(v int) int {
	if v%2 == 0 {
		return v + 1
	}
	return v
}
