// Package stats provides the summary statistics and residual diagnostics
// used to score and compare decomposition fits.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// RemainderStats summarizes the unexplained component of a decomposition
// fit. MeanAbs is the primary model selection score.
type RemainderStats struct {
	Mean    float64 `json:"mean"`
	MeanAbs float64 `json:"mean_abs"`
	Median  float64 `json:"median"`
}

// NewRemainderStats computes the summary statistics of a remainder series.
func NewRemainderStats(remainder []float64) RemainderStats {
	abs := make([]float64, len(remainder))
	sorted := make([]float64, len(remainder))
	copy(sorted, remainder)
	sort.Float64s(sorted)
	for i, r := range remainder {
		abs[i] = math.Abs(r)
	}
	return RemainderStats{
		Mean:    stat.Mean(remainder, nil),
		MeanAbs: stat.Mean(abs, nil),
		Median:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
}

// ACF returns the autocorrelation of y for lags 0 through maxLag. A series
// with zero variance has no autocorrelation structure and returns nil.
func ACF(y []float64, maxLag int) []float64 {
	n := len(y)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := stat.Mean(y, nil)
	variance := 0.0
	for _, v := range y {
		diff := v - mean
		variance += diff * diff
	}
	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (y[i] - mean) * (y[i-k] - mean)
		}
		acf[k] = sum / variance
	}
	return acf
}

// ConfidenceBound returns the 95 percent white noise bound for
// autocorrelations of a series of length n.
func ConfidenceBound(n int) float64 {
	if n <= 0 {
		return math.NaN()
	}
	return 1.96 / math.Sqrt(float64(n))
}

// DetectOutliers returns the indexes of y falling outside the band defined
// by the lower/upper percentiles widened by the Tukey factor.
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)

	yCopy := make([]float64, len(y))
	copy(yCopy, y)
	sort.Float64s(yCopy)
	lowerIdx := int(math.Floor(float64(len(yCopy)) * lowerPerc))
	upperIdx := int(math.Ceil(float64(len(yCopy)) * upperPerc))
	if upperIdx >= len(yCopy) {
		upperIdx = len(yCopy) - 1
	}

	lower := yCopy[lowerIdx]
	upper := yCopy[upperIdx]
	innerRange := upper - lower
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if y[i] >= upper || y[i] <= lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}
