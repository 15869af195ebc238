// Package stl implements an additive seasonal-trend decomposition using
// locally weighted regression, with optional robustness iterations that
// down-weight outlying observations between passes.
package stl

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNoData             = errors.New("no series to decompose")
	ErrBadPeriod          = errors.New("period must be at least 2")
	ErrNonMultiplePeriod  = errors.New("series length is not a multiple of the period")
	ErrSeriesTooShort     = errors.New("series must cover at least two full periods")
	ErrBadSeasonalWindow  = errors.New("seasonal window must be 0 or an odd value of at least 3")
	ErrMissingObservation = errors.New("series contains NaN observations")
)

// PeriodicSeasonal pins the seasonal component to a single value per cycle
// position, repeated across every cycle.
const PeriodicSeasonal = 0

const (
	DefaultPeriod           = 12
	DefaultInnerIterations  = 2
	DefaultRobustIterations = 1
)

const (
	// maxInnerIterations caps the backfit loop for series where the
	// seasonal component is slow to settle.
	maxInnerIterations = 100

	// innerConvergenceTol is the largest per-pass seasonal update, relative
	// to the series magnitude, at which the backfit is considered settled.
	innerConvergenceTol = 1e-10
)

// Options configures a decomposition.
type Options struct {
	// Period is the number of observations per seasonal cycle.
	Period int

	// SeasonalWindow is the smoothing span, in cycles, applied across each
	// cycle subseries. PeriodicSeasonal fixes the seasonal component across
	// cycles. Otherwise it must be odd and at least 3; larger values allow
	// less year over year drift.
	SeasonalWindow int

	// TrendWindow overrides the span of the trend smoother. Zero derives it
	// from the period and seasonal window.
	TrendWindow int

	// InnerIterations is the minimum number of seasonal/trend backfit
	// passes per robustness pass. The backfit continues past this until the
	// seasonal component stops changing, since the periodic mode in
	// particular needs many more passes than the loess modes to shed the
	// trend leaked into the cycle subseries means.
	InnerIterations int

	// RobustIterations is the number of additional passes run with bisquare
	// weights derived from the previous remainder.
	RobustIterations int
}

// NewDefaultOptions returns options for a robust monthly decomposition with
// fixed seasonality.
func NewDefaultOptions() *Options {
	return &Options{
		Period:           DefaultPeriod,
		SeasonalWindow:   PeriodicSeasonal,
		InnerIterations:  DefaultInnerIterations,
		RobustIterations: DefaultRobustIterations,
	}
}

func (o *Options) validate(n int) error {
	if n == 0 {
		return ErrNoData
	}
	if o.Period < 2 {
		return fmt.Errorf("period %d, %w", o.Period, ErrBadPeriod)
	}
	if n%o.Period != 0 {
		return fmt.Errorf("length %d with period %d, %w", n, o.Period, ErrNonMultiplePeriod)
	}
	if n < 2*o.Period {
		return fmt.Errorf("length %d with period %d, %w", n, o.Period, ErrSeriesTooShort)
	}
	if o.SeasonalWindow != PeriodicSeasonal && (o.SeasonalWindow < 3 || o.SeasonalWindow%2 == 0) {
		return fmt.Errorf("seasonal window %d, %w", o.SeasonalWindow, ErrBadSeasonalWindow)
	}
	return nil
}

// trendWindow follows the usual STL guidance of the smallest odd span that
// keeps the trend from absorbing seasonal variation.
func (o *Options) trendWindow() int {
	if o.TrendWindow > 0 {
		return nextOdd(o.TrendWindow)
	}
	p := float64(o.Period)
	if o.SeasonalWindow == PeriodicSeasonal {
		return nextOdd(int(math.Ceil(1.5 * p)))
	}
	return nextOdd(int(math.Ceil(1.5 * p / (1.0 - 1.5/float64(o.SeasonalWindow)))))
}

// Result holds the three component sequences of a decomposition. Each has
// the same length as the input and the additive identity
// seasonal + trend + remainder = observed holds exactly at every index.
type Result struct {
	Seasonal  []float64 `json:"seasonal"`
	Trend     []float64 `json:"trend"`
	Remainder []float64 `json:"remainder"`
}

// Decompose fits the seasonal, trend, and remainder components of y. If opt
// is nil a default monthly configuration is used.
func Decompose(y []float64, opt *Options) (*Result, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	n := len(y)
	if err := opt.validate(n); err != nil {
		return nil, err
	}
	for i, v := range y {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("index %d, %w", i, ErrMissingObservation)
		}
	}

	p := opt.Period
	cycles := n / p
	innerIters := opt.InnerIterations
	if innerIters < 1 {
		innerIters = DefaultInnerIterations
	}
	robustIters := opt.RobustIterations
	if robustIters < 0 {
		robustIters = 0
	}

	scale := 1.0
	for _, v := range y {
		if a := math.Abs(v); a > scale {
			scale = a
		}
	}

	trend := make([]float64, n)
	seasonal := make([]float64, n)
	prevSeasonal := make([]float64, n)
	remainder := make([]float64, n)
	deseasonalized := make([]float64, n)
	detrended := make([]float64, n)
	rho := make([]float64, n)
	for i := range rho {
		rho[i] = 1.0
	}

	for outer := 0; outer <= robustIters; outer++ {
		for inner := 0; inner < maxInnerIterations; inner++ {
			copy(prevSeasonal, seasonal)
			copy(detrended, y)
			floats.Sub(detrended, trend)

			// cycle subseries smoothing, extended one full period at each
			// end so the low-pass filter lines back up with the input
			ext := smoothSubseries(detrended, rho, p, cycles, opt.SeasonalWindow)

			// low-pass filter of the extended subseries smooth picks up any
			// trend leaked into it
			low := movingAverage(ext, p)
			low = movingAverage(low, p)
			low = movingAverage(low, 3)
			low = loess(low, nextOdd(p), nil)

			for i := 0; i < n; i++ {
				seasonal[i] = ext[p+i] - low[i]
			}

			copy(deseasonalized, y)
			floats.Sub(deseasonalized, seasonal)
			trend = loess(deseasonalized, opt.trendWindow(), rho)

			if inner+1 >= innerIters && maxAbsDiff(seasonal, prevSeasonal) <= innerConvergenceTol*scale {
				break
			}
		}

		copy(remainder, y)
		floats.Sub(remainder, seasonal)
		floats.Sub(remainder, trend)

		if outer < robustIters {
			bisquareWeights(remainder, rho)
		}
	}

	return &Result{
		Seasonal:  seasonal,
		Trend:     trend,
		Remainder: remainder,
	}, nil
}

// smoothSubseries smooths each cycle subseries of detrended across cycles
// and returns the result extended by one full period at each end. The
// periodic mode reduces to a robust weighted mean per subseries.
func smoothSubseries(detrended, rho []float64, p, cycles, window int) []float64 {
	ext := make([]float64, len(detrended)+2*p)
	sub := make([]float64, cycles)
	subRho := make([]float64, cycles)

	for m := 0; m < p; m++ {
		for j := 0; j < cycles; j++ {
			sub[j] = detrended[j*p+m]
			subRho[j] = rho[j*p+m]
		}

		if window == PeriodicSeasonal {
			mean := stat.Mean(sub, subRho)
			if math.IsNaN(mean) {
				mean = stat.Mean(sub, nil)
			}
			for j := -1; j <= cycles; j++ {
				ext[(j+1)*p+m] = mean
			}
			continue
		}

		fitted := loessRange(sub, subRho, window, -1, cycles)
		for j := -1; j <= cycles; j++ {
			ext[(j+1)*p+m] = fitted[j+1]
		}
	}
	return ext
}

// bisquareWeights writes robustness weights into rho from the remainder of
// the previous pass, down-weighting observations more than the bisquare
// scale away from the fit.
func bisquareWeights(remainder, rho []float64) {
	abs := make([]float64, len(remainder))
	for i, r := range remainder {
		abs[i] = math.Abs(r)
	}
	sort.Float64s(abs)
	h := 6.0 * stat.Quantile(0.5, stat.Empirical, abs, nil)
	if h < 1e-12 {
		// fit is already tight, keep every observation fully weighted
		for i := range rho {
			rho[i] = 1.0
		}
		return
	}
	for i, r := range remainder {
		u := math.Abs(r) / h
		if u >= 1.0 {
			rho[i] = 0.0
			continue
		}
		c := 1.0 - u*u
		rho[i] = c * c
	}
}
