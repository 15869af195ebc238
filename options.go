package seasonal

import "github.com/aouyang1/go-seasonal/stl"

// Period is the fixed frequency of the visitor series, one observation per
// calendar month.
const Period = 12

const (
	DefaultMinCandidateWindow = 5
	DefaultMaxCandidateWindow = 25
	DefaultMaxACFLag          = 24
)

// OutlierOptions controls the anomalous month detection run on the selected
// model's remainder.
type OutlierOptions struct {
	LowerPercentile float64
	UpperPercentile float64
	TukeyFactor     float64
}

func NewOutlierOptions() *OutlierOptions {
	return &OutlierOptions{
		LowerPercentile: 0.1,
		UpperPercentile: 0.9,
		TukeyFactor:     1.5,
	}
}

// Options configures the decomposition selector.
type Options struct {
	// CandidateWindows are the seasonal window sensitivities tried for the
	// variable seasonality search. Each must be odd and at least 3.
	CandidateWindows []int

	// InnerIterations and RobustIterations are passed through to every
	// decomposition fit.
	InnerIterations  int
	RobustIterations int

	// MaxACFLag bounds the residual autocorrelation diagnostics.
	MaxACFLag int

	OutlierOptions *OutlierOptions
}

// NewDefaultOptions returns the reference configuration: odd candidate
// windows 5 through 25, two robustness passes, and a two year
// autocorrelation horizon.
func NewDefaultOptions() *Options {
	windows := make([]int, 0, (DefaultMaxCandidateWindow-DefaultMinCandidateWindow)/2+1)
	for w := DefaultMinCandidateWindow; w <= DefaultMaxCandidateWindow; w += 2 {
		windows = append(windows, w)
	}
	return &Options{
		CandidateWindows: windows,
		InnerIterations:  stl.DefaultInnerIterations,
		RobustIterations: 2,
		MaxACFLag:        DefaultMaxACFLag,
		OutlierOptions:   NewOutlierOptions(),
	}
}

func (o *Options) stlOptions(seasonalWindow int) *stl.Options {
	return &stl.Options{
		Period:           Period,
		SeasonalWindow:   seasonalWindow,
		InnerIterations:  o.InnerIterations,
		RobustIterations: o.RobustIterations,
	}
}
