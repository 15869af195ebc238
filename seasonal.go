// Package seasonal characterizes the trend and seasonality of a monthly
// museum visitor series by fitting seasonal-trend decompositions across a
// range of seasonal window sensitivities and comparing a fixed seasonality
// baseline against the best variable seasonality candidate.
package seasonal

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/aouyang1/go-seasonal/stats"
	"github.com/aouyang1/go-seasonal/stl"
	"github.com/aouyang1/go-seasonal/visitseries"
)

var (
	ErrEmptySeries   = errors.New("no series to fit")
	ErrMissingValues = errors.New("series contains unacknowledged missing observations")
	ErrNoViableModel = errors.New("no candidate seasonal window produced a fit")
	ErrNotFit        = errors.New("selector has not been fit")
)

// Candidate is a single decomposition fit keyed by its seasonal window
// sensitivity. Window is stl.PeriodicSeasonal for the fixed baseline.
type Candidate struct {
	Window int
	Result *stl.Result
	Stats  stats.RemainderStats
}

// Selector fits the fixed seasonality baseline plus every candidate
// variable seasonality decomposition and exposes the scored comparison.
type Selector struct {
	opt *Options

	series     *visitseries.Series
	fixed      *Candidate
	candidates []Candidate
	best       *Candidate
}

// New creates a Selector from the provided options. If no options are
// provided a default is used.
func New(opt *Options) *Selector {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	return &Selector{opt: opt}
}

// Fit decomposes the series once per candidate window plus the fixed
// baseline. Candidate fits that fail are skipped and excluded from the
// comparison; the fit only errors if every candidate fails. The series must
// be complete: callers are expected to have inspected the missing
// observation diagnostics and windowed past them before fitting.
func (s *Selector) Fit(series *visitseries.Series) error {
	if series == nil || series.Len() == 0 {
		return ErrEmptySeries
	}
	y := series.Values()
	for i, v := range y {
		if math.IsNaN(v) {
			o := series.Observations[i]
			return fmt.Errorf("%d-%02d, %w", o.Year, int(o.Month), ErrMissingValues)
		}
	}

	fixedRes, err := stl.Decompose(y, s.opt.stlOptions(stl.PeriodicSeasonal))
	if err != nil {
		return fmt.Errorf("unable to fit fixed seasonality baseline, %w", err)
	}
	fixed := Candidate{
		Window: stl.PeriodicSeasonal,
		Result: fixedRes,
		Stats:  stats.NewRemainderStats(fixedRes.Remainder),
	}

	candidates := make([]Candidate, 0, len(s.opt.CandidateWindows))
	for _, window := range s.opt.CandidateWindows {
		res, err := stl.Decompose(y, s.opt.stlOptions(window))
		if err != nil {
			slog.Warn("skipping candidate seasonal window", "window", window, "error", err.Error())
			continue
		}
		candidates = append(candidates, Candidate{
			Window: window,
			Result: res,
			Stats:  stats.NewRemainderStats(res.Remainder),
		})
	}
	if len(candidates) == 0 {
		return ErrNoViableModel
	}

	s.series = series
	s.fixed = &fixed
	s.candidates = candidates
	s.best = bestCandidate(candidates)
	return nil
}

// bestCandidate picks the candidate with the lowest mean absolute
// remainder, breaking ties on the lower median remainder. The result
// depends only on the candidate set, not its order.
func bestCandidate(candidates []Candidate) *Candidate {
	best := &candidates[0]
	for i := 1; i < len(candidates); i++ {
		c := &candidates[i]
		switch {
		case c.Stats.MeanAbs < best.Stats.MeanAbs:
			best = c
		case c.Stats.MeanAbs == best.Stats.MeanAbs && c.Stats.Median < best.Stats.Median:
			best = c
		}
	}
	return best
}

// Series returns the series the selector was fit against.
func (s *Selector) Series() *visitseries.Series {
	return s.series
}

// Fixed returns the fixed seasonality baseline fit.
func (s *Selector) Fixed() *Candidate {
	return s.fixed
}

// BestVariable returns the best scoring variable seasonality fit.
func (s *Selector) BestVariable() *Candidate {
	return s.best
}

// Candidates returns every variable seasonality fit that succeeded, in
// candidate window order.
func (s *Selector) Candidates() []Candidate {
	return s.candidates
}

// Comparison builds the fixed versus best-variable comparison table with
// residual autocorrelation diagnostics attached.
func (s *Selector) Comparison() (Comparison, error) {
	if s.fixed == nil || s.best == nil {
		return Comparison{}, ErrNotFit
	}
	return Comparison{
		Fixed:    s.summarize(ModelFixed, s.fixed),
		Variable: s.summarize(ModelVariable, s.best),
	}, nil
}

func (s *Selector) summarize(kind ModelKind, c *Candidate) ModelSummary {
	n := len(c.Result.Remainder)
	maxLag := s.opt.MaxACFLag
	if maxLag >= n {
		maxLag = n - 1
	}
	return ModelSummary{
		Kind:           kind,
		SeasonalWindow: c.Window,
		Stats:          c.Stats,
		RemainderACF:   stats.ACF(c.Result.Remainder, maxLag),
		ACFBound:       stats.ConfidenceBound(n),
	}
}

// AnomalousMonths enumerates the months whose remainder under the given
// model lies outside the Tukey band, e.g. an out of season visitor peak.
func (s *Selector) AnomalousMonths(kind ModelKind) ([]Anomaly, error) {
	var c *Candidate
	switch kind {
	case ModelFixed:
		c = s.fixed
	case ModelVariable:
		c = s.best
	default:
		return nil, fmt.Errorf("unknown model kind %q", kind)
	}
	if c == nil {
		return nil, ErrNotFit
	}

	opt := s.opt.OutlierOptions
	if opt == nil {
		opt = NewOutlierOptions()
	}
	idxs := stats.DetectOutliers(c.Result.Remainder, opt.LowerPercentile, opt.UpperPercentile, opt.TukeyFactor)
	anomalies := make([]Anomaly, 0, len(idxs))
	for _, idx := range idxs {
		o := s.series.Observations[idx]
		anomalies = append(anomalies, Anomaly{
			Year:      o.Year,
			Month:     o.Month,
			Visits:    o.Visits,
			Remainder: c.Result.Remainder[idx],
		})
	}
	return anomalies, nil
}
