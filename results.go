package seasonal

import (
	"time"

	"github.com/aouyang1/go-seasonal/stats"
)

// ModelKind identifies which of the two compared decomposition models a
// decision refers to.
type ModelKind string

const (
	ModelFixed    ModelKind = "fixed"
	ModelVariable ModelKind = "variable"
)

// ModelSummary carries the scoring statistics and residual autocorrelation
// diagnostics for one decomposition model.
type ModelSummary struct {
	Kind           ModelKind            `json:"kind"`
	SeasonalWindow int                  `json:"seasonal_window"`
	Stats          stats.RemainderStats `json:"remainder_stats"`
	RemainderACF   []float64            `json:"remainder_acf"`
	ACFBound       float64              `json:"acf_bound"`
}

// Comparison is the side by side stat table for the fixed seasonality
// baseline and the best variable seasonality candidate. The choice between
// them is exposed as data so the report can apply its qualitative judgment.
type Comparison struct {
	Fixed    ModelSummary `json:"fixed"`
	Variable ModelSummary `json:"variable"`
}

// Preferred applies the documented preference rule: keep the fixed model
// unless the variable model improves the mean absolute remainder by more
// than tol, relative to the fixed model's score.
func (c Comparison) Preferred(tol float64) ModelKind {
	if c.Fixed.Stats.MeanAbs <= 0 {
		return ModelFixed
	}
	improvement := (c.Fixed.Stats.MeanAbs - c.Variable.Stats.MeanAbs) / c.Fixed.Stats.MeanAbs
	if improvement > tol {
		return ModelVariable
	}
	return ModelFixed
}

// Anomaly is a month whose remainder under the selected model stands out
// from the rest of the fit.
type Anomaly struct {
	Year      int        `json:"year"`
	Month     time.Month `json:"month"`
	Visits    float64    `json:"visits"`
	Remainder float64    `json:"remainder"`
}

// CandidateScore is one row of the candidate search table.
type CandidateScore struct {
	Window int                  `json:"window"`
	Stats  stats.RemainderStats `json:"remainder_stats"`
}

// Model is the serializable summary of a completed selection, suitable for
// embedding in the rendered report.
type Model struct {
	Institution string           `json:"institution"`
	Comparison  Comparison       `json:"comparison"`
	Preferred   ModelKind        `json:"preferred"`
	Candidates  []CandidateScore `json:"candidates"`
	Anomalies   []Anomaly        `json:"anomalies"`
}

// Model assembles the full selection summary, applying the preference rule
// with the provided tolerance and enumerating anomalies under the preferred
// model.
func (s *Selector) Model(tol float64) (Model, error) {
	cmp, err := s.Comparison()
	if err != nil {
		return Model{}, err
	}
	preferred := cmp.Preferred(tol)
	anomalies, err := s.AnomalousMonths(preferred)
	if err != nil {
		return Model{}, err
	}

	scores := make([]CandidateScore, 0, len(s.candidates))
	for _, c := range s.candidates {
		scores = append(scores, CandidateScore{Window: c.Window, Stats: c.Stats})
	}

	return Model{
		Institution: s.series.Institution,
		Comparison:  cmp,
		Preferred:   preferred,
		Candidates:  scores,
		Anomalies:   anomalies,
	}, nil
}
