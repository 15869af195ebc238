// Package visitseries builds a validated monthly visitor series for a
// single institution from the wide fiscal-year table published with the
// source dataset.
package visitseries

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNoObservations       = errors.New("no monthly observations for institution")
	ErrDuplicateObservation = errors.New("duplicate observation for calendar month")
	ErrSeriesGap            = errors.New("series is not contiguous")
	ErrNonContiguousWindow  = errors.New("window not fully covered by series")
)

// fiscalYearStart is the first calendar month of the dataset's fiscal year.
// The UK fiscal year runs April through March, so months before April belong
// to the following calendar year.
const fiscalYearStart = time.April

// labelDelimiter separates the institution name from the trailing month
// token in the composite label column.
const labelDelimiter = "_"

// CanonicalObservation is one calendar month of visits for an institution.
// Visits are stored in thousands to keep chart scales and decomposition
// magnitudes well conditioned.
type CanonicalObservation struct {
	Institution string
	Year        int
	Month       time.Month
	Visits      float64
}

// Missing identifies an accepted observation whose visit count is absent
// from the source table. These are surfaced as diagnostics rather than
// coerced to zero.
type Missing struct {
	Year  int
	Month time.Month
}

// Series is a gap free monthly sequence of canonical observations, strictly
// ordered by (year, month).
type Series struct {
	Institution  string
	Observations []CanonicalObservation
}

// ParseResult carries the built series along with the data quality
// diagnostics the caller must inspect before fitting. Observations listed
// in Missing are present in the series with a NaN visit count.
type ParseResult struct {
	Series  *Series
	Missing []Missing
}

// CalendarYear converts a fiscal year label and calendar month to the
// calendar year the month falls in.
func CalendarYear(fiscalYear int, month time.Month) int {
	if month < fiscalYearStart {
		return fiscalYear + 1
	}
	return fiscalYear
}

// SplitLabel separates a composite label into its institution name and
// trailing month token. The second return value is false when the label has
// no recognizable trailing month, e.g. an annual total row.
func SplitLabel(label string) (string, time.Month, bool) {
	label = strings.TrimSpace(label)
	idx := strings.LastIndex(label, labelDelimiter)
	if idx <= 0 {
		return "", 0, false
	}
	month, ok := Months.Month(label[idx+1:])
	if !ok {
		return "", 0, false
	}
	return label[:idx], month, true
}

// Parse builds the canonical monthly series for institution from the raw
// wide table rows. Rows whose label has no trailing month token are
// discarded, not treated as missing data. Accepted cells carrying a missing
// value sentinel are collected into the returned diagnostics and kept in the
// series as NaN.
func Parse(rows []RawObservation, institution string) (*ParseResult, error) {
	obs := make([]CanonicalObservation, 0, len(rows))
	seen := make(map[int]struct{})
	var missing []Missing

	for _, row := range rows {
		name, month, ok := SplitLabel(row.Label)
		if !ok {
			slog.Debug("discarding row without trailing month token", "label", row.Label)
			continue
		}
		if name != institution {
			continue
		}

		for fiscalYear, cell := range row.Counts {
			year := CalendarYear(fiscalYear, month)
			key := year*12 + int(month) - 1
			if _, exists := seen[key]; exists {
				return nil, fmt.Errorf("%d-%02d, %w", year, int(month), ErrDuplicateObservation)
			}
			seen[key] = struct{}{}

			visits := math.NaN()
			if isMissing(cell) {
				missing = append(missing, Missing{Year: year, Month: month})
			} else {
				count, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
				if err != nil {
					return nil, fmt.Errorf("visit count %q for %d-%02d, %w", cell, year, int(month), ErrParse)
				}
				visits = count / 1000.0
			}
			obs = append(obs, CanonicalObservation{
				Institution: institution,
				Year:        year,
				Month:       month,
				Visits:      visits,
			})
		}
	}
	if len(obs) == 0 {
		return nil, fmt.Errorf("%s, %w", institution, ErrNoObservations)
	}

	sort.Slice(obs, func(i, j int) bool {
		if obs[i].Year != obs[j].Year {
			return obs[i].Year < obs[j].Year
		}
		return obs[i].Month < obs[j].Month
	})

	for i := 1; i < len(obs); i++ {
		if monthIndex(obs[i].Year, obs[i].Month) != monthIndex(obs[i-1].Year, obs[i-1].Month)+1 {
			return nil, fmt.Errorf(
				"gap between %d-%02d and %d-%02d, %w",
				obs[i-1].Year, int(obs[i-1].Month), obs[i].Year, int(obs[i].Month), ErrSeriesGap,
			)
		}
	}

	sort.Slice(missing, func(i, j int) bool {
		if missing[i].Year != missing[j].Year {
			return missing[i].Year < missing[j].Year
		}
		return missing[i].Month < missing[j].Month
	})

	return &ParseResult{
		Series:  &Series{Institution: institution, Observations: obs},
		Missing: missing,
	}, nil
}

// monthIndex maps a calendar month to a position on a continuous monthly
// axis so contiguity checks reduce to integer arithmetic.
func monthIndex(year int, month time.Month) int {
	return year*12 + int(month) - 1
}

// Len returns the number of observations in the series.
func (s *Series) Len() int {
	return len(s.Observations)
}

// Times returns each observation's calendar month as a time instant,
// suitable for direct plotting.
func (s *Series) Times() []time.Time {
	t := make([]time.Time, len(s.Observations))
	for i, o := range s.Observations {
		t[i] = time.Date(o.Year, o.Month, 1, 0, 0, 0, 0, time.UTC)
	}
	return t
}

// Values returns the visit counts in thousands, ordered by calendar month.
// Missing observations appear as NaN.
func (s *Series) Values() []float64 {
	y := make([]float64, len(s.Observations))
	for i, o := range s.Observations {
		y[i] = o.Visits
	}
	return y
}

// Window returns the contiguous sub-series covering start through end
// inclusive, each given as a (year, month) pair. Requests outside the bounds
// of the source series fail with ErrNonContiguousWindow. Windowing a series
// to its own full range returns an equal series.
func (s *Series) Window(startYear int, startMonth time.Month, endYear int, endMonth time.Month) (*Series, error) {
	if s.Len() == 0 {
		return nil, ErrNoObservations
	}
	// the index arithmetic below requires a contiguous receiver, which a
	// hand-built series may not be
	for i := 1; i < s.Len(); i++ {
		if monthIndex(s.Observations[i].Year, s.Observations[i].Month) != monthIndex(s.Observations[i-1].Year, s.Observations[i-1].Month)+1 {
			return nil, fmt.Errorf(
				"gap between %d-%02d and %d-%02d, %w",
				s.Observations[i-1].Year, int(s.Observations[i-1].Month), s.Observations[i].Year, int(s.Observations[i].Month), ErrSeriesGap,
			)
		}
	}
	first := monthIndex(s.Observations[0].Year, s.Observations[0].Month)
	startIdx := monthIndex(startYear, startMonth) - first
	endIdx := monthIndex(endYear, endMonth) - first
	if startIdx < 0 || endIdx >= s.Len() || startIdx > endIdx {
		return nil, fmt.Errorf(
			"requested %d-%02d through %d-%02d, %w",
			startYear, int(startMonth), endYear, int(endMonth), ErrNonContiguousWindow,
		)
	}
	obs := make([]CanonicalObservation, endIdx-startIdx+1)
	copy(obs, s.Observations[startIdx:endIdx+1])
	return &Series{Institution: s.Institution, Observations: obs}, nil
}

// MissingValues returns the positions of observations carrying a NaN visit
// count within this series.
func (s *Series) MissingValues() []Missing {
	var missing []Missing
	for _, o := range s.Observations {
		if math.IsNaN(o.Visits) {
			missing = append(missing, Missing{Year: o.Year, Month: o.Month})
		}
	}
	return missing
}
