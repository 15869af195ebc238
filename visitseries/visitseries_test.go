package visitseries

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthLookup(t *testing.T) {
	testData := map[string]struct {
		token    string
		expected time.Month
		ok       bool
	}{
		"full name":        {token: "October", expected: time.October, ok: true},
		"abbreviation":     {token: "Oct", expected: time.October, ok: true},
		"case insensitive": {token: "OCT", expected: time.October, ok: true},
		"padded":           {token: " january ", expected: time.January, ok: true},
		"not a month":      {token: "Total", ok: false},
		"empty":            {token: "", ok: false},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			m, ok := Months.Month(td.token)
			assert.Equal(t, td.ok, ok)
			if td.ok {
				assert.Equal(t, td.expected, m)
			}
		})
	}
}

func TestSplitLabel(t *testing.T) {
	testData := map[string]struct {
		label       string
		institution string
		month       time.Month
		ok          bool
	}{
		"monthly row": {
			label:       "MUSEUM_X_October",
			institution: "MUSEUM_X",
			month:       time.October,
			ok:          true,
		},
		"annual total":  {label: "MUSEUM_X_Total", ok: false},
		"no delimiter":  {label: "October", ok: false},
		"empty prefix":  {label: "_October", ok: false},
		"abbreviation":  {label: "MUSEUM_X_Jan", institution: "MUSEUM_X", month: time.January, ok: true},
		"trailing junk": {label: "MUSEUM_X_Octoberish", ok: false},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			institution, month, ok := SplitLabel(td.label)
			assert.Equal(t, td.ok, ok)
			if td.ok {
				assert.Equal(t, td.institution, institution)
				assert.Equal(t, td.month, month)
			}
		})
	}
}

func TestCalendarYear(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		expected := 2015
		if m < time.April {
			expected = 2016
		}
		assert.Equal(t, expected, CalendarYear(2015, m), m.String())
	}
}

func TestParse(t *testing.T) {
	testData := map[string]struct {
		rows        []RawObservation
		institution string
		expected    []CanonicalObservation
		missing     []Missing
		err         error
	}{
		"october stays in fiscal year": {
			rows: []RawObservation{
				{Label: "MUSEUM_X_October", Counts: map[int]string{2015: "120000"}},
			},
			institution: "MUSEUM_X",
			expected: []CanonicalObservation{
				{Institution: "MUSEUM_X", Year: 2015, Month: time.October, Visits: 120.0},
			},
		},
		"january rolls into next calendar year": {
			rows: []RawObservation{
				{Label: "MUSEUM_X_January", Counts: map[int]string{2015: "90000"}},
			},
			institution: "MUSEUM_X",
			expected: []CanonicalObservation{
				{Institution: "MUSEUM_X", Year: 2016, Month: time.January, Visits: 90.0},
			},
		},
		"annual totals and other institutions filtered": {
			rows: []RawObservation{
				{Label: "MUSEUM_X_Total", Counts: map[int]string{2015: "999999"}},
				{Label: "MUSEUM_Y_October", Counts: map[int]string{2015: "50000"}},
				{Label: "MUSEUM_X_October", Counts: map[int]string{2015: "120000"}},
			},
			institution: "MUSEUM_X",
			expected: []CanonicalObservation{
				{Institution: "MUSEUM_X", Year: 2015, Month: time.October, Visits: 120.0},
			},
		},
		"missing sentinel surfaces as diagnostic": {
			rows: []RawObservation{
				{Label: "MUSEUM_X_October", Counts: map[int]string{2015: ".."}},
			},
			institution: "MUSEUM_X",
			missing:     []Missing{{Year: 2015, Month: time.October}},
		},
		"duplicate calendar month": {
			rows: []RawObservation{
				{Label: "MUSEUM_X_October", Counts: map[int]string{2015: "120000"}},
				{Label: "MUSEUM_X_Oct", Counts: map[int]string{2015: "130000"}},
			},
			institution: "MUSEUM_X",
			err:         ErrDuplicateObservation,
		},
		"unparseable visit count": {
			rows: []RawObservation{
				{Label: "MUSEUM_X_October", Counts: map[int]string{2015: "12x000"}},
			},
			institution: "MUSEUM_X",
			err:         ErrParse,
		},
		"no rows for institution": {
			rows: []RawObservation{
				{Label: "MUSEUM_Y_October", Counts: map[int]string{2015: "50000"}},
			},
			institution: "MUSEUM_X",
			err:         ErrNoObservations,
		},
		"non contiguous months": {
			rows: []RawObservation{
				{Label: "MUSEUM_X_October", Counts: map[int]string{2015: "120000"}},
				{Label: "MUSEUM_X_December", Counts: map[int]string{2015: "110000"}},
			},
			institution: "MUSEUM_X",
			err:         ErrSeriesGap,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := Parse(td.rows, td.institution)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			if td.expected != nil {
				assert.Equal(t, td.expected, res.Series.Observations)
			}
			assert.Equal(t, td.missing, res.Missing)
			if td.missing != nil {
				for _, m := range td.missing {
					for _, o := range res.Series.Observations {
						if o.Year == m.Year && o.Month == m.Month {
							assert.True(t, math.IsNaN(o.Visits))
						}
					}
				}
			}
		})
	}
}

func TestParseFullFiscalYear(t *testing.T) {
	rows := make([]RawObservation, 0, 12)
	for m := time.January; m <= time.December; m++ {
		rows = append(rows, RawObservation{
			Label:  "MUSEUM_X_" + m.String(),
			Counts: map[int]string{2014: "100000", 2015: "110000"},
		})
	}

	res, err := Parse(rows, "MUSEUM_X")
	require.NoError(t, err)
	require.Equal(t, 24, res.Series.Len())

	// two fiscal years cover calendar 2014-04 through 2016-03
	first := res.Series.Observations[0]
	last := res.Series.Observations[len(res.Series.Observations)-1]
	assert.Equal(t, 2014, first.Year)
	assert.Equal(t, time.April, first.Month)
	assert.Equal(t, 2016, last.Year)
	assert.Equal(t, time.March, last.Month)

	for i := 1; i < res.Series.Len(); i++ {
		prev := res.Series.Observations[i-1]
		curr := res.Series.Observations[i]
		assert.Equal(t, prev.Year*12+int(prev.Month), curr.Year*12+int(curr.Month)-1)
	}
}

func testSeries(t *testing.T, startYear int, months int) *Series {
	t.Helper()
	rows := make([]RawObservation, 0, 12)
	counts := make(map[int]string)
	for fy := startYear; fy < startYear+months/12; fy++ {
		counts[fy] = "100000"
	}
	for m := time.January; m <= time.December; m++ {
		rows = append(rows, RawObservation{Label: "MUSEUM_X_" + m.String(), Counts: counts})
	}
	res, err := Parse(rows, "MUSEUM_X")
	require.NoError(t, err)
	return res.Series
}

func TestWindow(t *testing.T) {
	series := testSeries(t, 2013, 36) // calendar 2013-04 .. 2016-03

	testData := map[string]struct {
		startYear  int
		startMonth time.Month
		endYear    int
		endMonth   time.Month
		expected   int
		err        error
	}{
		"complete years": {
			startYear: 2014, startMonth: time.January,
			endYear: 2015, endMonth: time.December,
			expected: 24,
		},
		"single month": {
			startYear: 2014, startMonth: time.June,
			endYear: 2014, endMonth: time.June,
			expected: 1,
		},
		"before series start": {
			startYear: 2012, startMonth: time.January,
			endYear: 2015, endMonth: time.December,
			err: ErrNonContiguousWindow,
		},
		"after series end": {
			startYear: 2014, startMonth: time.January,
			endYear: 2016, endMonth: time.December,
			err: ErrNonContiguousWindow,
		},
		"inverted range": {
			startYear: 2015, startMonth: time.June,
			endYear: 2014, endMonth: time.June,
			err: ErrNonContiguousWindow,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			w, err := series.Window(td.startYear, td.startMonth, td.endYear, td.endMonth)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, w.Len())
			assert.Equal(t, td.startYear, w.Observations[0].Year)
			assert.Equal(t, td.startMonth, w.Observations[0].Month)
		})
	}
}

func TestWindowGappyReceiver(t *testing.T) {
	// a hand-built series with a hole must be rejected rather than have the
	// index arithmetic silently return the wrong months
	series := &Series{
		Institution: "MUSEUM_X",
		Observations: []CanonicalObservation{
			{Institution: "MUSEUM_X", Year: 2015, Month: time.October, Visits: 120.0},
			{Institution: "MUSEUM_X", Year: 2015, Month: time.December, Visits: 110.0},
			{Institution: "MUSEUM_X", Year: 2016, Month: time.January, Visits: 90.0},
		},
	}

	_, err := series.Window(2015, time.December, 2016, time.January)
	assert.ErrorIs(t, err, ErrSeriesGap)
}

func TestWindowIdentity(t *testing.T) {
	series := testSeries(t, 2013, 24)
	first := series.Observations[0]
	last := series.Observations[series.Len()-1]

	w, err := series.Window(first.Year, first.Month, last.Year, last.Month)
	require.NoError(t, err)
	assert.Equal(t, series, w)
}

func TestTimesValues(t *testing.T) {
	series := testSeries(t, 2013, 12)
	times := series.Times()
	values := series.Values()
	require.Equal(t, series.Len(), len(times))
	require.Equal(t, series.Len(), len(values))
	assert.Equal(t, time.Date(2013, time.April, 1, 0, 0, 0, 0, time.UTC), times[0])
	assert.Equal(t, 100.0, values[0])
}
