package seasonal

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/gb"
)

// BankHolidayCounts returns the number of observed GB bank holidays falling
// in each calendar month of t. Charted alongside the seasonal component it
// gives exploratory context for out of season visitor peaks.
func BankHolidayCounts(t []time.Time) []float64 {
	if len(t) == 0 {
		return nil
	}

	counts := make(map[int]float64)
	startYear := t[0].Year()
	endYear := t[len(t)-1].Year()
	for year := startYear; year <= endYear; year++ {
		for _, hol := range gb.Holidays {
			counts[monthKey(observedDate(hol, year))]++
		}
	}

	out := make([]float64, len(t))
	for i, tPnt := range t {
		out[i] = counts[monthKey(tPnt)]
	}
	return out
}

func observedDate(hol *cal.Holiday, year int) time.Time {
	_, observed := hol.Calc(year)
	return observed
}

func monthKey(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}
