package visitseries

import (
	"strings"
	"time"
)

// MonthLookup maps month names and their three letter abbreviations to a
// calendar month. Lookups are case-insensitive.
type MonthLookup map[string]time.Month

// Months is the process-wide lookup table. Built once at startup and never
// mutated afterwards.
var Months = NewMonthLookup()

// NewMonthLookup returns a lookup covering the full english month names and
// their three letter abbreviations.
func NewMonthLookup() MonthLookup {
	l := make(MonthLookup, 24)
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		l[name] = m
		l[name[:3]] = m
	}
	return l
}

// Month resolves a label token to its calendar month. The second return
// value is false when the token is not a recognized month name.
func (l MonthLookup) Month(token string) (time.Month, bool) {
	m, exists := l[strings.ToLower(strings.TrimSpace(token))]
	return m, exists
}
