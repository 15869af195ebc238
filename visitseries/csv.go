package visitseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrParse        = errors.New("malformed input table")
	ErrMissingTable = errors.New("table has no data rows")
)

// RawObservation is a single row of the wide source table. Label holds the
// composite institution/month string from the first column and Counts maps
// each fiscal year column header to its raw cell value. Cells may carry a
// missing value sentinel.
type RawObservation struct {
	Label  string
	Counts map[int]string
}

// isMissing reports whether a cell carries one of the missing value
// sentinels used by the source dataset.
func isMissing(cell string) bool {
	switch strings.TrimSpace(cell) {
	case "", "NA", "NaN", "null", "..":
		return true
	}
	return false
}

// ReadCSV reads the wide museum visits table. The first column is the
// composite institution/month label and every remaining column is headed by
// a fiscal year, e.g. "2004".."2016". An unparseable fiscal year header
// aborts the read.
func ReadCSV(r io.Reader) ([]RawObservation, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to read header row, %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("header has %d columns, need a label column and at least one fiscal year, %w", len(header), ErrParse)
	}

	years := make([]int, 0, len(header)-1)
	for _, h := range header[1:] {
		year, err := strconv.Atoi(strings.TrimSpace(h))
		if err != nil {
			return nil, fmt.Errorf("fiscal year column header %q, %w", h, ErrParse)
		}
		years = append(years, year)
	}

	var rows []RawObservation
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read row, %w", err)
		}
		counts := make(map[int]string, len(years))
		for i, year := range years {
			counts[year] = record[i+1]
		}
		rows = append(rows, RawObservation{Label: record[0], Counts: counts})
	}
	if len(rows) == 0 {
		return nil, ErrMissingTable
	}
	return rows, nil
}
