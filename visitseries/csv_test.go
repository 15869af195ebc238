package visitseries

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	testData := map[string]struct {
		input    string
		expected []RawObservation
		err      error
	}{
		"valid table": {
			input: "institution,2014,2015\n" +
				"MUSEUM_X_October,100000,120000\n" +
				"MUSEUM_X_November,90000,..\n",
			expected: []RawObservation{
				{Label: "MUSEUM_X_October", Counts: map[int]string{2014: "100000", 2015: "120000"}},
				{Label: "MUSEUM_X_November", Counts: map[int]string{2014: "90000", 2015: ".."}},
			},
		},
		"unparseable fiscal year header": {
			input: "institution,2014,FY15\nMUSEUM_X_October,100000,120000\n",
			err:   ErrParse,
		},
		"missing fiscal year columns": {
			input: "institution\nMUSEUM_X_October\n",
			err:   ErrParse,
		},
		"no data rows": {
			input: "institution,2014,2015\n",
			err:   ErrMissingTable,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			rows, err := ReadCSV(strings.NewReader(td.input))
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, rows)
		})
	}
}

func TestIsMissing(t *testing.T) {
	for _, cell := range []string{"", " ", "NA", "NaN", "null", ".."} {
		assert.True(t, isMissing(cell), cell)
	}
	for _, cell := range []string{"0", "120000", "-1"} {
		assert.False(t, isMissing(cell), cell)
	}
}
