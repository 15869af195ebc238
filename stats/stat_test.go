package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRemainderStats(t *testing.T) {
	testData := map[string]struct {
		remainder []float64
		expected  RemainderStats
	}{
		"mixed signs": {
			remainder: []float64{-1, 1, 3},
			expected:  RemainderStats{Mean: 1.0, MeanAbs: 5.0 / 3.0, Median: 1.0},
		},
		"all zero": {
			remainder: []float64{0, 0, 0},
			expected:  RemainderStats{},
		},
		"single value": {
			remainder: []float64{-2},
			expected:  RemainderStats{Mean: -2, MeanAbs: 2, Median: -2},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			got := NewRemainderStats(td.remainder)
			assert.InDelta(t, td.expected.Mean, got.Mean, 1e-12)
			assert.InDelta(t, td.expected.MeanAbs, got.MeanAbs, 1e-12)
			assert.InDelta(t, td.expected.Median, got.Median, 1e-12)
		})
	}
}

func TestACF(t *testing.T) {
	n := 8
	alternating := make([]float64, n)
	for i := range alternating {
		alternating[i] = 1.0
		if i%2 == 1 {
			alternating[i] = -1.0
		}
	}

	acf := ACF(alternating, 2)
	require.Len(t, acf, 3)
	assert.InDelta(t, 1.0, acf[0], 1e-12)
	assert.InDelta(t, -float64(n-1)/float64(n), acf[1], 1e-12)
	assert.InDelta(t, float64(n-2)/float64(n), acf[2], 1e-12)
}

func TestACFDegenerate(t *testing.T) {
	assert.Nil(t, ACF([]float64{2, 2, 2, 2}, 2), "zero variance")
	assert.Nil(t, ACF(nil, 2), "empty series")

	// lag capped at series length
	acf := ACF([]float64{1, 2, 4}, 10)
	assert.Len(t, acf, 3)
}

func TestConfidenceBound(t *testing.T) {
	assert.InDelta(t, 0.196, ConfidenceBound(100), 1e-12)
	assert.True(t, math.IsNaN(ConfidenceBound(0)))
}

func TestDetectOutliers(t *testing.T) {
	y := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 100}
	assert.Equal(t, []int{10}, DetectOutliers(y, 0.1, 0.8, 1.5))

	clean := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Nil(t, DetectOutliers(clean, 0.1, 0.8, 1.5))
}
