package cci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildZData(t *testing.T) {
	times := []float64{-0.1, 0, 0.1}
	records := []ResponseRecord{
		record(times, []float64{1, 2}, []float64{3, 4}, []float64{5, 6}),
		record(times, []float64{7, 8}, []float64{9, 10}, []float64{11, 12}),
		record(times, []float64{13, 14}, []float64{15, 16}, []float64{17, 18}),
		record(times, []float64{19, 20}, []float64{21, 22}, []float64{23, 24}),
	}
	trials := []int{4, 2, 4, 30}
	class := Range{Low: 1, High: 12}

	z := BuildZData(trials, TrialPositions(trials, class), class, records, times)

	require.Equal(t, times, z.Times)
	for _, tm := range times {
		slice := z.At(tm)
		require.NotNil(t, slice)
		assert.Equal(t, []int{4, 2}, slice.Conditions, "first-encounter order at %g", tm)
		assert.Len(t, slice.Vectors[4], 2)
		assert.Len(t, slice.Vectors[2], 1)
		assert.NotContains(t, slice.Vectors, 30)
	}

	assert.Equal(t, [][]float64{{3, 4}, {15, 16}}, z.At(0).Vectors[4])
	assert.Equal(t, [][]float64{{11, 12}}, z.At(0.1).Vectors[2])
}

func TestBuildZDataRangeIsAuthoritative(t *testing.T) {
	times := []float64{0}
	records := []ResponseRecord{
		record(times, []float64{1}),
		record(times, []float64{2}),
		record(times, []float64{3}),
	}
	trials := []int{1, 20, 2}

	// every trial offered as a candidate; only in-range conditions survive
	z := BuildZData(trials, []int{0, 1, 2}, Range{Low: 1, High: 12}, records, times)

	assert.Equal(t, []int{1, 2}, z.At(0).Conditions)
}

func TestBuildZDataEmptyCategory(t *testing.T) {
	times := []float64{0, 1}
	records := []ResponseRecord{record(times, []float64{1}, []float64{2})}

	z := BuildZData([]int{50}, nil, Range{Low: 1, High: 12}, records, times)

	require.Equal(t, times, z.Times)
	assert.Empty(t, z.At(0).Conditions)
	assert.Empty(t, z.At(1).Vectors)
}

func TestComputeCentroids(t *testing.T) {
	t.Run("single trial centroid is the raw vector", func(t *testing.T) {
		times := []float64{0, 0.5}
		records := []ResponseRecord{record(times, []float64{1, -2, 3}, []float64{4, 5, -6})}
		trials := []int{7}

		z := BuildZData(trials, []int{0}, Range{Low: 1, High: 12}, records, times)
		c := ComputeCentroids(z)

		assert.Equal(t, [][]float64{{1, -2, 3}}, c[0])
		assert.Equal(t, [][]float64{{4, 5, -6}}, c[0.5])
	})

	t.Run("mean per condition in condition order", func(t *testing.T) {
		z := ZData{
			Times: []float64{0},
			Slices: map[float64]*TimeSlice{
				0: {
					Conditions: []int{3, 1},
					Vectors: map[int][][]float64{
						3: {{1, 1}, {3, 5}},
						1: {{2, 0}, {4, 0}, {6, 3}},
					},
				},
			},
		}

		c := ComputeCentroids(z)
		require.Len(t, c[0], 2)
		assert.InDeltaSlice(t, []float64{2, 3}, c[0][0], 1e-12)
		assert.InDeltaSlice(t, []float64{4, 1}, c[0][1], 1e-12)
	})
}

func TestBuildZDataMergesRepeatedTimes(t *testing.T) {
	times := []float64{0, 0}
	records := []ResponseRecord{
		record(times, []float64{1, 2}, []float64{3, 4}),
		record(times, []float64{5, 6}, []float64{7, 8}),
	}
	trials := []int{1, 2}
	class := Range{Low: 1, High: 12}

	z := BuildZData(trials, TrialPositions(trials, class), class, records, times)

	assert.Equal(t, []float64{0}, z.Times)
	require.Len(t, z.Slices, 1)
	assert.Equal(t, []int{1, 2}, z.At(0).Conditions)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, z.At(0).Vectors[1])
	assert.Equal(t, [][]float64{{5, 6}, {7, 8}}, z.At(0).Vectors[2])
}
