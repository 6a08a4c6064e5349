package cci

import (
	"math"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultJSONKeepsNonFiniteScores(t *testing.T) {
	r := NewResult()
	times := []float64{-0.1, 0.2}
	r.appendCategory(Range{Low: 1, High: 12}, times, map[float64]Alignment{
		-0.1: {CCI: 1.5},
		0.2:  {CCI: math.NaN()},
	})
	r.appendCategory(Range{Low: 13, High: 24}, times, map[float64]Alignment{
		-0.1: {CCI: math.Inf(1)},
		0.2:  {CCI: 0.25},
	})

	data, err := sonic.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"NaN"`)
	assert.Contains(t, string(data), `"+Inf"`)

	var decoded Result
	require.NoError(t, sonic.Unmarshal(data, &decoded))
	assert.Equal(t, times, decoded.Times)
	assert.Equal(t, r.Categories, decoded.Categories)
	assert.Equal(t, []float64{1.5, math.Inf(1)}, decoded.Scores[-0.1])
	assert.True(t, math.IsNaN(decoded.Scores[0.2][0]))
	assert.Equal(t, 0.25, decoded.Scores[0.2][1])
}

func TestResultUnmarshalRejectsRaggedScores(t *testing.T) {
	var r Result
	err := sonic.Unmarshal([]byte(`{"times":[0,1],"categories":[],"scores":[[1]]}`), &r)
	assert.Error(t, err)
}

func TestResultRows(t *testing.T) {
	r := NewResult()
	r.appendCategory(Range{Low: 1, High: 2}, []float64{0, 1}, map[float64]Alignment{0: {CCI: 3}, 1: {CCI: 4}})
	r.appendCategory(Range{Low: 3, High: 4}, []float64{0, 1}, map[float64]Alignment{0: {CCI: 5}, 1: {CCI: 6}})

	rows := r.Rows()
	require.Len(t, rows, 4)
	assert.Equal(t, Row{Time: 0, Category: 1, Range: Range{Low: 3, High: 4}, Score: 5}, rows[1])
	assert.Equal(t, Row{Time: 1, Category: 0, Range: Range{Low: 1, High: 2}, Score: 4}, rows[2])
}
