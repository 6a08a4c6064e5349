package cci

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// record builds a response record from per-time source vectors.
func record(times []float64, vectors ...[]float64) ResponseRecord {
	sources := len(vectors[0])
	data := mat.NewDense(sources, len(vectors), nil)
	for t, v := range vectors {
		data.SetCol(t, v)
	}
	return ResponseRecord{Data: data, Times: times}
}

// syntheticSession draws every trial from the same isotropic normal
// distribution, trialsPerCondition trials for each condition id in [1, conditions].
func syntheticSession(t testing.TB, conditions, trialsPerCondition, sources, steps int, seed uint64) ([]ResponseRecord, []int) {
	t.Helper()

	times := make([]float64, steps)
	for i := range times {
		times[i] = float64(i) * 0.01
	}

	rng := rand.New(rand.NewPCG(seed, seed+1))
	var records []ResponseRecord
	var trials []int
	for c := 1; c <= conditions; c++ {
		for range trialsPerCondition {
			data := mat.NewDense(sources, steps, nil)
			for i := range sources {
				for j := range steps {
					data.Set(i, j, rng.NormFloat64())
				}
			}
			records = append(records, ResponseRecord{Data: data, Times: times})
			trials = append(trials, c)
		}
	}
	return records, trials
}
