package cci

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Strategy selects which variance ClassVariance reports per condition.
type Strategy string

const (
	// RawVariance fits the class direction but reports the population
	// variance of the unprojected responses.
	RawVariance Strategy = "raw"
	// ProjectedVariance reports the variance of the responses projected onto
	// the class direction.
	ProjectedVariance Strategy = "projected"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case RawVariance, "":
		return RawVariance, nil
	case ProjectedVariance:
		return ProjectedVariance, nil
	}
	return "", fmt.Errorf("unknown variance strategy %q", s)
}

type classAxis struct {
	mean    []float64
	vectors *mat.Dense // features x components
}

func fitClassAxis(centroids [][]float64, nComponents int) (*classAxis, error) {
	n := len(centroids)
	d := 0
	if n > 0 {
		d = len(centroids[0])
	}
	if nComponents < 1 || n < nComponents || d < nComponents {
		return nil, &InsufficientSamplesError{Samples: n, Features: d, Components: nComponents}
	}

	data := mat.NewDense(n, d, nil)
	for i, c := range centroids {
		data.SetRow(i, c)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return nil, ErrDecompositionFailed
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	mean := make([]float64, d)
	for j := range d {
		mean[j] = stat.Mean(mat.Col(nil, j, data), nil)
	}

	return &classAxis{
		mean:    mean,
		vectors: mat.DenseCopyOf(vecs.Slice(0, d, 0, nComponents)),
	}, nil
}

// project returns the scores of vectors on the axis, one row per vector.
func (a *classAxis) project(vectors [][]float64) *mat.Dense {
	_, k := a.vectors.Dims()
	centered := mat.NewDense(len(vectors), len(a.mean), nil)
	row := make([]float64, len(a.mean))
	for i, v := range vectors {
		floats.SubTo(row, v, a.mean)
		centered.SetRow(i, row)
	}
	scores := mat.NewDense(len(vectors), k, nil)
	scores.Mul(centered, a.vectors)
	return scores
}

func (a *classAxis) projectedVariance(vectors [][]float64) float64 {
	scores := a.project(vectors)
	_, k := scores.Dims()
	total := 0.0
	for j := range k {
		total += stat.PopVariance(mat.Col(nil, j, scores), nil)
	}
	return total
}

func rawVariance(vectors [][]float64) float64 {
	flat := make([]float64, 0, len(vectors)*len(vectors[0]))
	for _, v := range vectors {
		flat = append(flat, v...)
	}
	return stat.PopVariance(flat, nil)
}

// ClassVariance fits the first nComponents principal directions of centroids
// and returns the mean, over the conditions of ex, of each condition's
// response variance under strategy. It has no side effects and may run
// concurrently.
func ClassVariance(ex *TimeSlice, centroids [][]float64, nComponents int, strategy Strategy) (float64, error) {
	axis, err := fitClassAxis(centroids, nComponents)
	if err != nil {
		return 0, err
	}

	variances := make([]float64, 0, len(ex.Conditions))
	for _, condition := range ex.Conditions {
		vectors := ex.Vectors[condition]
		switch strategy {
		case ProjectedVariance:
			variances = append(variances, axis.projectedVariance(vectors))
		default:
			variances = append(variances, rawVariance(vectors))
		}
	}

	return stat.Mean(variances, nil), nil
}
