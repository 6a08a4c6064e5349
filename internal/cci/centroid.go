package cci

import "gonum.org/v1/gonum/floats"

// ComputeCentroids reduces every condition at every time step to the
// element-wise mean of its trial vectors.
func ComputeCentroids(z ZData) Centroids {
	centroids := make(Centroids, len(z.Times))
	for _, t := range z.Times {
		slice := z.Slices[t]
		means := make([][]float64, 0, len(slice.Conditions))
		for _, condition := range slice.Conditions {
			means = append(means, meanVector(slice.Vectors[condition]))
		}
		centroids[t] = means
	}
	return centroids
}

func meanVector(vectors [][]float64) []float64 {
	mean := make([]float64, len(vectors[0]))
	for _, v := range vectors {
		floats.Add(mean, v)
	}
	floats.Scale(1/float64(len(vectors)), mean)
	return mean
}
