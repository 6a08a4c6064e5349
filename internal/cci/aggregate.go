package cci

import "gonum.org/v1/gonum/mat"

// BuildZData groups the per-source responses of the candidate trials by time
// step and condition. candidates only narrows the scan; the class range is
// the membership test.
func BuildZData(trials, candidates []int, class Range, records []ResponseRecord, times []float64) ZData {
	z := ZData{Slices: make(map[float64]*TimeSlice, len(times))}

	for t, time := range times {
		slice, ok := z.Slices[time]
		if !ok {
			slice = newTimeSlice()
			z.Slices[time] = slice
			z.Times = append(z.Times, time)
		}
		for _, p := range candidates {
			condition := trials[p]
			if !class.Contains(condition) {
				continue
			}
			slice.add(condition, mat.Col(nil, t, records[p].Data))
		}
	}

	return z
}
