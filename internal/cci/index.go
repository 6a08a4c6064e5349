package cci

import "slices"

// ConditionIndex maps each condition id to the trial positions that carry it,
// so the candidate trials of any range can be sliced out without rescanning
// the trial list.
type ConditionIndex struct {
	conditions []int
	positions  map[int][]int
}

func NewConditionIndex(trials []int) *ConditionIndex {
	idx := &ConditionIndex{positions: make(map[int][]int)}
	for p, condition := range trials {
		if _, ok := idx.positions[condition]; !ok {
			idx.conditions = append(idx.conditions, condition)
		}
		idx.positions[condition] = append(idx.positions[condition], p)
	}
	slices.Sort(idx.conditions)
	return idx
}

// Candidates returns the trial positions whose condition lies in r, in
// ascending trial order. The result matches TrialPositions.
func (idx *ConditionIndex) Candidates(r Range) []int {
	var positions []int
	for _, condition := range idx.conditions {
		if !r.Contains(condition) {
			continue
		}
		positions = append(positions, idx.positions[condition]...)
	}
	slices.Sort(positions)
	return positions
}

func (idx *ConditionIndex) Conditions() []int {
	return slices.Clone(idx.conditions)
}
