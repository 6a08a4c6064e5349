package cci

import (
	"fmt"
	"slices"
	"strings"
)

// Level selects one of the fixed category granularities.
type Level string

const (
	LevelLow  Level = "low"
	LevelMid  Level = "mid"
	LevelHigh Level = "high"
)

var (
	// human body parts, human faces, animal parts, animal faces, natural objects, manmade objects
	LowBoundaries = []int{1, 13, 25, 37, 49, 72, 93}
	// human, animal, natural, manmade
	MidBoundaries = []int{1, 25, 49, 72}
	// animate, inanimate
	HighBoundaries = []int{1, 49}
)

func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelLow:
		return LevelLow, nil
	case LevelMid:
		return LevelMid, nil
	case LevelHigh:
		return LevelHigh, nil
	}
	return "", fmt.Errorf("unknown category level %q", s)
}

// Boundaries returns a copy of the boundary list for the level.
func (l Level) Boundaries() []int {
	switch l {
	case LevelMid:
		return slices.Clone(MidBoundaries)
	case LevelHigh:
		return slices.Clone(HighBoundaries)
	}
	return slices.Clone(LowBoundaries)
}

func boundaryRange(boundaries []int, i int) Range {
	return Range{Low: boundaries[i], High: boundaries[i+1] - 1}
}

// CategoryRanges lists every category defined by consecutive boundary pairs.
func CategoryRanges(boundaries []int) []Range {
	if len(boundaries) < 2 {
		return nil
	}
	ranges := make([]Range, 0, len(boundaries)-1)
	for i := range len(boundaries) - 1 {
		ranges = append(ranges, boundaryRange(boundaries, i))
	}
	return ranges
}

// ClassRanges returns the category at cursor as the in-class and every other
// category, in boundary order, as out-classes.
func ClassRanges(boundaries []int, cursor int) (in Range, out []Range) {
	for i := range len(boundaries) - 1 {
		if i == cursor {
			in = boundaryRange(boundaries, i)
			continue
		}
		out = append(out, boundaryRange(boundaries, i))
	}
	return in, out
}

// TrialPositions returns the indices of trials whose condition lies in r.
func TrialPositions(trials []int, r Range) []int {
	var positions []int
	for p, condition := range trials {
		if r.Contains(condition) {
			positions = append(positions, p)
		}
	}
	return positions
}
