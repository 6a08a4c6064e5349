package cci

const DefaultComponents = 1

func DefaultBoundaries() []int {
	return LevelLow.Boundaries()
}
