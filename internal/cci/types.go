package cci

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ResponseRecord is one trial's source estimate: a sources x time steps matrix
// and the time axis shared by every record of a session.
type ResponseRecord struct {
	Data  *mat.Dense
	Times []float64
}

// Range is an inclusive condition-id range identifying one category.
type Range struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d]", r.Low, r.High)
}

func (r Range) Contains(condition int) bool {
	return condition >= r.Low && condition <= r.High
}

// TimeSlice holds the trial vectors of one time step grouped by condition.
// Conditions keeps first-encounter order.
type TimeSlice struct {
	Conditions []int
	Vectors    map[int][][]float64
}

func newTimeSlice() *TimeSlice {
	return &TimeSlice{Vectors: make(map[int][][]float64)}
}

func (s *TimeSlice) add(condition int, vector []float64) {
	if _, ok := s.Vectors[condition]; !ok {
		s.Conditions = append(s.Conditions, condition)
	}
	s.Vectors[condition] = append(s.Vectors[condition], vector)
}

// ZData maps each time step to the per-condition trial vectors observed at it.
type ZData struct {
	Times  []float64
	Slices map[float64]*TimeSlice
}

func (z ZData) At(time float64) *TimeSlice {
	return z.Slices[time]
}

// Centroids maps each time step to one mean vector per condition, in the
// condition order of the ZData it was computed from.
type Centroids map[float64][][]float64

// Alignment is the per-time outcome of contrasting one category with the rest.
type Alignment struct {
	InVariance   float64   `json:"in_variance"`
	OutVariances []float64 `json:"out_variances"`
	CCI          float64   `json:"cci"`
}

// Result holds the CCI scores per time step, one entry per category in
// processing order.
type Result struct {
	Times      []float64             `json:"times"`
	Categories []Range               `json:"categories"`
	Scores     map[float64][]float64 `json:"-"`
}

func NewResult() Result {
	return Result{Scores: make(map[float64][]float64)}
}

func (r *Result) appendCategory(category Range, times []float64, alignments map[float64]Alignment) {
	r.Categories = append(r.Categories, category)
	appended := make(map[float64]bool, len(alignments))
	for _, t := range times {
		a, ok := alignments[t]
		if !ok || appended[t] {
			continue
		}
		appended[t] = true
		if _, seen := r.Scores[t]; !seen {
			r.Times = append(r.Times, t)
		}
		r.Scores[t] = append(r.Scores[t], a.CCI)
	}
}

// Row is one (time, category) score in long form.
type Row struct {
	Time     float64
	Category int
	Range    Range
	Score    float64
}

// Rows flattens the result in time order, then category order.
func (r Result) Rows() []Row {
	rows := make([]Row, 0, len(r.Times)*len(r.Categories))
	for _, t := range r.Times {
		for i, score := range r.Scores[t] {
			row := Row{Time: t, Category: i, Score: score}
			if i < len(r.Categories) {
				row.Range = r.Categories[i]
			}
			rows = append(rows, row)
		}
	}
	return rows
}
