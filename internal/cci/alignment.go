package cci

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Aligner contrasts one category against the others, one time step per task.
type Aligner struct {
	Components     int
	Workers        int
	Strategy       Strategy
	StrictBaseline bool
}

func NewAligner() *Aligner {
	return &Aligner{
		Components: DefaultComponents,
		Strategy:   RawVariance,
	}
}

func (a *Aligner) workers() int {
	if a.Workers > 0 {
		return a.Workers
	}
	return runtime.GOMAXPROCS(0)
}

type alignTask struct {
	category     Range
	outClasses   []Range
	time         float64
	exemplars    *TimeSlice
	inCentroids  [][]float64
	outCentroids [][][]float64
}

// ClassAlignment computes the per-time alignment of the in-class responses
// with the in-class axis relative to every out-class axis.
func (a *Aligner) ClassAlignment(ctx context.Context, ds *Dataset, in Range, outs []Range) (map[float64]Alignment, error) {
	log.Debug().Stringer("in_class", in).Interface("out_classes", outs).Msg("contrasting class")

	inZ := ds.ZData(in)
	inCentroids := ComputeCentroids(inZ)

	outCentroids := make([]Centroids, len(outs))
	for k, oc := range outs {
		log.Debug().Stringer("out_class", oc).Msg("loading out-class data")
		outCentroids[k] = ComputeCentroids(ds.ZData(oc))
	}

	tasks := make([]alignTask, len(inZ.Times))
	for i, t := range inZ.Times {
		task := alignTask{
			category:     in,
			outClasses:   outs,
			time:         t,
			exemplars:    inZ.At(t),
			inCentroids:  inCentroids[t],
			outCentroids: make([][][]float64, len(outs)),
		}
		for k := range outs {
			task.outCentroids[k] = outCentroids[k][t]
		}
		tasks[i] = task
	}

	results := make([]Alignment, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers())
	for i := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := a.align(tasks[i])
			if err != nil {
				return fmt.Errorf("category %s at time %g: %w", in, tasks[i].time, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	alignments := make(map[float64]Alignment, len(tasks))
	for i, task := range tasks {
		alignments[task.time] = results[i]
	}
	return alignments, nil
}

func (a *Aligner) align(task alignTask) (Alignment, error) {
	inVar, err := ClassVariance(task.exemplars, task.inCentroids, a.Components, a.Strategy)
	if err != nil {
		return Alignment{}, fmt.Errorf("in-class variance: %w", err)
	}

	outVars := make([]float64, 0, len(task.outCentroids))
	for k, centroids := range task.outCentroids {
		outVar, err := ClassVariance(task.exemplars, centroids, a.Components, a.Strategy)
		if err != nil {
			return Alignment{}, fmt.Errorf("out-class %s variance: %w", task.outClasses[k], err)
		}
		outVars = append(outVars, outVar)
	}

	baseline := stat.Mean(outVars, nil)
	if a.StrictBaseline && baseline == 0 {
		return Alignment{}, &DegenerateBaselineError{Category: task.category, Time: task.time}
	}

	score := inVar / baseline
	log.Trace().Float64("time_step", task.time).Float64("cci", score).Msg("For this time point, the cci is computed")

	return Alignment{InVariance: inVar, OutVariances: outVars, CCI: score}, nil
}
