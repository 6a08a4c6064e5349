// Package cci computes contrasted class information: for each object
// category, the response variance of its trials measured against the
// principal axis of its own centroids, relative to the same measure against
// every other category.
package cci

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
)

type Orchestrator struct {
	Boundaries []int
	Aligner    *Aligner
}

type Option func(*Orchestrator)

func WithBoundaries(boundaries []int) Option {
	return func(o *Orchestrator) {
		o.Boundaries = slices.Clone(boundaries)
	}
}

func WithLevel(level Level) Option {
	return func(o *Orchestrator) {
		o.Boundaries = level.Boundaries()
	}
}

func WithComponents(n int) Option {
	return func(o *Orchestrator) {
		o.Aligner.Components = n
	}
}

func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		o.Aligner.Workers = n
	}
}

func WithStrategy(strategy Strategy) Option {
	return func(o *Orchestrator) {
		o.Aligner.Strategy = strategy
	}
}

func WithStrictBaseline(strict bool) Option {
	return func(o *Orchestrator) {
		o.Aligner.StrictBaseline = strict
	}
}

func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		Boundaries: DefaultBoundaries(),
		Aligner:    NewAligner(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Run computes the CCI of every category for every time step. Categories are
// processed sequentially in boundary order; the first failure aborts the run.
func (o *Orchestrator) Run(ctx context.Context, records []ResponseRecord, trials []int) (Result, error) {
	if len(o.Boundaries) < 2 {
		return Result{}, malformed("need at least two category boundaries, got %d", len(o.Boundaries))
	}

	ds, err := NewDataset(records, trials)
	if err != nil {
		return Result{}, err
	}

	startTime := time.Now()
	result := NewResult()
	for cursor := range len(o.Boundaries) - 1 {
		in, outs := ClassRanges(o.Boundaries, cursor)

		alignments, err := o.Aligner.ClassAlignment(ctx, ds, in, outs)
		if err != nil {
			return Result{}, fmt.Errorf("class alignment for category %d %s: %w", cursor, in, err)
		}

		result.appendCategory(in, ds.Times(), alignments)
		log.Info().Stringer("category", in).Int("time_steps", len(alignments)).Msg("computed contrasted class information")
	}

	log.Debug().Msgf("Computed CCI for %d categories over %d time steps in %v", len(result.Categories), len(result.Times), time.Since(startTime))
	return result, nil
}
