// Package sweep drives the radiator angle sweep: the same scenario is
// re-run with the matrix at a series of orientations and the per-angle
// performance records are collected for comparison. Every angle gets a
// fresh SimulationState; nothing mutable is shared between runs, so
// the angles can execute in parallel.
package sweep

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/mkarlsen/radflow/internal/config"
	"github.com/mkarlsen/radflow/internal/metrics"
)

// DefaultAngles spans the usual mounting range in 15 degree steps.
func DefaultAngles() []float64 { return []float64{0, 15, 30, 45, 60, 75, 90} }

type Sweep struct {
	Base          *config.Config // scenario with a radiator declared
	Angles        []float64      // degrees
	StepsPerAngle int
	Parallel      bool
}

func New(base *config.Config) *Sweep {
	steps := base.Step.Steps
	if steps <= 0 {
		steps = config.DefaultSteps
	}
	return &Sweep{
		Base:          base,
		Angles:        DefaultAngles(),
		StepsPerAngle: steps,
	}
}

// Run executes the sweep and returns one record per angle, in the
// order of s.Angles. Cancellation is honored between steps, never
// inside one.
func (s *Sweep) Run(ctx context.Context) ([]metrics.Record, error) {
	if s.Base == nil || s.Base.Radiator == nil {
		return nil, fmt.Errorf("sweep scenario has no radiator")
	}
	if len(s.Angles) == 0 {
		return nil, fmt.Errorf("sweep has no angles")
	}

	records := make([]metrics.Record, len(s.Angles))
	errs := make([]error, len(s.Angles))

	if s.Parallel {
		var wg sync.WaitGroup
		for i := range s.Angles {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				records[idx], errs[idx] = s.runAngle(ctx, s.Angles[idx])
			}(i)
		}
		wg.Wait()
	} else {
		for i := range s.Angles {
			records[i], errs[i] = s.runAngle(ctx, s.Angles[i])
		}
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *Sweep) runAngle(ctx context.Context, angleDeg float64) (metrics.Record, error) {
	cfg := *s.Base
	radiator := *s.Base.Radiator
	radiator.AngleDeg = angleDeg
	cfg.Radiator = &radiator

	sol, err := cfg.BuildSolver()
	if err != nil {
		return metrics.Record{}, fmt.Errorf("angle %.1f: %w", angleDeg, err)
	}

	log.WithFields(log.Fields{
		"angle": angleDeg,
		"steps": s.StepsPerAngle,
	}).Debug("sweep angle start")

	dt := cfg.Step.Dt
	for step := 0; step < s.StepsPerAngle; step++ {
		select {
		case <-ctx.Done():
			return metrics.Record{}, ctx.Err()
		default:
		}
		sol.Step(dt)
	}

	rec := metrics.Compute(sol, cfg.BuildRadiator(), metrics.Axial(cfg.Flow.InflowSpeed))
	rec.AngleDeg = angleDeg

	log.WithFields(log.Fields{
		"angle":     angleDeg,
		"mass_flow": rec.MassFlowRate,
		"dp":        rec.PressureDrop,
	}).Debug("sweep angle done")
	return rec, nil
}

// Best picks the record with the highest cooling efficiency per unit
// of fan power, the figure the sweep exists to optimize.
func Best(records []metrics.Record) (metrics.Record, float64) {
	var best metrics.Record
	bestScore := -1.0
	for _, rec := range records {
		score := rec.CoolingEfficiency / (1 + rec.FanPowerRequired/1000)
		if score > bestScore {
			bestScore = score
			best = rec
		}
	}
	return best, bestScore
}
