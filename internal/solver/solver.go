// Package solver implements the per-step physics kernel: boundary
// enforcement, semi-Lagrangian advection, porous-medium resistance and
// the Gauss-Seidel pressure projection that restores incompressibility
// on the staggered grid.
package solver

import (
	"fmt"
	"runtime"

	"github.com/mkarlsen/radflow/internal/field"
	"github.com/mkarlsen/radflow/internal/grid"
	"github.com/mkarlsen/radflow/internal/obstacle"
)

// WallKind selects the top/bottom domain edge treatment.
type WallKind int

const (
	// WallNoSlip zeroes both normal and tangential velocity at the wall.
	WallNoSlip WallKind = iota
	// WallSymmetry zeroes only the normal component (free-slip).
	WallSymmetry
)

// Conditions are the fluid properties and inflow of a scenario.
type Conditions struct {
	InflowSpeed float64 // prescribed u on the left edge, m/s
	Density     float64 // kg/m^3
	Viscosity   float64 // dynamic viscosity, Pa*s
	TopBottom   WallKind
	SmokeInflow bool // seed tracer at the inflow edge
}

// Params tune the pressure solve.
type Params struct {
	PressureIters int     // Gauss-Seidel sweep cap per step
	Tolerance     float64 // early-exit threshold on max pressure change
	OverRelax     float64 // SOR factor, 1 = plain Gauss-Seidel
}

// DefaultParams matches the documented solver settings.
func DefaultParams() Params {
	return Params{PressureIters: 20, Tolerance: 1e-6, OverRelax: 1.9}
}

// StepDiag reports the convergence of one step's pressure solve.
// Hitting the iteration cap is not an error; the caller decides
// whether to log, warn or abort.
type StepDiag struct {
	Iterations    int
	Residual      float64 // max pressure change of the last sweep
	MaxDivergence float64 // max |div u| over fluid cells after projection
	Converged     bool
}

// Solver owns one simulation's state and advances it in place. A
// Solver must not be shared across concurrent runs; the sweep driver
// builds a fresh one per angle.
type Solver struct {
	g    *grid.Grid
	f    *field.Fields
	cond Conditions
	par  Params

	obstacles []obstacle.Obstacle
	mask      []bool
	coeff     []obstacle.PorousCoeff

	// mark buffers for the two-pass solid-interface enforcement
	blockedU []bool
	blockedV []bool

	div       []float64
	residuals []float64

	workers int
}

// New validates the scenario and builds the initial state: obstacles
// rasterized, a uniform inflow-speed velocity field in the fluid
// region and boundary conditions applied once.
func New(g *grid.Grid, obstacles []obstacle.Obstacle, cond Conditions, par Params) (*Solver, error) {
	if g == nil {
		return nil, fmt.Errorf("nil grid")
	}
	if cond.Density <= 0 {
		return nil, fmt.Errorf("density must be positive, got %g", cond.Density)
	}
	if cond.Viscosity < 0 {
		return nil, fmt.Errorf("viscosity must be non-negative, got %g", cond.Viscosity)
	}
	if par.PressureIters <= 0 {
		par = DefaultParams()
	}
	if par.OverRelax <= 0 || par.OverRelax >= 2 {
		return nil, fmt.Errorf("over-relaxation must be in (0,2), got %g", par.OverRelax)
	}

	s := &Solver{
		g:        g,
		f:        field.New(g),
		cond:     cond,
		par:      par,
		mask:     make([]bool, g.Cells()),
		coeff:    make([]obstacle.PorousCoeff, g.Cells()),
		blockedU: make([]bool, (g.NX+1)*g.NY),
		blockedV: make([]bool, g.NX*(g.NY+1)),
		div:      make([]float64, g.Cells()),
		workers:  runtime.GOMAXPROCS(0),
	}
	if err := s.SetObstacles(obstacles); err != nil {
		return nil, err
	}

	// Uniform initial field at the inflow speed keeps the transient
	// short; solid faces are zeroed by the enforcement below.
	for i := 0; i <= g.NX; i++ {
		for j := 0; j < g.NY; j++ {
			s.f.U[s.f.UIdx(i, j)] = cond.InflowSpeed
		}
	}
	s.enforceBoundaries()
	return s, nil
}

// SetObstacles replaces the obstacle list and re-rasterizes the solid
// mask and porous coefficients, e.g. between sweep angles.
func (s *Solver) SetObstacles(obstacles []obstacle.Obstacle) error {
	if err := obstacle.Rasterize(s.g, obstacles, s.cond.Density, s.cond.Viscosity, s.mask, s.coeff); err != nil {
		return err
	}
	s.obstacles = append(s.obstacles[:0], obstacles...)
	for k, solid := range s.mask {
		if solid {
			s.f.Smoke[k] = 0
		}
	}
	return nil
}

// Step advances the state by dt: advection, porous forces, a single
// boundary-condition pass, then the pressure projection. The boundary
// pass runs once per step; the projection skips every face adjacent to
// a solid cell, so the no-slip state it establishes survives into the
// next step.
func (s *Solver) Step(dt float64) StepDiag {
	s.advectVelocity(dt)
	s.advectSmoke(dt)
	s.applyPorous(dt)
	s.enforceBoundaries()
	return s.project(dt)
}

// Grid returns the shared geometry descriptor.
func (s *Solver) Grid() *grid.Grid { return s.g }

// Fields exposes the live field store. Read-only consumers (metrics,
// rendering) must not mutate it.
func (s *Solver) Fields() *field.Fields { return s.f }

// Cond returns the scenario conditions.
func (s *Solver) Cond() Conditions { return s.cond }

// Obstacles returns the placed obstacle list.
func (s *Solver) Obstacles() []obstacle.Obstacle { return s.obstacles }

// SolidAt reports whether cell (i,j) is inside an obstacle or wall.
func (s *Solver) SolidAt(i, j int) bool {
	if i < 0 || i >= s.g.NX || j < 0 || j >= s.g.NY {
		return true
	}
	return s.mask[s.g.CellIndex(i, j)]
}

// Snapshot returns read-only copies of the fields for rendering.
func (s *Solver) Snapshot() *field.Snapshot { return s.f.Snapshot() }

// ResidualHistory returns the per-sweep residuals of the most recent
// pressure solve. The slice is reused across steps.
func (s *Solver) ResidualHistory() []float64 { return s.residuals }
