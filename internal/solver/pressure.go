package solver

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Pressure projection: solve the discrete Poisson equation
// lap(p) = (rho/dt) * div(u) with Gauss-Seidel relaxation over fluid
// cells, then subtract the pressure gradient from the velocity field.
// Solid cells carry no pressure unknown; their faces drop out of the
// stencil, which is the implicit zero-flux (Neumann) condition. The
// virtual cell past the outflow edge is held at p = 0 so the otherwise
// all-Neumann system stays anchored. The previous step's pressure is
// kept as the initial guess; sweeps stop early once the max pressure
// change falls below Tolerance.

func (s *Solver) project(dt float64) StepDiag {
	g, f := s.g, s.f
	h := g.H
	scale := s.cond.Density / dt
	h2 := h * h
	omega := s.par.OverRelax

	// rhs = (rho/dt) * div(u), fluid cells only.
	for i := 0; i < g.NX; i++ {
		for j := 0; j < g.NY; j++ {
			k := g.CellIndex(i, j)
			if s.mask[k] {
				s.div[k] = 0
				continue
			}
			s.div[k] = scale * (f.U[f.UIdx(i+1, j)] - f.U[f.UIdx(i, j)] +
				f.V[f.VIdx(i, j+1)] - f.V[f.VIdx(i, j)]) / h
		}
	}

	s.residuals = s.residuals[:0]
	diag := StepDiag{}
	for iter := 0; iter < s.par.PressureIters; iter++ {
		maxChange := 0.0
		for i := 0; i < g.NX; i++ {
			for j := 0; j < g.NY; j++ {
				k := g.CellIndex(i, j)
				if s.mask[k] {
					continue
				}

				sum := 0.0
				n := 0.0
				if i > 0 && !s.mask[g.CellIndex(i-1, j)] {
					sum += f.P[g.CellIndex(i-1, j)]
					n++
				}
				if i < g.NX-1 {
					if !s.mask[g.CellIndex(i+1, j)] {
						sum += f.P[g.CellIndex(i+1, j)]
						n++
					}
				} else {
					n++ // outflow ghost cell at p = 0
				}
				if j > 0 && !s.mask[g.CellIndex(i, j-1)] {
					sum += f.P[g.CellIndex(i, j-1)]
					n++
				}
				if j < g.NY-1 && !s.mask[g.CellIndex(i, j+1)] {
					sum += f.P[g.CellIndex(i, j+1)]
					n++
				}
				if n == 0 {
					continue
				}

				pNew := (sum - h2*s.div[k]) / n
				change := omega * (pNew - f.P[k])
				f.P[k] += change
				if c := math.Abs(change); c > maxChange {
					maxChange = c
				}
			}
		}

		s.residuals = append(s.residuals, maxChange)
		diag.Iterations = iter + 1
		diag.Residual = maxChange
		if maxChange < s.par.Tolerance {
			diag.Converged = true
			break
		}
	}

	s.projectVelocity(dt)

	// Post-projection divergence over fluid cells, the mass
	// conservation diagnostic.
	for i := 0; i < g.NX; i++ {
		for j := 0; j < g.NY; j++ {
			k := g.CellIndex(i, j)
			if s.mask[k] {
				s.div[k] = 0
				continue
			}
			s.div[k] = (f.U[f.UIdx(i+1, j)] - f.U[f.UIdx(i, j)] +
				f.V[f.VIdx(i, j+1)] - f.V[f.VIdx(i, j)]) / h
		}
	}
	diag.MaxDivergence = floats.Norm(s.div, math.Inf(1))
	return diag
}

// projectVelocity subtracts the pressure gradient from every
// fluid-fluid face, using the same staggered convention as advection.
// Faces adjacent to a solid cell are skipped, preserving the no-slip
// state set by the boundary pass.
func (s *Solver) projectVelocity(dt float64) {
	g, f := s.g, s.f
	gradScale := dt / (s.cond.Density * g.H)

	for i := 1; i < g.NX; i++ {
		for j := 0; j < g.NY; j++ {
			if s.mask[g.CellIndex(i-1, j)] || s.mask[g.CellIndex(i, j)] {
				continue
			}
			f.U[f.UIdx(i, j)] -= gradScale * (f.P[g.CellIndex(i, j)] - f.P[g.CellIndex(i-1, j)])
		}
	}
	for i := 0; i < g.NX; i++ {
		for j := 1; j < g.NY; j++ {
			if s.mask[g.CellIndex(i, j-1)] || s.mask[g.CellIndex(i, j)] {
				continue
			}
			f.V[f.VIdx(i, j)] -= gradScale * (f.P[g.CellIndex(i, j)] - f.P[g.CellIndex(i, j-1)])
		}
	}

	// Outflow faces see the p = 0 ghost cell the stencil assumed.
	for j := 0; j < g.NY; j++ {
		if s.mask[g.CellIndex(g.NX-1, j)] {
			continue
		}
		f.U[f.UIdx(g.NX, j)] += gradScale * f.P[g.CellIndex(g.NX-1, j)]
	}
}
