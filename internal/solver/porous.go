package solver

import "math"

// Darcy-Forchheimer resistance for flow through the radiator matrix:
// R = lin*vn + quad*|vn|*vn along the matrix orientation axis, applied
// as an explicit body force scaled by dt. Runs after advection and
// before the pressure solve, so the projection sees (and corrects) the
// divergence the force introduces.

func (s *Solver) applyPorous(dt float64) {
	g, f := s.g, s.f

	s.parallelRows(1, g.NX, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			for j := 0; j < g.NY; j++ {
				left := s.coeff[g.CellIndex(i-1, j)]
				right := s.coeff[g.CellIndex(i, j)]
				if !left.Active() && !right.Active() {
					continue
				}
				k := f.UIdx(i, j)
				u := f.U[k]
				v := f.AvgV(i, j)
				if left.Active() {
					f.U[k] -= 0.5 * dt * resist(left.Lin, left.Quad, u*left.NX+v*left.NY) * left.NX
				}
				if right.Active() {
					f.U[k] -= 0.5 * dt * resist(right.Lin, right.Quad, u*right.NX+v*right.NY) * right.NX
				}
			}
		}
	})

	s.parallelRows(0, g.NX, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			for j := 1; j < g.NY; j++ {
				below := s.coeff[g.CellIndex(i, j-1)]
				above := s.coeff[g.CellIndex(i, j)]
				if !below.Active() && !above.Active() {
					continue
				}
				k := f.VIdx(i, j)
				u := f.AvgU(i, j)
				v := f.V[k]
				if below.Active() {
					f.V[k] -= 0.5 * dt * resist(below.Lin, below.Quad, u*below.NX+v*below.NY) * below.NY
				}
				if above.Active() {
					f.V[k] -= 0.5 * dt * resist(above.Lin, above.Quad, u*above.NX+v*above.NY) * above.NY
				}
			}
		}
	})
}

func resist(lin, quad, vn float64) float64 {
	return lin*vn + quad*math.Abs(vn)*vn
}
