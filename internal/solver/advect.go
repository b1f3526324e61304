package solver

// Semi-Lagrangian advection: each face (and scalar cell) backtraces
// its position along the current velocity field and picks up the
// interpolated old value there. Unconditionally stable for any dt at
// the cost of numerical diffusion. Each sweep reads only the current
// buffers and writes the *Next buffers, so rows can be advected in
// parallel; the swap happens after all workers join.

func (s *Solver) advectVelocity(dt float64) {
	g, f := s.g, s.f
	h := g.H

	copy(f.UNext, f.U)
	copy(f.VNext, f.V)

	s.parallelRows(1, g.NX, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			for j := 0; j < g.NY; j++ {
				if s.mask[g.CellIndex(i-1, j)] || s.mask[g.CellIndex(i, j)] {
					continue
				}
				x := float64(i) * h
				y := (float64(j) + 0.5) * h
				u := f.U[f.UIdx(i, j)]
				v := f.AvgV(i, j)
				px, py := g.Clamp(x-dt*u, y-dt*v)
				f.UNext[f.UIdx(i, j)] = f.SampleU(px, py)
			}
		}
	})

	s.parallelRows(0, g.NX, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			for j := 1; j < g.NY; j++ {
				if s.mask[g.CellIndex(i, j-1)] || s.mask[g.CellIndex(i, j)] {
					continue
				}
				x := (float64(i) + 0.5) * h
				y := float64(j) * h
				u := f.AvgU(i, j)
				v := f.V[f.VIdx(i, j)]
				px, py := g.Clamp(x-dt*u, y-dt*v)
				f.VNext[f.VIdx(i, j)] = f.SampleV(px, py)
			}
		}
	})

	f.SwapU()
	f.SwapV()
}

func (s *Solver) advectSmoke(dt float64) {
	g, f := s.g, s.f

	copy(f.SmokeNext, f.Smoke)

	s.parallelRows(0, g.NX, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			for j := 0; j < g.NY; j++ {
				k := g.CellIndex(i, j)
				if s.mask[k] {
					continue
				}
				x, y := g.CellCenter(i, j)
				u := f.CenterU(i, j)
				v := f.CenterV(i, j)
				px, py := g.Clamp(x-dt*u, y-dt*v)
				f.SmokeNext[k] = f.SampleSmoke(px, py)
			}
		}
	})

	f.SwapSmoke()
}
