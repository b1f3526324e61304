package solver

// Boundary-condition enforcement. Runs once per step (between force
// application and the pressure solve): prescribed inflow on the left
// edge, zero-gradient outflow on the right, wall conditions top and
// bottom, then no-slip at every solid/fluid interface.

func (s *Solver) enforceBoundaries() {
	g, f := s.g, s.f

	// Left edge: prescribed inflow. The second column is pinned too,
	// which keeps the inlet profile from eroding during advection.
	for j := 0; j < g.NY; j++ {
		f.U[f.UIdx(0, j)] = s.cond.InflowSpeed
		if g.NX > 1 {
			f.U[f.UIdx(1, j)] = s.cond.InflowSpeed
		}
		if s.cond.SmokeInflow && !s.mask[g.CellIndex(0, j)] {
			f.Smoke[g.CellIndex(0, j)] = 1
		}
	}

	// Right edge: zero-gradient outflow.
	for j := 0; j < g.NY; j++ {
		f.U[f.UIdx(g.NX, j)] = f.U[f.UIdx(g.NX-1, j)]
	}
	if g.NX > 1 {
		for j := 0; j <= g.NY; j++ {
			f.V[f.VIdx(g.NX-1, j)] = f.V[f.VIdx(g.NX-2, j)]
		}
	}

	// Top and bottom: no penetration always, no tangential flow for
	// no-slip walls.
	for i := 0; i < g.NX; i++ {
		f.V[f.VIdx(i, 0)] = 0
		f.V[f.VIdx(i, g.NY)] = 0
	}
	if s.cond.TopBottom == WallNoSlip {
		for i := 0; i <= g.NX; i++ {
			f.U[f.UIdx(i, 0)] = 0
			f.U[f.UIdx(i, g.NY-1)] = 0
		}
	}

	s.enforceSolidFaces()
}

// enforceSolidFaces zeroes every velocity face adjacent to a solid
// cell. Two strictly separated passes: the first reads only the solid
// mask and marks blocked faces, the second applies the zeros. Fusing
// them would let freshly zeroed faces feed into neighbor decisions.
func (s *Solver) enforceSolidFaces() {
	g, f := s.g, s.f

	for i := 1; i < g.NX; i++ {
		for j := 0; j < g.NY; j++ {
			s.blockedU[f.UIdx(i, j)] = s.mask[g.CellIndex(i-1, j)] || s.mask[g.CellIndex(i, j)]
		}
	}
	for i := 0; i < g.NX; i++ {
		for j := 1; j < g.NY; j++ {
			s.blockedV[f.VIdx(i, j)] = s.mask[g.CellIndex(i, j-1)] || s.mask[g.CellIndex(i, j)]
		}
	}

	for i := 1; i < g.NX; i++ {
		for j := 0; j < g.NY; j++ {
			if s.blockedU[f.UIdx(i, j)] {
				f.U[f.UIdx(i, j)] = 0
			}
		}
	}
	for i := 0; i < g.NX; i++ {
		for j := 1; j < g.NY; j++ {
			if s.blockedV[f.VIdx(i, j)] {
				f.V[f.VIdx(i, j)] = 0
			}
		}
	}
}
