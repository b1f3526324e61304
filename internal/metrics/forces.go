package metrics

import (
	"math"

	"github.com/mkarlsen/radflow/internal/obstacle"
	"github.com/mkarlsen/radflow/internal/solver"
)

const forceSamples = 100

// forces integrates pressure (and, for solid bodies, viscous shear)
// over the target's surface, returning the net force components per
// meter depth. Porous targets are not represented in the solid mask,
// so their loading comes from a perimeter pressure integral instead of
// a mask-boundary walk.
func forces(s *solver.Solver, target obstacle.Obstacle) (fx, fy float64) {
	if target.Solid() {
		return solidForces(s, target)
	}
	return perimeterForces(s, target)
}

// solidForces walks the solid-mask boundary cells claimed by the
// target. Every solid/fluid face contributes the fluid-side pressure
// pushing against the face, plus a first-order wall shear term from
// the tangential velocity in the adjacent fluid cell.
func solidForces(s *solver.Solver, target obstacle.Obstacle) (fx, fy float64) {
	g, f := s.Grid(), s.Fields()
	h := g.H
	mu := s.Cond().Viscosity

	// Unit steps from a solid cell toward each neighbor.
	dirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

	for i := 0; i < g.NX; i++ {
		for j := 0; j < g.NY; j++ {
			if !s.SolidAt(i, j) {
				continue
			}
			cx, cy := g.CellCenter(i, j)
			if !target.Contains(cx, cy) {
				continue
			}
			for _, d := range dirs {
				ni, nj := i+d[0], j+d[1]
				if ni < 0 || ni >= g.NX || nj < 0 || nj >= g.NY || s.SolidAt(ni, nj) {
					continue
				}
				dx, dy := float64(d[0]), float64(d[1])
				k := g.CellIndex(ni, nj)

				// Pressure acts from the fluid onto the face.
				p := f.P[k]
				fx -= p * dx * h
				fy -= p * dy * h

				// Tangential fluid motion drags the wall along.
				u := f.CenterU(ni, nj)
				v := f.CenterV(ni, nj)
				vn := u*dx + v*dy
				fx += mu * (u - vn*dx)
				fy += mu * (v - vn*dy)
			}
		}
	}
	return fx, fy
}

// perimeterForces samples pressure around the rotated rectangle of the
// porous matrix and accumulates p * (-n) * ds over its four edges.
func perimeterForces(s *solver.Solver, target obstacle.Obstacle) (fx, fy float64) {
	g, f := s.Grid(), s.Fields()
	cos, sin := math.Cos(target.Angle), math.Sin(target.Angle)
	hw, hh := 0.5*target.Width, 0.5*target.Height
	offset := 0.5 * g.H // sample on the fluid side of the edge

	// Edges in the local frame: start, end, outward normal.
	edges := [4][6]float64{
		{hw, -hh, hw, hh, 1, 0},
		{-hw, hh, -hw, -hh, -1, 0},
		{-hw, -hh, hw, -hh, 0, -1},
		{hw, hh, -hw, hh, 0, 1},
	}

	perEdge := forceSamples / 4
	for _, e := range edges {
		ds := math.Hypot(e[2]-e[0], e[3]-e[1]) / float64(perEdge)
		for k := 0; k < perEdge; k++ {
			t := (float64(k) + 0.5) / float64(perEdge)
			lx := e[0] + t*(e[2]-e[0]) + e[4]*offset
			ly := e[1] + t*(e[3]-e[1]) + e[5]*offset

			// Rotate into the global frame.
			x := target.X + lx*cos - ly*sin
			y := target.Y + lx*sin + ly*cos
			if !g.Inside(x, y) {
				continue
			}
			nx := e[4]*cos - e[5]*sin
			ny := e[4]*sin + e[5]*cos

			p := f.SampleP(x, y)
			fx -= p * nx * ds
			fy -= p * ny * ds
		}
	}
	return fx, fy
}
