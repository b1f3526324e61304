// Package grid defines the shared geometry descriptor for the
// simulation domain. A Grid is immutable once created; every
// array-backed field references it rather than copying its parameters.
package grid

import (
	"fmt"
	"math"
)

// Grid describes a uniform Cartesian grid of square cells covering the
// rectangular domain [0,Width] x [0,Height]. Cell (i,j) has its center
// at ((i+0.5)*H, (j+0.5)*H).
type Grid struct {
	NX, NY int
	H      float64
	Width  float64
	Height float64
}

// New validates the dimensions and returns the grid descriptor.
// Cells must be square: width/nx must equal height/ny.
func New(nx, ny int, width, height float64) (*Grid, error) {
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", nx, ny)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("domain extents must be positive, got %gx%g", width, height)
	}
	hx := width / float64(nx)
	hy := height / float64(ny)
	if math.Abs(hx-hy) > 1e-9*math.Max(hx, hy) {
		return nil, fmt.Errorf("cells must be square: width/nx=%g but height/ny=%g", hx, hy)
	}
	return &Grid{NX: nx, NY: ny, H: hx, Width: width, Height: height}, nil
}

// Cells returns the number of cell centers.
func (g *Grid) Cells() int { return g.NX * g.NY }

// CellIndex maps a cell coordinate to its flat index.
func (g *Grid) CellIndex(i, j int) int { return i*g.NY + j }

// CellCenter returns the physical position of cell (i,j).
func (g *Grid) CellCenter(i, j int) (x, y float64) {
	return (float64(i) + 0.5) * g.H, (float64(j) + 0.5) * g.H
}

// CellAt returns the cell containing point (x,y), clamped to the grid.
func (g *Grid) CellAt(x, y float64) (i, j int) {
	i = int(x / g.H)
	j = int(y / g.H)
	if i < 0 {
		i = 0
	}
	if i >= g.NX {
		i = g.NX - 1
	}
	if j < 0 {
		j = 0
	}
	if j >= g.NY {
		j = g.NY - 1
	}
	return i, j
}

// Clamp restricts a point to the interior of the domain, half a cell
// in from each edge so bilinear stencils stay in bounds.
func (g *Grid) Clamp(x, y float64) (float64, float64) {
	return clamp(x, 0.5*g.H, g.Width-0.5*g.H), clamp(y, 0.5*g.H, g.Height-0.5*g.H)
}

// Inside reports whether (x,y) lies within the domain.
func (g *Grid) Inside(x, y float64) bool {
	return x >= 0 && x <= g.Width && y >= 0 && y <= g.Height
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
