// Package field stores the simulation fields on a staggered (MAC)
// grid: u on vertical cell faces, v on horizontal cell faces, pressure
// and smoke at cell centers. Velocity components are the normal flux
// through the face they sit on; nothing is stored at cell centers for
// velocity.
package field

import "github.com/mkarlsen/radflow/internal/grid"

// Fields owns the flow arrays for one simulation. The *Next buffers
// back the semi-Lagrangian advection sweep: a sweep reads the current
// buffer and writes the next one, which is swapped in afterwards.
type Fields struct {
	G *grid.Grid

	U []float64 // (NX+1) x NY, face (i,j) at (i*h, (j+0.5)*h)
	V []float64 // NX x (NY+1), face (i,j) at ((i+0.5)*h, j*h)

	P     []float64 // NX x NY cell centers
	Smoke []float64 // NX x NY cell centers

	UNext     []float64
	VNext     []float64
	SmokeNext []float64
}

func New(g *grid.Grid) *Fields {
	nu := (g.NX + 1) * g.NY
	nv := g.NX * (g.NY + 1)
	nc := g.NX * g.NY
	return &Fields{
		G:         g,
		U:         make([]float64, nu),
		V:         make([]float64, nv),
		P:         make([]float64, nc),
		Smoke:     make([]float64, nc),
		UNext:     make([]float64, nu),
		VNext:     make([]float64, nv),
		SmokeNext: make([]float64, nc),
	}
}

// UIdx maps a u-face coordinate to its flat index, i in [0,NX].
func (f *Fields) UIdx(i, j int) int { return i*f.G.NY + j }

// VIdx maps a v-face coordinate to its flat index, j in [0,NY].
func (f *Fields) VIdx(i, j int) int { return i*(f.G.NY+1) + j }

// SwapU promotes the advected u buffer.
func (f *Fields) SwapU() { f.U, f.UNext = f.UNext, f.U }

// SwapV promotes the advected v buffer.
func (f *Fields) SwapV() { f.V, f.VNext = f.VNext, f.V }

// SwapSmoke promotes the advected smoke buffer.
func (f *Fields) SwapSmoke() { f.Smoke, f.SmokeNext = f.SmokeNext, f.Smoke }

// AvgV reconstructs the vertical velocity at u-face (i,j) from the
// four surrounding v faces.
func (f *Fields) AvgV(i, j int) float64 {
	i0 := i - 1
	if i0 < 0 {
		i0 = 0
	}
	i1 := i
	if i1 > f.G.NX-1 {
		i1 = f.G.NX - 1
	}
	return 0.25 * (f.V[f.VIdx(i0, j)] + f.V[f.VIdx(i1, j)] +
		f.V[f.VIdx(i0, j+1)] + f.V[f.VIdx(i1, j+1)])
}

// AvgU reconstructs the horizontal velocity at v-face (i,j) from the
// four surrounding u faces.
func (f *Fields) AvgU(i, j int) float64 {
	j0 := j - 1
	if j0 < 0 {
		j0 = 0
	}
	j1 := j
	if j1 > f.G.NY-1 {
		j1 = f.G.NY - 1
	}
	return 0.25 * (f.U[f.UIdx(i, j0)] + f.U[f.UIdx(i, j1)] +
		f.U[f.UIdx(i+1, j0)] + f.U[f.UIdx(i+1, j1)])
}

// CenterU returns the cell-centered horizontal velocity of cell (i,j).
func (f *Fields) CenterU(i, j int) float64 {
	return 0.5 * (f.U[f.UIdx(i, j)] + f.U[f.UIdx(i+1, j)])
}

// CenterV returns the cell-centered vertical velocity of cell (i,j).
func (f *Fields) CenterV(i, j int) float64 {
	return 0.5 * (f.V[f.VIdx(i, j)] + f.V[f.VIdx(i, j+1)])
}
