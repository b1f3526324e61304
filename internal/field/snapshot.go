package field

// Snapshot is a read-only copy of the flow fields resampled at cell
// centers, intended for rendering and export. Mutating a snapshot has
// no effect on the simulation.
type Snapshot struct {
	NX, NY int
	H      float64

	U        []float64 // cell-centered horizontal velocity
	V        []float64 // cell-centered vertical velocity
	Pressure []float64
	Smoke    []float64
}

// Snapshot copies the current fields.
func (f *Fields) Snapshot() *Snapshot {
	g := f.G
	s := &Snapshot{
		NX:       g.NX,
		NY:       g.NY,
		H:        g.H,
		U:        make([]float64, g.Cells()),
		V:        make([]float64, g.Cells()),
		Pressure: make([]float64, g.Cells()),
		Smoke:    make([]float64, g.Cells()),
	}
	copy(s.Pressure, f.P)
	copy(s.Smoke, f.Smoke)
	for i := 0; i < g.NX; i++ {
		for j := 0; j < g.NY; j++ {
			k := g.CellIndex(i, j)
			s.U[k] = f.CenterU(i, j)
			s.V[k] = f.CenterV(i, j)
		}
	}
	return s
}

// At returns the snapshot values of cell (i,j).
func (s *Snapshot) At(i, j int) (u, v, p, smoke float64) {
	k := i*s.NY + j
	return s.U[k], s.V[k], s.Pressure[k], s.Smoke[k]
}
