package field

// Bilinear sampling of the staggered arrays at arbitrary points. Each
// component lives on its own lattice: u at (i*h, (j+0.5)*h), v at
// ((i+0.5)*h, j*h), cell-centered fields at ((i+0.5)*h, (j+0.5)*h).
// Sample points are clamped into the domain first; out-of-bounds reads
// are a policy violation, never an error.

// SampleU interpolates the horizontal velocity at (x,y).
func (f *Fields) SampleU(x, y float64) float64 {
	return f.bilinear(f.U, f.G.NX+1, f.G.NY, 0, 0.5*f.G.H, x, y)
}

// SampleV interpolates the vertical velocity at (x,y).
func (f *Fields) SampleV(x, y float64) float64 {
	return f.bilinear(f.V, f.G.NX, f.G.NY+1, 0.5*f.G.H, 0, x, y)
}

// SampleSmoke interpolates the scalar tracer at (x,y).
func (f *Fields) SampleSmoke(x, y float64) float64 {
	return f.bilinear(f.Smoke, f.G.NX, f.G.NY, 0.5*f.G.H, 0.5*f.G.H, x, y)
}

// SampleP interpolates the pressure at (x,y).
func (f *Fields) SampleP(x, y float64) float64 {
	return f.bilinear(f.P, f.G.NX, f.G.NY, 0.5*f.G.H, 0.5*f.G.H, x, y)
}

// SampleVelocity interpolates the full velocity vector at (x,y).
func (f *Fields) SampleVelocity(x, y float64) (u, v float64) {
	return f.SampleU(x, y), f.SampleV(x, y)
}

// bilinear samples a lattice whose node (i,j) sits at
// (offX + i*h, offY + j*h), with nx x ny nodes stored column-major
// (index i*ny + j).
func (f *Fields) bilinear(data []float64, nx, ny int, offX, offY, x, y float64) float64 {
	h := f.G.H

	if x < 0 {
		x = 0
	} else if x > f.G.Width {
		x = f.G.Width
	}
	if y < 0 {
		y = 0
	} else if y > f.G.Height {
		y = f.G.Height
	}

	fx := (x - offX) / h
	fy := (y - offY) / h

	i0 := int(fx)
	if fx < 0 {
		i0 = 0
		fx = 0
	}
	if i0 > nx-2 {
		i0 = nx - 2
	}
	j0 := int(fy)
	if fy < 0 {
		j0 = 0
		fy = 0
	}
	if j0 > ny-2 {
		j0 = ny - 2
	}

	tx := fx - float64(i0)
	if tx < 0 {
		tx = 0
	} else if tx > 1 {
		tx = 1
	}
	ty := fy - float64(j0)
	if ty < 0 {
		ty = 0
	} else if ty > 1 {
		ty = 1
	}

	i1, j1 := i0+1, j0+1
	if i0 < 0 {
		i0, i1 = 0, 0
	}
	if j0 < 0 {
		j0, j1 = 0, 0
	}
	v00 := data[i0*ny+j0]
	v10 := data[i1*ny+j0]
	v01 := data[i0*ny+j1]
	v11 := data[i1*ny+j1]

	return (1-tx)*(1-ty)*v00 + tx*(1-ty)*v10 + (1-tx)*ty*v01 + tx*ty*v11
}
