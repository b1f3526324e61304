package obstacle

import (
	"fmt"

	"github.com/mkarlsen/radflow/internal/grid"
)

// PorousCoeff holds the Darcy-Forchheimer resistance of one cell,
// expressed as acceleration coefficients: the retarding acceleration
// along the matrix axis is Lin*vn + Quad*|vn|*vn. NX,NY is the unit
// orientation vector of the matrix; all fields are zero outside it.
type PorousCoeff struct {
	Lin, Quad float64
	NX, NY    float64
}

// Active reports whether the cell carries any resistance.
func (c PorousCoeff) Active() bool { return c.Lin != 0 || c.Quad != 0 }

// maxSolidFraction caps how much of the domain the solid mask may
// claim before the scenario is rejected as misconfigured.
const maxSolidFraction = 0.5

// Rasterize evaluates every obstacle's inside test at each cell center
// and fills mask and coeff in place. Cells claimed by a non-porous
// obstacle become solid; cells inside the porous matrix receive
// resistance coefficients but stay fluid. Called once at setup and
// again whenever the obstacle list changes.
func Rasterize(g *grid.Grid, obstacles []Obstacle, density, viscosity float64, mask []bool, coeff []PorousCoeff) error {
	if len(mask) != g.Cells() || len(coeff) != g.Cells() {
		return fmt.Errorf("raster buffers sized %d/%d, want %d", len(mask), len(coeff), g.Cells())
	}
	for o := range obstacles {
		if err := obstacles[o].Validate(g); err != nil {
			return err
		}
	}

	for k := range mask {
		mask[k] = false
		coeff[k] = PorousCoeff{}
	}

	for o := range obstacles {
		obs := &obstacles[o]
		c := porousFor(obs, density, viscosity)
		for i := 0; i < g.NX; i++ {
			for j := 0; j < g.NY; j++ {
				x, y := g.CellCenter(i, j)
				if !obs.Contains(x, y) {
					continue
				}
				k := g.CellIndex(i, j)
				if obs.Solid() {
					mask[k] = true
				} else {
					coeff[k] = c
				}
			}
		}
	}

	solid := 0
	for k := range mask {
		if mask[k] {
			solid++
		}
	}
	if frac := float64(solid) / float64(g.Cells()); frac > maxSolidFraction {
		return fmt.Errorf("obstacles cover %.0f%% of the domain (limit %.0f%%)", frac*100, maxSolidFraction*100)
	}
	return nil
}

// porousFor derives the cell coefficients for a matrix obstacle.
// Permeability follows porosity/resistance; the quadratic term uses
// the Ergun inertial factor 1.75*(1-phi)/phi^3 over the matrix depth.
func porousFor(o *Obstacle, density, viscosity float64) PorousCoeff {
	if o.Kind != KindPorousMatrix || o.Resistance == 0 {
		return PorousCoeff{}
	}
	phi := o.Porosity
	permeability := phi / o.Resistance
	lin := viscosity / (permeability * density)
	quad := 1.75 * (1 - phi) / (phi * phi * phi) / o.Width
	nx, ny := o.Normal()
	return PorousCoeff{Lin: lin, Quad: quad, NX: nx, NY: ny}
}
