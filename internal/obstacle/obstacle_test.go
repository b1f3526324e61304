package obstacle

import (
	"math"
	"testing"

	"github.com/mkarlsen/radflow/internal/grid"
)

func testGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(40, 20, 4.0, 2.0)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	return g
}

func TestCircleContains(t *testing.T) {
	c := Circle(1.0, 1.0, 0.25)
	if !c.Contains(1.0, 1.0) {
		t.Error("center should be inside")
	}
	if !c.Contains(1.24, 1.0) {
		t.Error("point just inside the radius should be inside")
	}
	if c.Contains(1.26, 1.0) {
		t.Error("point outside the radius should be outside")
	}
}

func TestAirfoilContains(t *testing.T) {
	a := Airfoil(1.0, 1.0, 0.6, 0.12, 0)

	// Max thickness of a symmetric NACA section is near 30% chord.
	if !a.Contains(1.0+0.3*0.6, 1.0) {
		t.Error("chord line should be inside")
	}
	if a.Contains(0.99, 1.0) {
		t.Error("ahead of the leading edge should be outside")
	}
	if a.Contains(1.0+0.61, 1.0) {
		t.Error("behind the trailing edge should be outside")
	}
	// Half thickness at 30% chord is about 0.036.
	if !a.Contains(1.0+0.3*0.6, 1.0+0.03) {
		t.Error("point under the surface should be inside")
	}
	if a.Contains(1.0+0.3*0.6, 1.0+0.06) {
		t.Error("point above the surface should be outside")
	}
}

func TestAirfoilContains_Rotated(t *testing.T) {
	angle := 30 * math.Pi / 180
	a := Airfoil(1.0, 1.0, 0.6, 0.12, angle)

	// Mid-chord point rotated with the section stays inside.
	x := 1.0 + 0.3*0.6*math.Cos(angle)
	y := 1.0 + 0.3*0.6*math.Sin(angle)
	if !a.Contains(x, y) {
		t.Error("rotated chord point should be inside")
	}
	// The unrotated chord point now lies off the section.
	if a.Contains(1.0+0.3*0.6, 1.0) {
		t.Error("unrotated chord point should be outside after rotation")
	}
}

func TestPorousMatrixContains_Rotated(t *testing.T) {
	m := PorousMatrix(2.0, 1.0, 0.1, 0.6, math.Pi/2, 0.7, 1e5)

	// Rotated 90 degrees: the height now runs along x.
	if !m.Contains(2.25, 1.0) {
		t.Error("point along the rotated height should be inside")
	}
	if m.Contains(2.0, 1.25) {
		t.Error("point beyond the rotated width should be outside")
	}
}

func TestNormal(t *testing.T) {
	m := PorousMatrix(2.0, 1.0, 0.1, 0.6, math.Pi/4, 0.7, 1e5)
	nx, ny := m.Normal()
	if math.Abs(nx-math.Sqrt2/2) > 1e-12 || math.Abs(ny-math.Sqrt2/2) > 1e-12 {
		t.Errorf("expected unit diagonal normal, got (%g,%g)", nx, ny)
	}
}

func TestValidate(t *testing.T) {
	g := testGrid(t)

	bad := []Obstacle{
		Circle(1, 1, 0),
		Circle(1, 1, -0.1),
		Airfoil(1, 1, 0, 0.12, 0),
		PorousMatrix(1, 1, 0.1, 0.6, 0, 0, 1e5),
		PorousMatrix(1, 1, 0.1, 0.6, 0, 1.5, 1e5),
		PorousMatrix(1, 1, 0.1, 0.6, 0, 0.7, -1),
		Circle(100, 100, 0.1), // entirely outside
	}
	for i := range bad {
		if err := bad[i].Validate(g); err == nil {
			t.Errorf("obstacle %d: expected validation error", i)
		}
	}

	good := Circle(1, 1, 0.2)
	if err := good.Validate(g); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRasterize(t *testing.T) {
	g := testGrid(t)
	mask := make([]bool, g.Cells())
	coeff := make([]PorousCoeff, g.Cells())

	obs := []Obstacle{
		Circle(1.0, 1.0, 0.3),
		PorousMatrix(3.0, 1.0, 0.2, 0.8, 0, 0.7, 1e5),
	}
	if err := Rasterize(g, obs, 1.225, 1.8e-5, mask, coeff); err != nil {
		t.Fatalf("rasterize: %v", err)
	}

	ci, cj := g.CellAt(1.0, 1.0)
	if !mask[g.CellIndex(ci, cj)] {
		t.Error("circle center cell should be solid")
	}

	mi, mj := g.CellAt(3.0, 1.0)
	mk := g.CellIndex(mi, mj)
	if mask[mk] {
		t.Error("matrix cells must stay fluid")
	}
	if !coeff[mk].Active() {
		t.Error("matrix cell should carry resistance")
	}
	if coeff[mk].Lin <= 0 || coeff[mk].Quad <= 0 {
		t.Errorf("expected positive coefficients, got lin=%g quad=%g", coeff[mk].Lin, coeff[mk].Quad)
	}

	fi, fj := g.CellAt(2.0, 0.2)
	fk := g.CellIndex(fi, fj)
	if mask[fk] || coeff[fk].Active() {
		t.Error("free cell should be untouched")
	}
}

func TestRasterize_ClearsPrevious(t *testing.T) {
	g := testGrid(t)
	mask := make([]bool, g.Cells())
	coeff := make([]PorousCoeff, g.Cells())

	if err := Rasterize(g, []Obstacle{Circle(1.0, 1.0, 0.3)}, 1.225, 1.8e-5, mask, coeff); err != nil {
		t.Fatalf("rasterize: %v", err)
	}
	if err := Rasterize(g, nil, 1.225, 1.8e-5, mask, coeff); err != nil {
		t.Fatalf("rasterize: %v", err)
	}
	for k := range mask {
		if mask[k] {
			t.Fatal("stale solid cell after re-rasterization")
		}
	}
}

func TestRasterize_RejectsExcessCoverage(t *testing.T) {
	g := testGrid(t)
	mask := make([]bool, g.Cells())
	coeff := make([]PorousCoeff, g.Cells())

	huge := Circle(2.0, 1.0, 1.9)
	if err := Rasterize(g, []Obstacle{huge}, 1.225, 1.8e-5, mask, coeff); err == nil {
		t.Error("expected error for obstacle covering most of the domain")
	}
}

func TestPorousFor_ZeroResistance(t *testing.T) {
	g := testGrid(t)
	mask := make([]bool, g.Cells())
	coeff := make([]PorousCoeff, g.Cells())

	m := PorousMatrix(3.0, 1.0, 0.2, 0.8, 0, 0.7, 0)
	if err := Rasterize(g, []Obstacle{m}, 1.225, 1.8e-5, mask, coeff); err != nil {
		t.Fatalf("rasterize: %v", err)
	}
	mi, mj := g.CellAt(3.0, 1.0)
	if coeff[g.CellIndex(mi, mj)].Active() {
		t.Error("zero-resistance matrix should not resist the flow")
	}
}
