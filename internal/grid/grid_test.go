package grid

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	g, err := New(200, 100, 4.0, 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.H != 0.02 {
		t.Errorf("expected cell size 0.02, got %g", g.H)
	}
	if g.Cells() != 20000 {
		t.Errorf("expected 20000 cells, got %d", g.Cells())
	}
}

func TestNew_Invalid(t *testing.T) {
	if _, err := New(0, 100, 4.0, 2.0); err == nil {
		t.Error("expected error for zero nx")
	}
	if _, err := New(200, 100, -4.0, 2.0); err == nil {
		t.Error("expected error for negative width")
	}
	if _, err := New(100, 100, 4.0, 2.0); err == nil {
		t.Error("expected error for non-square cells")
	}
}

func TestCellCenter(t *testing.T) {
	g, _ := New(10, 5, 2.0, 1.0)
	x, y := g.CellCenter(0, 0)
	if x != 0.1 || y != 0.1 {
		t.Errorf("expected (0.1,0.1), got (%g,%g)", x, y)
	}
	x, y = g.CellCenter(9, 4)
	if math.Abs(x-1.9) > 1e-12 || math.Abs(y-0.9) > 1e-12 {
		t.Errorf("expected (1.9,0.9), got (%g,%g)", x, y)
	}
}

func TestCellAt_Clamps(t *testing.T) {
	g, _ := New(10, 5, 2.0, 1.0)
	i, j := g.CellAt(-1.0, -1.0)
	if i != 0 || j != 0 {
		t.Errorf("expected clamp to (0,0), got (%d,%d)", i, j)
	}
	i, j = g.CellAt(5.0, 5.0)
	if i != 9 || j != 4 {
		t.Errorf("expected clamp to (9,4), got (%d,%d)", i, j)
	}
	i, j = g.CellAt(0.35, 0.55)
	if i != 1 || j != 2 {
		t.Errorf("expected (1,2), got (%d,%d)", i, j)
	}
}

func TestClamp(t *testing.T) {
	g, _ := New(10, 5, 2.0, 1.0)
	x, y := g.Clamp(-3.0, 10.0)
	if x != 0.5*g.H {
		t.Errorf("expected x clamped to %g, got %g", 0.5*g.H, x)
	}
	if y != g.Height-0.5*g.H {
		t.Errorf("expected y clamped to %g, got %g", g.Height-0.5*g.H, y)
	}
	x, y = g.Clamp(1.0, 0.5)
	if x != 1.0 || y != 0.5 {
		t.Errorf("interior point moved to (%g,%g)", x, y)
	}
}

func TestInside(t *testing.T) {
	g, _ := New(10, 5, 2.0, 1.0)
	if !g.Inside(1.0, 0.5) {
		t.Error("interior point reported outside")
	}
	if !g.Inside(0, 0) || !g.Inside(2.0, 1.0) {
		t.Error("boundary points should be inside")
	}
	if g.Inside(2.1, 0.5) || g.Inside(1.0, -0.1) {
		t.Error("exterior point reported inside")
	}
}
