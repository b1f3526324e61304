package viz

import (
	"strings"
	"testing"

	"github.com/mkarlsen/radflow/internal/field"
)

func TestCanvasSetAndString(t *testing.T) {
	c := NewCanvas(10, 4)
	c.Set(0, 0)
	c.Set(19, 15)

	out := c.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(lines))
	}
	if []rune(lines[0])[0] == 0x2800 {
		t.Error("top-left dot not set")
	}
	if []rune(lines[3])[9] == 0x2800 {
		t.Error("bottom-right dot not set")
	}
}

func TestCanvasSet_OutOfBounds(t *testing.T) {
	c := NewCanvas(4, 4)
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(100, 100)
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				t.Fatal("out-of-bounds set touched the canvas")
			}
		}
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(4, 4)
	c.DrawLine(0, 0, 7, 15)
	c.Clear()
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				t.Fatal("clear left dots behind")
			}
		}
	}
}

func countDots(c *Canvas) int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			pattern := int(r - 0x2800)
			for pattern != 0 {
				n += pattern & 1
				pattern >>= 1
			}
		}
	}
	return n
}

// Dot density has to track field intensity: a strong field renders
// more dots than a weak one.
func TestDrawField_DensityTracksIntensity(t *testing.T) {
	weak := NewCanvas(20, 10)
	strong := NewCanvas(20, 10)

	nx, ny := 10, 5
	lowField := make([]float64, nx*ny)
	highField := make([]float64, nx*ny)
	for k := range lowField {
		lowField[k] = 0.1
		highField[k] = 0.9
	}

	weak.DrawField(lowField, nx, ny, 0, 1)
	strong.DrawField(highField, nx, ny, 0, 1)

	if countDots(strong) <= countDots(weak) {
		t.Errorf("strong field drew %d dots, weak %d", countDots(strong), countDots(weak))
	}
}

func TestDrawSolids(t *testing.T) {
	c := NewCanvas(20, 10)
	snap := &field.Snapshot{NX: 10, NY: 5}
	c.DrawSolids(snap, func(i, j int) bool { return i < 5 })

	// The left half must be fully lit, the right half untouched.
	leftDots, rightDots := 0, 0
	for _, row := range c.Grid {
		for col, r := range row {
			if r == 0x2800 {
				continue
			}
			if col < 10 {
				leftDots++
			} else {
				rightDots++
			}
		}
	}
	if leftDots == 0 {
		t.Error("solid region not drawn")
	}
	if rightDots != 0 {
		t.Errorf("fluid region has %d lit cells", rightDots)
	}
}
