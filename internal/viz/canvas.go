package viz

import (
	"strings"

	"github.com/mkarlsen/radflow/internal/field"
)

// Braille Patterns: 2x4 dots per character cell
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a Braille dot-matrix the tunnel cross-section is drawn
// into. Sub-pixel resolution is (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
	return c
}

// Set lights the sub-pixel at (x, y). Row 0 is the top of the screen.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// dither4x4 is a Bayer matrix; thresholds spread so that dot density
// tracks field intensity.
var dither4x4 = [4][4]float64{
	{0.03, 0.53, 0.16, 0.66},
	{0.78, 0.28, 0.91, 0.41},
	{0.22, 0.72, 0.09, 0.59},
	{0.97, 0.47, 0.84, 0.34},
}

// DrawField rasterizes a cell-centered scalar onto the canvas using
// ordered dithering: dense dots where the field is strong, sparse
// where it is weak. values is indexed i*ny+j with j increasing upward,
// so rows are flipped for screen space.
func (c *Canvas) DrawField(values []float64, nx, ny int, lo, hi float64) {
	if nx == 0 || ny == 0 {
		return
	}
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	cw, ch := c.Width*2, c.Height*4
	for px := 0; px < cw; px++ {
		for py := 0; py < ch; py++ {
			i := px * nx / cw
			j := (ch - 1 - py) * ny / ch
			t := (values[i*ny+j] - lo) / span
			if t > dither4x4[py%4][px%4] {
				c.Set(px, py)
			}
		}
	}
}

// DrawSolids overlays the solid cells of a snapshot as fully lit
// blocks so obstacles stand out against the dithered flow.
func (c *Canvas) DrawSolids(snap *field.Snapshot, solid func(i, j int) bool) {
	cw, ch := c.Width*2, c.Height*4
	for px := 0; px < cw; px++ {
		for py := 0; py < ch; py++ {
			i := px * snap.NX / cw
			j := (ch - 1 - py) * snap.NY / ch
			if solid(i, j) {
				c.Set(px, py)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
