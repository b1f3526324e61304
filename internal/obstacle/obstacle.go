// Package obstacle models the geometry placed in the flow: solid
// bluff bodies (circle, airfoil) and the porous radiator matrix. Each
// variant answers a point-inside test in its own rotated local frame;
// the rasterizer turns the obstacle list into the per-cell solid mask
// and porous coefficients the solver consumes.
package obstacle

import (
	"fmt"
	"math"

	"github.com/mkarlsen/radflow/internal/grid"
)

type Kind int

const (
	KindCircle Kind = iota
	KindAirfoil
	KindPorousMatrix
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindAirfoil:
		return "airfoil"
	case KindPorousMatrix:
		return "porous_matrix"
	}
	return "unknown"
}

// Obstacle is a tagged variant over the supported shapes. Only the
// fields of the active variant are meaningful. Obstacles are immutable
// once placed; changing one requires re-rasterization.
type Obstacle struct {
	Kind  Kind
	X, Y  float64 // center (leading edge for airfoils)
	Angle float64 // rotation, radians

	Radius float64 // circle

	Chord     float64 // airfoil
	Thickness float64 // airfoil, fraction of chord

	Width      float64 // matrix extent along its normal axis
	Height     float64 // matrix extent across the flow
	Porosity   float64 // matrix open fraction, (0,1]
	Resistance float64 // matrix flow resistance constant
}

// Circle places a solid cylinder cross-section.
func Circle(x, y, radius float64) Obstacle {
	return Obstacle{Kind: KindCircle, X: x, Y: y, Radius: radius}
}

// Airfoil places a symmetric NACA 4-digit airfoil with its leading
// edge at (x,y), rotated by angle (the angle of attack).
func Airfoil(x, y, chord, thickness, angle float64) Obstacle {
	return Obstacle{Kind: KindAirfoil, X: x, Y: y, Angle: angle, Chord: chord, Thickness: thickness}
}

// PorousMatrix places the radiator core: a rotated rectangle the flow
// passes through against a Darcy-Forchheimer resistance.
func PorousMatrix(x, y, width, height, angle, porosity, resistance float64) Obstacle {
	return Obstacle{
		Kind: KindPorousMatrix, X: x, Y: y, Angle: angle,
		Width: width, Height: height, Porosity: porosity, Resistance: resistance,
	}
}

// Solid reports whether cells inside this obstacle block the flow.
// The porous matrix resists the flow but does not block it.
func (o *Obstacle) Solid() bool { return o.Kind != KindPorousMatrix }

// local rotates a point into the obstacle frame.
func (o *Obstacle) local(px, py float64) (lx, ly float64) {
	c, s := math.Cos(o.Angle), math.Sin(o.Angle)
	dx, dy := px-o.X, py-o.Y
	return dx*c + dy*s, -dx*s + dy*c
}

// Contains is the implicit-surface inside test for the obstacle.
func (o *Obstacle) Contains(px, py float64) bool {
	lx, ly := o.local(px, py)
	switch o.Kind {
	case KindCircle:
		return lx*lx+ly*ly <= o.Radius*o.Radius
	case KindAirfoil:
		return math.Abs(ly) <= o.halfThickness(lx)
	case KindPorousMatrix:
		return math.Abs(lx) <= 0.5*o.Width && math.Abs(ly) <= 0.5*o.Height
	}
	return false
}

// halfThickness evaluates the symmetric NACA 4-digit thickness
// distribution at chordwise position lx, measured from the leading
// edge. Returns a negative value outside the chord.
func (o *Obstacle) halfThickness(lx float64) float64 {
	if lx < 0 || lx > o.Chord {
		return -1
	}
	xn := lx / o.Chord
	// 5t scaling puts the max full thickness at Thickness*Chord.
	return 5 * o.Thickness * o.Chord *
		(0.2969*math.Sqrt(xn) - 0.1260*xn - 0.3516*xn*xn +
			0.2843*xn*xn*xn - 0.1015*xn*xn*xn*xn)
}

// Normal returns the unit vector along the obstacle's rotated x axis.
// For the matrix this is the flow-through direction.
func (o *Obstacle) Normal() (nx, ny float64) {
	return math.Cos(o.Angle), math.Sin(o.Angle)
}

// bound returns a conservative axis-aligned bounding box.
func (o *Obstacle) bound() (minX, minY, maxX, maxY float64) {
	var r float64
	switch o.Kind {
	case KindCircle:
		r = o.Radius
	case KindAirfoil:
		r = o.Chord
	case KindPorousMatrix:
		r = 0.5 * math.Hypot(o.Width, o.Height)
	}
	return o.X - r, o.Y - r, o.X + r, o.Y + r
}

// Validate checks that the obstacle geometry is sane and at least
// touches the domain.
func (o *Obstacle) Validate(g *grid.Grid) error {
	switch o.Kind {
	case KindCircle:
		if o.Radius <= 0 {
			return fmt.Errorf("circle radius must be positive, got %g", o.Radius)
		}
	case KindAirfoil:
		if o.Chord <= 0 || o.Thickness <= 0 {
			return fmt.Errorf("airfoil chord and thickness must be positive, got chord=%g thickness=%g", o.Chord, o.Thickness)
		}
	case KindPorousMatrix:
		if o.Width <= 0 || o.Height <= 0 {
			return fmt.Errorf("matrix extents must be positive, got %gx%g", o.Width, o.Height)
		}
		if o.Porosity <= 0 || o.Porosity > 1 {
			return fmt.Errorf("matrix porosity must be in (0,1], got %g", o.Porosity)
		}
		if o.Resistance < 0 {
			return fmt.Errorf("matrix resistance must be non-negative, got %g", o.Resistance)
		}
	default:
		return fmt.Errorf("unknown obstacle kind %d", o.Kind)
	}
	minX, minY, maxX, maxY := o.bound()
	if maxX < 0 || minX > g.Width || maxY < 0 || minY > g.Height {
		return fmt.Errorf("%s at (%g,%g) lies entirely outside the %gx%g domain", o.Kind, o.X, o.Y, g.Width, g.Height)
	}
	return nil
}
