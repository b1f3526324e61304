// Package metrics extracts radiator performance figures from a
// converged simulation state: mass flow through the matrix face,
// pressure drop across it, drag/lift on the target obstacle and the
// derived cooling efficiency and fan power. All queries are read-only.
package metrics

import (
	"math"

	"github.com/mkarlsen/radflow/internal/obstacle"
	"github.com/mkarlsen/radflow/internal/solver"
	"gonum.org/v1/gonum/floats"
)

// Freestream describes the undisturbed approach flow used to decompose
// forces into drag (parallel) and lift (perpendicular).
type Freestream struct {
	Speed float64
	DirX  float64
	DirY  float64
}

// Axial returns a freestream along +x at the given speed.
func Axial(speed float64) Freestream { return Freestream{Speed: speed, DirX: 1, DirY: 0} }

// Record is the per-run performance summary. Serialized as-is by the
// CLI and sweep driver.
type Record struct {
	AngleDeg          float64 `json:"angle_degrees"`
	MassFlowRate      float64 `json:"mass_flow_rate"`     // kg/s per meter depth
	PressureDrop      float64 `json:"pressure_drop"`      // Pa
	InletSpeed        float64 `json:"inlet_velocity"`     // m/s
	OutletSpeed       float64 `json:"outlet_velocity"`    // m/s
	DragForce         float64 `json:"drag_force"`         // N per meter depth
	LiftForce         float64 `json:"lift_force"`         // N per meter depth
	CoolingEfficiency float64 `json:"cooling_efficiency"` // dimensionless
	FanPowerRequired  float64 `json:"fan_power_required"` // W per meter depth
}

const (
	flowSamples     = 20
	pressureSamples = 10
)

// Compute evaluates all metrics for the target obstacle, typically the
// radiator matrix. The state is not mutated.
func Compute(s *solver.Solver, target obstacle.Obstacle, free Freestream) Record {
	mdot := massFlow(s, target)
	dp := pressureDrop(s, target)
	fx, fy := forces(s, target)

	dirX, dirY := free.DirX, free.DirY
	if norm := math.Hypot(dirX, dirY); norm > 0 {
		dirX /= norm
		dirY /= norm
	} else {
		dirX, dirY = 1, 0
	}

	inlet, outlet := throughSpeeds(s, target)

	// Dimensionless flow figure: saturates toward 1 as the matrix
	// passes more mass.
	efficiency := mdot / (mdot + 0.1)
	fanPower := dp * mdot / s.Cond().Density

	return Record{
		AngleDeg:          target.Angle * 180 / math.Pi,
		MassFlowRate:      mdot,
		PressureDrop:      dp,
		InletSpeed:        inlet,
		OutletSpeed:       outlet,
		DragForce:         fx*dirX + fy*dirY,
		LiftForce:         -fx*dirY + fy*dirX,
		CoolingEfficiency: efficiency,
		FanPowerRequired:  fanPower,
	}
}

// massFlow integrates the normal velocity along a control line
// coincident with the matrix face (unit depth), times fluid density.
func massFlow(s *solver.Solver, target obstacle.Obstacle) float64 {
	g, f := s.Grid(), s.Fields()
	nx, ny := target.Normal()
	// Face tangent: the matrix height runs perpendicular to its normal.
	tx, ty := -ny, nx

	span := target.Height
	if target.Kind != obstacle.KindPorousMatrix {
		span = 2 * target.Radius
	}
	seg := span / flowSamples

	samples := make([]float64, 0, flowSamples)
	for k := 0; k < flowSamples; k++ {
		t := (float64(k)+0.5)/flowSamples - 0.5
		x := target.X + t*span*tx
		y := target.Y + t*span*ty
		if !g.Inside(x, y) {
			continue
		}
		u, v := f.SampleVelocity(x, y)
		samples = append(samples, (u*nx+v*ny)*seg)
	}
	return math.Abs(floats.Sum(samples)) * s.Cond().Density
}

// pressureDrop is the line-averaged pressure a fixed offset upstream
// of the matrix minus the same average downstream, along its normal.
func pressureDrop(s *solver.Solver, target obstacle.Obstacle) float64 {
	g := s.Grid()
	nx, ny := target.Normal()
	probe := 0.5*target.Width + 2*g.H

	up := lineAveragePressure(s, target.X-probe*nx, target.Y-probe*ny, target)
	down := lineAveragePressure(s, target.X+probe*nx, target.Y+probe*ny, target)
	return up - down
}

// lineAveragePressure samples pressure along a line parallel to the
// matrix face centered on (x,y), skipping out-of-domain points.
func lineAveragePressure(s *solver.Solver, x, y float64, target obstacle.Obstacle) float64 {
	g, f := s.Grid(), s.Fields()
	nx, ny := target.Normal()
	tx, ty := -ny, nx

	samples := make([]float64, 0, pressureSamples)
	for k := 0; k < pressureSamples; k++ {
		t := (float64(k)+0.5)/pressureSamples - 0.5
		px := x + t*target.Height*tx
		py := y + t*target.Height*ty
		if !g.Inside(px, py) {
			continue
		}
		samples = append(samples, f.SampleP(px, py))
	}
	if len(samples) == 0 {
		return 0
	}
	return floats.Sum(samples) / float64(len(samples))
}

// throughSpeeds samples the flow speed just upstream and downstream of
// the matrix along its normal.
func throughSpeeds(s *solver.Solver, target obstacle.Obstacle) (inlet, outlet float64) {
	g, f := s.Grid(), s.Fields()
	nx, ny := target.Normal()
	probe := 0.5*target.Width + g.H

	ux, uy := f.SampleVelocity(target.X-probe*nx, target.Y-probe*ny)
	dx, dy := f.SampleVelocity(target.X+probe*nx, target.Y+probe*ny)
	return math.Hypot(ux, uy), math.Hypot(dx, dy)
}
