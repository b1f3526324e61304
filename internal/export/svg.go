// Package export renders simulation output to SVG: field heatmaps of
// a finished run and the efficiency curve of an angle sweep.
package export

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/mkarlsen/radflow/internal/field"
	"github.com/mkarlsen/radflow/internal/metrics"
)

// Quantity selects which cell-centered field a heatmap shows.
type Quantity string

const (
	QuantitySmoke    Quantity = "smoke"
	QuantityPressure Quantity = "pressure"
	QuantitySpeed    Quantity = "speed"
)

// HeatmapSVG renders one cell-centered field of a snapshot as a grid
// of colored rectangles, one per cell, at the given pixel scale.
func HeatmapSVG(snap *field.Snapshot, quantity Quantity, scale float64) string {
	if snap == nil || snap.NX == 0 || snap.NY == 0 {
		return ""
	}

	values := make([]float64, snap.NX*snap.NY)
	for i := 0; i < snap.NX; i++ {
		for j := 0; j < snap.NY; j++ {
			k := i*snap.NY + j
			switch quantity {
			case QuantityPressure:
				values[k] = snap.Pressure[k]
			case QuantitySpeed:
				values[k] = math.Hypot(snap.U[k], snap.V[k])
			default:
				values[k] = snap.Smoke[k]
			}
		}
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	width := float64(snap.NX) * scale
	height := float64(snap.NY) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i := 0; i < snap.NX; i++ {
		for j := 0; j < snap.NY; j++ {
			t := (values[i*snap.NY+j] - lo) / span
			// SVG y runs downward; row NY-1 is the top of the tunnel.
			x := float64(i) * scale
			y := float64(snap.NY-1-j) * scale
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, x, y, scale, scale, heatColor(t)))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// WriteHeatmapSVG renders a heatmap and writes it to path.
func WriteHeatmapSVG(path string, snap *field.Snapshot, quantity Quantity, scale float64) error {
	svg := HeatmapSVG(snap, quantity, scale)
	if svg == "" {
		return fmt.Errorf("nothing to export")
	}
	return os.WriteFile(path, []byte(svg), 0644)
}

// SweepCurveSVG plots cooling efficiency against radiator angle as a
// polyline with one marker per swept angle.
func SweepCurveSVG(records []metrics.Record, width, height int) string {
	if len(records) < 2 {
		return ""
	}

	minX, maxX := records[0].AngleDeg, records[0].AngleDeg
	minY, maxY := records[0].CoolingEfficiency, records[0].CoolingEfficiency
	for _, r := range records {
		minX = math.Min(minX, r.AngleDeg)
		maxX = math.Max(maxX, r.AngleDeg)
		minY = math.Min(minY, r.CoolingEfficiency)
		maxY = math.Max(maxY, r.CoolingEfficiency)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="#00ff00" stroke-width="1.5" d="M`,
		width, height, width, height))

	type pt struct{ x, y float64 }
	pts := make([]pt, len(records))
	for i, r := range records {
		pts[i].x = (r.AngleDeg - minX) / rangeX * float64(width)
		pts[i].y = float64(height) - (r.CoolingEfficiency-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", pts[i].x, pts[i].y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", pts[i].x, pts[i].y))
		}
	}
	sb.WriteString("\"/>\n")

	for _, p := range pts {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="#00ff00"/>
`, p.x, p.y))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// WriteSweepCurveSVG plots a sweep and writes it to path.
func WriteSweepCurveSVG(path string, records []metrics.Record, width, height int) error {
	svg := SweepCurveSVG(records, width, height)
	if svg == "" {
		return fmt.Errorf("need at least two records to plot a sweep")
	}
	return os.WriteFile(path, []byte(svg), 0644)
}

// heatColor maps t in [0,1] onto a dark-blue to red ramp.
func heatColor(t float64) string {
	t = math.Max(0, math.Min(1, t))
	var r, g, b int
	switch {
	case t < 0.25:
		r, g, b = 0, int(255*t/0.25*0.5), int(128+127*t/0.25)
	case t < 0.5:
		s := (t - 0.25) / 0.25
		r, g, b = 0, int(128+127*s), int(255*(1-s))
	case t < 0.75:
		s := (t - 0.5) / 0.25
		r, g, b = int(255*s), 255, 0
	default:
		s := (t - 0.75) / 0.25
		r, g, b = 255, int(255*(1-s)), 0
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
