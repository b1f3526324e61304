package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkarlsen/radflow/internal/field"
	"github.com/mkarlsen/radflow/internal/metrics"
)

func sampleSnapshot() *field.Snapshot {
	snap := &field.Snapshot{
		NX: 4, NY: 2, H: 0.5,
		U:        make([]float64, 8),
		V:        make([]float64, 8),
		Pressure: make([]float64, 8),
		Smoke:    make([]float64, 8),
	}
	for k := range snap.Smoke {
		snap.Smoke[k] = float64(k) / 8
	}
	return snap
}

func TestHeatmapSVG(t *testing.T) {
	svg := HeatmapSVG(sampleSnapshot(), QuantitySmoke, 4)
	if !strings.HasPrefix(svg, "<?xml") {
		t.Error("missing XML header")
	}
	if !strings.Contains(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("malformed SVG envelope")
	}
	// One rect per cell plus the background.
	if n := strings.Count(svg, "<rect"); n != 4*2+1 {
		t.Errorf("expected 9 rects, got %d", n)
	}
}

func TestHeatmapSVG_Empty(t *testing.T) {
	if svg := HeatmapSVG(nil, QuantitySmoke, 4); svg != "" {
		t.Error("nil snapshot should render nothing")
	}
}

func TestHeatmapSVG_ConstantField(t *testing.T) {
	snap := sampleSnapshot()
	for k := range snap.Pressure {
		snap.Pressure[k] = 42
	}
	svg := HeatmapSVG(snap, QuantityPressure, 4)
	if svg == "" {
		t.Error("constant field should still render")
	}
}

func TestWriteHeatmapSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heatmap.svg")
	if err := WriteHeatmapSVG(path, sampleSnapshot(), QuantitySpeed, 4); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("file does not contain SVG markup")
	}
}

func TestSweepCurveSVG(t *testing.T) {
	records := []metrics.Record{
		{AngleDeg: 0, CoolingEfficiency: 0.9},
		{AngleDeg: 30, CoolingEfficiency: 0.8},
		{AngleDeg: 60, CoolingEfficiency: 0.5},
	}
	svg := SweepCurveSVG(records, 640, 400)
	if !strings.Contains(svg, "<path") {
		t.Error("missing curve path")
	}
	if n := strings.Count(svg, "<circle"); n != len(records) {
		t.Errorf("expected %d markers, got %d", len(records), n)
	}
}

func TestSweepCurveSVG_TooFewPoints(t *testing.T) {
	if svg := SweepCurveSVG([]metrics.Record{{AngleDeg: 0}}, 640, 400); svg != "" {
		t.Error("single record should render nothing")
	}
}
