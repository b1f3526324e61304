package store

import (
	"math"
	"testing"

	"github.com/mkarlsen/radflow/internal/config"
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
	for k := range snap.U {
		snap.U[k] = float64(k)
		snap.V[k] = -float64(k)
		snap.Pressure[k] = 10 * float64(k)
		snap.Smoke[k] = float64(k) / 8
	}
	return snap
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	cfg := config.GetPreset("radiator")
	rec := metrics.Record{AngleDeg: 15, MassFlowRate: 9.8, PressureDrop: 120}

	runID, err := st.Save("radiator", cfg, sampleSnapshot(), rec)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.Scenario != "radiator" {
		t.Errorf("scenario = %q", meta.Scenario)
	}
	if meta.Record.MassFlowRate != 9.8 {
		t.Errorf("record lost: %+v", meta.Record)
	}
	if meta.Dt != cfg.Step.Dt || meta.Steps != cfg.Step.Steps {
		t.Errorf("step config lost: dt=%g steps=%d", meta.Dt, meta.Steps)
	}
}

func TestLoadFields_Roundtrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	want := sampleSnapshot()
	runID, err := st.Save("tunnel", config.GetPreset("tunnel"), want, metrics.Record{})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := st.LoadFields(runID)
	if err != nil {
		t.Fatalf("load fields: %v", err)
	}
	if got.NX != want.NX || got.NY != want.NY {
		t.Fatalf("dimensions %dx%d, want %dx%d", got.NX, got.NY, want.NX, want.NY)
	}
	if math.Abs(got.H-want.H) > 1e-9 {
		t.Errorf("cell size %g, want %g", got.H, want.H)
	}
	for k := range want.U {
		if math.Abs(got.U[k]-want.U[k]) > 1e-5 {
			t.Errorf("u[%d] = %g, want %g", k, got.U[k], want.U[k])
		}
		if math.Abs(got.Pressure[k]-want.Pressure[k]) > 1e-5 {
			t.Errorf("pressure[%d] = %g, want %g", k, got.Pressure[k], want.Pressure[k])
		}
	}
}

func TestList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected empty store, got %d runs", len(runs))
	}

	if _, err := st.Save("tunnel", config.GetPreset("tunnel"), sampleSnapshot(), metrics.Record{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	runs, err = st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
}

func TestList_MissingDir(t *testing.T) {
	st := New("/nonexistent/radflow-test")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list on missing dir: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestSaveSweep(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	records := []metrics.Record{
		{AngleDeg: 0, CoolingEfficiency: 0.9, FanPowerRequired: 100},
		{AngleDeg: 30, CoolingEfficiency: 0.8, FanPowerRequired: 10},
	}
	runID, err := st.SaveSweep("radiator", config.GetPreset("radiator"), records)
	if err != nil {
		t.Fatalf("save sweep: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// Metadata carries the best record of the sweep.
	if meta.Record.AngleDeg != 0 {
		t.Errorf("best angle = %g, want 0", meta.Record.AngleDeg)
	}
}
