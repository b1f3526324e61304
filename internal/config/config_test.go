package config

import (
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Grid.NX != 200 || cfg.Grid.NY != 100 {
		t.Errorf("unexpected default grid %dx%d", cfg.Grid.NX, cfg.Grid.NY)
	}
	if cfg.Step.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cfg := Default()
	cfg.Grid.NX = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero grid size")
	}

	cfg = Default()
	cfg.Fluid.Density = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative density")
	}

	cfg = Default()
	cfg.Flow.Walls = "sticky"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown wall kind")
	}

	cfg = Default()
	cfg.Obstacles = []ObstacleConfig{{Kind: "triangle"}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown obstacle kind")
	}
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	cfg := GetPreset("radiator")
	cfg.Flow.InflowSpeed = 12.5
	cfg.Radiator.AngleDeg = 22

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Flow.InflowSpeed != 12.5 {
		t.Errorf("inflow speed lost: %g", loaded.Flow.InflowSpeed)
	}
	if loaded.Radiator == nil || loaded.Radiator.AngleDeg != 22 {
		t.Error("radiator config lost in roundtrip")
	}
	if loaded.Grid != cfg.Grid {
		t.Errorf("grid config lost: %+v", loaded.Grid)
	}
}

func TestGetPreset(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %q returned nil", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestGetPreset_FreshCopy(t *testing.T) {
	a := GetPreset("radiator")
	a.Radiator.AngleDeg = 75
	b := GetPreset("radiator")
	if b.Radiator.AngleDeg == 75 {
		t.Error("presets must not share state between calls")
	}
}

func TestBuildObstacles(t *testing.T) {
	cfg := GetPreset("radiator")
	obs, err := cfg.BuildObstacles()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(obs) != 1 {
		t.Fatalf("expected 1 obstacle, got %d", len(obs))
	}
	if obs[0].Solid() {
		t.Error("radiator matrix must not be solid")
	}

	cfg = GetPreset("cylinder")
	obs, err = cfg.BuildObstacles()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(obs) != 1 || !obs[0].Solid() {
		t.Error("cylinder preset should place one solid obstacle")
	}
}

func TestBuildSolver(t *testing.T) {
	cfg := GetPreset("tunnel")
	cfg.Grid = GridConfig{NX: 40, NY: 20, Width: 4, Height: 2}
	sol, err := cfg.BuildSolver()
	if err != nil {
		t.Fatalf("build solver: %v", err)
	}
	if sol.Grid().NX != 40 {
		t.Errorf("solver grid nx = %d, want 40", sol.Grid().NX)
	}
}
