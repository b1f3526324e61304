// Package store persists finished runs under a base directory, one
// subdirectory per run: the scenario, the performance record, the
// final cell-centered fields as CSV and, for sweeps, the per-angle
// records.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mkarlsen/radflow/internal/config"
	"github.com/mkarlsen/radflow/internal/field"
	"github.com/mkarlsen/radflow/internal/metrics"
	"github.com/mkarlsen/radflow/internal/sweep"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string         `json:"id"`
	Scenario  string         `json:"scenario"`
	Timestamp time.Time      `json:"timestamp"`
	Dt        float64        `json:"dt"`
	Steps     int            `json:"steps"`
	Record    metrics.Record `json:"record"`
}

// Save writes a completed run and returns its ID.
func (s *Store) Save(scenario string, cfg *config.Config, snap *field.Snapshot, rec metrics.Record) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenario,
		Timestamp: time.Now(),
		Dt:        cfg.Step.Dt,
		Steps:     cfg.Step.Steps,
		Record:    rec,
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, "scenario.yaml"), cfg); err != nil {
		return "", err
	}
	if err := writeFields(filepath.Join(runDir, "fields.csv"), snap); err != nil {
		return "", err
	}
	return runID, nil
}

// SaveSweep writes the per-angle records of an angle sweep.
func (s *Store) SaveSweep(scenario string, cfg *config.Config, records []metrics.Record) (string, error) {
	runID := fmt.Sprintf("%s_sweep_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	best, _ := sweep.Best(records)
	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenario,
		Timestamp: time.Now(),
		Dt:        cfg.Step.Dt,
		Steps:     cfg.Step.Steps,
		Record:    best,
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, "scenario.yaml"), cfg); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "records.json"), records); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadFields reads back the final fields of a run.
func (s *Store) LoadFields(runID string) (*field.Snapshot, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "fields.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("run %s has no field data", runID)
	}

	snap := &field.Snapshot{}
	for _, rec := range records[1:] {
		if len(rec) != 8 {
			return nil, fmt.Errorf("run %s: malformed field row", runID)
		}
		i, err1 := strconv.Atoi(rec[0])
		j, err2 := strconv.Atoi(rec[1])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("run %s: malformed field row", runID)
		}
		if i >= snap.NX {
			snap.NX = i + 1
		}
		if j >= snap.NY {
			snap.NY = j + 1
		}
		if snap.H == 0 {
			if x, err := strconv.ParseFloat(rec[2], 64); err == nil {
				snap.H = x / (float64(i) + 0.5)
			}
		}
	}
	snap.U = make([]float64, snap.NX*snap.NY)
	snap.V = make([]float64, snap.NX*snap.NY)
	snap.Pressure = make([]float64, snap.NX*snap.NY)
	snap.Smoke = make([]float64, snap.NX*snap.NY)

	for _, rec := range records[1:] {
		i, _ := strconv.Atoi(rec[0])
		j, _ := strconv.Atoi(rec[1])
		k := i*snap.NY + j
		vals := make([]float64, 4)
		for n := 0; n < 4; n++ {
			v, err := strconv.ParseFloat(rec[4+n], 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: malformed field row", runID)
			}
			vals[n] = v
		}
		snap.U[k], snap.V[k], snap.Pressure[k], snap.Smoke[k] = vals[0], vals[1], vals[2], vals[3]
	}
	return snap, nil
}

func writeJSON(path string, v interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFields(path string, snap *field.Snapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"i", "j", "x", "y", "u", "v", "pressure", "smoke"}); err != nil {
		return err
	}
	for i := 0; i < snap.NX; i++ {
		for j := 0; j < snap.NY; j++ {
			k := i*snap.NY + j
			x := (float64(i) + 0.5) * snap.H
			y := (float64(j) + 0.5) * snap.H
			row := []string{
				strconv.Itoa(i),
				strconv.Itoa(j),
				strconv.FormatFloat(x, 'f', 6, 64),
				strconv.FormatFloat(y, 'f', 6, 64),
				strconv.FormatFloat(snap.U[k], 'f', 6, 64),
				strconv.FormatFloat(snap.V[k], 'f', 6, 64),
				strconv.FormatFloat(snap.Pressure[k], 'f', 6, 64),
				strconv.FormatFloat(snap.Smoke[k], 'f', 6, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}
