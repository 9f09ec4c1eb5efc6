// Package testutil provides shared test infrastructure for the triage simulator.
// It holds the golden scenario types and assertion helpers used by sim/ tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenScenario `json:"tests"`
}

// GoldenScenario is one hand-checked department run.
type GoldenScenario struct {
	Name  string `json:"name"`
	Rooms int    `json:"rooms"`
	// Config holds YAML keys layered over the default department config.
	Config   map[string]any  `json:"config,omitempty"`
	Patients []GoldenPatient `json:"patients"`
	Metrics  GoldenMetrics   `json:"metrics"`
}

// GoldenPatient registers one patient with a forced triage code.
type GoldenPatient struct {
	Name     string `json:"name"`
	Arrival  int64  `json:"arrival"`
	Severity string `json:"severity"`
	// Final is the expected terminal status after the run.
	Final string `json:"final"`
}

// GoldenMetrics represents the expected metrics from a golden scenario.
type GoldenMetrics struct {
	// Exact match metrics (integers)
	Treated       int   `json:"treated"`
	Dead          int   `json:"dead"`
	Abandoned     int   `json:"abandoned"`
	Escalated     int   `json:"escalated"`
	StaleTimeouts int   `json:"stale_timeouts"`
	PeakOccupied  int   `json:"peak_occupied"`
	PeakWaiting   int   `json:"peak_waiting"`
	EndTime       int64 `json:"end_time"`

	// Derived from integer ticks, compared with tolerance
	AverageWait float64 `json:"average_wait"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
