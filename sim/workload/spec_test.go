package workload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inference-sim/triage-sim/sim"
)

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workload.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWorkloadSpec_ValidYAML_LoadsCorrectly(t *testing.T) {
	path := writeSpec(t, `
version: "1"
horizon: 7200
patients:
  - name: Alice
    arrival: 0
    severity: red
  - name: Bob
    arrival: 60
generators:
  - prefix: Walkin
    process: poisson
    start: 120
    mean_interarrival: 300
    count: 5
  - prefix: Shift
    process: cron
    schedule: "*/30 * * * *"
`)

	spec, err := LoadWorkloadSpec(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Version != "1" {
		t.Errorf("version = %q, want %q", spec.Version, "1")
	}
	if spec.Horizon != 7200 {
		t.Errorf("horizon = %d, want 7200", spec.Horizon)
	}
	if len(spec.Patients) != 2 {
		t.Fatalf("patients count = %d, want 2", len(spec.Patients))
	}
	if spec.Patients[0].Severity == nil || *spec.Patients[0].Severity != sim.SeverityRed {
		t.Errorf("Alice severity = %v, want RED", spec.Patients[0].Severity)
	}
	if spec.Patients[1].Severity != nil {
		t.Errorf("Bob severity = %v, want nil", *spec.Patients[1].Severity)
	}
	if len(spec.Generators) != 2 {
		t.Fatalf("generators count = %d, want 2", len(spec.Generators))
	}
	if spec.Generators[0].MeanInterarrival != 300 {
		t.Errorf("mean_interarrival = %f, want 300", spec.Generators[0].MeanInterarrival)
	}
	if spec.Generators[1].Schedule != "*/30 * * * *" {
		t.Errorf("schedule = %q", spec.Generators[1].Schedule)
	}
	if err := spec.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadWorkloadSpec_UnknownKey_ReturnsError(t *testing.T) {
	path := writeSpec(t, `
version: "1"
patients:
  - name: Alice
    arival: 10
`)
	_, err := LoadWorkloadSpec(path)
	if err == nil {
		t.Fatal("expected error for misspelled key, got nil")
	}
	if !strings.Contains(err.Error(), "arival") {
		t.Errorf("error should name the unknown key: %v", err)
	}
}

func TestLoadWorkloadSpec_BadSeverity_ReturnsError(t *testing.T) {
	path := writeSpec(t, `
patients:
  - name: Alice
    arrival: 0
    severity: green
`)
	if _, err := LoadWorkloadSpec(path); err == nil {
		t.Fatal("expected error for unknown severity code")
	}
}

func TestLoadWorkloadSpec_MissingFile_ReturnsError(t *testing.T) {
	_, err := LoadWorkloadSpec(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "reading workload spec") {
		t.Fatalf("expected reading error, got %v", err)
	}
}

func TestDefaultSpec_MatchesReferenceHarness(t *testing.T) {
	spec := DefaultSpec(50, 480, 10)
	if err := spec.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	g := spec.Generators[0]
	if g.Prefix != "Pat" || g.Process != "interval" || g.Start != 480 || g.Count != 50 || g.Interval != 10 {
		t.Errorf("unexpected default generator: %+v", g)
	}
}

func TestWorkloadSpec_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		spec WorkloadSpec
		want string
	}{
		{"empty", WorkloadSpec{}, "at least one"},
		{"version", WorkloadSpec{Version: "2", Patients: []PatientSpec{{Name: "a"}}}, "version"},
		{"negative horizon", WorkloadSpec{Horizon: -1, Patients: []PatientSpec{{Name: "a"}}}, "horizon"},
		{"unnamed patient", WorkloadSpec{Patients: []PatientSpec{{Arrival: 3}}}, "name is required"},
		{"negative arrival", WorkloadSpec{Patients: []PatientSpec{{Name: "a", Arrival: -5}}}, "arrival"},
		{"no prefix", WorkloadSpec{Generators: []GeneratorSpec{{Process: "interval", Count: 1}}}, "prefix"},
		{"unknown process", WorkloadSpec{Generators: []GeneratorSpec{{Prefix: "P", Process: "burst"}}}, "unknown process"},
		{"negative start", WorkloadSpec{Generators: []GeneratorSpec{{Prefix: "P", Process: "interval", Count: 1, Start: -1}}}, "start"},
		{"interval without count", WorkloadSpec{Generators: []GeneratorSpec{{Prefix: "P", Process: "interval", Interval: 10}}}, "positive count"},
		{"negative interval", WorkloadSpec{Generators: []GeneratorSpec{{Prefix: "P", Process: "interval", Count: 2, Interval: -1}}}, "interval"},
		{"poisson zero mean", WorkloadSpec{Generators: []GeneratorSpec{{Prefix: "P", Process: "poisson"}}}, "mean_interarrival"},
		{"cron no schedule", WorkloadSpec{Generators: []GeneratorSpec{{Prefix: "P", Process: "cron"}}}, "schedule"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.spec.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not contain %q", err, tc.want)
			}
		})
	}
}

func TestWorkloadSpec_EffectiveHorizon(t *testing.T) {
	if got := (&WorkloadSpec{}).EffectiveHorizon(); got != DefaultHorizon {
		t.Errorf("unset horizon = %d, want %d", got, DefaultHorizon)
	}
	if got := (&WorkloadSpec{Horizon: 900}).EffectiveHorizon(); got != 900 {
		t.Errorf("horizon = %d, want 900", got)
	}
}

func TestLoadWorkloadSpec_ShippedExample(t *testing.T) {
	spec, err := LoadWorkloadSpec(filepath.Join("..", "..", "examples", "workload.yaml"))
	if err != nil {
		t.Fatalf("failed to load examples/workload.yaml: %v", err)
	}
	if err := spec.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if spec.Seed != 7 {
		t.Errorf("seed = %d, want 7", spec.Seed)
	}
}
