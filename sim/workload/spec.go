package workload

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/inference-sim/triage-sim/sim"
	"gopkg.in/yaml.v3"
)

// DefaultHorizon bounds open-ended generators when the spec sets no horizon: one simulated day.
const DefaultHorizon int64 = 24 * 60 * 60

// WorkloadSpec is the top-level workload configuration.
// Loaded from YAML via LoadWorkloadSpec(path).
type WorkloadSpec struct {
	Version    string          `yaml:"version"`
	Seed       int64           `yaml:"seed,omitempty"`    // used when the caller does not pick a seed
	Horizon    int64           `yaml:"horizon,omitempty"` // last admissible arrival time (exclusive); 0 = DefaultHorizon
	Patients   []PatientSpec   `yaml:"patients,omitempty"`
	Generators []GeneratorSpec `yaml:"generators,omitempty"`
}

// PatientSpec is a single explicitly listed patient.
type PatientSpec struct {
	Name     string        `yaml:"name"`
	Arrival  int64         `yaml:"arrival"`
	Severity *sim.Severity `yaml:"severity,omitempty"` // forces the triage code; nil = drawn by policy
}

// GeneratorSpec produces a family of patients named Prefix0, Prefix1, ...
type GeneratorSpec struct {
	Prefix  string `yaml:"prefix"`
	Process string `yaml:"process"` // "interval", "poisson", "cron"
	Start   int64  `yaml:"start"`
	Count   int    `yaml:"count,omitempty"` // 0 = until horizon (poisson, cron only)

	Interval         int64   `yaml:"interval,omitempty"`          // interval: ticks between arrivals
	MeanInterarrival float64 `yaml:"mean_interarrival,omitempty"` // poisson: mean ticks between arrivals
	Schedule         string  `yaml:"schedule,omitempty"`          // cron: standard 5-field expression

	Severity *sim.Severity `yaml:"severity,omitempty"`
}

var validProcesses = map[string]bool{"interval": true, "poisson": true, "cron": true}

// LoadWorkloadSpec reads and parses a YAML workload specification file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadWorkloadSpec(path string) (*WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload spec: %w", err)
	}
	var spec WorkloadSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing workload spec: %w", err)
	}
	return &spec, nil
}

// DefaultSpec registers count patients named Pat0..Pat{count-1}, one every
// interval ticks starting at start.
func DefaultSpec(count int, start, interval int64) *WorkloadSpec {
	return &WorkloadSpec{
		Version: "1",
		Generators: []GeneratorSpec{{
			Prefix:   "Pat",
			Process:  "interval",
			Start:    start,
			Count:    count,
			Interval: interval,
		}},
	}
}

// EffectiveHorizon returns Horizon, or DefaultHorizon when unset.
func (s *WorkloadSpec) EffectiveHorizon() int64 {
	if s.Horizon > 0 {
		return s.Horizon
	}
	return DefaultHorizon
}

// Validate checks that all fields in the spec are valid.
func (s *WorkloadSpec) Validate() error {
	if s.Version != "" && s.Version != "1" {
		return fmt.Errorf("unsupported workload version %q", s.Version)
	}
	if s.Horizon < 0 {
		return fmt.Errorf("horizon must be non-negative, got %d", s.Horizon)
	}
	if len(s.Patients) == 0 && len(s.Generators) == 0 {
		return fmt.Errorf("at least one patient or generator required")
	}
	for i, p := range s.Patients {
		prefix := fmt.Sprintf("patients[%d]", i)
		if p.Name == "" {
			return fmt.Errorf("%s: name is required", prefix)
		}
		if p.Arrival < 0 {
			return fmt.Errorf("%s: arrival must be non-negative, got %d", prefix, p.Arrival)
		}
	}
	for i := range s.Generators {
		if err := validateGenerator(&s.Generators[i], i); err != nil {
			return err
		}
	}
	return nil
}

func validateGenerator(g *GeneratorSpec, idx int) error {
	prefix := fmt.Sprintf("generators[%d]", idx)
	if g.Prefix == "" {
		return fmt.Errorf("%s: prefix is required", prefix)
	}
	if !validProcesses[g.Process] {
		return fmt.Errorf("%s: unknown process %q; valid: interval, poisson, cron", prefix, g.Process)
	}
	if g.Start < 0 {
		return fmt.Errorf("%s: start must be non-negative, got %d", prefix, g.Start)
	}
	if g.Count < 0 {
		return fmt.Errorf("%s: count must be non-negative, got %d", prefix, g.Count)
	}
	switch g.Process {
	case "interval":
		if g.Count == 0 {
			return fmt.Errorf("%s: interval process requires a positive count", prefix)
		}
		if g.Interval < 0 {
			return fmt.Errorf("%s: interval must be non-negative, got %d", prefix, g.Interval)
		}
	case "poisson":
		m := g.MeanInterarrival
		if math.IsNaN(m) || math.IsInf(m, 0) || m <= 0 {
			return fmt.Errorf("%s: mean_interarrival must be a positive finite number, got %f", prefix, m)
		}
	case "cron":
		if g.Schedule == "" {
			return fmt.Errorf("%s: schedule is required for cron process", prefix)
		}
	}
	return nil
}
