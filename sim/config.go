package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config groups the department's timing parameters and triage policy.
// All durations are in ticks (simulated seconds).
type Config struct {
	TriageDuration int64 `yaml:"triage_duration"` // registration → triage completion

	TreatWhite  int64 `yaml:"treat_white"`
	TreatYellow int64 `yaml:"treat_yellow"`
	TreatRed    int64 `yaml:"treat_red"`

	TimeoutWhite  int64 `yaml:"timeout_white"`  // wait before a WHITE patient abandons
	TimeoutYellow int64 `yaml:"timeout_yellow"` // wait before a YELLOW patient becomes RED
	TimeoutRed    int64 `yaml:"timeout_red"`    // wait before a RED patient dies

	// EscalationResetsQueueTime refreshes QueueTime when a YELLOW patient
	// turns RED. When false the patient keeps its original place in time
	// and competes with other RED patients by first arrival.
	EscalationResetsQueueTime bool `yaml:"escalation_resets_queue_time"`

	Severity SeverityConfig `yaml:"severity"`
}

// SeverityConfig selects how triage assigns codes.
type SeverityConfig struct {
	Policy  string          `yaml:"policy"`         // "uniform" (default), "weighted", "fixed"
	Weights SeverityWeights `yaml:"weights"`        // used by "weighted"
	Code    Severity        `yaml:"code,omitempty"` // used by "fixed"
}

// SeverityWeights are relative draw weights; they need not sum to 1.
type SeverityWeights struct {
	White  float64 `yaml:"white"`
	Yellow float64 `yaml:"yellow"`
	Red    float64 `yaml:"red"`
}

// DefaultConfig returns the department's reference parameters.
func DefaultConfig() Config {
	return Config{
		TriageDuration: 5 * 60,
		TreatWhite:     10 * 60,
		TreatYellow:    15 * 60,
		TreatRed:       30 * 60,
		TimeoutWhite:   30 * 60,
		TimeoutYellow:  30 * 60,
		TimeoutRed:     60 * 60,
		Severity: SeverityConfig{
			Policy:  "uniform",
			Weights: SeverityWeights{White: 1, Yellow: 1, Red: 1},
		},
	}
}

// TreatmentDuration returns how long a patient with code s occupies a studio.
func (c Config) TreatmentDuration(s Severity) int64 {
	switch s {
	case SeverityWhite:
		return c.TreatWhite
	case SeverityYellow:
		return c.TreatYellow
	case SeverityRed:
		return c.TreatRed
	default:
		panic(fmt.Sprintf("TreatmentDuration: invalid severity %d", int(s)))
	}
}

// Timeout returns how long a patient with code s may wait.
func (c Config) Timeout(s Severity) int64 {
	switch s {
	case SeverityWhite:
		return c.TimeoutWhite
	case SeverityYellow:
		return c.TimeoutYellow
	case SeverityRed:
		return c.TimeoutRed
	default:
		panic(fmt.Sprintf("Timeout: invalid severity %d", int(s)))
	}
}

// ValidSeverityPolicies is the set of severity policy names accepted in config.
var ValidSeverityPolicies = map[string]bool{"": true, "uniform": true, "weighted": true, "fixed": true}

// Validate checks durations and the severity policy.
func (c Config) Validate() error {
	if c.TriageDuration < 0 {
		return fmt.Errorf("triage_duration must be non-negative, got %d", c.TriageDuration)
	}
	positive := []struct {
		name  string
		value int64
	}{
		{"treat_white", c.TreatWhite},
		{"treat_yellow", c.TreatYellow},
		{"treat_red", c.TreatRed},
		{"timeout_white", c.TimeoutWhite},
		{"timeout_yellow", c.TimeoutYellow},
		{"timeout_red", c.TimeoutRed},
	}
	for _, f := range positive {
		if f.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", f.name, f.value)
		}
	}
	return c.Severity.Validate()
}

// Validate checks the policy name and its parameters.
func (sc SeverityConfig) Validate() error {
	if !ValidSeverityPolicies[sc.Policy] {
		return fmt.Errorf("unknown severity policy %q", sc.Policy)
	}
	switch sc.Policy {
	case "weighted":
		w := sc.Weights
		if w.White < 0 || w.Yellow < 0 || w.Red < 0 {
			return fmt.Errorf("severity weights must be non-negative, got %+v", w)
		}
		if w.White+w.Yellow+w.Red <= 0 {
			return fmt.Errorf("severity weights sum to %f; must be positive", w.White+w.Yellow+w.Red)
		}
	case "fixed":
		if !sc.Code.Valid() {
			return fmt.Errorf("fixed severity policy requires a code (white, yellow or red)")
		}
	}
	return nil
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
// Unknown keys are rejected so typos surface as errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading department config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing department config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid department config: %w", err)
	}
	return cfg, nil
}
