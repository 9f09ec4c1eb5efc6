package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "department.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig_ReferenceValues(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, int64(300), cfg.TriageDuration)
	assert.Equal(t, int64(600), cfg.TreatmentDuration(SeverityWhite))
	assert.Equal(t, int64(900), cfg.TreatmentDuration(SeverityYellow))
	assert.Equal(t, int64(1800), cfg.TreatmentDuration(SeverityRed))
	assert.Equal(t, int64(1800), cfg.Timeout(SeverityWhite))
	assert.Equal(t, int64(1800), cfg.Timeout(SeverityYellow))
	assert.Equal(t, int64(3600), cfg.Timeout(SeverityRed))
	assert.False(t, cfg.EscalationResetsQueueTime)
	assert.Equal(t, "uniform", cfg.Severity.Policy)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Durations_InvalidSeverityPanics(t *testing.T) {
	cfg := DefaultConfig()
	assert.Panics(t, func() { cfg.TreatmentDuration(0) })
	assert.Panics(t, func() { cfg.Timeout(Severity(7)) })
}

func TestLoadConfig_OverridesLayerOverDefaults(t *testing.T) {
	// GIVEN a file that only changes two fields and the policy
	path := writeConfig(t, `
treat_red: 5000
escalation_resets_queue_time: true
severity:
  policy: fixed
  code: red
`)

	// WHEN loaded
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// THEN overridden fields change and the rest keep their defaults
	assert.Equal(t, int64(5000), cfg.TreatRed)
	assert.True(t, cfg.EscalationResetsQueueTime)
	assert.Equal(t, "fixed", cfg.Severity.Policy)
	assert.Equal(t, SeverityRed, cfg.Severity.Code)
	assert.Equal(t, int64(300), cfg.TriageDuration)
	assert.Equal(t, int64(3600), cfg.TimeoutRed)
}

func TestLoadConfig_EmptyFile_ReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_UnknownKey_Rejected(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "treat_purple: 10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing department config")
}

func TestLoadConfig_InvalidValue_Rejected(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "timeout_red: 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout_red")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading department config")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative triage", func(c *Config) { c.TriageDuration = -1 }, "triage_duration"},
		{"zero treat white", func(c *Config) { c.TreatWhite = 0 }, "treat_white"},
		{"negative timeout yellow", func(c *Config) { c.TimeoutYellow = -5 }, "timeout_yellow"},
		{"unknown policy", func(c *Config) { c.Severity.Policy = "dice" }, "unknown severity policy"},
		{"negative weight", func(c *Config) {
			c.Severity = SeverityConfig{Policy: "weighted", Weights: SeverityWeights{White: -1, Yellow: 1, Red: 1}}
		}, "non-negative"},
		{"zero weights", func(c *Config) {
			c.Severity = SeverityConfig{Policy: "weighted"}
		}, "must be positive"},
		{"fixed without code", func(c *Config) { c.Severity = SeverityConfig{Policy: "fixed"} }, "requires a code"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestConfig_Validate_ZeroTriageAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TriageDuration = 0
	assert.NoError(t, cfg.Validate())
}
