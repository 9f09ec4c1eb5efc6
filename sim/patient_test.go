package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewPatient_StartsNew(t *testing.T) {
	p := NewPatient("Pat0", 480)

	assert.Equal(t, StatusNew, p.Status)
	assert.Equal(t, int64(480), p.RegisteredAt)
	assert.Equal(t, int64(-1), p.TriagedAt)
	assert.Equal(t, int64(-1), p.TreatmentStart)
	assert.Equal(t, "[Pat0-NEW]", p.String())
}

func TestPatientStatus_Severity_OnlyWaitingStatuses(t *testing.T) {
	tests := []struct {
		status PatientStatus
		want   Severity
		ok     bool
	}{
		{StatusNew, 0, false},
		{StatusWhite, SeverityWhite, true},
		{StatusYellow, SeverityYellow, true},
		{StatusRed, SeverityRed, true},
		{StatusBlack, 0, false},
		{StatusTreating, 0, false},
		{StatusOut, 0, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			got, ok := tc.status.Severity()
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPatientStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusBlack.IsTerminal())
	assert.True(t, StatusOut.IsTerminal())
	for _, s := range []PatientStatus{StatusNew, StatusWhite, StatusYellow, StatusRed, StatusTreating} {
		assert.False(t, s.IsTerminal(), s)
	}
}

func TestSeverity_StatusRoundTrip(t *testing.T) {
	for _, sev := range Severities {
		back, ok := sev.Status().Severity()
		require.True(t, ok)
		assert.Equal(t, sev, back)
	}
	assert.Less(t, int(SeverityWhite), int(SeverityYellow))
	assert.Less(t, int(SeverityYellow), int(SeverityRed))
}

func TestSeverity_Status_InvalidPanics(t *testing.T) {
	assert.Panics(t, func() { Severity(0).Status() })
	assert.Panics(t, func() { Severity(4).Status() })
	assert.Equal(t, "Severity(9)", Severity(9).String())
}

func TestParseSeverity(t *testing.T) {
	for in, want := range map[string]Severity{"white": SeverityWhite, "YELLOW": SeverityYellow, " Red ": SeverityRed} {
		got, err := ParseSeverity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseSeverity("black")
	assert.Error(t, err, "BLACK is a status, not a triage code")
}

func TestSeverity_YAML(t *testing.T) {
	// GIVEN a struct carrying a severity code
	type holder struct {
		Code Severity `yaml:"code"`
	}

	// WHEN it is marshalled
	out, err := yaml.Marshal(holder{Code: SeverityYellow})
	require.NoError(t, err)

	// THEN the code is its lowercase name and reads back identically
	assert.Equal(t, "code: yellow\n", string(out))
	var back holder
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, SeverityYellow, back.Code)

	assert.Error(t, yaml.Unmarshal([]byte("code: purple"), &back))
}
