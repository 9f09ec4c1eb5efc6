package trace

import "github.com/google/uuid"

// TraceLevel controls the verbosity of event tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelEvents records every processed event.
	TraceLevelEvents TraceLevel = "events"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelEvents: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// SimulationTrace collects event records during a run.
type SimulationTrace struct {
	RunID  string
	Events []EventRecord
}

// NewSimulationTrace creates a SimulationTrace with a fresh run ID.
func NewSimulationTrace() *SimulationTrace {
	return &SimulationTrace{
		RunID:  uuid.New().String(),
		Events: make([]EventRecord, 0),
	}
}

// Record appends an event record.
func (st *SimulationTrace) Record(record EventRecord) {
	st.Events = append(st.Events, record)
}

// ForPatient returns the records concerning one patient, in processing order.
func (st *SimulationTrace) ForPatient(name string) []EventRecord {
	var out []EventRecord
	for _, r := range st.Events {
		if r.Patient == name {
			out = append(out, r)
		}
	}
	return out
}
