// Package sim provides the discrete-event simulation engine for an emergency
// department's triage, waiting and treatment stages.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - patient.go: Patient lifecycle (NEW → code → TREATING → OUT, plus abandon, escalation, death)
//   - event.go, event_queue.go: the three event kinds and their deterministic time ordering
//   - queue.go: the waiting room and its severity-then-arrival order
//   - simulator.go: the event loop and per-kind transition logic
//
// # Time
//
// Time is an int64 tick count (one tick = one simulated second). It only
// advances when an event is popped; there is no wall-clock component.
//
// # Stale events
//
// Events are never cancelled. A TIMEOUT whose patient has already entered a
// studio, or already left, is recognized by the patient's status and ignored.
//
// # Key Interfaces
//   - SeverityPolicy: assigns a triage code (uniform, weighted, fixed, scripted)
//
// Sub-packages:
//   - sim/trace/: per-event trace records
//   - sim/workload/: YAML workload specs and arrival generation
package sim
