// Package trace provides per-event recording of a department simulation run.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// Outcome names what processing an event did to its patient.
type Outcome string

const (
	OutcomeTreating  Outcome = "treating"  // triaged straight into a free studio
	OutcomeWaiting   Outcome = "waiting"   // triaged into the waiting room
	OutcomeAbandoned Outcome = "abandoned" // WHITE timeout
	OutcomeEscalated Outcome = "escalated" // YELLOW timeout, now RED
	OutcomeDied      Outcome = "died"      // RED timeout
	OutcomeStale     Outcome = "stale"     // timeout for a patient already treating or out
	OutcomeTreated   Outcome = "treated"   // studio freed
)

// EventRecord captures one processed event and the department state right
// after its handler returned.
type EventRecord struct {
	Clock    int64
	Patient  string
	Kind     string
	Severity string // code at processing time, empty when not applicable
	Outcome  Outcome
	Next     string // patient called into the freed studio, FREE_STUDIO only
	Occupied int    // studios in use after the event
	Waiting  int    // waiting room size after the event
}
