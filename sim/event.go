package sim

import "fmt"

// EventKind identifies what an event does when it fires.
type EventKind string

const (
	// EventTriage fires when a patient finishes triage and receives a code.
	EventTriage EventKind = "TRIAGE"
	// EventTimeout fires when a waiting patient has waited too long for its code.
	EventTimeout EventKind = "TIMEOUT"
	// EventFreeStudio fires when a patient leaves a treatment room.
	EventFreeStudio EventKind = "FREE_STUDIO"
)

// Event is a scheduled state change for one patient.
// Events are never mutated or cancelled once scheduled; a TIMEOUT that no
// longer matches its patient's status is detected and ignored when it fires.
type Event struct {
	ID      int64    // Insertion sequence, breaks ties between equal timestamps
	Time    int64    // Simulation time at which the event fires (in ticks)
	Kind    EventKind
	Patient *Patient // Not owned; the simulator's registry owns patients
}

// Timestamp returns the scheduled time of the event.
func (e Event) Timestamp() int64 {
	return e.Time
}

func (e Event) String() string {
	return fmt.Sprintf("Event [patient=%s, time=%d, type=%s]", e.Patient, e.Time, e.Kind)
}
