// Defines the Patient struct that models an individual patient in the emergency department.
// Tracks identity, lifecycle status, and the timestamps used by the waiting room.

package sim

import (
	"fmt"
	"strings"
)

// PatientStatus represents the lifecycle state of a patient.
//
//	NEW → {WHITE, YELLOW, RED} → TREATING → OUT
//	WHITE → OUT (abandon), YELLOW → RED (escalate), RED → BLACK (death)
type PatientStatus string

const (
	StatusNew      PatientStatus = "NEW"
	StatusWhite    PatientStatus = "WHITE"
	StatusYellow   PatientStatus = "YELLOW"
	StatusRed      PatientStatus = "RED"
	StatusBlack    PatientStatus = "BLACK"
	StatusTreating PatientStatus = "TREATING"
	StatusOut      PatientStatus = "OUT"
)

// Severity returns the triage code carried by a waiting status.
// The second result is false for NEW, BLACK, TREATING and OUT.
func (s PatientStatus) Severity() (Severity, bool) {
	switch s {
	case StatusWhite:
		return SeverityWhite, true
	case StatusYellow:
		return SeverityYellow, true
	case StatusRed:
		return SeverityRed, true
	default:
		return 0, false
	}
}

// IsTerminal reports whether no further transition can leave s.
func (s PatientStatus) IsTerminal() bool {
	return s == StatusBlack || s == StatusOut
}

// Severity is a triage code. Only the three waitable codes exist as values;
// higher values are more urgent.
type Severity int

const (
	SeverityWhite Severity = iota + 1
	SeverityYellow
	SeverityRed
)

// Severities lists the codes from mildest to most critical.
var Severities = []Severity{SeverityWhite, SeverityYellow, SeverityRed}

// Status returns the waiting status matching the code.
func (s Severity) Status() PatientStatus {
	switch s {
	case SeverityWhite:
		return StatusWhite
	case SeverityYellow:
		return StatusYellow
	case SeverityRed:
		return StatusRed
	default:
		panic(fmt.Sprintf("invalid severity %d", int(s)))
	}
}

// Valid reports whether s is one of the three triage codes.
func (s Severity) Valid() bool {
	return s >= SeverityWhite && s <= SeverityRed
}

func (s Severity) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return string(s.Status())
}

// ParseSeverity accepts "white", "yellow" or "red" in any case.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case string(StatusWhite):
		return SeverityWhite, nil
	case string(StatusYellow):
		return SeverityYellow, nil
	case string(StatusRed):
		return SeverityRed, nil
	default:
		return 0, fmt.Errorf("unknown severity code %q", name)
	}
}

// MarshalYAML writes the code as its lowercase name.
func (s Severity) MarshalYAML() (any, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return strings.ToLower(s.String()), nil
}

// UnmarshalYAML reads a code from its name.
func (s *Severity) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Patient models a single patient's passage through the department.
// Exactly one Patient exists per name for the whole run; events and the
// waiting room only hold pointers to it.
type Patient struct {
	Name   string        // Unique identifier
	Status PatientStatus // Current lifecycle state

	RegisteredAt   int64    // Registration time (in ticks)
	QueueTime      int64    // Time the patient joined the waiting room; valid only while waiting
	Severity       Severity // Last assigned triage code, kept after treatment starts
	TriagedAt      int64    // Triage completion time, -1 before triage
	TreatmentStart int64    // Time the patient entered a room, -1 if never treated
}

// NewPatient creates a patient in status NEW.
func NewPatient(name string, registeredAt int64) *Patient {
	return &Patient{
		Name:           name,
		Status:         StatusNew,
		RegisteredAt:   registeredAt,
		TriagedAt:      -1,
		TreatmentStart: -1,
	}
}

func (p *Patient) String() string {
	return fmt.Sprintf("[%s-%s]", p.Name, p.Status)
}
