// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/triage-sim/sim/trace"
)

// Simulator is the core object that holds simulation time, department state, and the event loop.
type Simulator struct {
	Clock int64
	// Rooms is the number of treatment studios, fixed at construction.
	Rooms  int
	Config Config
	// Trace, when non-nil, receives one record per processed event.
	Trace *trace.SimulationTrace

	events   *EventQueue
	waiting  *WaitingRoom
	occupied int
	severity SeverityPolicy
	metrics  *Metrics

	// registry of every patient, keyed by name; order preserves registration order
	patients map[string]*Patient
	order    []*Patient
	started  bool
}

// NewSimulator creates a department with the given number of studios.
// Panics on a negative room count, a nil policy or an invalid config.
func NewSimulator(rooms int, cfg Config, policy SeverityPolicy) *Simulator {
	if rooms < 0 {
		panic(fmt.Sprintf("NewSimulator: rooms must be non-negative, got %d", rooms))
	}
	if policy == nil {
		panic("NewSimulator: severity policy must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("NewSimulator: %v", err))
	}
	return &Simulator{
		Rooms:    rooms,
		Config:   cfg,
		events:   NewEventQueue(),
		waiting:  NewWaitingRoom(),
		severity: policy,
		metrics:  NewMetrics(),
		patients: make(map[string]*Patient),
	}
}

// AddPatient registers a patient in status NEW and schedules the end of its
// triage. Must be called before the first Step or Run.
func (sim *Simulator) AddPatient(name string, registrationTime int64) (*Patient, error) {
	if sim.started {
		return nil, fmt.Errorf("cannot add patient %q: simulation already started", name)
	}
	if name == "" {
		return nil, fmt.Errorf("patient name must not be empty")
	}
	if registrationTime < 0 {
		return nil, fmt.Errorf("patient %q: registration time must be non-negative, got %d", name, registrationTime)
	}
	if _, dup := sim.patients[name]; dup {
		return nil, fmt.Errorf("patient %q already registered", name)
	}

	p := NewPatient(name, registrationTime)
	sim.patients[name] = p
	sim.order = append(sim.order, p)
	sim.metrics.Registered++
	sim.events.Schedule(p, registrationTime+sim.Config.TriageDuration, EventTriage)
	return p, nil
}

// Step processes the earliest pending event.
// Returns false once the event queue is empty.
func (sim *Simulator) Step() (bool, error) {
	ev, ok := sim.events.PopEarliest()
	if !ok {
		return false, nil
	}
	sim.started = true
	// advance the clock
	sim.Clock = ev.Time
	logrus.Debugf("[tick %07d] Executing %s for %s", sim.Clock, ev.Kind, ev.Patient)

	var (
		outcome trace.Outcome
		next    string
		err     error
	)
	switch ev.Kind {
	case EventTriage:
		outcome, err = sim.processTriage(ev)
	case EventTimeout:
		outcome, err = sim.processTimeout(ev)
	case EventFreeStudio:
		next, err = sim.processFreeStudio(ev)
		outcome = trace.OutcomeTreated
	default:
		err = invalidState("unknown event kind %q for patient %s", ev.Kind, ev.Patient.Name)
	}
	if err != nil {
		return false, fmt.Errorf("processing %s at tick %d: %w", ev.Kind, ev.Time, err)
	}

	sim.metrics.EndTime = sim.Clock
	sim.metrics.PeakWaiting = max(sim.metrics.PeakWaiting, sim.waiting.Len())
	if sim.Trace != nil {
		sim.Trace.Record(trace.EventRecord{
			Clock:    ev.Time,
			Patient:  ev.Patient.Name,
			Kind:     string(ev.Kind),
			Severity: severityLabel(ev.Patient),
			Outcome:  outcome,
			Next:     next,
			Occupied: sim.occupied,
			Waiting:  sim.waiting.Len(),
		})
	}
	return true, nil
}

// Run drains the event queue. Once drained, every patient must be in a
// terminal status and every studio free; anything else is ErrInvalidState.
func (sim *Simulator) Run() error {
	logrus.Infof("Starting simulation with %d studios and %d patients", sim.Rooms, len(sim.order))
	for {
		more, err := sim.Step()
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	if err := sim.checkDrained(); err != nil {
		return err
	}
	logrus.Infof("[tick %07d] Simulation ended", sim.Clock)
	return nil
}

// processTriage assigns a code and sends the patient to a studio or to the waiting room.
func (sim *Simulator) processTriage(ev Event) (trace.Outcome, error) {
	p := ev.Patient
	if p.Status != StatusNew {
		return "", invalidState("triage for patient %s in status %s", p.Name, p.Status)
	}

	sev := sim.severity.Assign(p)
	if !sev.Valid() {
		return "", invalidState("severity policy returned %v for patient %s", sev, p.Name)
	}
	p.Severity = sev
	p.Status = sev.Status()
	p.TriagedAt = ev.Time
	logrus.Debugf("\tAssigned status %s", p)

	if sim.occupied < sim.Rooms {
		if err := sim.startTreatment(p, ev.Time); err != nil {
			return "", err
		}
		logrus.Debugf("\tFree studio: Treating %s", p)
		return trace.OutcomeTreating, nil
	}

	// QueueTime must be set before insertion: the waiting room orders by it
	p.QueueTime = ev.Time
	if err := sim.waiting.Enqueue(p); err != nil {
		return "", err
	}
	sim.events.Schedule(p, ev.Time+sim.Config.Timeout(sev), EventTimeout)
	logrus.Debugf("\tIn Waiting List %s", p)
	return trace.OutcomeWaiting, nil
}

// processTimeout applies the wait limit for the patient's current code.
// RED death and the stale no-op are separate branches.
func (sim *Simulator) processTimeout(ev Event) (trace.Outcome, error) {
	p := ev.Patient

	switch p.Status {
	case StatusWhite:
		if !sim.waiting.Remove(p) {
			return "", invalidState("WHITE patient %s timed out outside the waiting room", p.Name)
		}
		p.Status = StatusOut
		sim.metrics.Abandoned++
		sim.metrics.recordOutcome(p.Severity, func(o *Outcomes) { o.Abandoned++ })
		logrus.Debugf("\tAbandons %s", p)
		return trace.OutcomeAbandoned, nil

	case StatusYellow:
		if !sim.waiting.Remove(p) {
			return "", invalidState("YELLOW patient %s timed out outside the waiting room", p.Name)
		}
		p.Status = StatusRed
		p.Severity = SeverityRed
		if sim.Config.EscalationResetsQueueTime {
			p.QueueTime = ev.Time
		}
		if err := sim.waiting.Enqueue(p); err != nil {
			return "", err
		}
		sim.events.Schedule(p, ev.Time+sim.Config.TimeoutRed, EventTimeout)
		sim.metrics.Escalated++
		logrus.Debugf("\tWorsens %s", p)
		return trace.OutcomeEscalated, nil

	case StatusRed:
		if !sim.waiting.Remove(p) {
			return "", invalidState("RED patient %s timed out outside the waiting room", p.Name)
		}
		p.Status = StatusBlack
		sim.metrics.Dead++
		sim.metrics.recordOutcome(p.Severity, func(o *Outcomes) { o.Dead++ })
		logrus.Debugf("\tDies %s", p)
		return trace.OutcomeDied, nil

	case StatusTreating, StatusOut:
		// the patient was called in before the timeout fired
		sim.metrics.StaleTimeouts++
		logrus.Tracef("\tStale timeout for %s", p)
		return trace.OutcomeStale, nil

	default:
		return "", invalidState("timeout for patient %s in status %s", p.Name, p.Status)
	}
}

// processFreeStudio discharges the treated patient and calls in the next one.
// Returns the name of the patient called in, empty if the room stays free.
func (sim *Simulator) processFreeStudio(ev Event) (string, error) {
	cured := ev.Patient
	if cured.Status != StatusTreating {
		return "", invalidState("studio freed by patient %s in status %s", cured.Name, cured.Status)
	}
	if sim.occupied <= 0 {
		return "", invalidState("studio freed by %s with no studio occupied", cured.Name)
	}

	cured.Status = StatusOut
	sim.metrics.Treated++
	sim.metrics.recordOutcome(cured.Severity, func(o *Outcomes) { o.Treated++ })
	sim.occupied--
	logrus.Debugf("\tCured %s", cured)

	next := sim.waiting.Dequeue()
	if next == nil {
		logrus.Debugf("\tNobody there")
		return "", nil
	}
	if err := sim.startTreatment(next, ev.Time); err != nil {
		return "", err
	}
	logrus.Debugf("\tNext in: %s", next)
	return next.Name, nil
}

// startTreatment moves p into a free studio at now and schedules its release.
func (sim *Simulator) startTreatment(p *Patient, now int64) error {
	sev, ok := p.Status.Severity()
	if !ok {
		return invalidState("cannot treat patient %s in status %s", p.Name, p.Status)
	}
	if sim.occupied >= sim.Rooms {
		return invalidState("no free studio for patient %s (%d/%d occupied)", p.Name, sim.occupied, sim.Rooms)
	}
	sim.occupied++
	sim.metrics.PeakOccupied = max(sim.metrics.PeakOccupied, sim.occupied)
	sim.metrics.TreatmentsStarted++
	sim.metrics.TotalWait += now - p.TriagedAt

	p.Status = StatusTreating
	p.TreatmentStart = now
	sim.events.Schedule(p, now+sim.Config.TreatmentDuration(sev), EventFreeStudio)
	return nil
}

// checkDrained verifies conservation once the event queue is empty.
func (sim *Simulator) checkDrained() error {
	if sim.events.Len() != 0 {
		return invalidState("%d events still pending", sim.events.Len())
	}
	if sim.occupied != 0 {
		return invalidState("%d studios still occupied after drain", sim.occupied)
	}
	if sim.waiting.Len() != 0 {
		return invalidState("%d patients still waiting after drain", sim.waiting.Len())
	}
	for _, p := range sim.order {
		if !p.Status.IsTerminal() {
			return invalidState("patient %s left in status %s after drain", p.Name, p.Status)
		}
	}
	m := sim.metrics
	if m.Treated+m.Dead+m.Abandoned != m.Registered {
		return invalidState("outcomes %d+%d+%d do not add up to %d registered",
			m.Treated, m.Dead, m.Abandoned, m.Registered)
	}
	return nil
}

// Treated returns the number of patients who completed treatment.
func (sim *Simulator) Treated() int { return sim.metrics.Treated }

// Dead returns the number of RED patients who died waiting.
func (sim *Simulator) Dead() int { return sim.metrics.Dead }

// Abandoned returns the number of WHITE patients who left without treatment.
func (sim *Simulator) Abandoned() int { return sim.metrics.Abandoned }

// Occupied returns the number of studios in use.
func (sim *Simulator) Occupied() int { return sim.occupied }

// Waiting returns the number of patients in the waiting room.
func (sim *Simulator) Waiting() int { return sim.waiting.Len() }

// WaitingPatients returns the waiting patients in service order.
func (sim *Simulator) WaitingPatients() []*Patient { return sim.waiting.Patients() }

// PendingEvents returns the number of scheduled events not yet processed.
func (sim *Simulator) PendingEvents() int { return sim.events.Len() }

// Patient looks up a registered patient by name.
func (sim *Simulator) Patient(name string) (*Patient, bool) {
	p, ok := sim.patients[name]
	return p, ok
}

// Patients returns registered patients in registration order.
func (sim *Simulator) Patients() []*Patient {
	return append([]*Patient(nil), sim.order...)
}

// Metrics returns the run's aggregated statistics.
func (sim *Simulator) Metrics() *Metrics { return sim.metrics }

func severityLabel(p *Patient) string {
	if !p.Severity.Valid() {
		return ""
	}
	return p.Severity.String()
}
