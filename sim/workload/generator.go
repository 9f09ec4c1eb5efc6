package workload

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/inference-sim/triage-sim/sim"
)

// Arrival is one patient registration produced from a WorkloadSpec.
type Arrival struct {
	Name string
	Time int64
	// Severity forces the triage code; zero means the department's policy decides.
	Severity sim.Severity
}

// GenerateArrivals expands a WorkloadSpec into registrations.
// Deterministic given the same spec and rng state.
// Returns arrivals sorted by (Time, Name); duplicate names are rejected.
func GenerateArrivals(spec *WorkloadSpec, rng *rand.Rand) ([]Arrival, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workload spec: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("GenerateArrivals: rng must not be nil")
	}
	horizon := spec.EffectiveHorizon()

	var arrivals []Arrival
	for _, p := range spec.Patients {
		arrivals = append(arrivals, Arrival{Name: p.Name, Time: p.Arrival, Severity: severityOrZero(p.Severity)})
	}

	for i := range spec.Generators {
		g := spec.Generators[i]
		// per-generator RNG so adding a generator never shifts an earlier one's samples
		genRNG := rand.New(rand.NewSource(rng.Int63()))

		process, err := NewArrivalProcess(g)
		if err != nil {
			return nil, fmt.Errorf("generator %q: %w", g.Prefix, err)
		}
		sev := severityOrZero(g.Severity)
		for n, t := range process.Times(genRNG, horizon) {
			arrivals = append(arrivals, Arrival{Name: fmt.Sprintf("%s%d", g.Prefix, n), Time: t, Severity: sev})
		}
	}

	seen := make(map[string]bool, len(arrivals))
	for _, a := range arrivals {
		if seen[a.Name] {
			return nil, fmt.Errorf("duplicate patient name %q in workload", a.Name)
		}
		seen[a.Name] = true
	}

	sort.SliceStable(arrivals, func(i, j int) bool {
		if arrivals[i].Time != arrivals[j].Time {
			return arrivals[i].Time < arrivals[j].Time
		}
		return arrivals[i].Name < arrivals[j].Name
	})
	return arrivals, nil
}

// ScriptedSeverities collects the forced codes among arrivals, keyed by name.
// Returns nil when no arrival forces a code.
func ScriptedSeverities(arrivals []Arrival) map[string]sim.Severity {
	var byName map[string]sim.Severity
	for _, a := range arrivals {
		if !a.Severity.Valid() {
			continue
		}
		if byName == nil {
			byName = make(map[string]sim.Severity)
		}
		byName[a.Name] = a.Severity
	}
	return byName
}

// Registrar accepts patient registrations. *sim.Simulator satisfies it.
type Registrar interface {
	AddPatient(name string, registrationTime int64) (*sim.Patient, error)
}

// Apply registers every arrival in order, stopping at the first error.
func Apply(reg Registrar, arrivals []Arrival) error {
	for _, a := range arrivals {
		if _, err := reg.AddPatient(a.Name, a.Time); err != nil {
			return fmt.Errorf("registering %s: %w", a.Name, err)
		}
	}
	return nil
}

func severityOrZero(s *sim.Severity) sim.Severity {
	if s == nil {
		return 0
	}
	return *s
}
