package sim

import (
	"fmt"
	"math/rand"
)

// SeverityPolicy assigns a triage code when a patient finishes triage.
// Implementations MUST NOT modify the patient; only the return value is used.
type SeverityPolicy interface {
	Assign(p *Patient) Severity
}

// UniformSeverity draws WHITE, YELLOW and RED with equal probability.
type UniformSeverity struct {
	rng *rand.Rand
}

// NewUniformSeverity panics on a nil rng.
func NewUniformSeverity(rng *rand.Rand) *UniformSeverity {
	if rng == nil {
		panic("NewUniformSeverity: rng must not be nil")
	}
	return &UniformSeverity{rng: rng}
}

func (u *UniformSeverity) Assign(_ *Patient) Severity {
	return Severities[u.rng.Intn(len(Severities))]
}

// WeightedSeverity draws codes proportionally to configured weights.
// A zero weight makes that code impossible.
type WeightedSeverity struct {
	rng        *rand.Rand
	cumulative [3]float64 // normalized CDF over Severities
}

// NewWeightedSeverity panics on a nil rng or weights that do not sum to a positive value.
func NewWeightedSeverity(w SeverityWeights, rng *rand.Rand) *WeightedSeverity {
	if rng == nil {
		panic("NewWeightedSeverity: rng must not be nil")
	}
	total := w.White + w.Yellow + w.Red
	if w.White < 0 || w.Yellow < 0 || w.Red < 0 || total <= 0 {
		panic(fmt.Sprintf("severity weights %+v must be non-negative with a positive sum", w))
	}
	ws := &WeightedSeverity{rng: rng}
	ws.cumulative[0] = w.White / total
	ws.cumulative[1] = (w.White + w.Yellow) / total
	ws.cumulative[2] = 1.0
	return ws
}

func (ws *WeightedSeverity) Assign(_ *Patient) Severity {
	u := ws.rng.Float64()
	for i, c := range ws.cumulative {
		if u < c {
			return Severities[i]
		}
	}
	return SeverityRed
}

// FixedSeverity assigns the same code to every patient.
type FixedSeverity struct {
	Code Severity
}

func (f *FixedSeverity) Assign(_ *Patient) Severity {
	return f.Code
}

// SequenceSeverity replays a scripted list of codes.
// ByName entries win; other patients take the next code from Order. Once Order
// is exhausted, Then decides if set, otherwise the last code repeats. With
// nothing scripted and no Then, every patient is WHITE.
type SequenceSeverity struct {
	ByName map[string]Severity
	Order  []Severity
	Then   SeverityPolicy
	next   int
}

func (s *SequenceSeverity) Assign(p *Patient) Severity {
	if sev, ok := s.ByName[p.Name]; ok {
		return sev
	}
	if s.next < len(s.Order) {
		sev := s.Order[s.next]
		s.next++
		return sev
	}
	if s.Then != nil {
		return s.Then.Assign(p)
	}
	if len(s.Order) > 0 {
		return s.Order[len(s.Order)-1]
	}
	return SeverityWhite
}

// NewSeverityPolicy creates a SeverityPolicy from config.
// Empty policy name defaults to "uniform".
// Panics on unrecognized names; call SeverityConfig.Validate first.
func NewSeverityPolicy(cfg SeverityConfig, rng *rand.Rand) SeverityPolicy {
	if !ValidSeverityPolicies[cfg.Policy] {
		panic(fmt.Sprintf("unknown severity policy %q", cfg.Policy))
	}
	switch cfg.Policy {
	case "", "uniform":
		return NewUniformSeverity(rng)
	case "weighted":
		return NewWeightedSeverity(cfg.Weights, rng)
	case "fixed":
		if !cfg.Code.Valid() {
			panic("fixed severity policy requires a valid code")
		}
		return &FixedSeverity{Code: cfg.Code}
	default:
		panic(fmt.Sprintf("unhandled severity policy %q", cfg.Policy))
	}
}
