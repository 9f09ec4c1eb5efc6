package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalEvents  int
	ByKind       map[string]int  // event kind → count
	ByOutcome    map[Outcome]int // outcome → count
	LastClock    int64
	PeakOccupied int
	PeakWaiting  int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ByKind:    make(map[string]int),
		ByOutcome: make(map[Outcome]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalEvents = len(st.Events)
	for _, r := range st.Events {
		summary.ByKind[r.Kind]++
		summary.ByOutcome[r.Outcome]++
		if r.Clock > summary.LastClock {
			summary.LastClock = r.Clock
		}
		summary.PeakOccupied = max(summary.PeakOccupied, r.Occupied)
		summary.PeakWaiting = max(summary.PeakWaiting, r.Waiting)
	}
	return summary
}
