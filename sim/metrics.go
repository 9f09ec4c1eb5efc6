// Tracks department-wide outcome counters and occupancy statistics.

package sim

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes counts final outcomes for one triage code.
type Outcomes struct {
	Treated   int
	Dead      int
	Abandoned int
}

// Metrics aggregates statistics about the simulation for final reporting.
// Outcome counters are only complete once Run has drained the event queue.
type Metrics struct {
	Registered    int // Patients added before the run
	Treated       int // Patients who left a studio
	Dead          int // RED patients whose timeout fired while waiting
	Abandoned     int // WHITE patients whose timeout fired while waiting
	Escalated     int // YELLOW patients turned RED while waiting
	StaleTimeouts int // Timeouts ignored because the patient was treating or out

	PeakOccupied int // Max studios simultaneously in use
	PeakWaiting  int // Max waiting room size

	TreatmentsStarted int   // Patients that entered a studio
	TotalWait         int64 // Sum of (treatment start − triage completion) over TreatmentsStarted

	BySeverity map[Severity]Outcomes // Final outcomes keyed by last triage code
	EndTime    int64                 // Clock of the last processed event
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		BySeverity: make(map[Severity]Outcomes),
	}
}

// AverageWait returns the mean time from triage to treatment in ticks,
// counting only treated patients. Zero when nobody was treated.
func (m *Metrics) AverageWait() float64 {
	if m.TreatmentsStarted == 0 {
		return 0
	}
	return float64(m.TotalWait) / float64(m.TreatmentsStarted)
}

func (m *Metrics) recordOutcome(s Severity, apply func(*Outcomes)) {
	o := m.BySeverity[s]
	apply(&o)
	m.BySeverity[s] = o
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Treated:   %d\n", m.Treated)
	fmt.Fprintf(w, "Abandoned: %d\n", m.Abandoned)
	fmt.Fprintf(w, "Dead:      %d\n", m.Dead)
	fmt.Fprintf(w, "Registered         : %d\n", m.Registered)
	fmt.Fprintf(w, "Escalated          : %d\n", m.Escalated)
	fmt.Fprintf(w, "Stale timeouts     : %d\n", m.StaleTimeouts)
	fmt.Fprintf(w, "Peak studios in use: %d\n", m.PeakOccupied)
	fmt.Fprintf(w, "Peak waiting       : %d\n", m.PeakWaiting)
	fmt.Fprintf(w, "Average wait       : %.2f ticks\n", m.AverageWait())
	fmt.Fprintf(w, "Ended at           : %d ticks\n", m.EndTime)
	for _, s := range Severities {
		o, ok := m.BySeverity[s]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %-6s treated=%d abandoned=%d dead=%d\n", s, o.Treated, o.Abandoned, o.Dead)
	}
}

// Registry builds a private Prometheus registry holding a snapshot of m.
func (m *Metrics) Registry() *prometheus.Registry {
	reg := prometheus.NewRegistry()

	registered := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "triage_sim_patients_registered_total",
		Help: "Patients registered before the run.",
	})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_sim_outcomes_total",
		Help: "Final patient outcomes by outcome and last triage code.",
	}, []string{"outcome", "severity"})
	escalated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "triage_sim_escalations_total",
		Help: "YELLOW patients escalated to RED while waiting.",
	})
	stale := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "triage_sim_stale_timeouts_total",
		Help: "Timeout events ignored because the patient had moved on.",
	})
	peaks := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "triage_sim_peak",
		Help: "Peak occupancy during the run (studios, waiting).",
	}, []string{"resource"})
	avgWait := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "triage_sim_average_wait_ticks",
		Help: "Mean time from triage to treatment for treated patients.",
	})
	endTime := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "triage_sim_end_time_ticks",
		Help: "Simulation clock at the last processed event.",
	})

	reg.MustRegister(registered, outcomes, escalated, stale, peaks, avgWait, endTime)

	registered.Add(float64(m.Registered))
	escalated.Add(float64(m.Escalated))
	stale.Add(float64(m.StaleTimeouts))
	for s, o := range m.BySeverity {
		label := strings.ToLower(s.String())
		outcomes.WithLabelValues("treated", label).Add(float64(o.Treated))
		outcomes.WithLabelValues("abandoned", label).Add(float64(o.Abandoned))
		outcomes.WithLabelValues("dead", label).Add(float64(o.Dead))
	}
	peaks.WithLabelValues("studios").Set(float64(m.PeakOccupied))
	peaks.WithLabelValues("waiting").Set(float64(m.PeakWaiting))
	avgWait.Set(m.AverageWait())
	endTime.Set(float64(m.EndTime))

	return reg
}

// WriteTextfile writes the metrics to path in Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry()); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
