package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/triage-sim/sim"
	"github.com/inference-sim/triage-sim/sim/trace"
	"github.com/inference-sim/triage-sim/sim/workload"
)

var (
	// CLI flags for the department
	rooms      int    // Number of treatment studios
	seed       int64  // Seed for triage draws and sampled arrivals
	logLevel   string // Log verbosity level
	configPath string // Optional department config YAML

	// CLI flags for the built-in arrival pattern
	patients int   // Number of patients
	start    int64 // Registration time of the first patient (in ticks)
	interval int64 // Ticks between registrations

	// CLI flags for workload and outputs
	workloadPath string // Optional workload spec YAML, replaces the built-in pattern
	traceLevel   string // Trace verbosity: none or events
	metricsOut   string // Optional Prometheus textfile path
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "triage-sim",
	Short: "Discrete-event simulator for emergency department triage",
}

// runOptions is everything a run needs once flags are resolved.
type runOptions struct {
	Rooms      int
	Seed       int64
	Config     sim.Config
	Workload   *workload.WorkloadSpec
	TraceLevel string
	MetricsOut string
}

// runResult is what a finished run produced.
type runResult struct {
	Simulator *sim.Simulator
	Arrivals  []workload.Arrival
}

// runSimulation builds the department, registers its arrivals and drains the
// event queue. Metrics and, when enabled, the trace summary go to out.
func runSimulation(opts runOptions, out io.Writer) (*runResult, error) {
	if opts.Rooms < 0 {
		return nil, fmt.Errorf("--rooms must be non-negative, got %d", opts.Rooms)
	}
	if !trace.IsValidTraceLevel(opts.TraceLevel) {
		return nil, fmt.Errorf("unknown trace level %q; valid: none, events", opts.TraceLevel)
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid department config: %w", err)
	}

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(opts.Seed))
	arrivals, err := workload.GenerateArrivals(opts.Workload, rng.ForSubsystem(sim.SubsystemArrivals))
	if err != nil {
		return nil, err
	}

	policy := sim.NewSeverityPolicy(opts.Config.Severity, rng.ForSubsystem(sim.SubsystemTriage))
	if scripted := workload.ScriptedSeverities(arrivals); scripted != nil {
		policy = &sim.SequenceSeverity{ByName: scripted, Then: policy}
	}

	s := sim.NewSimulator(opts.Rooms, opts.Config, policy)
	if trace.TraceLevel(opts.TraceLevel) == trace.TraceLevelEvents {
		s.Trace = trace.NewSimulationTrace()
	}
	if err := workload.Apply(s, arrivals); err != nil {
		return nil, err
	}

	logrus.Infof("Registered %d patients, seed=%d, studios=%d", len(arrivals), opts.Seed, opts.Rooms)
	if err := s.Run(); err != nil {
		return nil, err
	}

	s.Metrics().Print(out)
	if s.Trace != nil {
		printTraceSummary(out, s.Trace)
	}
	if opts.MetricsOut != "" {
		if err := s.Metrics().WriteTextfile(opts.MetricsOut); err != nil {
			return nil, err
		}
		logrus.Infof("Metrics written to %s", opts.MetricsOut)
	}
	return &runResult{Simulator: s, Arrivals: arrivals}, nil
}

func printTraceSummary(w io.Writer, st *trace.SimulationTrace) {
	summary := trace.Summarize(st)
	fmt.Fprintf(w, "=== Trace %s ===\n", st.RunID)
	fmt.Fprintf(w, "Events: %d (last at tick %d)\n", summary.TotalEvents, summary.LastClock)
	for _, kind := range []sim.EventKind{sim.EventTriage, sim.EventTimeout, sim.EventFreeStudio} {
		fmt.Fprintf(w, "  %-11s %d\n", kind, summary.ByKind[string(kind)])
	}
	for _, o := range []trace.Outcome{
		trace.OutcomeTreating, trace.OutcomeWaiting, trace.OutcomeTreated,
		trace.OutcomeAbandoned, trace.OutcomeEscalated, trace.OutcomeDied, trace.OutcomeStale,
	} {
		if n := summary.ByOutcome[o]; n > 0 {
			fmt.Fprintf(w, "  %-11s %d\n", o, n)
		}
	}
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the triage simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := sim.DefaultConfig()
		if configPath != "" {
			cfg, err = sim.LoadConfig(configPath)
			if err != nil {
				logrus.Fatalf("Failed to load config: %v", err)
			}
		}

		spec := workload.DefaultSpec(patients, start, interval)
		runSeed := seed
		if workloadPath != "" {
			spec, err = workload.LoadWorkloadSpec(workloadPath)
			if err != nil {
				logrus.Fatalf("Failed to load workload: %v", err)
			}
			// the workload's own seed applies only when --seed was not given
			if !cmd.Flags().Changed("seed") && spec.Seed != 0 {
				runSeed = spec.Seed
			}
		}

		startTime := time.Now()
		_, err = runSimulation(runOptions{
			Rooms:      rooms,
			Seed:       runSeed,
			Config:     cfg,
			Workload:   spec,
			TraceLevel: traceLevel,
			MetricsOut: metricsOut,
		}, os.Stdout)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		logrus.Infof("Simulation complete in %s.", time.Since(startTime))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().IntVar(&rooms, "rooms", 10, "Number of treatment studios")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for triage draws and sampled arrivals")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&configPath, "config", "", "Department config YAML (durations, timeouts, severity policy)")

	// Built-in arrival pattern: patients registered every interval ticks from start
	runCmd.Flags().IntVar(&patients, "patients", 50, "Number of patients")
	runCmd.Flags().Int64Var(&start, "start", 8*60, "Registration time of the first patient (in ticks)")
	runCmd.Flags().Int64Var(&interval, "interval", 10, "Ticks between registrations")

	runCmd.Flags().StringVar(&workloadPath, "workload", "", "Workload spec YAML; replaces --patients/--start/--interval")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Trace level (none, events)")
	runCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write final metrics in Prometheus text format to this path")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
