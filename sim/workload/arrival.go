package workload

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/robfig/cron/v3"
)

// SimulatedEpoch is the wall-clock instant mapped to tick 0 when expanding
// cron schedules: midnight UTC on a Monday, so weekday fields line up.
var SimulatedEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// ArrivalProcess produces registration times in ticks.
type ArrivalProcess interface {
	// Times returns non-decreasing arrival times below horizon.
	Times(rng *rand.Rand, horizon int64) []int64
}

// IntervalProcess registers Count patients every Interval ticks from Start.
// Horizon does not truncate it: explicit counts are always honored.
type IntervalProcess struct {
	Start, Interval int64
	Count           int
}

func (p *IntervalProcess) Times(_ *rand.Rand, _ int64) []int64 {
	times := make([]int64, 0, p.Count)
	for i := 0; i < p.Count; i++ {
		times = append(times, p.Start+int64(i)*p.Interval)
	}
	return times
}

// PoissonProcess draws exponential inter-arrival gaps with the given mean.
type PoissonProcess struct {
	Start            int64
	MeanInterarrival float64
	Count            int // 0 = until horizon
}

func (p *PoissonProcess) Times(rng *rand.Rand, horizon int64) []int64 {
	var times []int64
	current := p.Start
	for p.Count == 0 || len(times) < p.Count {
		iat := int64(math.Round(rng.ExpFloat64() * p.MeanInterarrival))
		if iat < 1 {
			iat = 1
		}
		current += iat
		if current >= horizon {
			break
		}
		times = append(times, current)
	}
	return times
}

// CronProcess registers one patient at every activation of a cron schedule,
// interpreted against SimulatedEpoch.
type CronProcess struct {
	Start    int64
	Count    int // 0 = until horizon
	schedule cron.Schedule
}

// NewCronProcess parses a standard 5-field cron expression.
func NewCronProcess(expr string, start int64, count int) (*CronProcess, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parsing cron schedule %q: %w", expr, err)
	}
	return &CronProcess{Start: start, Count: count, schedule: sched}, nil
}

func (p *CronProcess) Times(_ *rand.Rand, horizon int64) []int64 {
	var times []int64
	// Next is strictly after its argument; step back one second so Start itself can fire
	cursor := SimulatedEpoch.Add(time.Duration(p.Start-1) * time.Second)
	for p.Count == 0 || len(times) < p.Count {
		next := p.schedule.Next(cursor)
		if next.IsZero() {
			break
		}
		tick := int64(next.Sub(SimulatedEpoch) / time.Second)
		if tick >= horizon {
			break
		}
		times = append(times, tick)
		cursor = next
	}
	return times
}

// NewArrivalProcess builds the process described by a validated generator.
func NewArrivalProcess(g GeneratorSpec) (ArrivalProcess, error) {
	switch g.Process {
	case "interval":
		return &IntervalProcess{Start: g.Start, Interval: g.Interval, Count: g.Count}, nil
	case "poisson":
		return &PoissonProcess{Start: g.Start, MeanInterarrival: g.MeanInterarrival, Count: g.Count}, nil
	case "cron":
		return NewCronProcess(g.Schedule, g.Start, g.Count)
	default:
		return nil, fmt.Errorf("unknown arrival process %q", g.Process)
	}
}
