package scheduler

import "sort"

// SimulationConfig configures a parallel run.
type SimulationConfig struct {
	Workers    int          // Worker pool size, at least 1
	BaseOffset int          // Passed through to Duration
	Duration   DurationFunc // Ticks per task
}

// slot is a worker. An empty task means the slot is idle.
type slot struct {
	task      string
	remaining int
}

// ParallelResolve consumes g and simulates workers executing ready tasks
// concurrently. It returns the completion order and the tick at which the
// last task completed.
func ParallelResolve(g *Graph, workers, baseOffset int, duration DurationFunc) ([]string, int, error) {
	sched, err := Simulate(g, SimulationConfig{
		Workers:    workers,
		BaseOffset: baseOffset,
		Duration:   duration,
	})
	if err != nil {
		return nil, 0, err
	}
	return sched.Order, sched.Ticks, nil
}

// Simulate consumes g and runs the discrete-time worker simulation.
//
// Each tick first advances every busy slot; tasks reaching zero remaining
// time complete together and unblock their dependents. Only then are idle
// slots handed the smallest ready tasks. Tasks finishing in the same tick
// are recorded in ascending order, so the completion order does not depend
// on which slot ran them.
//
// Errors wrap ErrConfig (bad worker count, missing or non-positive
// durations) or ErrGraphInvalid (the graph can never drain). Configuration
// is checked before the first tick.
func Simulate(g *Graph, cfg SimulationConfig) (*Schedule, error) {
	if cfg.Workers < 1 {
		return nil, configf("worker count must be at least 1, got %d", cfg.Workers)
	}
	if cfg.Duration == nil {
		return nil, configf("duration function is required")
	}

	durations := make(map[string]int, g.Len())
	// Serial execution of every task is the slowest any work-conserving
	// schedule can be; passing it means the run cannot terminate.
	limit := 0
	for _, id := range g.Tasks() {
		d := cfg.Duration(id, cfg.BaseOffset)
		if d < 1 {
			return nil, configf("duration of task %q must be at least 1, got %d", id, d)
		}
		durations[id] = d
		limit += d
	}

	sched := &Schedule{
		Order:   make([]string, 0, len(durations)),
		Workers: cfg.Workers,
		Spans:   make([]Span, 0, len(durations)),
	}
	ready := newReadyQueue(g.Roots()...)
	slots := make([]slot, cfg.Workers)

	for tick := 0; ; {
		// Decrement phase
		var finished []string
		for i := range slots {
			s := &slots[i]
			if s.task == "" {
				continue
			}
			s.remaining--
			if s.remaining == 0 {
				finished = append(finished, s.task)
				*s = slot{}
			}
		}
		sort.Strings(finished)
		for _, id := range finished {
			sched.Order = append(sched.Order, id)
			for _, next := range g.complete(id) {
				ready.push(next)
			}
		}

		// Assignment phase
		busy := 0
		for i := range slots {
			if slots[i].task == "" {
				id, ok := ready.pop()
				if !ok {
					continue
				}
				slots[i] = slot{task: id, remaining: durations[id]}
				sched.Spans = append(sched.Spans, Span{
					Task:   id,
					Worker: i,
					Start:  tick,
					End:    tick + durations[id],
				})
			}
			busy++
		}

		// Termination check
		if busy == 0 {
			if len(sched.Order) != len(durations) {
				return nil, unresolvedError(g.Pending())
			}
			sched.Ticks = tick
			return sched, nil
		}

		tick++
		if tick > limit {
			return nil, invalidf("simulation exceeded %d ticks without draining", limit)
		}
	}
}
