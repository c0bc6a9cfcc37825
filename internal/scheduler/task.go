package scheduler

// Dependency is a single precedence relation: Before must complete
// before After may start.
type Dependency struct {
	Before string
	After  string
}

// Span records one task execution on one worker slot.
// The task occupies the slot from Start (inclusive) to End (exclusive).
type Span struct {
	Task   string
	Worker int
	Start  int
	End    int
}

// Duration returns the number of ticks the span occupies.
func (s Span) Duration() int { return s.End - s.Start }

// Schedule is the outcome of a parallel simulation.
type Schedule struct {
	Order   []string // Completion order
	Ticks   int      // Time at which the last task completes
	Workers int      // Worker pool size the schedule was computed for
	Spans   []Span   // One per task, in start order
}

// Utilization returns the fraction of worker-ticks spent busy.
// An empty schedule reports zero.
func (s *Schedule) Utilization() float64 {
	if s == nil || s.Ticks == 0 || s.Workers == 0 {
		return 0
	}
	busy := 0
	for _, sp := range s.Spans {
		busy += sp.Duration()
	}
	return float64(busy) / float64(s.Workers*s.Ticks)
}

// SpanFor returns the span of the given task.
func (s *Schedule) SpanFor(task string) (Span, bool) {
	for _, sp := range s.Spans {
		if sp.Task == task {
			return sp, true
		}
	}
	return Span{}, false
}
