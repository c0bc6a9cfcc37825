// Package runner wires parsed dependencies through the resolvers and
// replays the resulting schedule onto the event bus.
package runner

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aristath/stepweaver/internal/events"
	"github.com/aristath/stepweaver/internal/scheduler"
)

// Config configures a Runner.
type Config struct {
	Workers      int                    // Worker pool size for the parallel run
	BaseOffset   int                    // Passed to Duration
	Duration     scheduler.DurationFunc // Ticks per task
	Bus          *events.EventBus       // Optional; nil disables replay
	TickInterval time.Duration          // Wall-clock pause between replayed ticks (0 = none)
}

// Report holds every result computed for one set of dependencies.
type Report struct {
	Sequential   []string
	Schedule     *scheduler.Schedule
	CriticalPath *scheduler.CriticalPath
}

// Runner resolves dependency sets.
type Runner struct {
	config Config
}

// New creates a new Runner.
func New(cfg Config) *Runner {
	return &Runner{config: cfg}
}

// Run builds a graph from deps and computes the sequential order, the
// parallel schedule and the critical path. Each resolver gets its own copy
// of the graph, so they run concurrently. Any failure discards every result.
// When a bus is configured the parallel schedule is replayed onto it.
func (r *Runner) Run(ctx context.Context, deps []scheduler.Dependency) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g, err := scheduler.BuildGraph(deps)
	if err != nil {
		return nil, fmt.Errorf("building graph: %w", err)
	}

	var report Report
	seq, par := g.Clone(), g.Clone()

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		order, err := scheduler.Resolve(seq)
		if err != nil {
			return fmt.Errorf("sequential resolve: %w", err)
		}
		report.Sequential = order
		return nil
	})
	grp.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		sched, err := scheduler.Simulate(par, scheduler.SimulationConfig{
			Workers:    r.config.Workers,
			BaseOffset: r.config.BaseOffset,
			Duration:   r.config.Duration,
		})
		if err != nil {
			return fmt.Errorf("parallel resolve: %w", err)
		}
		report.Schedule = sched
		return nil
	})
	grp.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		cp, err := scheduler.AnalyzeCriticalPath(g, r.config.BaseOffset, r.config.Duration)
		if err != nil {
			return fmt.Errorf("critical path: %w", err)
		}
		report.CriticalPath = cp
		return nil
	})

	if err := grp.Wait(); err != nil {
		return nil, err
	}

	if r.config.Bus != nil {
		if err := r.Replay(ctx, g, report.Schedule); err != nil {
			return nil, err
		}
	}

	return &report, nil
}

// Replay publishes sched tick by tick: completions, then starts, then one
// progress event per tick, and a finished event at the end. g must be the
// unconsumed graph the schedule was computed from.
func (r *Runner) Replay(ctx context.Context, g *scheduler.Graph, sched *scheduler.Schedule) error {
	bus := r.config.Bus
	if bus == nil {
		return nil
	}

	var ticker *time.Ticker
	if r.config.TickInterval > 0 {
		ticker = time.NewTicker(r.config.TickInterval)
		defer ticker.Stop()
	}

	spans := make(map[string]scheduler.Span, len(sched.Spans))
	for _, sp := range sched.Spans {
		spans[sp.Task] = sp
	}

	dropped := 0
	for tick := 0; tick <= sched.Ticks; tick++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ticker != nil && tick > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}

		now := time.Now()
		for _, sp := range spansAt(sched.Spans, tick, func(sp scheduler.Span) int { return sp.End }) {
			dropped += bus.Publish(events.TaskCompletedEvent{ID: sp.Task, Worker: sp.Worker, Tick: tick, Timestamp: now})
		}
		for _, sp := range spansAt(sched.Spans, tick, func(sp scheduler.Span) int { return sp.Start }) {
			dropped += bus.Publish(events.TaskStartedEvent{
				ID:        sp.Task,
				Worker:    sp.Worker,
				Tick:      tick,
				Duration:  sp.Duration(),
				Timestamp: now,
			})
		}

		progress := progressAt(g, spans, tick)
		progress.Timestamp = now
		dropped += bus.Publish(progress)
	}

	dropped += bus.Publish(events.ScheduleFinishedEvent{
		Order:     append([]string(nil), sched.Order...),
		Ticks:     sched.Ticks,
		Timestamp: time.Now(),
	})

	if dropped > 0 {
		log.Printf("WARNING: %d replay events dropped by slow subscribers", dropped)
	}
	return nil
}

// spansAt returns the spans whose key equals tick, ordered by task.
func spansAt(all []scheduler.Span, tick int, key func(scheduler.Span) int) []scheduler.Span {
	var out []scheduler.Span
	for _, sp := range all {
		if key(sp) == tick {
			out = append(out, sp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Task < out[j].Task })
	return out
}

// progressAt classifies every task as it stands after tick's assignments.
func progressAt(g *scheduler.Graph, spans map[string]scheduler.Span, tick int) events.ScheduleProgressEvent {
	p := events.ScheduleProgressEvent{Tick: tick, Total: g.Len()}
	for _, id := range g.Tasks() {
		sp := spans[id]
		switch {
		case sp.End <= tick:
			p.Completed++
		case sp.Start <= tick:
			p.Running++
		case prerequisitesDone(g, spans, id, tick):
			p.Ready++
		default:
			p.Pending++
		}
	}
	return p
}

func prerequisitesDone(g *scheduler.Graph, spans map[string]scheduler.Span, id string, tick int) bool {
	for _, req := range g.Prerequisites(id) {
		if spans[req].End > tick {
			return false
		}
	}
	return true
}
