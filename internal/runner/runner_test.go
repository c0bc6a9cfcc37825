package runner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aristath/stepweaver/internal/events"
	"github.com/aristath/stepweaver/internal/scheduler"
)

func exampleDeps() []scheduler.Dependency {
	return []scheduler.Dependency{
		{Before: "C", After: "A"},
		{Before: "C", After: "F"},
		{Before: "A", After: "B"},
		{Before: "A", After: "D"},
		{Before: "B", After: "E"},
		{Before: "D", After: "E"},
		{Before: "F", After: "E"},
	}
}

func exampleConfig(bus *events.EventBus) Config {
	return Config{
		Workers:  2,
		Duration: scheduler.AlphabetDuration(scheduler.DefaultAlphabet),
		Bus:      bus,
	}
}

func TestRun_Example(t *testing.T) {
	report, err := New(exampleConfig(nil)).Run(context.Background(), exampleDeps())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := strings.Join(report.Sequential, ""); got != "CABDFE" {
		t.Errorf("Sequential = %q, want CABDFE", got)
	}
	if got := strings.Join(report.Schedule.Order, ""); got != "CABFDE" {
		t.Errorf("Schedule.Order = %q, want CABFDE", got)
	}
	if report.Schedule.Ticks != 15 {
		t.Errorf("Schedule.Ticks = %d, want 15", report.Schedule.Ticks)
	}
	if report.CriticalPath.Length != 14 {
		t.Errorf("CriticalPath.Length = %d, want 14", report.CriticalPath.Length)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		deps    []scheduler.Dependency
		workers int
		want    error
	}{
		{
			name:    "cycle",
			deps:    []scheduler.Dependency{{Before: "A", After: "B"}, {Before: "B", After: "A"}},
			workers: 2,
			want:    scheduler.ErrGraphInvalid,
		},
		{
			name:    "no workers",
			deps:    exampleDeps(),
			workers: 0,
			want:    scheduler.ErrConfig,
		},
		{
			name:    "empty identifier",
			deps:    []scheduler.Dependency{{Before: "", After: "A"}},
			workers: 2,
			want:    scheduler.ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := exampleConfig(nil)
			cfg.Workers = tt.workers

			report, err := New(cfg).Run(context.Background(), tt.deps)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Run() error = %v, want %v", err, tt.want)
			}
			if report != nil {
				t.Errorf("Run() returned a report alongside error")
			}
		})
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(exampleConfig(nil)).Run(ctx, exampleDeps()); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRun_ReplaysOntoBus(t *testing.T) {
	bus := events.NewEventBus()
	defer bus.Close()
	sub := bus.SubscribeAll(1024)

	if _, err := New(exampleConfig(bus)).Run(context.Background(), exampleDeps()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var (
		started   []events.TaskStartedEvent
		completed []events.TaskCompletedEvent
		progress  []events.ScheduleProgressEvent
		finished  *events.ScheduleFinishedEvent
	)
	for finished == nil {
		select {
		case ev := <-sub:
			switch e := ev.(type) {
			case events.TaskStartedEvent:
				started = append(started, e)
			case events.TaskCompletedEvent:
				completed = append(completed, e)
			case events.ScheduleProgressEvent:
				progress = append(progress, e)
			case events.ScheduleFinishedEvent:
				finished = &e
			}
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for replay events")
		}
	}

	if len(started) != 6 || len(completed) != 6 {
		t.Errorf("got %d starts and %d completions, want 6 each", len(started), len(completed))
	}
	// One progress event per tick, 0 through 15 inclusive
	if len(progress) != 16 {
		t.Fatalf("got %d progress events, want 16", len(progress))
	}
	if finished.Ticks != 15 || strings.Join(finished.Order, "") != "CABFDE" {
		t.Errorf("finished = %+v", *finished)
	}

	if completed[0].ID != "C" || completed[0].Tick != 3 {
		t.Errorf("first completion = %+v, want C at tick 3", completed[0])
	}

	// Tick 3: C done, A and F running, B D E pending
	p := progress[3]
	if p.Completed != 1 || p.Running != 2 || p.Ready != 0 || p.Pending != 3 {
		t.Errorf("progress at tick 3 = %+v", p)
	}
	// Tick 4: A done, B running on the freed slot, D ready but waiting
	p = progress[4]
	if p.Completed != 2 || p.Running != 2 || p.Ready != 1 || p.Pending != 1 {
		t.Errorf("progress at tick 4 = %+v", p)
	}
	last := progress[len(progress)-1]
	if last.Completed != last.Total || last.Total != 6 {
		t.Errorf("final progress = %+v", last)
	}
}

func TestReplay_CancelledWhilePaced(t *testing.T) {
	bus := events.NewEventBus()
	defer bus.Close()

	cfg := exampleConfig(bus)
	cfg.TickInterval = time.Hour
	r := New(cfg)

	g, err := scheduler.BuildGraph(exampleDeps())
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}
	sched, err := scheduler.Simulate(g.Clone(), scheduler.SimulationConfig{
		Workers:  2,
		Duration: cfg.Duration,
	})
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := r.Replay(ctx, g, sched); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Replay() error = %v, want context.DeadlineExceeded", err)
	}
}
