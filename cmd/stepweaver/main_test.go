package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aristath/stepweaver/internal/scheduler"
)

const exampleInput = `Step C must be finished before step A can begin.
Step C must be finished before step F can begin.
Step A must be finished before step B can begin.
Step A must be finished before step D can begin.
Step B must be finished before step E can begin.
Step D must be finished before step E can begin.
Step F must be finished before step E can begin.
`

// execute runs the CLI with config files pointed at an empty temp dir.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	var out bytes.Buffer
	root := newRootCmd(strings.NewReader(stdin), &out)
	root.SetArgs(append([]string{
		"--global-config", filepath.Join(dir, "global.json"),
		"--config", filepath.Join(dir, "project.json"),
	}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestOrderCommand(t *testing.T) {
	out, err := execute(t, exampleInput, "order")
	if err != nil {
		t.Fatalf("order failed: %v", err)
	}
	if out != "CABDFE\n" {
		t.Errorf("output = %q, want %q", out, "CABDFE\n")
	}
}

func TestOrderCommand_FileArgument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte(exampleInput), 0644); err != nil {
		t.Fatalf("writing input: %v", err)
	}

	out, err := execute(t, "", "order", path)
	if err != nil {
		t.Fatalf("order failed: %v", err)
	}
	if strings.TrimSpace(out) != "CABDFE" {
		t.Errorf("output = %q", out)
	}
}

func TestScheduleCommand(t *testing.T) {
	out, err := execute(t, exampleInput, "schedule", "--workers", "2", "--base-offset", "0", "--timeline")
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}

	for _, want := range []string{
		"Sequential steps: CABDFE",
		"Parallel steps:   CABFDE",
		"Ticks:            15 (2 workers, base offset 0)",
		"Critical path:    CFE (14 ticks)",
		"Utilization:      70.0%",
		"W1  |...FFFFFF......|",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestScheduleCommand_Defaults(t *testing.T) {
	out, err := execute(t, exampleInput, "schedule")
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	if !strings.Contains(out, "Ticks:            253 (5 workers, base offset 60)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  []string
		want  error
	}{
		{
			name:  "zero workers",
			input: exampleInput,
			args:  []string{"schedule", "--workers", "0"},
			want:  scheduler.ErrConfig,
		},
		{
			name:  "cycle in order",
			input: "Step A must be finished before step B can begin.\nStep B must be finished before step A can begin.\n",
			args:  []string{"order"},
			want:  scheduler.ErrGraphInvalid,
		},
		{
			name:  "cycle in schedule",
			input: "Step A must be finished before step B can begin.\nStep B must be finished before step A can begin.\n",
			args:  []string{"schedule"},
			want:  scheduler.ErrGraphInvalid,
		},
		{
			name:  "malformed instruction",
			input: "Step AB must be finished before step C can begin.\n",
			args:  []string{"order"},
			want:  scheduler.ErrParse,
		},
		{
			name:  "task outside alphabet",
			input: exampleInput,
			args:  []string{"schedule", "--alphabet", "ABC"},
			want:  scheduler.ErrConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.input, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if out != "" {
				t.Errorf("expected no output on error, got %q", out)
			}
		})
	}
}
