package scheduler

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolve_Example(t *testing.T) {
	order, err := Resolve(mustBuild(t, exampleDeps()))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := strings.Join(order, ""); got != "CABDFE" {
		t.Errorf("Resolve() = %q, want %q", got, "CABDFE")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		deps     []Dependency
		isolated []string
		want     string
	}{
		{
			name: "empty graph",
			want: "",
		},
		{
			name:     "isolated tasks sorted",
			isolated: []string{"Q", "B", "K"},
			want:     "BKQ",
		},
		{
			name: "smaller ready task wins over earlier discovery",
			// Z is ready from the start, but A becomes ready after X and
			// must still jump ahead of Z.
			deps: []Dependency{{"X", "A"}, {"Y", "Z"}},
			want: "XAYZ",
		},
		{
			name: "multiple prerequisites all required",
			deps: []Dependency{{"B", "A"}, {"C", "A"}},
			want: "BCA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustBuild(t, tt.deps)
			for _, id := range tt.isolated {
				_ = g.AddTask(id)
			}
			order, err := Resolve(g)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got := strings.Join(order, ""); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve_Precedence(t *testing.T) {
	deps := []Dependency{
		{"M", "N"}, {"N", "O"}, {"A", "O"}, {"B", "M"}, {"Z", "A"},
		{"O", "P"}, {"C", "P"}, {"K", "C"}, {"K", "B"},
	}
	g := mustBuild(t, deps)
	order, err := Resolve(g.Clone())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	assertPrecedence(t, g, order)
}

func TestResolve_Deterministic(t *testing.T) {
	g := mustBuild(t, exampleDeps())

	first, err := Resolve(g.Clone())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := Resolve(g.Clone())
		if err != nil {
			t.Fatalf("run %d: Resolve() error = %v", i, err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestResolve_Cycle(t *testing.T) {
	tests := []struct {
		name string
		deps []Dependency
	}{
		{"two-task cycle", []Dependency{{"A", "B"}, {"B", "A"}}},
		{"self-loop", []Dependency{{"A", "A"}}},
		{"cycle behind a valid prefix", []Dependency{{"X", "A"}, {"A", "B"}, {"B", "A"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := Resolve(mustBuild(t, tt.deps))
			if !errors.Is(err, ErrGraphInvalid) {
				t.Fatalf("Resolve() error = %v, want ErrGraphInvalid", err)
			}
			if order != nil {
				t.Errorf("Resolve() returned partial order %v alongside error", order)
			}
		})
	}
}
