package scheduler

import (
	"fmt"
	"sort"

	"github.com/gammazero/toposort"
)

// Graph maps every known task to the set of prerequisites it is still
// waiting on. A task without prerequisites has an empty set, never a
// missing entry.
//
// A Graph is single-owner: Resolve and Simulate consume it by shrinking the
// prerequisite sets. Use Clone to keep a pristine copy for another run.
type Graph struct {
	prereqs    map[string]map[string]struct{} // task -> outstanding prerequisites
	dependents map[string]map[string]struct{} // task -> tasks waiting on it
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		prereqs:    make(map[string]map[string]struct{}),
		dependents: make(map[string]map[string]struct{}),
	}
}

// BuildGraph turns precedence pairs into a Graph. Input order does not
// affect the result and duplicate pairs are idempotent.
func BuildGraph(deps []Dependency) (*Graph, error) {
	g := NewGraph()
	for _, d := range deps {
		if err := g.AddDependency(d); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddTask registers a task with no prerequisites. Adding a known task is a no-op.
func (g *Graph) AddTask(id string) error {
	if id == "" {
		return &ParseError{Reason: "empty task identifier"}
	}
	if _, exists := g.prereqs[id]; !exists {
		g.prereqs[id] = make(map[string]struct{})
	}
	return nil
}

// AddDependency records that d.Before must finish before d.After starts.
// Both tasks are registered if not already present.
func (g *Graph) AddDependency(d Dependency) error {
	if err := g.AddTask(d.Before); err != nil {
		return err
	}
	if err := g.AddTask(d.After); err != nil {
		return err
	}

	g.prereqs[d.After][d.Before] = struct{}{}

	if g.dependents[d.Before] == nil {
		g.dependents[d.Before] = make(map[string]struct{})
	}
	g.dependents[d.Before][d.After] = struct{}{}
	return nil
}

// Len returns the number of tasks.
func (g *Graph) Len() int {
	return len(g.prereqs)
}

// Has reports whether the task is known.
func (g *Graph) Has(id string) bool {
	_, ok := g.prereqs[id]
	return ok
}

// Tasks returns all task identifiers in ascending order.
func (g *Graph) Tasks() []string {
	ids := make([]string, 0, len(g.prereqs))
	for id := range g.prereqs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Prerequisites returns the outstanding prerequisites of a task in ascending order.
func (g *Graph) Prerequisites(id string) []string {
	return sortedKeys(g.prereqs[id])
}

// Dependents returns the tasks that list id as a prerequisite, in ascending order.
func (g *Graph) Dependents(id string) []string {
	return sortedKeys(g.dependents[id])
}

// Roots returns the tasks whose prerequisite set is currently empty.
func (g *Graph) Roots() []string {
	var roots []string
	for id, reqs := range g.prereqs {
		if len(reqs) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// Pending returns the tasks that still wait on at least one prerequisite.
func (g *Graph) Pending() []string {
	var pending []string
	for id, reqs := range g.prereqs {
		if len(reqs) > 0 {
			pending = append(pending, id)
		}
	}
	sort.Strings(pending)
	return pending
}

// Clone returns an independent deep copy.
func (g *Graph) Clone() *Graph {
	cp := NewGraph()
	for id, reqs := range g.prereqs {
		set := make(map[string]struct{}, len(reqs))
		for r := range reqs {
			set[r] = struct{}{}
		}
		cp.prereqs[id] = set
	}
	for id, deps := range g.dependents {
		set := make(map[string]struct{}, len(deps))
		for d := range deps {
			set[d] = struct{}{}
		}
		cp.dependents[id] = set
	}
	return cp
}

// Validate checks the graph for cycles and dangling prerequisites without
// consuming it. It returns one topological order (not necessarily the
// lexicographically smallest one).
func (g *Graph) Validate() ([]string, error) {
	var edges []toposort.Edge
	for _, id := range g.Tasks() {
		reqs := g.Prerequisites(id)
		if len(reqs) == 0 {
			// Edge from nil keeps isolated tasks in the result
			edges = append(edges, toposort.Edge{nil, id})
			continue
		}
		for _, req := range reqs {
			if req == id {
				return nil, invalidf("task %q depends on itself", id)
			}
			if !g.Has(req) {
				return nil, invalidf("task %q depends on unknown task %q", id, req)
			}
			edges = append(edges, toposort.Edge{req, id})
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGraphInvalid, err)
	}

	order := make([]string, 0, len(sorted))
	for _, id := range sorted {
		if id != nil {
			order = append(order, id.(string))
		}
	}
	if len(order) != g.Len() {
		return nil, invalidf("topological sort kept %d of %d tasks", len(order), g.Len())
	}
	return order, nil
}

// complete removes a finished task from the prerequisite set of each
// dependent and returns the dependents that became ready as a result.
func (g *Graph) complete(id string) []string {
	var ready []string
	for dep := range g.dependents[id] {
		reqs, ok := g.prereqs[dep]
		if !ok {
			continue
		}
		if _, waiting := reqs[id]; !waiting {
			continue
		}
		delete(reqs, id)
		if len(reqs) == 0 {
			ready = append(ready, dep)
		}
	}
	return ready
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
