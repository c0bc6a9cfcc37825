package scheduler

// CriticalPath is the longest duration-weighted chain of the graph. Its
// length is a lower bound on the ticks any number of workers needs.
type CriticalPath struct {
	Tasks  []string
	Length int
}

// AnalyzeCriticalPath runs a forward pass over a topological order of g,
// computing each task's earliest finish. It does not consume g. Ties between
// equally long chains go to the smallest identifier.
func AnalyzeCriticalPath(g *Graph, baseOffset int, duration DurationFunc) (*CriticalPath, error) {
	if duration == nil {
		return nil, configf("duration function is required")
	}
	order, err := g.Validate()
	if err != nil {
		return nil, err
	}

	finish := make(map[string]int, len(order))
	via := make(map[string]string, len(order))
	for _, id := range order {
		d := duration(id, baseOffset)
		if d < 1 {
			return nil, configf("duration of task %q must be at least 1, got %d", id, d)
		}
		start := 0
		for _, req := range g.Prerequisites(id) {
			if finish[req] > start {
				start = finish[req]
				via[id] = req
			}
		}
		finish[id] = start + d
	}

	cp := &CriticalPath{}
	last := ""
	for _, id := range g.Tasks() {
		if finish[id] > cp.Length {
			cp.Length = finish[id]
			last = id
		}
	}

	for id := last; id != ""; id = via[id] {
		cp.Tasks = append([]string{id}, cp.Tasks...)
	}
	return cp, nil
}
