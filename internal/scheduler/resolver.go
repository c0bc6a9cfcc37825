package scheduler

// Resolve consumes g and returns one total order of its tasks that honours
// every precedence constraint. Whenever several tasks are ready at once the
// smallest identifier goes first, so the result is reproducible.
//
// Resolve returns an error wrapping ErrGraphInvalid if some tasks can never
// become ready. No partial order is returned in that case.
func Resolve(g *Graph) ([]string, error) {
	ready := newReadyQueue(g.Roots()...)
	order := make([]string, 0, g.Len())

	for {
		current, ok := ready.pop()
		if !ok {
			break
		}
		order = append(order, current)
		for _, id := range g.complete(current) {
			ready.push(id)
		}
	}

	if len(order) != g.Len() {
		return nil, unresolvedError(g.Pending())
	}
	return order, nil
}
