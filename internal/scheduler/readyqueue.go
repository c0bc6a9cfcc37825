package scheduler

import "container/heap"

// readyQueue is a min-heap of task identifiers. Pop always yields the
// smallest identifier, which is the tie-break rule for both resolvers.
type readyQueue struct {
	items taskHeap
	seen  map[string]bool
}

func newReadyQueue(ids ...string) *readyQueue {
	q := &readyQueue{seen: make(map[string]bool)}
	for _, id := range ids {
		q.push(id)
	}
	return q
}

// push enqueues a task. A task is only ever enqueued once per run.
func (q *readyQueue) push(id string) {
	if q.seen[id] {
		return
	}
	q.seen[id] = true
	heap.Push(&q.items, id)
}

func (q *readyQueue) pop() (string, bool) {
	if len(q.items) == 0 {
		return "", false
	}
	return heap.Pop(&q.items).(string), true
}

type taskHeap []string

func (h taskHeap) Len() int           { return len(h) }
func (h taskHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h taskHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) { *h = append(*h, x.(string)) }

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
