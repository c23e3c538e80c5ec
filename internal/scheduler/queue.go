package scheduler

import (
	"container/heap"

	"github.com/vk/jobgrid/internal/dag"
)

// readyQueue holds Ready jobs, lowest declaration index on top.
type readyQueue []*dag.Job

func (q readyQueue) Len() int           { return len(q) }
func (q readyQueue) Less(i, j int) bool { return q[i].Index < q[j].Index }
func (q readyQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *readyQueue) Push(x any) {
	*q = append(*q, x.(*dag.Job))
}

func (q *readyQueue) Pop() any {
	old := *q
	n := len(old)
	j := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return j
}

func (q *readyQueue) push(j *dag.Job) {
	heap.Push(q, j)
}

func (q *readyQueue) pop() *dag.Job {
	return heap.Pop(q).(*dag.Job)
}
