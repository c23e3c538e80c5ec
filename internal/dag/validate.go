package dag

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/jobgrid/internal/ctxlog"
)

// Validate checks the graph shape: it must be acyclic, non-empty, and have at
// least one entry point and one sink. It never mutates the graph.
func (g *Graph) Validate() error {
	if err := g.detectCycles(); err != nil {
		return err
	}
	if len(g.Jobs) == 0 {
		return &GraphError{Kind: ErrEmptyGraph}
	}
	if len(g.EntryPoints()) == 0 {
		return &GraphError{Kind: ErrNoEntryPoint, Msg: "every job has at least one dependency"}
	}
	if len(g.Sinks()) == 0 {
		return &GraphError{Kind: ErrNoSink, Msg: "every job is a dependency of another job"}
	}
	return nil
}

// detectCycles runs a depth-first search along successor edges, starting from
// every unvisited job in declaration order.
func (g *Graph) detectCycles() error {
	// done: fully explored jobs, known not to lead back into the stack.
	// onStack: jobs of the current traversal path, in stack order.
	done := make([]bool, len(g.Jobs))
	onStack := make([]bool, len(g.Jobs))
	var stack []*Job

	var visit func(j *Job) error
	visit = func(j *Job) error {
		if done[j.Index] {
			return nil
		}
		if onStack[j.Index] {
			return &GraphError{Kind: ErrCycle, Job: j.Name, Source: j.Source, Path: cyclePath(stack, j)}
		}

		onStack[j.Index] = true
		stack = append(stack, j)
		for _, succ := range j.Successors {
			if err := visit(succ); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		onStack[j.Index] = false
		done[j.Index] = true
		return nil
	}

	for _, j := range g.Jobs {
		if err := visit(j); err != nil {
			return err
		}
	}
	return nil
}

// cyclePath cuts the cycle out of the traversal stack, closing it with the
// job it started at.
func cyclePath(stack []*Job, closing *Job) []string {
	start := 0
	for i, j := range stack {
		if j == closing {
			start = i
			break
		}
	}
	path := jobNames(stack[start:])
	return append(path, closing.Name)
}

// TopologicalOrder returns the jobs in the order a single-slot scheduler
// would run them: whenever several jobs are ready, the one declared first
// goes next. The graph must be valid.
func (g *Graph) TopologicalOrder() ([]*Job, error) {
	remaining := make([]int, len(g.Jobs))
	var ready []*Job
	for _, j := range g.Jobs {
		remaining[j.Index] = len(j.Dependencies)
		if remaining[j.Index] == 0 {
			ready = append(ready, j)
		}
	}

	order := make([]*Job, 0, len(g.Jobs))
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		for _, succ := range next.Successors {
			remaining[succ.Index]--
			if remaining[succ.Index] == 0 {
				ready = insertByIndex(ready, succ)
			}
		}
	}

	if len(order) != len(g.Jobs) {
		return nil, g.detectCycles()
	}
	return order, nil
}

func insertByIndex(ready []*Job, j *Job) []*Job {
	at := sort.Search(len(ready), func(i int) bool { return ready[i].Index > j.Index })
	ready = append(ready, nil)
	copy(ready[at+1:], ready[at:])
	ready[at] = j
	return ready
}

// LogSummary writes the graph layout at debug and info level.
func (g *Graph) LogSummary(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("📋 Job graph ready.",
		"jobs", len(g.Jobs),
		"entry_points", jobNames(g.EntryPoints()),
		"sinks", jobNames(g.Sinks()),
		"resources", g.Resources.Names(),
		"concurrency", g.Concurrency,
	)
	for _, j := range g.Jobs {
		logger.Debug("Job definition.",
			"job", j.Name,
			"command", j.Command.String(),
			"depends_on", j.DependencyNames(),
			"resources", j.ResourceNames(),
			"source", j.Source,
		)
	}
}

// String renders the job for logs.
func (j *Job) String() string {
	return fmt.Sprintf("%s#%d", j.Name, j.Index)
}
