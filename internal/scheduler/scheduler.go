package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/vk/jobgrid/internal/dag"
	"github.com/vk/jobgrid/internal/executor"
)

// ErrRunFailed is wrapped by the error Run returns when not every job
// succeeded.
var ErrRunFailed = errors.New("run failed")

// JobRunner executes a single job. *executor.Runner implements it.
type JobRunner interface {
	Run(ctx context.Context, job *dag.Job) executor.Result
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithObserver adds an observer. Observers are notified in the order they
// were added.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// WithLimit overrides the graph's concurrency limit when n > 0.
func WithLimit(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.limit = n
		}
	}
}

// Scheduler runs a graph once per call to Run.
type Scheduler struct {
	graph     *dag.Graph
	runner    JobRunner
	limit     int
	observers Observers
	now       func() time.Time
}

// New creates a Scheduler for a graph that passed Validate.
func New(graph *dag.Graph, runner JobRunner, opts ...Option) *Scheduler {
	s := &Scheduler{
		graph:  graph,
		runner: runner,
		limit:  graph.Concurrency,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.limit <= 0 {
		s.limit = 1
	}
	return s
}

// Limit returns the effective concurrency limit.
func (s *Scheduler) Limit() int {
	return s.limit
}

// completion is sent by a runner goroutine when its job is done.
type completion struct {
	job    *dag.Job
	result executor.Result
}

// run is the state owned by the coordinating goroutine during one Run.
type run struct {
	ready    readyQueue
	running  int
	aborted  bool
	firstErr error
	results  []executor.Result
	order    []string
}

// Run executes the graph and returns its report. The error is nil only when
// every job succeeded; otherwise it wraps ErrRunFailed and the first failure.
// Run returns after every dispatched job has finished, even when ctx is
// cancelled.
func (s *Scheduler) Run(ctx context.Context) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	started := s.now()
	s.graph.Reset()

	st := &run{results: make([]executor.Result, len(s.graph.Jobs))}
	completions := make(chan completion, len(s.graph.Jobs))
	var workers errgroup.Group

	logger.Info("🚀 Starting concurrent execution...", "jobs", len(s.graph.Jobs), "concurrency", s.limit)
	s.observers.RunStarted(ctx, s.graph)

	for _, j := range s.graph.Jobs {
		if j.Remaining() == 0 {
			s.markReady(st, j)
		}
	}

	done := ctx.Done()
	for {
		if done != nil && ctx.Err() != nil {
			done = nil
			s.cancel(ctx, st)
		}
		for !st.aborted && st.running < s.limit && st.ready.Len() > 0 {
			s.dispatch(ctx, st, st.ready.pop(), &workers, completions)
		}
		if st.running == 0 {
			break
		}

		select {
		case c := <-completions:
			s.complete(ctx, st, c)
		case <-done:
			// A closed channel would fire on every iteration.
			done = nil
			s.cancel(ctx, st)
		}
	}

	// Runner goroutines send before returning, so this never blocks for long.
	_ = workers.Wait()

	report := s.report(st, started)
	s.observers.RunFinished(ctx, report)

	if report.Succeeded {
		logger.Info("🏁 Execution finished.", "jobs", len(report.Jobs), "duration", report.Duration)
		return report, nil
	}

	logger.Error("🛑 Execution failed.",
		"succeeded", report.Count(dag.Succeeded),
		"failed", report.Count(dag.Failed),
		"not_run", len(report.Jobs)-len(report.Order),
		"error", report.Err,
	)
	return report, fmt.Errorf("%w: %w", ErrRunFailed, report.Err)
}

// abort stops dispatching and keeps the first cause.
func (st *run) abort(cause error) {
	st.aborted = true
	if st.firstErr == nil {
		st.firstErr = cause
	}
}

func (s *Scheduler) cancel(ctx context.Context, st *run) {
	if st.aborted {
		return
	}
	ctxlog.FromContext(ctx).Warn("Run cancelled, waiting for running jobs.", "running", st.running, "error", ctx.Err())
	st.abort(ctx.Err())
}

func (s *Scheduler) markReady(st *run, j *dag.Job) {
	if err := j.MarkReady(); err != nil {
		st.abort(err)
		return
	}
	st.ready.push(j)
}

// dispatch starts a Ready job on its own goroutine.
func (s *Scheduler) dispatch(ctx context.Context, st *run, j *dag.Job, workers *errgroup.Group, completions chan<- completion) {
	if err := j.MarkRunning(); err != nil {
		st.abort(err)
		return
	}
	st.running++
	st.order = append(st.order, j.Name)
	ctxlog.FromContext(ctx).Debug("Dispatching job.", "job", j.Name, "running", st.running, "limit", s.limit)
	s.observers.JobStarted(ctx, j)

	workers.Go(func() error {
		completions <- completion{job: j, result: s.runner.Run(ctx, j)}
		return nil
	})
}

// complete applies one completion event to the run state.
func (s *Scheduler) complete(ctx context.Context, st *run, c completion) {
	logger := ctxlog.FromContext(ctx)
	st.running--
	st.results[c.job.Index] = c.result

	succeeded := c.result.Status == dag.Succeeded
	if err := c.job.MarkFinished(succeeded); err != nil {
		st.abort(err)
		return
	}
	s.observers.JobFinished(ctx, c.job, c.result)

	if !succeeded {
		if !st.aborted {
			logger.Warn("Job failed, no further jobs will be started.", "job", c.job.Name, "running", st.running)
		}
		cause := c.result.Err
		if cause == nil {
			cause = fmt.Errorf("job %q failed", c.job.Name)
		}
		st.abort(cause)
		return
	}

	for _, succ := range c.job.Successors {
		left, err := succ.DependencySucceeded()
		if err != nil {
			st.abort(err)
			return
		}
		if left == 0 {
			logger.Debug("Unlocking dependent job.", "job", succ.Name, "unlocked_by", c.job.Name)
			s.markReady(st, succ)
		}
	}
}

func (s *Scheduler) report(st *run, started time.Time) *Report {
	report := &Report{
		Aborted:  st.aborted,
		Jobs:     make([]JobReport, len(s.graph.Jobs)),
		Order:    st.order,
		Err:      st.firstErr,
		Duration: s.now().Sub(started),
	}

	allSucceeded := true
	for i, j := range s.graph.Jobs {
		res := st.results[i]
		jr := JobReport{Name: j.Name, Status: j.Status()}
		if j.Status().Terminal() {
			jr.ExitCode = res.ExitCode
			jr.Signal = res.Signal
			jr.Err = res.Err
			jr.Duration = res.Duration()
			jr.LockWait = res.LockWait
		}
		if j.Status() != dag.Succeeded {
			allSucceeded = false
		}
		report.Jobs[i] = jr
	}

	report.Succeeded = allSucceeded && !st.aborted
	if !report.Succeeded && report.Err == nil {
		// Only reachable for graphs that skipped validation.
		report.Err = fmt.Errorf("%d jobs never became ready", len(report.Jobs)-report.Count(dag.Succeeded))
	}
	return report
}
