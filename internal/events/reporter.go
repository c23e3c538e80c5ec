package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/vk/jobgrid/internal/dag"
	"github.com/vk/jobgrid/internal/executor"
	"github.com/vk/jobgrid/internal/scheduler"
)

// DefaultBuffer is the number of events a Reporter queues before dropping.
const DefaultBuffer = 256

// Sink delivers events somewhere.
type Sink interface {
	Send(ctx context.Context, ev Event) error
	Close() error
}

// Reporter is a scheduler.Observer that forwards events to a Sink from its
// own goroutine.
type Reporter struct {
	runID string
	sink  Sink
	ctx   context.Context
	queue chan Event
	done  chan struct{}
	now   func() time.Time

	closeOnce sync.Once
	dropped   atomic.Int64
	failed    atomic.Int64
}

var _ scheduler.Observer = (*Reporter)(nil)

// ReporterOption configures a Reporter.
type ReporterOption func(*Reporter)

// WithBuffer sets the queue size.
func WithBuffer(n int) ReporterOption {
	return func(r *Reporter) {
		if n > 0 {
			r.queue = make(chan Event, n)
		}
	}
}

// NewReporter starts a reporter for one run. The logger of ctx is used for
// delivery errors; cancelling ctx does not stop delivery, Close does.
func NewReporter(ctx context.Context, runID string, sink Sink, opts ...ReporterOption) *Reporter {
	r := &Reporter{
		runID: runID,
		sink:  sink,
		ctx:   context.WithoutCancel(ctx),
		queue: make(chan Event, DefaultBuffer),
		done:  make(chan struct{}),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	go r.loop()
	return r
}

func (r *Reporter) loop() {
	defer close(r.done)
	logger := ctxlog.FromContext(r.ctx)
	for ev := range r.queue {
		if err := r.sink.Send(r.ctx, ev); err != nil {
			r.failed.Add(1)
			logger.Warn("Failed to deliver event.", "type", ev.Type, "job", ev.Job, "error", err)
			continue
		}
		logger.Debug("Event delivered.", "type", ev.Type, "job", ev.Job, "id", ev.ID)
	}
}

func (r *Reporter) publish(ev Event) {
	select {
	case r.queue <- ev:
	default:
		n := r.dropped.Add(1)
		ctxlog.FromContext(r.ctx).Warn("Event buffer full, dropping event.", "type", ev.Type, "job", ev.Job, "dropped", n)
	}
}

// Dropped returns how many events did not fit in the buffer.
func (r *Reporter) Dropped() int64 {
	return r.dropped.Load()
}

// Failed returns how many events the sink rejected.
func (r *Reporter) Failed() int64 {
	return r.failed.Load()
}

// Close stops accepting events, waits until the queue is drained or ctx is
// done, and closes the sink. It must not be called while the scheduler may
// still notify the reporter.
func (r *Reporter) Close(ctx context.Context) error {
	r.closeOnce.Do(func() { close(r.queue) })

	var err error
	select {
	case <-r.done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	return errors.Join(err, r.sink.Close())
}

// RunStarted implements scheduler.Observer.
func (r *Reporter) RunStarted(_ context.Context, _ *dag.Graph) {
	r.publish(newEvent(r.runID, TypeRunStarted, r.now()))
}

// JobStarted implements scheduler.Observer.
func (r *Reporter) JobStarted(_ context.Context, job *dag.Job) {
	ev := newEvent(r.runID, TypeJobStarted, r.now())
	ev.Job = job.Name
	ev.Status = dag.Running.String()
	r.publish(ev)
}

// JobFinished implements scheduler.Observer.
func (r *Reporter) JobFinished(_ context.Context, job *dag.Job, result executor.Result) {
	r.publish(jobFinishedEvent(r.runID, job, result, r.now()))
}

// RunFinished implements scheduler.Observer.
func (r *Reporter) RunFinished(_ context.Context, report *scheduler.Report) {
	r.publish(runFinishedEvent(r.runID, report, r.now()))
}
