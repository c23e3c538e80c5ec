package scheduler

import (
	"context"

	"github.com/vk/jobgrid/internal/dag"
	"github.com/vk/jobgrid/internal/executor"
)

// Observer receives run lifecycle notifications.
type Observer interface {
	RunStarted(ctx context.Context, graph *dag.Graph)
	JobStarted(ctx context.Context, job *dag.Job)
	JobFinished(ctx context.Context, job *dag.Job, result executor.Result)
	RunFinished(ctx context.Context, report *Report)
}

// Observers fans notifications out to several observers, in order.
type Observers []Observer

var _ Observer = Observers(nil)

// RunStarted implements Observer.
func (o Observers) RunStarted(ctx context.Context, graph *dag.Graph) {
	for _, obs := range o {
		obs.RunStarted(ctx, graph)
	}
}

// JobStarted implements Observer.
func (o Observers) JobStarted(ctx context.Context, job *dag.Job) {
	for _, obs := range o {
		obs.JobStarted(ctx, job)
	}
}

// JobFinished implements Observer.
func (o Observers) JobFinished(ctx context.Context, job *dag.Job, result executor.Result) {
	for _, obs := range o {
		obs.JobFinished(ctx, job, result)
	}
}

// RunFinished implements Observer.
func (o Observers) RunFinished(ctx context.Context, report *Report) {
	for _, obs := range o {
		obs.RunFinished(ctx, report)
	}
}
