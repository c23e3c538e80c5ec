package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/vk/jobgrid/internal/dag"
	"github.com/vk/jobgrid/internal/events"
	"github.com/vk/jobgrid/internal/executor"
	"github.com/vk/jobgrid/internal/scheduler"
)

// eventsCloseTimeout bounds how long Run waits for queued events to flush.
const eventsCloseTimeout = 5 * time.Second

// Run loads the configuration, builds and validates the job graph, and
// executes it. Any configuration, validation or execution failure is returned.
func (a *App) Run(ctx context.Context) error {
	a.runID = uuid.NewString()
	a.report = nil
	ctx = ctxlog.With(a.context(ctx), "run_id", a.runID)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 && a.httpServer == nil {
		if err := a.startHealthcheckServer(a.config.HealthcheckPort); err != nil {
			return err
		}
	}

	graph, err := a.plan(ctx)
	if err != nil {
		return err
	}

	if a.config.DryRun {
		logger.Info("Dry run, no job will be executed.")
		return a.printPlan(graph)
	}

	observers := scheduler.Observers{a.metrics}
	if reporter := a.openReporter(ctx); reporter != nil {
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventsCloseTimeout)
			defer cancel()
			if err := reporter.Close(closeCtx); err != nil {
				logger.Warn("Event reporter did not shut down cleanly.", "error", err)
			}
		}()
		observers = append(observers, reporter)
	}

	runner := executor.New(a.spawner,
		executor.WithShell(graph.Shell),
		executor.WithOutput(a.jobStdout, a.jobStderr),
	)
	sched := scheduler.New(graph, runner,
		scheduler.WithLimit(a.config.Concurrency),
		scheduler.WithObserver(observers),
	)

	report, err := sched.Run(ctx)
	a.report = report
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	logger.Debug("App.Run method finished.")
	return nil
}

// plan loads the configuration and returns a validated graph.
func (a *App) plan(ctx context.Context) (*dag.Graph, error) {
	logger := ctxlog.FromContext(ctx)

	logger.Debug("Loading configuration...", "path", a.config.ConfigPath)
	model, err := a.loader.Load(ctx, a.config.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Debug("Building dependency graph from config model...", "jobs", len(model.Jobs))
	graph, err := dag.Build(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependency graph: %w", err)
	}
	if err := graph.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependency graph: %w", err)
	}
	graph.LogSummary(ctx)
	return graph, nil
}

// openReporter returns nil when events are disabled or the sink cannot be
// reached; a run never fails because of its event stream.
func (a *App) openReporter(ctx context.Context) *events.Reporter {
	if a.config.EventsURL == "" {
		return nil
	}
	logger := ctxlog.FromContext(ctx)

	sink, err := a.dialEvents(ctx, a.config.EventsURL)
	if err != nil {
		logger.Warn("Event sink unavailable, continuing without events.", "url", a.config.EventsURL, "error", err)
		return nil
	}
	logger.Debug("Event sink connected.", "url", a.config.EventsURL)
	return events.NewReporter(ctx, a.runID, sink)
}

// printPlan writes the jobs in the order a limit-1 run would start them.
func (a *App) printPlan(graph *dag.Graph) error {
	order, err := graph.TopologicalOrder()
	if err != nil {
		return err
	}
	return writePlan(a.jobStdout, order)
}

func writePlan(w io.Writer, order []*dag.Job) error {
	var errs []error
	for i, j := range order {
		line := fmt.Sprintf("%d. %s: %s", i+1, j.Name, j.Command.String())
		if deps := j.DependencyNames(); len(deps) > 0 {
			line += " (after " + strings.Join(deps, ", ") + ")"
		}
		if res := j.ResourceNames(); len(res) > 0 {
			line += " [locks " + strings.Join(res, ", ") + "]"
		}
		_, err := fmt.Fprintln(w, line)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
