package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/vk/jobgrid/internal/config"
	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/vk/jobgrid/internal/events"
	"github.com/vk/jobgrid/internal/hcl"
	"github.com/vk/jobgrid/internal/metrics"
	"github.com/vk/jobgrid/internal/process"
	"github.com/vk/jobgrid/internal/scheduler"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	config     *Config
	logger     *slog.Logger
	loader     config.Loader
	spawner    process.Spawner
	jobStdout  io.Writer
	jobStderr  io.Writer
	metrics    *metrics.Collector
	httpServer *http.Server

	// dialEvents opens the sink for Config.EventsURL.
	dialEvents func(ctx context.Context, rawURL string) (events.Sink, error)

	runID  string
	report *scheduler.Report
}

// Option customizes an App.
type Option func(*App)

// WithLoader replaces the HCL loader.
func WithLoader(loader config.Loader) Option {
	return func(a *App) { a.loader = loader }
}

// WithSpawner replaces the OS process spawner.
func WithSpawner(spawner process.Spawner) Option {
	return func(a *App) { a.spawner = spawner }
}

// WithJobOutput redirects job stdout and stderr, and the dry-run plan.
func WithJobOutput(stdout, stderr io.Writer) Option {
	return func(a *App) {
		a.jobStdout = stdout
		a.jobStderr = stderr
	}
}

// WithEventSink makes every run publish to sink instead of dialing
// Config.EventsURL.
func WithEventSink(sink events.Sink) Option {
	return func(a *App) {
		a.dialEvents = func(context.Context, string) (events.Sink, error) { return sink, nil }
	}
}

// NewApp is the constructor for the main application. It returns an App with
// its own isolated logger and metrics registry. outW receives the logs.
func NewApp(outW io.Writer, cfg *Config, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:       outW,
		config:     cfg,
		logger:     logger,
		loader:     hcl.NewLoader(),
		spawner:    process.Exec{},
		jobStdout:  os.Stdout,
		jobStderr:  os.Stderr,
		metrics:    metrics.New(),
		dialEvents: events.Dial,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Metrics returns the application's metrics collector. This is primarily for testing.
func (a *App) Metrics() *metrics.Collector {
	return a.metrics
}

// RunID returns the id of the last run, or "" before the first.
func (a *App) RunID() string {
	return a.runID
}

// Report returns the report of the last executed run, nil when nothing ran.
func (a *App) Report() *scheduler.Report {
	return a.report
}

// Close releases resources held between runs.
func (a *App) Close() error {
	return a.closeHealthcheckServer()
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
