// Package metrics exposes run progress as Prometheus metrics. Collector is a
// scheduler.Observer; every App owns its own registry, so several runs in one
// process (as in tests) never share counters.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vk/jobgrid/internal/dag"
	"github.com/vk/jobgrid/internal/executor"
	"github.com/vk/jobgrid/internal/scheduler"
)

const namespace = "jobgrid"

// Collector records scheduler notifications.
type Collector struct {
	registry *prometheus.Registry

	jobsTotal    prometheus.Gauge
	jobsRunning  prometheus.Gauge
	jobStarts    prometheus.Counter
	jobResults   *prometheus.CounterVec
	jobDuration  prometheus.Histogram
	resourceWait prometheus.Histogram
	runSucceeded prometheus.Gauge
}

var _ scheduler.Observer = (*Collector)(nil)

// New creates a Collector and registers its metrics, together with the Go
// runtime and process collectors, on a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		jobsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Number of jobs in the current graph.",
		}),
		jobsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "jobs_running",
			Help:      "Number of jobs currently running.",
		}),
		jobStarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_starts_total",
			Help:      "Number of dispatched jobs.",
		}),
		jobResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_results_total",
			Help:      "Number of finished jobs by final status.",
		}, []string{"status"}),
		jobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Wall time of finished jobs, including resource waits.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
		resourceWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resource_wait_seconds",
			Help:      "Time jobs spent waiting for their resource locks.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		runSucceeded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_succeeded",
			Help:      "1 when the last run succeeded, 0 when it failed, -1 while running.",
		}),
	}

	c.registry.MustRegister(
		c.jobsTotal,
		c.jobsRunning,
		c.jobStarts,
		c.jobResults,
		c.jobDuration,
		c.resourceWait,
		c.runSucceeded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	// Expose both series from the start.
	c.jobResults.WithLabelValues(dag.Succeeded.String())
	c.jobResults.WithLabelValues(dag.Failed.String())
	return c
}

// Registry returns the registry the metrics live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// RunStarted implements scheduler.Observer.
func (c *Collector) RunStarted(_ context.Context, graph *dag.Graph) {
	c.jobsTotal.Set(float64(graph.Len()))
	c.jobsRunning.Set(0)
	c.runSucceeded.Set(-1)
}

// JobStarted implements scheduler.Observer.
func (c *Collector) JobStarted(_ context.Context, _ *dag.Job) {
	c.jobStarts.Inc()
	c.jobsRunning.Inc()
}

// JobFinished implements scheduler.Observer.
func (c *Collector) JobFinished(_ context.Context, _ *dag.Job, result executor.Result) {
	c.jobsRunning.Dec()
	c.jobResults.WithLabelValues(result.Status.String()).Inc()
	c.jobDuration.Observe(result.Duration().Seconds())
	c.resourceWait.Observe(result.LockWait.Seconds())
}

// RunFinished implements scheduler.Observer.
func (c *Collector) RunFinished(_ context.Context, report *scheduler.Report) {
	if report.Succeeded {
		c.runSucceeded.Set(1)
		return
	}
	c.runSucceeded.Set(0)
}
