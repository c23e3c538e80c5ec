package dag

import (
	"github.com/vk/jobgrid/internal/config"
	"github.com/vk/jobgrid/internal/resource"
)

// Status is the execution state of a job.
type Status int32

const (
	// Pending jobs wait for at least one dependency.
	Pending Status = iota
	// Ready jobs have all dependencies succeeded and were not dispatched yet.
	Ready
	// Running jobs were dispatched to a runner.
	Running
	// Succeeded jobs exited with code 0.
	Succeeded
	// Failed jobs exited non-zero, were killed by a signal or never started.
	Failed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == Succeeded || s == Failed
}

// Job is a single vertex in the graph.
type Job struct {
	// Name is the unique job name.
	Name string
	// Index is the declaration position and the scheduler's scan key.
	Index int
	// Command is passed to the process spawner.
	Command config.Command
	// Env holds extra environment variables for the process.
	Env map[string]string
	// Dir is the process working directory, empty for the current one.
	Dir string
	// Source points at the job definition for error messages.
	Source string

	// Dependencies are the jobs this job waits for, in declaration order.
	Dependencies []*Job
	// Successors are the jobs waiting for this one. Computed by Build.
	Successors []*Job
	// Resources are the locks held while the command runs.
	Resources []*resource.Resource

	remaining int
	status    Status
}

// Graph is the validated set of jobs of one run.
type Graph struct {
	// Jobs in declaration order.
	Jobs []*Job
	// Concurrency is the maximum number of simultaneously running jobs.
	Concurrency int
	// Shell interprets string commands.
	Shell string
	// Resources owns every lock referenced by the jobs.
	Resources *resource.Registry

	byName map[string]*Job
}
