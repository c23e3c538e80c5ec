package scheduler

import (
	"time"

	"github.com/vk/jobgrid/internal/dag"
)

// JobReport is the final state of one job.
type JobReport struct {
	Name     string
	Status   dag.Status
	ExitCode int
	Signal   string
	Err      error
	Duration time.Duration
	LockWait time.Duration
}

// Ran reports whether the job was dispatched at all.
func (j JobReport) Ran() bool {
	return j.Status.Terminal() || j.Status == dag.Running
}

// Report summarizes a run.
type Report struct {
	// Succeeded is set when every job succeeded and the run was not aborted.
	Succeeded bool
	// Aborted is set when a failure or cancellation stopped dispatching.
	Aborted bool
	// Jobs in declaration order.
	Jobs []JobReport
	// Order lists job names in dispatch order.
	Order []string
	// Err is the first failure, nil on success.
	Err      error
	Duration time.Duration
}

// Job returns the report of the named job.
func (r *Report) Job(name string) (JobReport, bool) {
	for _, j := range r.Jobs {
		if j.Name == name {
			return j, true
		}
	}
	return JobReport{}, false
}

// Count returns how many jobs ended in the given status.
func (r *Report) Count(status dag.Status) int {
	n := 0
	for _, j := range r.Jobs {
		if j.Status == status {
			n++
		}
	}
	return n
}
