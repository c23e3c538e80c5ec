package dag

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a job is moved backwards or skips a
// state. It always indicates a scheduler bug.
var ErrInvalidTransition = errors.New("invalid job state transition")

// Job returns the job with the given name.
func (g *Graph) Job(name string) (*Job, bool) {
	j, ok := g.byName[name]
	return j, ok
}

// Len returns the number of jobs.
func (g *Graph) Len() int {
	return len(g.Jobs)
}

// EntryPoints returns the jobs without dependencies, in declaration order.
func (g *Graph) EntryPoints() []*Job {
	var out []*Job
	for _, j := range g.Jobs {
		if len(j.Dependencies) == 0 {
			out = append(out, j)
		}
	}
	return out
}

// Sinks returns the jobs without successors, in declaration order.
func (g *Graph) Sinks() []*Job {
	var out []*Job
	for _, j := range g.Jobs {
		if len(j.Successors) == 0 {
			out = append(out, j)
		}
	}
	return out
}

// Status returns the current state of the job.
func (j *Job) Status() Status {
	return j.status
}

// Remaining returns the number of dependencies that have not succeeded yet.
func (j *Job) Remaining() int {
	return j.remaining
}

// ResourceNames returns the names of the job's resources in declaration order.
func (j *Job) ResourceNames() []string {
	names := make([]string, len(j.Resources))
	for i, r := range j.Resources {
		names[i] = r.Name()
	}
	return names
}

// DependencyNames returns the names of the job's dependencies.
func (j *Job) DependencyNames() []string {
	return jobNames(j.Dependencies)
}

// SuccessorNames returns the names of the job's successors.
func (j *Job) SuccessorNames() []string {
	return jobNames(j.Successors)
}

// Reset restores the state Build left the job in.
func (j *Job) Reset() {
	j.remaining = len(j.Dependencies)
	j.status = Pending
}

// Reset restores every job of the graph, so the graph can be run again.
func (g *Graph) Reset() {
	for _, j := range g.Jobs {
		j.Reset()
	}
}

// DependencySucceeded records that one predecessor succeeded and returns the
// number of dependencies still unmet. Calling it more often than the job has
// dependencies is an error.
func (j *Job) DependencySucceeded() (int, error) {
	if j.remaining == 0 {
		return 0, fmt.Errorf("%w: job %q has no unmet dependencies left", ErrInvalidTransition, j.Name)
	}
	j.remaining--
	return j.remaining, nil
}

// MarkReady moves a pending job without unmet dependencies to Ready.
func (j *Job) MarkReady() error {
	if j.remaining != 0 {
		return fmt.Errorf("%w: job %q still waits for %d dependencies", ErrInvalidTransition, j.Name, j.remaining)
	}
	return j.transition(Pending, Ready)
}

// MarkRunning moves a ready job to Running.
func (j *Job) MarkRunning() error {
	return j.transition(Ready, Running)
}

// MarkFinished moves a running job to Succeeded or Failed.
func (j *Job) MarkFinished(succeeded bool) error {
	if succeeded {
		return j.transition(Running, Succeeded)
	}
	return j.transition(Running, Failed)
}

func (j *Job) transition(from, to Status) error {
	if j.status != from {
		return fmt.Errorf("%w: job %q is %s, cannot move %s -> %s", ErrInvalidTransition, j.Name, j.status, from, to)
	}
	j.status = to
	return nil
}

func jobNames(jobs []*Job) []string {
	names := make([]string, len(jobs))
	for i, j := range jobs {
		names[i] = j.Name
	}
	return names
}
