package dag

import (
	"errors"
	"strings"

	"github.com/vk/jobgrid/internal/resource"
)

// Build errors.
var (
	// ErrInvalidJob means a job spec is unusable, e.g. it has no name or command.
	ErrInvalidJob = errors.New("invalid job")
	// ErrDuplicateJob means two jobs share a name.
	ErrDuplicateJob = errors.New("duplicate job name")
	// ErrTooManyJobs means the configured job ceiling was exceeded.
	ErrTooManyJobs = errors.New("too many jobs")
	// ErrUnresolvedDependency means a job depends on a name no job has.
	ErrUnresolvedDependency = errors.New("unresolved dependency")
	// ErrUnknownResource means a job references an undeclared resource.
	ErrUnknownResource = resource.ErrUnknownResource
)

// Validation errors.
var (
	// ErrCycle means the dependency edges form a cycle.
	ErrCycle = errors.New("dependency cycle detected")
	// ErrEmptyGraph means there are no jobs.
	ErrEmptyGraph = errors.New("graph has no jobs")
	// ErrNoEntryPoint means every job has at least one dependency.
	ErrNoEntryPoint = errors.New("graph has no entry point")
	// ErrNoSink means every job has at least one successor.
	ErrNoSink = errors.New("graph has no sink")
)

// GraphError describes a build or validation failure. Kind is one of the
// package sentinels and is what errors.Is matches.
type GraphError struct {
	Kind error
	// Job is the offending job, empty for graph-wide failures.
	Job string
	// Source locates the job definition, when known.
	Source string
	// Path lists the jobs of a detected cycle, first job repeated at the end.
	Path []string
	Msg  string
	// Err is an underlying cause, e.g. from the resource registry.
	Err error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	var b strings.Builder
	if e.Job != "" {
		b.WriteString("job ")
		b.WriteString(e.Job)
		if e.Source != "" {
			b.WriteString(" (")
			b.WriteString(e.Source)
			b.WriteString(")")
		}
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if len(e.Path) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Path, " -> "))
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause.
func (e *GraphError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func jobError(kind error, spec jobRef, msg string) *GraphError {
	return &GraphError{Kind: kind, Job: spec.name, Source: spec.source, Msg: msg}
}

// jobRef carries the identity used in error messages.
type jobRef struct {
	name   string
	source string
}
