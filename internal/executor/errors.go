package executor

import "fmt"

// ExitError reports a job whose process ran but did not exit cleanly.
type ExitError struct {
	Job string
	// Code is the exit status, -1 when the process was signaled.
	Code   int
	Signal string
	// Err is set when the process ran but its end could not be observed,
	// e.g. its output could not be written.
	Err error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("job %q failed while running: %v", e.Job, e.Err)
	}
	if e.Signal != "" {
		return fmt.Sprintf("job %q terminated by signal: %s", e.Job, e.Signal)
	}
	return fmt.Sprintf("job %q exited with code %d", e.Job, e.Code)
}

// Unwrap returns the underlying wait error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// SpawnError reports a job whose process could not be started.
type SpawnError struct {
	Job  string
	Args []string
	Err  error
}

// Error implements the error interface.
func (e *SpawnError) Error() string {
	return fmt.Sprintf("job %q could not be started: %v", e.Job, e.Err)
}

// Unwrap returns the underlying start error.
func (e *SpawnError) Unwrap() error {
	return e.Err
}
