// Package process starts external commands and classifies how they ended.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"syscall"
)

// ErrEmptyCommand is returned when a spec has no argv.
var ErrEmptyCommand = errors.New("empty command")

// Spec describes one process to start.
type Spec struct {
	// Args is the argv; Args[0] is looked up in PATH.
	Args []string
	// Env is added on top of the parent environment.
	Env map[string]string
	// Dir is the working directory, empty for the current one.
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// Exit is the classification of a finished process.
type Exit struct {
	// Code is the exit status. It is -1 when the process was signaled or
	// never started.
	Code int
	// Signal names the terminating signal when Signaled is set.
	Signal   string
	Signaled bool
	// Started is set once the process was running. An Err with Started set
	// means the process ran but waiting for it failed.
	Started bool
	// Err is non-nil when the process could not be started or waited for.
	Err error
}

// Success reports a clean exit with status 0.
func (e Exit) Success() bool {
	return e.Err == nil && !e.Signaled && e.Code == 0
}

// Spawner runs one process to completion.
type Spawner interface {
	Spawn(ctx context.Context, spec Spec) Exit
}

// Exec is the os/exec backed Spawner. It ignores the context once the process
// started: running jobs are never interrupted.
type Exec struct{}

var _ Spawner = Exec{}

// Spawn implements Spawner.
func (Exec) Spawn(ctx context.Context, spec Spec) Exit {
	if len(spec.Args) == 0 {
		return Exit{Code: -1, Err: ErrEmptyCommand}
	}

	cmd := exec.Command(spec.Args[0], spec.Args[1:]...)
	cmd.Dir = spec.Dir
	cmd.Stdout = spec.Stdout
	cmd.Stderr = spec.Stderr
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), envList(spec.Env)...)
	}

	if err := cmd.Start(); err != nil {
		return Exit{Code: -1, Err: fmt.Errorf("failed to start %q: %w", spec.Args[0], err)}
	}
	exit := classify(cmd.Wait())
	exit.Started = true
	return exit
}

// classify maps the result of cmd.Wait to an Exit.
func classify(err error) Exit {
	if err == nil {
		return Exit{Code: 0}
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		// Wait failed without a process status, e.g. copying output broke.
		return Exit{Code: -1, Err: fmt.Errorf("waiting for process: %w", err)}
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return Exit{Code: -1, Signal: ws.Signal().String(), Signaled: true}
	}
	return Exit{Code: exitErr.ExitCode()}
}

// envList renders env as KEY=VALUE pairs sorted by key.
func envList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
