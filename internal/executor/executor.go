package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vk/jobgrid/internal/config"
	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/vk/jobgrid/internal/dag"
	"github.com/vk/jobgrid/internal/process"
	"github.com/vk/jobgrid/internal/resource"
)

// Result is the outcome of one job.
type Result struct {
	// Status is dag.Succeeded or dag.Failed.
	Status   dag.Status
	ExitCode int
	Signal   string
	// Err is an *ExitError or *SpawnError when Status is dag.Failed.
	Err      error
	Started  time.Time
	Finished time.Time
	// LockWait is the time spent waiting for the job's resources.
	LockWait time.Duration
}

// Duration is the wall time of the job, including the lock wait.
func (r Result) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Succeeded reports whether the job succeeded.
func (r Result) Succeeded() bool {
	return r.Status == dag.Succeeded
}

// Runner executes jobs. It is safe for concurrent use.
type Runner struct {
	spawner process.Spawner
	shell   string
	stdout  io.Writer
	stderr  io.Writer
	now     func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithShell sets the interpreter for string commands.
func WithShell(shell string) Option {
	return func(r *Runner) {
		if shell != "" {
			r.shell = shell
		}
	}
}

// WithOutput redirects job stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// New creates a Runner around the given spawner. Output goes to the process
// stdout and stderr unless WithOutput says otherwise.
func New(spawner process.Spawner, opts ...Option) *Runner {
	r := &Runner{
		spawner: spawner,
		shell:   config.DefaultShell,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one job to completion. Its resource locks are held only while
// the process runs and are released on every path out of Run.
func (r *Runner) Run(ctx context.Context, job *dag.Job) (res Result) {
	logger := ctxlog.FromContext(ctx).With("job", job.Name)
	res.Started = r.now()
	defer func() {
		res.Finished = r.now()
	}()

	if len(job.Resources) > 0 {
		logger.Debug("Acquiring resources.", "resources", job.ResourceNames())
	}
	unlock := resource.Lock(job.Resources)
	defer unlock()
	res.LockWait = r.now().Sub(res.Started)

	args := job.Command.Args(r.shell)
	logger.Info("▶️ Starting job", "command", job.Command.String())

	exit := r.spawn(ctx, job, args)
	switch {
	case exit.Err != nil && exit.Started:
		res.Status = dag.Failed
		res.ExitCode = exit.Code
		res.Err = &ExitError{Job: job.Name, Code: exit.Code, Err: exit.Err}
		logger.Error("❌ Job failed while running.", "error", exit.Err)
	case exit.Err != nil:
		res.Status = dag.Failed
		res.ExitCode = exit.Code
		res.Err = &SpawnError{Job: job.Name, Args: args, Err: exit.Err}
		logger.Error("❌ Job could not be started.", "error", exit.Err)
	case exit.Signaled:
		res.Status = dag.Failed
		res.ExitCode = exit.Code
		res.Signal = exit.Signal
		res.Err = &ExitError{Job: job.Name, Code: exit.Code, Signal: exit.Signal}
		logger.Error("❌ Job terminated by signal.", "signal", exit.Signal)
	case exit.Code != 0:
		res.Status = dag.Failed
		res.ExitCode = exit.Code
		res.Err = &ExitError{Job: job.Name, Code: exit.Code}
		logger.Error("❌ Job failed.", "exit_code", exit.Code)
	default:
		res.Status = dag.Succeeded
		logger.Info("✅ Finished job", "duration", r.now().Sub(res.Started))
	}
	return res
}

// spawn calls the spawner and turns a panic into a spawn failure, so the
// caller always gets a Result.
func (r *Runner) spawn(ctx context.Context, job *dag.Job, args []string) (exit process.Exit) {
	defer func() {
		if p := recover(); p != nil {
			exit = process.Exit{Code: -1, Err: fmt.Errorf("spawner panicked: %v", p)}
		}
	}()
	return r.spawner.Spawn(ctx, process.Spec{
		Args:   args,
		Env:    job.Env,
		Dir:    job.Dir,
		Stdout: r.stdout,
		Stderr: r.stderr,
	})
}
