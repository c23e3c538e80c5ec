// Package scheduler drives a validated job graph to completion.
//
// # How It Works
//
// A single coordinating goroutine owns every piece of mutable run state: the
// number of running jobs, the abort flag and each job's unmet-dependency
// counter and status. Runner goroutines never touch that state; they execute
// one job and send its Result back over a channel. The coordinator loop is:
//
//  1. Dispatch Ready jobs, lowest declaration index first, while the run is
//     not aborted and fewer than the concurrency limit are running.
//  2. Stop when nothing is running.
//  3. Block until a job completes or the context is cancelled.
//  4. On success, mark the job Succeeded and make every successor whose
//     dependencies all succeeded Ready. On failure, mark it Failed and abort.
//
// # Failure Handling
//
// The scheduler is fail-fast: after the first failure no new job starts, but
// jobs that are already running finish normally. A failed job never counts
// as a satisfied dependency, so its descendants stay Pending and are
// reported as not run. Cancelling the context behaves like a failure that
// carries the context error.
//
// # Observers
//
// Observers are notified from the coordinating goroutine only, in the order
// the events happen. They must not block for long; see the events package for
// an observer that buffers slow sinks.
package scheduler
