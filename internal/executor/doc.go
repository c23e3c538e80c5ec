// Package executor runs a single job: it takes the job's resource locks,
// starts the job's command through a process.Spawner and classifies the
// outcome into a Result. The scheduler decides when a job runs; the executor
// only decides how.
package executor
