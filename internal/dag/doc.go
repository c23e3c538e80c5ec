// Package dag turns a configuration model into the job graph the scheduler
// executes, and checks that the graph can be executed at all.
//
// Build resolves dependency and resource names into references, computes the
// successor edges and initializes every job's counter of unmet dependencies.
// Validate then rejects cycles and graphs without jobs, entry points or
// sinks. A graph that passed both is immutable in membership; only the
// scheduler mutates per-job run state afterwards.
package dag
