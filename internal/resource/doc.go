// Package resource owns the named mutual-exclusion locks that jobs share.
//
// A Resource is created the first time a job references its name and lives
// for the rest of the run. When the configuration declares its resources
// up front the Registry is restricted, and references to undeclared names
// fail with ErrUnknownResource.
//
// Lock acquires the locks of one job in a single global order (by name),
// so two jobs that share several resources can never wait on each other in
// a cycle.
package resource
