// Package app wires a jobgrid run together. App loads the HCL configuration,
// builds and validates the job graph, then hands it to the scheduler with
// the metrics and lifecycle-event observers attached. It also owns the
// optional health check server that exposes /health and /metrics. The CLI
// in cmd/cli is a thin layer over it.
package app
