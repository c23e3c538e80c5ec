// Package config defines the format-agnostic configuration model for the
// application, along with the Loader interface for reading it from various
// sources.
//
// The `config.Model` is the single source of truth for the `dag` package.
// It carries job specifications exactly as the user wrote them: names are
// not checked for uniqueness and references are not resolved here, that is
// the graph builder's job. Concrete loaders, such as the HCL one, live in
// separate packages.
package config
