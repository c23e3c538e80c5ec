// Package cli turns the jobgrid command line into an app.Config. It builds
// the cobra root command, validates flag values, and reports usage mistakes
// as ExitError values carrying exit code 2.
package cli
