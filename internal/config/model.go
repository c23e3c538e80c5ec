package config

import (
	"fmt"
	"strings"
)

// DefaultConcurrency applies when the configuration sets no positive limit.
const DefaultConcurrency = 4

// DefaultShell interprets string commands.
const DefaultShell = "/bin/sh"

// Model is the unified, format-agnostic representation of a job file.
type Model struct {
	// Concurrency is the configured limit; values <= 0 mean "use the default".
	Concurrency int
	// MaxJobs is an optional ceiling on the number of jobs, 0 means unlimited.
	MaxJobs int
	// Shell interprets string commands. Empty means DefaultShell.
	Shell string
	// Resources lists explicitly declared resource names. When non-empty,
	// jobs may only reference declared resources.
	Resources []string
	// Jobs are kept in declaration order, which is also the scheduling order.
	Jobs []*Job
}

// Job is the format-agnostic representation of a `job` block.
type Job struct {
	Name      string
	Command   Command
	DependsOn []string
	Resources []string
	Env       map[string]string
	Dir       string
	// Source is a human readable location of the definition, e.g. "jobs.hcl:12".
	Source string
}

// Command is either a shell string or an argv list, never both.
type Command struct {
	Shell string
	Argv  []string
}

// IsZero reports whether no command was given.
func (c Command) IsZero() bool {
	return c.Shell == "" && len(c.Argv) == 0
}

// Args returns the argv that runs the command. Shell commands are passed to
// the given shell with "-c".
func (c Command) Args(shell string) []string {
	if len(c.Argv) > 0 {
		return append([]string(nil), c.Argv...)
	}
	if shell == "" {
		shell = DefaultShell
	}
	return []string{shell, "-c", c.Shell}
}

// String renders the command for logs.
func (c Command) String() string {
	if len(c.Argv) > 0 {
		quoted := make([]string, len(c.Argv))
		for i, a := range c.Argv {
			quoted[i] = fmt.Sprintf("%q", a)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	}
	return c.Shell
}

// EffectiveConcurrency returns the configured limit or DefaultConcurrency.
func (m *Model) EffectiveConcurrency() int {
	if m == nil || m.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return m.Concurrency
}
