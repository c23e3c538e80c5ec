package cli

import (
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vk/jobgrid/internal/app"
)

// Version is reported by --version. It is set through ldflags at build time.
var Version = "dev"

// UsageCode is the exit code for invalid command lines.
const UsageCode = 2

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: UsageCode, Message: err.Error()}
}

// NewRootCommand returns the jobgrid command. When it runs, the validated
// configuration is handed to onConfig.
func NewRootCommand(output io.Writer, onConfig func(*app.Config)) *cobra.Command {
	var flags app.Config

	cmd := &cobra.Command{
		Use:   "jobgrid [flags] CONFIG_PATH",
		Short: "jobgrid - run a graph of shell jobs with bounded concurrency",
		Long: `jobgrid runs the jobs declared in HCL files, respecting their dependencies
and the exclusive resources they hold. CONFIG_PATH is a single .hcl file or
a directory containing .hcl files.`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				slog.Debug("No config path provided, printing usage and exiting.")
				return cmd.Help()
			}
			flags.ConfigPath = args[0]

			cfg, err := app.NewConfig(flags)
			if err != nil {
				return &ExitError{Code: UsageCode, Message: err.Error()}
			}
			onConfig(cfg)
			return nil
		},
	}
	cmd.SetOut(output)
	cmd.SetErr(output)

	f := cmd.Flags()
	f.IntVarP(&flags.Concurrency, "concurrency", "c", 0, "Maximum number of jobs running at once. 0 uses settings.concurrency.")
	f.StringVar(&flags.LogLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	f.StringVar(&flags.LogFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	f.IntVar(&flags.HealthcheckPort, "healthcheck-port", 0, "Port serving /health and /metrics. 0 is disabled.")
	f.StringVar(&flags.EventsURL, "events-url", "", "Stream lifecycle events to amqp://, amqps://, http(s)://, ws(s):// or file:// URLs.")
	f.BoolVar(&flags.DryRun, "dry-run", false, "Load and validate the configuration, print the plan, and run nothing.")
	return cmd
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var cfg *app.Config
	cmd := NewRootCommand(output, func(c *app.Config) { cfg = c })
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		return nil, false, usageError(err)
	}
	if cfg == nil {
		// Help or version was printed.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}
