package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/jobgrid/internal/app"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		want *app.Config
	}{
		{
			name: "defaults",
			args: []string{"jobs.hcl"},
			want: &app.Config{ConfigPath: "jobs.hcl", LogLevel: "info", LogFormat: "text"},
		},
		{
			name: "all flags",
			args: []string{
				"-c", "8", "--log-level", "DEBUG", "--log-format", "json",
				"--healthcheck-port", "9090", "--events-url", "amqp://localhost",
				"--dry-run", "dir",
			},
			want: &app.Config{
				ConfigPath:      "dir",
				Concurrency:     8,
				LogLevel:        "debug",
				LogFormat:       "json",
				HealthcheckPort: 9090,
				EventsURL:       "amqp://localhost",
				DryRun:          true,
			},
		},
		{
			name: "long concurrency flag",
			args: []string{"--concurrency=2", "jobs.hcl"},
			want: &app.Config{ConfigPath: "jobs.hcl", Concurrency: 2, LogLevel: "info", LogFormat: "text"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out := &bytes.Buffer{}

			cfg, shouldExit, err := Parse(tc.args, out)

			require.NoError(t, err)
			assert.False(t, shouldExit)
			assert.Equal(t, tc.want, cfg)
		})
	}
}

func TestParse_Help(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{nil, {"-h"}, {"--help"}} {
		out := &bytes.Buffer{}

		cfg, shouldExit, err := Parse(args, out)

		require.NoError(t, err)
		assert.True(t, shouldExit, "args %v", args)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
		assert.Contains(t, out.String(), "--dry-run")
	}
}

func TestParse_Version(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}

	cfg, shouldExit, err := Parse([]string{"--version"}, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), Version)
}

func TestParse_UsageErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "unknown flag", args: []string{"--bogus", "x.hcl"}, wantMsg: "unknown flag: --bogus"},
		{name: "too many paths", args: []string{"a.hcl", "b.hcl"}, wantMsg: "accepts at most 1 arg"},
		{name: "bad log level", args: []string{"--log-level", "loud", "x.hcl"}, wantMsg: "invalid log level"},
		{name: "bad log format", args: []string{"--log-format", "xml", "x.hcl"}, wantMsg: "invalid log format"},
		{name: "negative concurrency", args: []string{"-c", "-1", "x.hcl"}, wantMsg: "concurrency must not be negative"},
		{name: "not a number", args: []string{"-c", "many", "x.hcl"}, wantMsg: "invalid argument"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg, shouldExit, err := Parse(tc.args, &bytes.Buffer{})

			require.Error(t, err)
			assert.False(t, shouldExit)
			assert.Nil(t, cfg)

			exitErr, ok := err.(*ExitError)
			require.True(t, ok, "expected *ExitError, got %T", err)
			assert.Equal(t, UsageCode, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}
