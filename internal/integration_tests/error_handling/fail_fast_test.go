package integration_tests

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/jobgrid/internal/app"
	"github.com/vk/jobgrid/internal/dag"
	"github.com/vk/jobgrid/internal/executor"
	"github.com/vk/jobgrid/internal/process"
	"github.com/vk/jobgrid/internal/scheduler"
	"github.com/vk/jobgrid/internal/testutil"
)

// TestErrorHandling_FailureWithIndependentJob fails a while an unrelated job
// is running; the running job completes and b never starts.
func TestErrorHandling_FailureWithIndependentJob(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
			job "a" {
			  command = "a"
			}
			job "b" {
			  command    = "b"
			  depends_on = ["a"]
			}
			job "c" {
			  command = "c"
			}
		`,
	}
	spawner := testutil.NewFakeSpawner().
		On("a", testutil.Behavior{Sleep: 10 * time.Millisecond, Exit: process.Exit{Code: 1}}).
		On("c", testutil.Behavior{Sleep: 100 * time.Millisecond})

	result := testutil.RunIntegrationTest(t, files, testutil.HarnessOptions{
		Concurrency: 2,
		AppOptions:  []app.Option{app.WithSpawner(spawner)},
	})

	require.Error(t, result.Err)
	assert.ErrorIs(t, result.Err, scheduler.ErrRunFailed)

	var exitErr *executor.ExitError
	require.True(t, errors.As(result.Err, &exitErr))
	assert.Equal(t, "a", exitErr.Job)
	assert.Equal(t, 1, exitErr.Code)

	report := result.App.Report()
	require.NotNil(t, report)
	assert.True(t, report.Aborted)
	assert.Equal(t, dag.Failed, testutil.JobReport(t, report, "a").Status)
	assert.Equal(t, dag.Pending, testutil.JobReport(t, report, "b").Status)
	assert.Equal(t, dag.Succeeded, testutil.JobReport(t, report, "c").Status)
	assert.False(t, spawner.Ran("b"))
}

// TestErrorHandling_RealProcessFailures covers exit codes and spawn failures
// of real processes.
func TestErrorHandling_RealProcessFailures(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}

	t.Run("non-zero exit", func(t *testing.T) {
		t.Parallel()
		result := testutil.RunIntegrationTest(t, map[string]string{
			"main.hcl": `
				job "fail" {
				  command = "exit 7"
				}
			`,
		}, testutil.HarnessOptions{})

		require.Error(t, result.Err)
		var exitErr *executor.ExitError
		require.True(t, errors.As(result.Err, &exitErr))
		assert.Equal(t, 7, exitErr.Code)
		assert.Equal(t, 7, testutil.JobReport(t, result.App.Report(), "fail").ExitCode)
	})

	t.Run("program not found", func(t *testing.T) {
		t.Parallel()
		result := testutil.RunIntegrationTest(t, map[string]string{
			"main.hcl": `
				job "missing" {
				  command = ["/definitely/not/a/program"]
				}
			`,
		}, testutil.HarnessOptions{})

		require.Error(t, result.Err)
		var spawnErr *executor.SpawnError
		require.True(t, errors.As(result.Err, &spawnErr))
		assert.Equal(t, "missing", spawnErr.Job)
	})
}
