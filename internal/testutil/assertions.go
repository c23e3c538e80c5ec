package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/jobgrid/internal/scheduler"
)

// JobReport returns the report entry of a job, failing the test when the
// job is not part of the report.
func JobReport(t *testing.T, report *scheduler.Report, name string) scheduler.JobReport {
	t.Helper()
	require.NotNil(t, report, "no run report")
	jr, ok := report.Job(name)
	require.True(t, ok, "job %q is not in the report", name)
	return jr
}
