package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/jobgrid/internal/app"
	"github.com/vk/jobgrid/internal/testutil"
)

// runWithSpawner runs the files with a fake spawner so timing can be
// controlled without real processes.
func runWithSpawner(t *testing.T, files map[string]string, spawner *testutil.FakeSpawner, concurrency int) *testutil.HarnessResult {
	t.Helper()
	result := testutil.RunIntegrationTest(t, files, testutil.HarnessOptions{
		Concurrency: concurrency,
		AppOptions:  []app.Option{app.WithSpawner(spawner)},
	})
	require.NotNil(t, result.App)
	return result
}
