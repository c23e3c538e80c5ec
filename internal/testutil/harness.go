package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/jobgrid/internal/app"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Stdout    string
	Err       error
	App       *app.App
}

// HarnessOptions tweak a harness run. The zero value runs real processes
// with the concurrency from the configuration.
type HarnessOptions struct {
	Concurrency int
	DryRun      bool
	AppOptions  []app.Option
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, opts HarnessOptions) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, opts)
}

// RunIntegrationTestWithContext writes files into a temporary directory and
// runs the whole application against it.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, opts HarnessOptions) *HarnessResult {
	t.Helper()

	tmpDir := WriteFiles(t, files)

	cfg, err := app.NewConfig(app.Config{
		ConfigPath:  tmpDir,
		Concurrency: opts.Concurrency,
		LogLevel:    "debug",
		LogFormat:   "text",
		DryRun:      opts.DryRun,
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	stdout := &SafeBuffer{}
	appOpts := append([]app.Option{app.WithJobOutput(stdout, stdout)}, opts.AppOptions...)

	testApp := app.NewApp(logBuffer, cfg, appOpts...)
	t.Cleanup(func() { _ = testApp.Close() })

	runErr := testApp.Run(ctx)

	if os.Getenv("JOBGRID_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Stdout:    stdout.String(),
		Err:       runErr,
		App:       testApp,
	}
}

// WriteFiles creates each file, keyed by its slash-separated relative path,
// under a fresh temporary directory and returns that directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}
