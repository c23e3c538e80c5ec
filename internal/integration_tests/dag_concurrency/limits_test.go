package integration_tests

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/jobgrid/internal/testutil"
)

// TestDagConcurrency_LimitIsRespected runs many independent jobs and checks
// that the concurrency setting caps them.
func TestDagConcurrency_LimitIsRespected(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("settings {\n  concurrency = 3\n}\n")
	for i := range 12 {
		fmt.Fprintf(&sb, "job \"j%02d\" {\n  command = \"j%02d\"\n}\n", i, i)
	}

	spawner := testutil.NewFakeSpawner().Default(testutil.Behavior{Sleep: 20 * time.Millisecond})
	result := runWithSpawner(t, map[string]string{"main.hcl": sb.String()}, spawner, 0)

	require.NoError(t, result.Err)
	assert.Len(t, spawner.Started(), 12)
	assert.LessOrEqual(t, spawner.MaxConcurrent(), 3)
	assert.Equal(t, 3, spawner.MaxConcurrent(), "independent jobs fill every slot")
}

// TestDagConcurrency_SharedResource checks that jobs holding the same
// resource never overlap even with free slots.
func TestDagConcurrency_SharedResource(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
			resource "db" {}
			resource "cache" {}

			job "x" {
			  command   = "x"
			  resources = ["db"]
			}
			job "y" {
			  command   = "y"
			  resources = ["cache", "db"]
			}
			job "z" {
			  command   = "z"
			  resources = ["cache"]
			}
		`,
	}

	spawner := testutil.NewFakeSpawner().Default(testutil.Behavior{Sleep: 50 * time.Millisecond})
	result := runWithSpawner(t, files, spawner, 4)
	require.NoError(t, result.Err)

	x, _ := spawner.Record("x")
	y, _ := spawner.Record("y")
	z, _ := spawner.Record("z")
	assert.False(t, x.Overlaps(y), "x and y share db")
	assert.False(t, y.Overlaps(z), "y and z share cache")

	report := result.App.Report()
	require.NotNil(t, report)
	var waited time.Duration
	for _, name := range []string{"x", "y", "z"} {
		waited += testutil.JobReport(t, report, name).LockWait
	}
	assert.Positive(t, waited, "at least one job waited for a resource")
}
