package process

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestExec_Spawn(t *testing.T) {
	skipOnWindows(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		exit := Exec{}.Spawn(ctx, Spec{Args: []string{"/bin/sh", "-c", "exit 0"}})
		assert.True(t, exit.Success())
		assert.True(t, exit.Started)
		assert.Equal(t, 0, exit.Code)
	})

	t.Run("non-zero exit", func(t *testing.T) {
		exit := Exec{}.Spawn(ctx, Spec{Args: []string{"/bin/sh", "-c", "exit 7"}})
		assert.False(t, exit.Success())
		assert.Equal(t, 7, exit.Code)
		assert.False(t, exit.Signaled)
		assert.NoError(t, exit.Err)
	})

	t.Run("signal", func(t *testing.T) {
		exit := Exec{}.Spawn(ctx, Spec{Args: []string{"/bin/sh", "-c", "kill -KILL $$"}})
		assert.False(t, exit.Success())
		assert.True(t, exit.Signaled)
		assert.Equal(t, "killed", exit.Signal)
		assert.Equal(t, -1, exit.Code)
	})

	t.Run("spawn failure", func(t *testing.T) {
		exit := Exec{}.Spawn(ctx, Spec{Args: []string{"/definitely/not/a/binary"}})
		require.Error(t, exit.Err)
		assert.False(t, exit.Started)
		assert.False(t, exit.Success())
		assert.Equal(t, -1, exit.Code)
	})

	t.Run("output write failure after start", func(t *testing.T) {
		exit := Exec{}.Spawn(ctx, Spec{
			Args:   []string{"/bin/sh", "-c", "echo hello"},
			Stdout: failingWriter{},
		})
		require.ErrorIs(t, exit.Err, errWriteFailed)
		assert.True(t, exit.Started, "the process ran")
		assert.False(t, exit.Signaled)
		assert.False(t, exit.Success())
	})

	t.Run("empty argv", func(t *testing.T) {
		exit := Exec{}.Spawn(ctx, Spec{})
		require.ErrorIs(t, exit.Err, ErrEmptyCommand)
	})

	t.Run("env, dir and output", func(t *testing.T) {
		dir := t.TempDir()
		var stdout, stderr bytes.Buffer
		exit := Exec{}.Spawn(ctx, Spec{
			Args:   []string{"/bin/sh", "-c", `echo "$STAGE:$(pwd)"; echo oops >&2`},
			Env:    map[string]string{"STAGE": "ci"},
			Dir:    dir,
			Stdout: &stdout,
			Stderr: &stderr,
		})
		require.True(t, exit.Success())
		assert.Contains(t, stdout.String(), "ci:")
		assert.Equal(t, "oops\n", stderr.String())
	})

	t.Run("argv is passed without a shell", func(t *testing.T) {
		var stdout bytes.Buffer
		exit := Exec{}.Spawn(ctx, Spec{Args: []string{"echo", "$HOME; exit 3"}, Stdout: &stdout})
		require.True(t, exit.Success())
		assert.Equal(t, "$HOME; exit 3\n", stdout.String())
	})

	t.Run("cancelled context does not stop a started process", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		exit := Exec{}.Spawn(cctx, Spec{Args: []string{"/bin/sh", "-c", "exit 0"}})
		assert.True(t, exit.Success())
	})
}

var errWriteFailed = errors.New("disk full")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errWriteFailed }

func TestEnvList(t *testing.T) {
	assert.Equal(t, []string{"A=1", "B=2"}, envList(map[string]string{"B": "2", "A": "1"}))
}
