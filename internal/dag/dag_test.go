package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/jobgrid/internal/config"
)

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", Status(42).String())

	assert.False(t, Running.Terminal())
	assert.True(t, Succeeded.Terminal())
	assert.True(t, Failed.Terminal())
}

func TestJob_Lifecycle(t *testing.T) {
	g := mustBuild(t, &config.Model{Jobs: []*config.Job{job("a"), job("b", "a")}})
	a, _ := g.Job("a")
	b, _ := g.Job("b")

	t.Run("happy path", func(t *testing.T) {
		require.NoError(t, a.MarkReady())
		require.NoError(t, a.MarkRunning())
		require.NoError(t, a.MarkFinished(true))
		assert.Equal(t, Succeeded, a.Status())

		left, err := b.DependencySucceeded()
		require.NoError(t, err)
		assert.Equal(t, 0, left)
		require.NoError(t, b.MarkReady())
		require.NoError(t, b.MarkRunning())
		require.NoError(t, b.MarkFinished(false))
		assert.Equal(t, Failed, b.Status())
	})

	t.Run("no backward or repeated transitions", func(t *testing.T) {
		require.ErrorIs(t, a.MarkReady(), ErrInvalidTransition)
		require.ErrorIs(t, a.MarkRunning(), ErrInvalidTransition)
		require.ErrorIs(t, a.MarkFinished(false), ErrInvalidTransition)

		_, err := b.DependencySucceeded()
		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("reset restores the built state", func(t *testing.T) {
		g.Reset()
		assert.Equal(t, Pending, a.Status())
		assert.Equal(t, Pending, b.Status())
		assert.Equal(t, 1, b.Remaining())
	})

	t.Run("pending job with unmet dependencies cannot become ready", func(t *testing.T) {
		err := b.MarkReady()
		require.ErrorIs(t, err, ErrInvalidTransition)
		assert.ErrorContains(t, err, "waits for 1")
	})

	t.Run("pending job cannot skip ready", func(t *testing.T) {
		require.ErrorIs(t, a.MarkRunning(), ErrInvalidTransition)
	})
}

func TestGraph_EntryPointsAndSinks(t *testing.T) {
	g := mustBuild(t, &config.Model{Jobs: []*config.Job{
		job("fetch"),
		job("lint"),
		job("build", "fetch"),
		job("test", "build"),
		job("docs", "fetch"),
	}})

	assert.Equal(t, []string{"fetch", "lint"}, names(g.EntryPoints()))
	assert.Equal(t, []string{"lint", "test", "docs"}, names(g.Sinks()))
	assert.Equal(t, 5, g.Len())

	_, ok := g.Job("missing")
	assert.False(t, ok)
}
