package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandArgs(t *testing.T) {
	t.Run("shell command uses the default shell", func(t *testing.T) {
		c := Command{Shell: "echo hi && exit 3"}
		assert.Equal(t, []string{"/bin/sh", "-c", "echo hi && exit 3"}, c.Args(""))
	})

	t.Run("shell command uses a custom shell", func(t *testing.T) {
		c := Command{Shell: "echo hi"}
		assert.Equal(t, []string{"/bin/bash", "-c", "echo hi"}, c.Args("/bin/bash"))
	})

	t.Run("argv is returned as a copy", func(t *testing.T) {
		c := Command{Argv: []string{"go", "test"}}
		args := c.Args("/bin/sh")
		assert.Equal(t, []string{"go", "test"}, args)
		args[0] = "mutated"
		assert.Equal(t, "go", c.Argv[0])
	})
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "make all", Command{Shell: "make all"}.String())
	assert.Equal(t, `["go", "test ./..."]`, Command{Argv: []string{"go", "test ./..."}}.String())
	assert.True(t, Command{}.IsZero())
	assert.False(t, Command{Argv: []string{"true"}}.IsZero())
}

func TestEffectiveConcurrency(t *testing.T) {
	var nilModel *Model
	assert.Equal(t, DefaultConcurrency, nilModel.EffectiveConcurrency())
	assert.Equal(t, DefaultConcurrency, (&Model{Concurrency: 0}).EffectiveConcurrency())
	assert.Equal(t, DefaultConcurrency, (&Model{Concurrency: -2}).EffectiveConcurrency())
	assert.Equal(t, 7, (&Model{Concurrency: 7}).EffectiveConcurrency())
}
