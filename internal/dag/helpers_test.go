package dag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/jobgrid/internal/config"
)

// job is a compact way to declare a job spec in tests.
func job(name string, deps ...string) *config.Job {
	return &config.Job{
		Name:      name,
		Command:   config.Command{Shell: "true"},
		DependsOn: deps,
	}
}

func withResources(j *config.Job, names ...string) *config.Job {
	j.Resources = names
	return j
}

func mustBuild(t *testing.T, model *config.Model) *Graph {
	t.Helper()
	g, err := Build(context.Background(), model)
	require.NoError(t, err)
	return g
}

func names(jobs []*Job) []string {
	return jobNames(jobs)
}
