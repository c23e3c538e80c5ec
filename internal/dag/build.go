package dag

import (
	"context"
	"fmt"
	"maps"

	"github.com/vk/jobgrid/internal/config"
	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/vk/jobgrid/internal/resource"
)

// Build constructs the job graph from a config model. It resolves names into
// references but does not check the graph's shape; call Validate for that.
func Build(ctx context.Context, model *config.Model) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")

	if model == nil {
		model = &config.Model{}
	}
	if model.MaxJobs > 0 && len(model.Jobs) > model.MaxJobs {
		return nil, &GraphError{
			Kind: ErrTooManyJobs,
			Msg:  fmt.Sprintf("%d jobs defined, limit is %d", len(model.Jobs), model.MaxJobs),
		}
	}

	graph := &Graph{
		Jobs:        make([]*Job, 0, len(model.Jobs)),
		Concurrency: model.EffectiveConcurrency(),
		Shell:       model.Shell,
		Resources:   resource.NewRegistry(model.Resources...),
		byName:      make(map[string]*Job, len(model.Jobs)),
	}
	if graph.Shell == "" {
		graph.Shell = config.DefaultShell
	}

	// First pass: create all jobs so dependencies can point forward.
	if err := createJobs(model.Jobs, graph); err != nil {
		return nil, err
	}
	logger.Debug("Build: Job creation complete.", "job_count", len(graph.Jobs))

	// Second pass: link dependencies and resources.
	for i, spec := range model.Jobs {
		if err := linkJob(spec, graph.Jobs[i], graph); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: Job linking complete.", "resource_count", graph.Resources.Len())

	// Third pass: initialize counters.
	for _, j := range graph.Jobs {
		j.Reset()
	}
	logger.Debug("Build: Counter initialization complete.")

	return graph, nil
}

// createJobs performs the first pass of graph creation.
func createJobs(specs []*config.Job, graph *Graph) error {
	for i, spec := range specs {
		if spec == nil {
			return &GraphError{Kind: ErrInvalidJob, Msg: fmt.Sprintf("job #%d is empty", i)}
		}
		ref := jobRef{name: spec.Name, source: spec.Source}
		if spec.Name == "" {
			return jobError(ErrInvalidJob, ref, fmt.Sprintf("job #%d has no name", i))
		}
		if spec.Command.IsZero() {
			return jobError(ErrInvalidJob, ref, "command is empty")
		}
		if prev, exists := graph.byName[spec.Name]; exists {
			return jobError(ErrDuplicateJob, ref, "first defined at "+sourceOrIndex(prev))
		}

		j := &Job{
			Name:    spec.Name,
			Index:   i,
			Command: spec.Command,
			Env:     maps.Clone(spec.Env),
			Dir:     spec.Dir,
			Source:  spec.Source,
		}
		graph.Jobs = append(graph.Jobs, j)
		graph.byName[j.Name] = j
	}
	return nil
}

// linkJob resolves the dependency and resource names of one job.
func linkJob(spec *config.Job, j *Job, graph *Graph) error {
	ref := jobRef{name: spec.Name, source: spec.Source}

	seenDeps := make(map[string]struct{}, len(spec.DependsOn))
	for _, depName := range spec.DependsOn {
		if _, dup := seenDeps[depName]; dup {
			continue
		}
		seenDeps[depName] = struct{}{}

		dep, ok := graph.byName[depName]
		if !ok {
			return jobError(ErrUnresolvedDependency, ref, fmt.Sprintf("depends on unknown job %q", depName))
		}
		j.Dependencies = append(j.Dependencies, dep)
		dep.Successors = append(dep.Successors, j)
	}

	seenRes := make(map[string]struct{}, len(spec.Resources))
	for _, resName := range spec.Resources {
		if _, dup := seenRes[resName]; dup {
			continue
		}
		seenRes[resName] = struct{}{}

		res, err := graph.Resources.GetOrCreate(resName)
		if err != nil {
			ge := jobError(ErrUnknownResource, ref, fmt.Sprintf("references resource %q", resName))
			ge.Err = err
			return ge
		}
		j.Resources = append(j.Resources, res)
	}
	return nil
}

func sourceOrIndex(j *Job) string {
	if j.Source != "" {
		return j.Source
	}
	return fmt.Sprintf("job #%d", j.Index)
}
