package hcl

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/jobgrid/internal/config"
	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/vk/jobgrid/internal/fsutil"
)

// ErrNoFiles is returned when the given paths contain no .hcl file.
var ErrNoFiles = errors.New("no .hcl files found")

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under the given paths, in lexical order, and
// merges them into one model. Every returned error wraps
// config.ErrInvalidConfig.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFilesByExtension(".hcl", paths...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %w in %v", config.ErrInvalidConfig, ErrNoFiles, paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := &config.Model{}
	parser := hclparse.NewParser()
	settingsSeen := ""
	declared := make(map[string]struct{})

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("%w: failed to parse HCL file %s: %w", config.ErrInvalidConfig, file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("%w: failed to decode HCL file %s: %w", config.ErrInvalidConfig, file, diags)
		}

		for _, s := range root.Settings {
			if settingsSeen != "" {
				return nil, fmt.Errorf("%w: duplicate settings block in %s, first defined in %s", config.ErrInvalidConfig, file, settingsSeen)
			}
			settingsSeen = file
			l.translateSettings(s, model)
		}
		for _, r := range root.Resources {
			if _, dup := declared[r.Name]; dup {
				logger.Warn("Resource declared more than once.", "resource", r.Name, "file", file)
				continue
			}
			declared[r.Name] = struct{}{}
			model.Resources = append(model.Resources, r.Name)
		}
		for _, j := range root.Jobs {
			job, err := l.translateJob(ctx, j)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", config.ErrInvalidConfig, file, err)
			}
			model.Jobs = append(model.Jobs, job)
		}
	}

	logger.Debug("HCL loading complete.",
		"files", len(files),
		"jobs", len(model.Jobs),
		"resources", len(model.Resources),
		"concurrency", model.Concurrency,
	)
	return model, nil
}

func (l *Loader) translateSettings(s *settingsBlock, model *config.Model) {
	if s.Concurrency != nil {
		model.Concurrency = *s.Concurrency
	}
	if s.MaxJobs != nil {
		model.MaxJobs = *s.MaxJobs
	}
	if s.Shell != nil {
		model.Shell = *s.Shell
	}
}

func (l *Loader) translateJob(ctx context.Context, j *jobBlock) (*config.Job, error) {
	cmd, err := decodeCommand(ctx, j.Command)
	if err != nil {
		return nil, fmt.Errorf("job %q: %w", j.Name, err)
	}
	return &config.Job{
		Name:      j.Name,
		Command:   cmd,
		DependsOn: j.DependsOn,
		Resources: j.Resources,
		Env:       j.Env,
		Dir:       j.Dir,
		Source:    sourceOf(j.DefRange),
	}, nil
}

// sourceOf renders where a block was defined, e.g. "jobs.hcl:12".
func sourceOf(r hcl.Range) string {
	if r.Filename == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", r.Filename, r.Start.Line)
}
