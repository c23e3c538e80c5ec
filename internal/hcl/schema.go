package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot lists every top-level block a job file may contain.
type fileRoot struct {
	Settings  []*settingsBlock `hcl:"settings,block"`
	Resources []*resourceBlock `hcl:"resource,block"`
	Jobs      []*jobBlock      `hcl:"job,block"`
}

// settingsBlock maps `settings { ... }`. Pointers distinguish an omitted
// attribute from a zero value.
type settingsBlock struct {
	Concurrency *int    `hcl:"concurrency,optional"`
	MaxJobs     *int    `hcl:"max_jobs,optional"`
	Shell       *string `hcl:"shell,optional"`
}

// resourceBlock maps `resource "name" {}`.
type resourceBlock struct {
	Name string `hcl:"name,label"`
}

// jobBlock maps `job "name" { ... }`. The command is kept as an expression
// because it may be a string or a list of strings.
type jobBlock struct {
	Name      string            `hcl:"name,label"`
	Command   hcl.Expression    `hcl:"command"`
	DependsOn []string          `hcl:"depends_on,optional"`
	Resources []string          `hcl:"resources,optional"`
	Env       map[string]string `hcl:"env,optional"`
	Dir       string            `hcl:"dir,optional"`

	DefRange hcl.Range `hcl:",def_range"`
}
