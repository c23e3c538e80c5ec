package resource

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownResource is returned for a name outside a restricted registry.
var ErrUnknownResource = errors.New("unknown resource")

// Resource is a named mutual-exclusion token.
type Resource struct {
	name string
	mu   sync.Mutex
	// refs counts job references. Diagnostic only.
	refs int
}

// Name returns the resource name.
func (r *Resource) Name() string {
	return r.name
}

// Refs returns how many times the resource was referenced while building
// the graph.
func (r *Resource) Refs() int {
	return r.refs
}

// Registry maps names to resources. All methods are safe for concurrent use.
type Registry struct {
	mu         sync.Mutex
	resources  map[string]*Resource
	restricted bool
}

// NewRegistry creates a registry. Passing declared names pre-registers them
// and restricts the registry to exactly that set.
func NewRegistry(declared ...string) *Registry {
	r := &Registry{
		resources:  make(map[string]*Resource),
		restricted: len(declared) > 0,
	}
	for _, name := range declared {
		if _, ok := r.resources[name]; !ok {
			r.resources[name] = &Resource{name: name}
		}
	}
	return r
}

// Restricted reports whether only declared names resolve.
func (r *Registry) Restricted() bool {
	return r.restricted
}

// GetOrCreate returns the resource with the given name, creating it when the
// registry is not restricted. Every successful call counts as one reference.
func (r *Registry) GetOrCreate(name string) (*Resource, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownResource)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.resources[name]
	if !ok {
		if r.restricted {
			return nil, fmt.Errorf("%w: %q is not declared", ErrUnknownResource, name)
		}
		res = &Resource{name: name}
		r.resources[name] = res
	}
	res.refs++
	return res, nil
}

// Get returns a registered resource without creating or counting it.
func (r *Registry) Get(name string) (*Resource, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resources[name]
	return res, ok
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.resources))
	for name := range r.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered resources.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.resources)
}
