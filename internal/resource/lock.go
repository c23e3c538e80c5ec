package resource

import "sort"

// Ordered returns the distinct resources sorted by name, which is the order
// Lock acquires them in.
func Ordered(resources []*Resource) []*Resource {
	seen := make(map[*Resource]struct{}, len(resources))
	ordered := make([]*Resource, 0, len(resources))
	for _, res := range resources {
		if res == nil {
			continue
		}
		if _, dup := seen[res]; dup {
			continue
		}
		seen[res] = struct{}{}
		ordered = append(ordered, res)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].name < ordered[j].name
	})
	return ordered
}

// Lock blocks until every given resource is held and returns the function
// that releases them in reverse acquisition order. The returned function is
// safe to call more than once; only the first call unlocks.
func Lock(resources []*Resource) (unlock func()) {
	ordered := Ordered(resources)
	for _, res := range ordered {
		res.mu.Lock()
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		for i := len(ordered) - 1; i >= 0; i-- {
			ordered[i].mu.Unlock()
		}
	}
}
