package providers

import (
	"fmt"
	"sort"
)

// Registry holds the providers available to one application instance. It is
// constructed once by the entry point and passed to every component that
// needs provider lookup; there is no package-level registry.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry builds a registry from the given providers. A duplicate name
// is a wiring mistake and fails immediately.
func NewRegistry(providers ...Provider) (*Registry, error) {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		if _, ok := r.providers[p.Name()]; ok {
			return nil, fmt.Errorf("duplicate provider %q", p.Name())
		}
		r.providers[p.Name()] = p
	}
	return r, nil
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", name)
	}
	return p, nil
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
