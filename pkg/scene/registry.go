package scene

import (
	"sort"

	"github.com/vango-dev/fiber/pkg/vdom"
)

// Registry maps component names to components.
type Registry struct {
	components map[string]*vdom.Component
}

// NewRegistry returns a registry holding components.
func NewRegistry(components ...*vdom.Component) *Registry {
	r := &Registry{components: make(map[string]*vdom.Component)}
	for _, c := range components {
		r.Register(c)
	}
	return r
}

// Builtins returns a registry of the built-in Counter, List and Toggle
// components.
func Builtins() *Registry {
	return NewRegistry(Counter, List, Toggle)
}

// Register adds c under c.Name, replacing any component of the same name.
func (r *Registry) Register(c *vdom.Component) {
	r.components[c.Name] = c
}

// Lookup returns the component registered under name.
func (r *Registry) Lookup(name string) (*vdom.Component, bool) {
	c, ok := r.components[name]
	return c, ok
}

// Names returns the registered names in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
