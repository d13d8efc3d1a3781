package restapi

import (
	"fmt"

	"github.com/go-chi/chi/v5"
)

// Resource is a mountable collection endpoint.
type Resource interface {
	Name() string
	Routes() chi.Router
}

// Registry is the ordered list of resources served under /api/. The
// router and the API directory both read it, so they cannot drift apart.
type Registry struct {
	resources []Resource
}

// NewRegistry registers res in order.
func NewRegistry(res ...Resource) (*Registry, error) {
	reg := &Registry{}
	for _, r := range res {
		if err := reg.Register(r); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Register appends res. Names must be non-empty and unique.
func (g *Registry) Register(res Resource) error {
	name := res.Name()
	if name == "" {
		return fmt.Errorf("restapi: resource with empty name")
	}
	for _, r := range g.resources {
		if r.Name() == name {
			return fmt.Errorf("restapi: resource %q already registered", name)
		}
	}
	g.resources = append(g.resources, res)
	return nil
}

// Names returns resource names in registration order.
func (g *Registry) Names() []string {
	names := make([]string, 0, len(g.resources))
	for _, r := range g.resources {
		names = append(names, r.Name())
	}
	return names
}

// Mount attaches every resource at /<name> on r.
func (g *Registry) Mount(r chi.Router) {
	for _, res := range g.resources {
		r.Mount("/"+res.Name(), res.Routes())
	}
}
