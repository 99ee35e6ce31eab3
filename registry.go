package eagerload

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds edge descriptors keyed by (entity label, edge name).
// Applications typically build one at startup, registering every declared
// edge, and use it to walk an entity's edges independent of any concrete
// query language.
type Registry struct {
	mu    sync.RWMutex
	edges map[registryKey]Edge
}

type registryKey struct {
	entity string
	edge   string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{edges: make(map[registryKey]Edge)}
}

// Register adds an edge descriptor under the given entity label.
// Registering the same (entity, edge-name) pair twice is an error.
func (r *Registry) Register(entity string, e Edge) error {
	k := registryKey{entity: entity, edge: e.Name()}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.edges[k]; ok {
		return fmt.Errorf("eagerload: edge %q already registered for entity %q", e.Name(), entity)
	}
	r.edges[k] = e
	return nil
}

// MustRegister is like Register but panics on a duplicate registration.
// Intended for startup wiring.
func (r *Registry) MustRegister(entity string, e Edge) {
	if err := r.Register(entity, e); err != nil {
		panic(err)
	}
}

// Lookup returns the edge descriptor registered for the entity under the
// given edge name.
func (r *Registry) Lookup(entity, name string) (Edge, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.edges[registryKey{entity: entity, edge: name}]
	return e, ok
}

// Edges returns all edge descriptors registered for the entity, sorted by
// edge name.
func (r *Registry) Edges(entity string) []Edge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Edge
	for k, e := range r.edges {
		if k.entity == entity {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// EdgeAs looks up an edge and asserts it to the concrete descriptor type,
// e.g. a *ManyEdge with the caller's parent, child and key types:
//
//	posts, err := eagerload.EdgeAs[*eagerload.ManyEdge[*User, *Post, int]](reg, "User", "posts")
func EdgeAs[E Edge](r *Registry, entity, name string) (E, error) {
	var zero E
	e, ok := r.Lookup(entity, name)
	if !ok {
		return zero, fmt.Errorf("eagerload: no edge %q registered for entity %q", name, entity)
	}
	te, ok := e.(E)
	if !ok {
		return zero, fmt.Errorf("eagerload: edge %q of entity %q is a %s edge of type %T", name, entity, e.Kind(), e)
	}
	return te, nil
}
