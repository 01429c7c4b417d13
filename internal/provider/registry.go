package provider

import (
	"fmt"
	"sync"
)

// Registry maps provider ids to adapter factories. Registration order is
// preserved; fan-out and merge operate in that order.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	order     []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under the given id. Registering the same id twice
// is an error.
func (r *Registry) Register(id string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[id]; exists {
		return fmt.Errorf("provider %q already registered", id)
	}
	r.factories[id] = f
	r.order = append(r.order, id)
	return nil
}

// New constructs an adapter for the given id.
func (r *Registry) New(id string, cfg Config) (Provider, error) {
	r.mu.RLock()
	f, ok := r.factories[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown provider %q", id)
	}
	return f(cfg)
}

// IDs returns registered provider ids in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}
