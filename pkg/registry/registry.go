package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/aretw0/morenodes/pkg/ports"
)

// Registry manages the available node types.
type Registry struct {
	mu    sync.RWMutex
	types map[string]ports.NodeType
}

// NewRegistry creates a registry holding the given node types.
func NewRegistry(types ...ports.NodeType) *Registry {
	r := &Registry{
		types: make(map[string]ports.NodeType),
	}
	for _, t := range types {
		r.Register(t)
	}
	return r
}

// Register adds a node type under its definition name.
// If a type with the same name exists, it is overwritten.
func (r *Registry) Register(t ports.NodeType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t.Definition().Name] = t
}

// Get looks up a node type by name.
// Returns domain.ErrNodeTypeNotFound if it is not registered.
func (r *Registry) Get(name string) (ports.NodeType, error) {
	r.mu.RLock()
	t, ok := r.types[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNodeTypeNotFound, name)
	}
	return t, nil
}

// Definitions returns the definitions of all registered types, sorted by name.
func (r *Registry) Definitions() []domain.NodeDefinition {
	r.mu.RLock()
	defs := make([]domain.NodeDefinition, 0, len(r.types))
	for _, t := range r.types {
		defs = append(defs, t.Definition())
	}
	r.mu.RUnlock()

	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}
