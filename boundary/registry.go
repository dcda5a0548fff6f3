package boundary

import (
	"fmt"
	"sync"
)

// Registry is a mutable name-to-constructor table. The process-wide host
// registry acts as the default parent scope of every loader; shared-API
// constructors registered there keep a single identity across all provider
// boundaries.
type Registry struct {
	mu    sync.RWMutex
	table map[string]Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{table: make(map[string]Constructor)}
}

var hostRegistry = NewRegistry()

// Host returns the process-wide host registry.
func Host() *Registry { return hostRegistry }

// Register adds a constructor under the given type name. Registering a name
// twice is an error.
func (r *Registry) Register(name string, ctor Constructor) error {
	if name == "" {
		return fmt.Errorf("boundary: type name must not be empty")
	}
	if ctor == nil {
		return fmt.Errorf("boundary: constructor for %s must not be nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.table[name]; exists {
		return fmt.Errorf("boundary: %s already registered", name)
	}
	r.table[name] = ctor
	return nil
}

// Lookup implements Resolver.
func (r *Registry) Lookup(name string) (Constructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if ctor, ok := r.table[name]; ok {
		return ctor, nil
	}
	return nil, fmt.Errorf("boundary: %s: %w", name, ErrNotFound)
}

func (r *Registry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.table)
}
