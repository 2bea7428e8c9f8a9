package collector

import (
	"sync"

	"github.com/felixgeelhaar/tenantready/internal/domain"
	"github.com/felixgeelhaar/tenantready/internal/errors"
)

// Registry holds the adapter for each service area. Areas without a
// registered adapter are reported as unassessed, not as run failures.
type Registry struct {
	mu       sync.RWMutex
	adapters map[domain.Area]*Adapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[domain.Area]*Adapter)}
}

// Register adds an adapter. Registering a second adapter for the same
// area is a programming error and fails.
func (r *Registry) Register(adapter *Adapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	area := adapter.Area()
	if _, exists := r.adapters[area]; exists {
		return errors.New(errors.ErrCodeAdapterExists, "adapter for area "+area.String()+" already registered")
	}
	r.adapters[area] = adapter
	return nil
}

// For returns the adapter registered for an area.
func (r *Registry) For(area domain.Area) (*Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[area]
	return adapter, ok
}

// Areas returns the areas with a registered adapter, in canonical order.
func (r *Registry) Areas() []domain.Area {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var areas []domain.Area
	for _, area := range domain.AllAreas() {
		if _, ok := r.adapters[area]; ok {
			areas = append(areas, area)
		}
	}
	return areas
}
