package catalog

import "sync"

// Registry is the set of known block kinds, keyed by id.
// It is safe for concurrent use; Replace swaps the whole set at once.
type Registry struct {
	mu    sync.RWMutex
	order []string
	kinds map[string]BlockKind
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]BlockKind)}
}

// Replace discards the previous kinds and installs kinds.
func (r *Registry) Replace(kinds []BlockKind) {
	m := make(map[string]BlockKind, len(kinds))
	order := make([]string, 0, len(kinds))
	for _, k := range kinds {
		if _, dup := m[k.ID]; !dup {
			order = append(order, k.ID)
		}
		m[k.ID] = k
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = m
	r.order = order
}

// Get returns the kind with the given id.
func (r *Registry) Get(id string) (BlockKind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.kinds[id]
	return k, ok
}

// List returns all kinds in catalog order.
func (r *Registry) List() []BlockKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]BlockKind, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.kinds[id])
	}
	return out
}

// Len returns the number of registered kinds.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.kinds)
}
