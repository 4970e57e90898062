package core

import "sync"

// Factory constructs a freshly configured codec adapter. Each benchmark task
// gets its own instance; adapters are not shared across tasks.
type Factory func() Codec

// ── Registry ──────────────────────────────────────────────────────────────────

// CodecRegistry maps codec family names to factories. Safe for concurrent use.
type CodecRegistry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty CodecRegistry.
func NewRegistry() *CodecRegistry {
	return &CodecRegistry{factories: make(map[string]Factory)}
}

// Register binds a codec family name to its factory.
func (r *CodecRegistry) Register(name string, f Factory) {
	r.mu.Lock()
	r.factories[name] = f
	r.mu.Unlock()
}

// Lookup returns the factory registered under name.
func (r *CodecRegistry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	return f, ok
}

// Names lists all registered codec family names.
func (r *CodecRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}
