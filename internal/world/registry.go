package world

import (
	"log/slog"
	"sync"
)

// LocationRegistry maps location tags to village positions. Tags are
// registered at startup by whatever places the village; lookups may fail for
// unregistered tags and callers must treat that as "location unavailable".
type LocationRegistry struct {
	mu        sync.RWMutex
	locations map[string]Vec2
}

// NewLocationRegistry creates an empty registry.
func NewLocationRegistry() *LocationRegistry {
	return &LocationRegistry{locations: make(map[string]Vec2)}
}

// Register adds a tagged location. A duplicate tag overrides the previous
// entry with a warning, mirroring how re-placed village props behave.
func (r *LocationRegistry) Register(id string, pos Vec2) {
	if id == "" {
		slog.Warn("location with empty tag skipped")
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.locations[id]; exists {
		slog.Warn("duplicate location tag, overriding", "tag", id)
	}
	r.locations[id] = pos
}

// Resolve returns the position for a tag.
func (r *LocationRegistry) Resolve(id string) (Vec2, bool) {
	if id == "" {
		return Vec2{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	pos, ok := r.locations[id]
	return pos, ok
}

// Tags returns all registered tags.
func (r *LocationRegistry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.locations))
	for id := range r.locations {
		out = append(out, id)
	}
	return out
}
