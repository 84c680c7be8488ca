package world

import (
	"sync"

	"github.com/nashvale/villagesim/internal/social"
)

// Member is a villager as seen by the shared world: enough surface to be
// found as a trade provider and approached on foot.
type Member interface {
	ID() string
	Ledger() *social.Ledger
	Position() Vec2
	AcceptanceRadius() float64
}

// World is the shared registry of everything alive in the village. Villagers
// register themselves on spawn and scan it when they go looking for a
// provider; there is no global coordinator beyond this index.
type World struct {
	mu      sync.RWMutex
	members map[string]Member

	Locations *LocationRegistry
}

// New creates an empty world.
func New() *World {
	return &World{
		members:   make(map[string]Member),
		Locations: NewLocationRegistry(),
	}
}

// Add registers a member. Re-adding the same ID replaces the old entry.
func (w *World) Add(m Member) {
	w.mu.Lock()
	w.members[m.ID()] = m
	w.mu.Unlock()
}

// Remove drops a member by ID.
func (w *World) Remove(id string) {
	w.mu.Lock()
	delete(w.members, id)
	w.mu.Unlock()
}

// Member returns a member by ID.
func (w *World) Member(id string) (Member, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	m, ok := w.members[id]
	return m, ok
}

// Members returns a snapshot of all members.
func (w *World) Members() []Member {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Member, 0, len(w.members))
	for _, m := range w.members {
		out = append(out, m)
	}
	return out
}

// FindProviders returns every member whose ledger sells resource. The caller
// filters out itself and applies any distance preference.
func (w *World) FindProviders(resource string) []Member {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []Member
	for _, m := range w.members {
		if m.Ledger() != nil && m.Ledger().ProvidedResource() == resource {
			out = append(out, m)
		}
	}
	return out
}
