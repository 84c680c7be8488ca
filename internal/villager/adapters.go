package villager

import (
	"github.com/google/uuid"

	"github.com/nashvale/villagesim/internal/activity"
	"github.com/nashvale/villagesim/internal/world"
)

// mailboxMovement wraps the walker so completion results arrive on the
// villager's event loop instead of whichever goroutine ticked the walk.
type mailboxMovement struct {
	walker *world.Walker
	post   func(func())
}

func (m *mailboxMovement) MoveTo(target world.Vec2, radius float64, onResult func(world.MoveResult)) uuid.UUID {
	return m.walker.MoveTo(target, radius, func(res world.MoveResult) {
		m.post(func() { onResult(res) })
	})
}

func (m *mailboxMovement) Cancel() { m.walker.Cancel() }

// worldProviders adapts the world registry to the scheduler's provider
// index. Handles re-resolve their member on each ledger access so a
// despawned provider reads as gone rather than as a dangling reference.
type worldProviders struct {
	w *world.World
}

func (p *worldProviders) FindProviders(resource string) []activity.ProviderHandle {
	members := p.w.FindProviders(resource)
	handles := make([]activity.ProviderHandle, 0, len(members))
	for _, m := range members {
		handles = append(handles, &memberHandle{w: p.w, id: m.ID(), member: m})
	}
	return handles
}

type memberHandle struct {
	w      *world.World
	id     string
	member world.Member
}

func (h *memberHandle) ID() string { return h.id }

func (h *memberHandle) Ledger() (activity.TradeLedger, bool) {
	m, ok := h.w.Member(h.id)
	if !ok || m.Ledger() == nil {
		return nil, false
	}
	return m.Ledger(), true
}

func (h *memberHandle) Position() world.Vec2      { return h.member.Position() }
func (h *memberHandle) AcceptanceRadius() float64 { return h.member.AcceptanceRadius() }
