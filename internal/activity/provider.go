package activity

import (
	"log/slog"

	"github.com/nashvale/villagesim/internal/world"
)

// providerContext is the transient record of the provider chosen for one
// resource fetch. It lives from a successful discovery until the fetch
// resolves or a new activity begins, never longer.
type providerContext struct {
	providerID string
	handle     ProviderHandle
	ledger     TradeLedger
	tradeTag   string
	pos        world.Vec2
	present    bool
}

// discoverProvider scans the world for villagers selling resource and picks
// one trade spot to walk to. Providers already standing at a trade spot are
// preferred: the pick is uniform over the present pool when it is non-empty,
// otherwise uniform over the absent pool. A provider with no resolvable
// trade tag contributes no candidates at all.
func (s *Scheduler) discoverProvider(resource string) (*providerContext, bool) {
	var present, absent []*providerContext

	for _, handle := range s.providers.FindProviders(resource) {
		if handle.ID() == s.id {
			continue
		}
		ledger, ok := handle.Ledger()
		if !ok {
			slog.Debug("provider despawned during discovery", "villager", s.id, "provider", handle.ID())
			continue
		}
		for _, tag := range ledger.TradeLocations() {
			pos, ok := s.locations.Resolve(tag)
			if !ok {
				slog.Warn("trade location unresolvable", "villager", s.id, "provider", handle.ID(), "tag", tag)
				continue
			}
			cand := &providerContext{
				providerID: handle.ID(),
				handle:     handle,
				ledger:     ledger,
				tradeTag:   tag,
				pos:        pos,
				present:    s.withinPresence(handle, pos),
			}
			if cand.present {
				present = append(present, cand)
			} else {
				absent = append(absent, cand)
			}
		}
	}

	pool := present
	if len(pool) == 0 {
		pool = absent
	}
	if len(pool) == 0 {
		return nil, false
	}
	return pool[s.rng.Intn(len(pool))], true
}

// withinPresence checks whether the provider stands close enough to the
// trade spot to trade. The tolerance widens to the provider's own arrival
// acceptance radius when that is larger, so a provider its own movement
// considers arrived always counts as present.
func (s *Scheduler) withinPresence(handle ProviderHandle, spot world.Vec2) bool {
	tolerance := s.cfg.PresenceTolerance
	if r := handle.AcceptanceRadius(); r > tolerance {
		tolerance = r
	}
	return handle.Position().Dist(spot) <= tolerance
}
