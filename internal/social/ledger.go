// Package social holds the per-villager affection ledger and the trade
// rules driven by it. Affection scores shape how generously a provider
// trades; every trade attempt, successful or missed, adjusts them.
package social

import (
	"sync"

	"github.com/nashvale/villagesim/internal/archetype"
	"github.com/nashvale/villagesim/internal/needs"
)

// Ledger tracks one villager's affection toward every other known villager
// and computes trade quantities. Buyers call into the provider's ledger, so
// access is guarded: trades may arrive from other villagers' event loops.
type Ledger struct {
	mu        sync.Mutex
	social    archetype.SocialDefinition
	affection map[string]float64
}

// NewLedger seeds the affection map from the archetype's approvals.
func NewLedger(a *archetype.Archetype) *Ledger {
	l := &Ledger{affection: make(map[string]float64)}
	l.SetArchetype(a)
	return l
}

// SetArchetype replaces the social tuning and reseeds affection from the new
// approvals, discarding accumulated history.
func (l *Ledger) SetArchetype(a *archetype.Archetype) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.affection = make(map[string]float64)
	if a == nil {
		l.social = archetype.SocialDefinition{}
		return
	}
	l.social = a.Social
	for _, approval := range a.Social.Approvals {
		l.affection[approval.VillagerID] = approval.Affection
	}
}

// ProvidedResource returns the resource this villager offers, if any.
func (l *Ledger) ProvidedResource() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.social.ProvidedResource
}

// TradeLocations returns the location tags where this villager trades.
func (l *Ledger) TradeLocations() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.social.TradeLocations...)
}

// RequestResource grants a quantity of the provided resource to the
// requester. The quantity comes from the affection-to-quantity curve, or a
// linear 1+affection fallback when no curve is configured. The trade then
// raises the requester's affection entry: the buyer-side gain (doubled when
// the need is critical) and the flat seller-side gain land as sequential
// deltas on the same entry. Refusal is not modeled here; presence and
// cooldown checks upstream decide whether a trade happens at all.
func (l *Ledger) RequestResource(requesterID, needID string, urgency needs.Urgency) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	affection := l.getOrSeed(requesterID)

	var quantity float64
	if !l.social.AffectionToQuantity.IsZero() {
		quantity = l.social.AffectionToQuantity.Eval(affection)
	} else {
		quantity = 1.0 + affection
	}
	if quantity < 0 {
		quantity = 0
	}

	multiplier := 1.0
	if urgency == needs.Critical {
		multiplier = 2.0
	}
	affection += l.social.BuyerGainOnTrade * multiplier
	affection += l.social.SellerGainPerTrade
	l.affection[requesterID] = affection

	return quantity
}

// RegisterMissedTrade lowers affection toward a buyer who failed to meet
// this villager at the trade spot. There is no floor.
func (l *Ledger) RegisterMissedTrade(otherID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.affection[otherID] = l.getOrSeed(otherID) - l.social.AffectionLossOnMiss
}

// Affection returns the current score toward another villager, seeding a
// default entry when unseen.
func (l *Ledger) Affection(otherID string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.getOrSeed(otherID)
}

// Snapshot returns a copy of the full affection map, for presentation.
func (l *Ledger) Snapshot() map[string]float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]float64, len(l.affection))
	for id, v := range l.affection {
		out[id] = v
	}
	return out
}

func (l *Ledger) getOrSeed(id string) float64 {
	if v, ok := l.affection[id]; ok {
		return v
	}
	l.affection[id] = 0
	return 0
}
