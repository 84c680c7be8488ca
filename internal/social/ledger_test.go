package social

import (
	"math"
	"testing"

	"github.com/nashvale/villagesim/internal/archetype"
	"github.com/nashvale/villagesim/internal/curve"
	"github.com/nashvale/villagesim/internal/needs"
)

func tradingArchetype() *archetype.Archetype {
	return &archetype.Archetype{
		VillagerID: "villager.seller",
		Social: archetype.SocialDefinition{
			ProvidedResource: "resource.food",
			AffectionToQuantity: curve.New(
				curve.Key{X: -1, Y: 0.25},
				curve.Key{X: 0, Y: 1.0},
				curve.Key{X: 1, Y: 2.0},
			),
			Approvals: []archetype.ApprovalEntry{
				{VillagerID: "villager.friend", Affection: 0.5},
			},
			TradeLocations:      []string{"loc.seller.workplace"},
			BuyerGainOnTrade:    0.05,
			SellerGainPerTrade:  0.025,
			AffectionLossOnMiss: 0.1,
		},
	}
}

func TestRequestResourceQuantityFromCurve(t *testing.T) {
	l := NewLedger(tradingArchetype())
	qty := l.RequestResource("villager.friend", "need.hunger", needs.Mild)
	// Affection 0.5 interpolates between 1.0 and 2.0.
	if math.Abs(qty-1.5) > 1e-9 {
		t.Fatalf("quantity = %v, want 1.5", qty)
	}
}

func TestRequestResourceLinearFallback(t *testing.T) {
	a := tradingArchetype()
	a.Social.AffectionToQuantity = curve.Curve{}
	l := NewLedger(a)
	qty := l.RequestResource("villager.friend", "need.hunger", needs.Mild)
	if math.Abs(qty-1.5) > 1e-9 {
		t.Fatalf("fallback quantity = %v, want 1+affection = 1.5", qty)
	}
}

func TestRequestResourceSeedsUnknownRequester(t *testing.T) {
	l := NewLedger(tradingArchetype())
	qty := l.RequestResource("villager.stranger", "need.hunger", needs.Mild)
	if math.Abs(qty-1.0) > 1e-9 {
		t.Fatalf("stranger quantity = %v, want 1.0 at affection 0", qty)
	}
}

func TestTradeAdjustmentsLandOnOneEntry(t *testing.T) {
	l := NewLedger(tradingArchetype())

	l.RequestResource("villager.friend", "need.hunger", needs.Mild)
	got := l.Affection("villager.friend")
	want := 0.5 + 0.05 + 0.025
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("affection after mild trade = %v, want %v", got, want)
	}

	l.SetArchetype(tradingArchetype())
	l.RequestResource("villager.friend", "need.hunger", needs.Critical)
	got = l.Affection("villager.friend")
	want = 0.5 + 0.05*2 + 0.025
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("affection after critical trade = %v, want %v", got, want)
	}
}

func TestRequestResourceNeverLowersRequesterAffection(t *testing.T) {
	l := NewLedger(tradingArchetype())
	for i := 0; i < 50; i++ {
		before := l.Affection("villager.friend")
		qty := l.RequestResource("villager.friend", "need.hunger", needs.Mild)
		if qty < 0 || math.IsNaN(qty) || math.IsInf(qty, 0) {
			t.Fatalf("quantity not finite non-negative: %v", qty)
		}
		if after := l.Affection("villager.friend"); after < before {
			t.Fatalf("trade lowered affection: %v -> %v", before, after)
		}
	}
}

func TestRegisterMissedTradeHasNoFloor(t *testing.T) {
	l := NewLedger(tradingArchetype())
	for i := 0; i < 20; i++ {
		before := l.Affection("villager.friend")
		l.RegisterMissedTrade("villager.friend")
		after := l.Affection("villager.friend")
		if math.Abs((before-after)-0.1) > 1e-9 {
			t.Fatalf("miss penalty = %v, want 0.1", before-after)
		}
	}
	if got := l.Affection("villager.friend"); got >= 0 {
		t.Fatalf("affection should have gone negative, got %v", got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	l := NewLedger(tradingArchetype())
	snap := l.Snapshot()
	snap["villager.friend"] = -99
	if got := l.Affection("villager.friend"); got != 0.5 {
		t.Fatalf("mutating snapshot leaked into ledger: %v", got)
	}
}

func TestSetArchetypeReseeds(t *testing.T) {
	l := NewLedger(tradingArchetype())
	l.RegisterMissedTrade("villager.friend")
	l.SetArchetype(tradingArchetype())
	if got := l.Affection("villager.friend"); got != 0.5 {
		t.Fatalf("affection after reseed = %v, want 0.5", got)
	}
}
