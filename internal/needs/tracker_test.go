package needs

import (
	"testing"

	"github.com/nashvale/villagesim/internal/archetype"
	"github.com/nashvale/villagesim/internal/curve"
)

func testArchetype(defs ...archetype.NeedDefinition) *archetype.Archetype {
	return &archetype.Archetype{VillagerID: "villager.test", Needs: defs}
}

func needDef(id string, start, min, max, mild, critical, weight float64) archetype.NeedDefinition {
	return archetype.NeedDefinition{
		ID:                id,
		StartingValue:     start,
		MinValue:          min,
		MaxValue:          max,
		MildThreshold:     mild,
		CriticalThreshold: critical,
		PriorityWeight:    weight,
	}
}

func TestApplyDeltaClampsToRange(t *testing.T) {
	tr := NewTracker(testArchetype(needDef("need.hunger", 1.0, 0, 1, 0.6, 0.3, 1)))

	deltas := []float64{-0.4, -0.9, 0.2, 5.0, -100, 0.5}
	for _, d := range deltas {
		tr.ApplyDelta("need.hunger", d)
		s, ok := tr.Lookup("need.hunger")
		if !ok {
			t.Fatal("need disappeared")
		}
		if s.Value < 0 || s.Value > 1 {
			t.Fatalf("value %v escaped [0,1] after delta %v", s.Value, d)
		}
	}
}

func TestApplyDeltaUnknownNeedIsNoop(t *testing.T) {
	tr := NewTracker(testArchetype(needDef("need.hunger", 0.5, 0, 1, 0.6, 0.3, 1)))
	tr.ApplyDelta("need.unknown", -0.3)
	s, _ := tr.Lookup("need.hunger")
	if s.Value != 0.5 {
		t.Fatalf("unrelated need changed: %v", s.Value)
	}
}

func TestUrgencyBandsOnDecayingValue(t *testing.T) {
	def := needDef("need.hunger", 1.0, 0, 1, 0.6, 0.3, 1)

	cases := []struct {
		value float64
		want  Urgency
	}{
		{1.0, Satisfied},
		{0.61, Satisfied},
		{0.6, Mild},
		{0.35, Mild},
		{0.3, Critical},
		{0.0, Critical},
	}
	for _, tc := range cases {
		s := State{ID: def.ID, Value: tc.value, Def: def}
		if got := s.Urgency(); got != tc.want {
			t.Fatalf("urgency at %v = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestUrgencyZeroWidthRange(t *testing.T) {
	def := needDef("need.flat", 0.5, 0.5, 0.5, 0.6, 0.3, 1)
	s := State{ID: def.ID, Value: 0.5, Def: def}
	// Must not divide by zero; normalized collapses to 0, i.e. Critical.
	if got := s.Urgency(); got != Critical {
		t.Fatalf("urgency for zero-width range = %v, want critical", got)
	}
}

func TestHighestPriorityRespectsThreshold(t *testing.T) {
	tr := NewTracker(testArchetype(
		needDef("need.hunger", 0.2, 0, 1, 0.6, 0.3, 1), // critical
		needDef("need.thirst", 0.5, 0, 1, 0.6, 0.3, 2), // mild
		needDef("need.sleep", 0.9, 0, 1, 0.6, 0.3, 3),  // satisfied
	))

	got, ok := tr.HighestPriority(Critical)
	if !ok || got.ID != "need.hunger" {
		t.Fatalf("critical pick = %v ok=%v, want need.hunger", got.ID, ok)
	}

	// At the mild threshold the higher-weight thirst wins over critical hunger.
	got, ok = tr.HighestPriority(Mild)
	if !ok || got.ID != "need.thirst" {
		t.Fatalf("mild pick = %v ok=%v, want need.thirst", got.ID, ok)
	}

	// Returned need is never below the requested urgency.
	if got.Urgency() < Mild {
		t.Fatalf("returned need below requested urgency: %v", got.Urgency())
	}
}

func TestHighestPriorityTieBreaksByDefinitionOrder(t *testing.T) {
	tr := NewTracker(testArchetype(
		needDef("need.first", 0.1, 0, 1, 0.6, 0.3, 1),
		needDef("need.second", 0.1, 0, 1, 0.6, 0.3, 1),
	))
	got, ok := tr.HighestPriority(Critical)
	if !ok || got.ID != "need.first" {
		t.Fatalf("tie break pick = %v, want need.first", got.ID)
	}
}

func TestHighestPriorityNoneQualify(t *testing.T) {
	tr := NewTracker(testArchetype(needDef("need.hunger", 0.9, 0, 1, 0.6, 0.3, 1)))
	if _, ok := tr.HighestPriority(Mild); ok {
		t.Fatal("expected no qualifying need")
	}
}

func TestSetArchetypeRebuildsAndResets(t *testing.T) {
	tr := NewTracker(testArchetype(needDef("need.hunger", 1.0, 0, 1, 0.6, 0.3, 1)))
	tr.ApplyDelta("need.hunger", -0.8)

	tr.SetArchetype(testArchetype(
		needDef("need.hunger", 0.7, 0, 1, 0.6, 0.3, 1),
		needDef("need.sleep", 1.0, 0, 1, 0.6, 0.3, 1),
	))

	if got := len(tr.Snapshot()); got != 2 {
		t.Fatalf("state count after rebuild = %d, want 2", got)
	}
	s, _ := tr.Lookup("need.hunger")
	if s.Value != 0.7 {
		t.Fatalf("value after rebuild = %v, want starting value 0.7", s.Value)
	}
}

func TestBySatisfyingActivity(t *testing.T) {
	def := needDef("need.hunger", 1.0, 0, 1, 0.6, 0.3, 1)
	def.SatisfyingActivity = "activity.eating"
	def.ForceProbability = curve.Constant(0, 1, 1)
	tr := NewTracker(testArchetype(def))

	if s, ok := tr.BySatisfyingActivity("activity.eating"); !ok || s.ID != "need.hunger" {
		t.Fatalf("lookup by satisfying activity failed: %v %v", s.ID, ok)
	}
	if _, ok := tr.BySatisfyingActivity(""); ok {
		t.Fatal("empty activity ID must not match")
	}
}
