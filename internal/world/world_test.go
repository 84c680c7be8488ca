package world

import (
	"testing"

	"github.com/nashvale/villagesim/internal/archetype"
	"github.com/nashvale/villagesim/internal/social"
)

func TestClockAdvanceRollsOver(t *testing.T) {
	c := NewClock(23, 1)
	for i := 0; i < 59; i++ {
		c.Advance()
	}
	if h, m := c.CurrentHour(), c.CurrentMinute(); h != 23 || m != 59 {
		t.Fatalf("expected 23:59, got %d:%02d", h, m)
	}
	c.Advance()
	if h, m := c.CurrentHour(), c.CurrentMinute(); h != 0 || m != 0 {
		t.Fatalf("expected 0:00 after rollover, got %d:%02d", h, m)
	}
}

func TestClockSubscriptions(t *testing.T) {
	c := NewClock(5, 1)
	var minutes, hours int
	c.SubscribeMinute(func(hour, minute int) { minutes++ })
	c.SubscribeHour(func(hour int) { hours++ })
	for i := 0; i < 60; i++ {
		c.Advance()
	}
	if minutes != 60 {
		t.Fatalf("expected 60 minute ticks, got %d", minutes)
	}
	if hours != 1 {
		t.Fatalf("expected 1 hour tick, got %d", hours)
	}
}

func TestRegistryDuplicateOverrides(t *testing.T) {
	r := NewLocationRegistry()
	r.Register("village.well", Vec2{X: 1, Y: 1})
	r.Register("village.well", Vec2{X: 5, Y: 5})
	pos, ok := r.Resolve("village.well")
	if !ok {
		t.Fatal("expected tag to resolve")
	}
	if pos.X != 5 || pos.Y != 5 {
		t.Fatalf("expected override position, got %+v", pos)
	}
	if _, ok := r.Resolve("village.missing"); ok {
		t.Fatal("unregistered tag resolved")
	}
}

func TestWalkerArrivesWithinRadius(t *testing.T) {
	w := NewWalker(Vec2{}, 10)
	var results []MoveResult
	tag := w.MoveTo(Vec2{X: 100, Y: 0}, 25, func(r MoveResult) { results = append(results, r) })

	// 100 units at 10/minute with a 25 unit radius: inside after 8 minutes.
	for i := 0; i < 8; i++ {
		w.Tick(1)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Tag != tag || !results[0].Arrived {
		t.Fatalf("expected arrival for tag %v, got %+v", tag, results[0])
	}
	if w.Moving() {
		t.Fatal("walker still moving after arrival")
	}
}

func TestWalkerSupersedeFailsPrevious(t *testing.T) {
	w := NewWalker(Vec2{}, 10)
	var results []MoveResult
	first := w.MoveTo(Vec2{X: 100, Y: 0}, 1, func(r MoveResult) { results = append(results, r) })
	second := w.MoveTo(Vec2{X: 0, Y: 100}, 1, func(r MoveResult) { results = append(results, r) })

	if len(results) != 1 {
		t.Fatalf("expected superseded result, got %d", len(results))
	}
	if results[0].Tag != first || results[0].Arrived {
		t.Fatalf("expected failure for first tag, got %+v", results[0])
	}

	for i := 0; i < 20; i++ {
		w.Tick(1)
	}
	if len(results) != 2 || results[1].Tag != second || !results[1].Arrived {
		t.Fatalf("expected arrival for second tag, got %+v", results)
	}
}

func TestWalkerFailHook(t *testing.T) {
	w := NewWalker(Vec2{}, 10)
	w.SetFailHook(func(target Vec2) bool { return true })
	var results []MoveResult
	w.MoveTo(Vec2{X: 50, Y: 0}, 1, func(r MoveResult) { results = append(results, r) })
	w.Tick(1)
	if len(results) != 1 || results[0].Arrived {
		t.Fatalf("expected unreachable failure, got %+v", results)
	}
}

type stubMember struct {
	id     string
	ledger *social.Ledger
	pos    Vec2
}

func (s *stubMember) ID() string             { return s.id }
func (s *stubMember) Ledger() *social.Ledger { return s.ledger }
func (s *stubMember) Position() Vec2         { return s.pos }
func (s *stubMember) AcceptanceRadius() float64 {
	return 75
}

func providerLedger(resource string) *social.Ledger {
	return social.NewLedger(&archetype.Archetype{
		Social: archetype.SocialDefinition{ProvidedResource: resource},
	})
}

func TestFindProviders(t *testing.T) {
	w := New()
	w.Add(&stubMember{id: "a", ledger: providerLedger("resource.food")})
	w.Add(&stubMember{id: "b", ledger: providerLedger("resource.water")})
	w.Add(&stubMember{id: "c", ledger: providerLedger("resource.food")})

	got := w.FindProviders("resource.food")
	if len(got) != 2 {
		t.Fatalf("expected 2 food providers, got %d", len(got))
	}
	for _, m := range got {
		if m.ID() == "b" {
			t.Fatal("water provider returned for food query")
		}
	}
}
