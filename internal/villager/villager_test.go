package villager

import (
	"testing"
	"time"

	"github.com/nashvale/villagesim/internal/archetype"
	"github.com/nashvale/villagesim/internal/entropy"
	"github.com/nashvale/villagesim/internal/world"
)

func TestTimerScheduleReplacesPendingSlot(t *testing.T) {
	fired := make(chan string, 8)
	ts := newTimerSet(func(fn func()) { fn() })

	ts.Schedule("retry-selection", 50*time.Millisecond, func() { fired <- "first" })
	ts.Schedule("retry-selection", 10*time.Millisecond, func() { fired <- "second" })

	select {
	case got := <-fired:
		if got != "second" {
			t.Fatalf("expected replacement timer to fire, got %q", got)
		}
	case <-time.After(time.Second):
		t.Fatal("replacement timer never fired")
	}

	select {
	case got := <-fired:
		t.Fatalf("replaced timer fired anyway: %q", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTimerCancelAll(t *testing.T) {
	fired := make(chan struct{}, 8)
	ts := newTimerSet(func(fn func()) { fn() })

	ts.Schedule("retry-selection", 20*time.Millisecond, func() { fired <- struct{}{} })
	ts.Schedule("resource-cooldown", 20*time.Millisecond, func() { fired <- struct{}{} })
	ts.CancelAll()

	select {
	case <-fired:
		t.Fatal("cancelled timer fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func registerVillage(w *world.World) {
	for i, prefix := range []string{"loc.food_provider", "loc.water_provider", "loc.cotton_provider"} {
		base := float64(i) * 1000
		w.Locations.Register(prefix+".bed", world.Vec2{X: base})
		w.Locations.Register(prefix+".kitchen", world.Vec2{X: base + 100})
		w.Locations.Register(prefix+".well", world.Vec2{X: base + 200})
		w.Locations.Register(prefix+".workplace", world.Vec2{X: base + 300})
	}
}

func TestVillagerFollowsDailyRoutine(t *testing.T) {
	w := world.New()
	registerVillage(w)
	clock := world.NewClock(0, 1)

	v := New(Options{
		Archetype: archetype.FoodProvider(),
		World:     w,
		Clock:     clock,
		Rand:      entropy.NewSeeded(11),
		Start:     world.Vec2{X: 0},
	})
	v.Start()
	defer v.Stop()

	// Hour 0 falls inside the sleeping window; the villager spawns at its
	// bed, so a couple of minutes settle it into the activity.
	clock.Advance()
	clock.Advance()
	clock.Advance()
	snap := v.Status()
	if snap.Activity.Activity != archetype.ActivitySleeping {
		t.Fatalf("expected sleeping at 0:03, got %+v", snap.Activity)
	}

	// Run through to just past 6:00: sleep completes and the eating window
	// opens. Nobody else sells food, so the villager heads straight for its
	// kitchen.
	for clock.CurrentHour() < 6 || clock.CurrentMinute() < 5 {
		clock.Advance()
	}
	snap = v.Status()
	if snap.Activity.Activity != archetype.ActivityEating {
		t.Fatalf("expected eating after 6:00, got %+v", snap.Activity)
	}

	for _, need := range snap.Needs {
		if need.Value < 0 || need.Value > 1 {
			t.Fatalf("need %s out of range: %f", need.ID, need.Value)
		}
	}
}

func TestVillagerStatusAfterStop(t *testing.T) {
	w := world.New()
	registerVillage(w)
	clock := world.NewClock(0, 1)

	v := New(Options{
		Archetype: archetype.WaterProvider(),
		World:     w,
		Clock:     clock,
		Rand:      entropy.NewSeeded(3),
	})
	v.Start()
	v.Stop()

	snap := v.Status()
	if snap.ID != archetype.WaterProviderID {
		t.Fatalf("expected fallback snapshot with id, got %+v", snap)
	}
}
