// Package villager composes one autonomous villager: needs, social ledger,
// movement, and the activity scheduler, all driven by a single mailbox
// goroutine. Clock ticks, movement completions, and timer callbacks are
// posted into the mailbox, so scheduler state is only ever touched from one
// goroutine.
package villager

import (
	"log/slog"
	"sync"

	"github.com/nashvale/villagesim/internal/activity"
	"github.com/nashvale/villagesim/internal/archetype"
	"github.com/nashvale/villagesim/internal/entropy"
	"github.com/nashvale/villagesim/internal/needs"
	"github.com/nashvale/villagesim/internal/social"
	"github.com/nashvale/villagesim/internal/world"
)

const mailboxSize = 64

// Options configures a villager.
type Options struct {
	Archetype *archetype.Archetype
	World     *world.World
	Clock     *world.Clock
	Recorder  activity.Recorder // optional
	Rand      activity.Rand     // optional, defaults to a fresh entropy source
	Scheduler activity.Config
	Start     world.Vec2
}

// Villager is one agent in the village. It implements world.Member.
type Villager struct {
	id      string
	arch    *archetype.Archetype
	tracker *needs.Tracker
	ledger  *social.Ledger
	walker  *world.Walker
	sched   *activity.Scheduler
	wrld    *world.World
	timers  *timerSet

	mailbox chan func()
	quit    chan struct{}
	once    sync.Once
}

// New builds a villager from its archetype and registers it in the world.
// Call Start to begin simulating it.
func New(opts Options) *Villager {
	arch := opts.Archetype
	v := &Villager{
		id:      arch.VillagerID,
		arch:    arch,
		tracker: needs.NewTracker(arch),
		ledger:  social.NewLedger(arch),
		wrld:    opts.World,
		mailbox: make(chan func(), mailboxSize),
		quit:    make(chan struct{}),
	}

	speed := arch.Movement.WalkSpeed
	if speed <= 0 {
		speed = 100
	}
	v.walker = world.NewWalker(opts.Start, speed)
	v.timers = newTimerSet(v.post)

	rng := opts.Rand
	if rng == nil {
		rng = entropy.NewSource()
	}

	v.sched = activity.NewScheduler(v.id, arch, v.tracker, activity.Deps{
		Clock:     opts.Clock,
		Locations: opts.World.Locations,
		Movement:  &mailboxMovement{walker: v.walker, post: v.post},
		Providers: &worldProviders{w: opts.World},
		Recorder:  opts.Recorder,
		Rand:      rng,
		Timers:    v.timers,
	}, opts.Scheduler)

	opts.World.Add(v)
	opts.Clock.SubscribeMinute(v.onMinute)
	return v
}

// ID returns the villager's identifier.
func (v *Villager) ID() string { return v.id }

// Ledger returns the villager's social ledger. Other villagers' event loops
// call into it during trades; the ledger carries its own lock.
func (v *Villager) Ledger() *social.Ledger { return v.ledger }

// Position returns the villager's current position.
func (v *Villager) Position() world.Vec2 { return v.walker.Position() }

// AcceptanceRadius returns how close this villager must be to a target to
// count as arrived.
func (v *Villager) AcceptanceRadius() float64 {
	if v.arch.Movement.AcceptanceRadius > 0 {
		return v.arch.Movement.AcceptanceRadius
	}
	return 75
}

// Start launches the event loop and runs the first activity selection.
func (v *Villager) Start() {
	go v.loop()
	v.post(v.sched.Start)
	slog.Info("villager started", "villager", v.id)
}

// Stop halts the event loop and cancels outstanding timers. The villager
// stays registered in the world until Remove is called on it.
func (v *Villager) Stop() {
	v.once.Do(func() {
		v.timers.CancelAll()
		close(v.quit)
	})
}

// SetArchetype swaps the villager's authoring data at runtime, rebuilding
// needs and social tuning.
func (v *Villager) SetArchetype(a *archetype.Archetype) {
	v.post(func() {
		v.arch = a
		v.ledger.SetArchetype(a)
		v.sched.SetArchetype(a)
	})
}

func (v *Villager) loop() {
	for {
		select {
		case fn := <-v.mailbox:
			fn()
		case <-v.quit:
			return
		}
	}
}

// post queues fn onto the event loop. Posts after Stop are dropped.
func (v *Villager) post(fn func()) {
	select {
	case v.mailbox <- fn:
	case <-v.quit:
	}
}

func (v *Villager) onMinute(hour, minute int) {
	v.post(func() {
		// The walk advances one sim minute before the scheduler sees the
		// tick; an arrival this minute is still delivered after it, in
		// mailbox order.
		v.walker.Tick(1)
		v.sched.HandleMinute(hour, minute)
	})
}

// Snapshot is a read-only view of the villager for presentation.
type Snapshot struct {
	ID        string             `json:"id"`
	Position  world.Vec2         `json:"position"`
	Activity  activity.Status    `json:"activity"`
	Needs     []NeedView         `json:"needs"`
	Affection map[string]float64 `json:"affection"`
}

// NeedView is one need's presentation state.
type NeedView struct {
	ID         string  `json:"id"`
	Value      float64 `json:"value"`
	Normalized float64 `json:"normalized"`
	Urgency    string  `json:"urgency"`
}

// Status captures the villager's state via its own event loop, so the
// snapshot is consistent with whatever transition last ran.
func (v *Villager) Status() Snapshot {
	ch := make(chan Snapshot, 1)
	v.post(func() { ch <- v.snapshot() })
	select {
	case snap := <-ch:
		return snap
	case <-v.quit:
		return Snapshot{ID: v.id, Position: v.walker.Position()}
	}
}

func (v *Villager) snapshot() Snapshot {
	states := v.tracker.Snapshot()
	views := make([]NeedView, 0, len(states))
	for _, st := range states {
		views = append(views, NeedView{
			ID:         st.ID,
			Value:      st.Value,
			Normalized: st.Normalized(),
			Urgency:    st.Urgency().String(),
		})
	}
	return Snapshot{
		ID:        v.id,
		Position:  v.walker.Position(),
		Activity:  v.sched.CurrentStatus(),
		Needs:     views,
		Affection: v.ledger.Snapshot(),
	}
}
