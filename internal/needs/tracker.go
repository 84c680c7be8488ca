// Package needs tracks a villager's internal drives. Need values are
// satisfaction levels: they start near their maximum and decay toward zero,
// so urgency rises as the value falls. Thresholds are compared as upper
// bounds on the decaying value.
package needs

import (
	"github.com/nashvale/villagesim/internal/archetype"
)

// Urgency classifies how pressing a need is.
type Urgency uint8

const (
	Satisfied Urgency = iota
	Mild
	Critical
)

func (u Urgency) String() string {
	switch u {
	case Mild:
		return "mild"
	case Critical:
		return "critical"
	default:
		return "satisfied"
	}
}

// State is the runtime value of one need together with a copy of its
// definition, so later archetype edits don't alter live state.
type State struct {
	ID    string
	Value float64
	Def   archetype.NeedDefinition
}

const epsilon = 1e-6

// Normalized maps the current value to [0,1] over the definition's range,
// guarding against a zero-width range.
func (s State) Normalized() float64 {
	span := s.Def.MaxValue - s.Def.MinValue
	if span < epsilon {
		span = epsilon
	}
	return (s.Value - s.Def.MinValue) / span
}

// Urgency bands the normalized value against the need's thresholds. A value
// that has decayed to or below the critical threshold is Critical; at or
// below the mild threshold it is Mild.
func (s State) Urgency() Urgency {
	n := s.Normalized()
	if n <= s.Def.CriticalThreshold {
		return Critical
	}
	if n <= s.Def.MildThreshold {
		return Mild
	}
	return Satisfied
}

// Tracker owns all need states for one villager.
type Tracker struct {
	states []State
}

// NewTracker builds runtime states from the archetype's definitions.
func NewTracker(a *archetype.Archetype) *Tracker {
	t := &Tracker{}
	t.SetArchetype(a)
	return t
}

// SetArchetype clears and rebuilds all runtime state, resetting every need to
// its clamped starting value. A nil archetype leaves the tracker empty.
func (t *Tracker) SetArchetype(a *archetype.Archetype) {
	t.states = t.states[:0]
	if a == nil {
		return
	}
	for _, def := range a.Needs {
		t.states = append(t.states, State{
			ID:    def.ID,
			Value: clamp(def.StartingValue, def.MinValue, def.MaxValue),
			Def:   def,
		})
	}
}

// ApplyDelta adds delta to the named need and clamps the result to the
// definition's range. Unknown needs are ignored.
func (t *Tracker) ApplyDelta(id string, delta float64) {
	for i := range t.states {
		if t.states[i].ID == id {
			s := &t.states[i]
			s.Value = clamp(s.Value+delta, s.Def.MinValue, s.Def.MaxValue)
			return
		}
	}
}

// HighestPriority returns the need with the greatest priority weight among
// those at or above the given urgency. Ties resolve to the first-defined
// need. The second result is false when no need qualifies.
func (t *Tracker) HighestPriority(min Urgency) (State, bool) {
	best := State{}
	bestWeight := -1.0
	found := false
	for _, s := range t.states {
		if s.Urgency() < min {
			continue
		}
		if s.Def.PriorityWeight > bestWeight {
			bestWeight = s.Def.PriorityWeight
			best = s
			found = true
		}
	}
	return best, found
}

// Lookup returns the state for a need ID.
func (t *Tracker) Lookup(id string) (State, bool) {
	for _, s := range t.states {
		if s.ID == id {
			return s, true
		}
	}
	return State{}, false
}

// BySatisfyingActivity returns the need whose satisfying activity matches
// the given activity ID.
func (t *Tracker) BySatisfyingActivity(activityID string) (State, bool) {
	if activityID == "" {
		return State{}, false
	}
	for _, s := range t.states {
		if s.Def.SatisfyingActivity == activityID {
			return s, true
		}
	}
	return State{}, false
}

// Snapshot returns a copy of all need states, for presentation.
func (t *Tracker) Snapshot() []State {
	out := make([]State, len(t.states))
	copy(out, t.states)
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
