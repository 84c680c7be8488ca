package world

import (
	"sync"

	"github.com/google/uuid"
)

// MoveResult reports how a movement request ended.
type MoveResult struct {
	Tag     uuid.UUID
	Arrived bool
}

type moveRequest struct {
	tag      uuid.UUID
	target   Vec2
	radius   float64
	onResult func(MoveResult)
}

// Walker carries a villager across the map. Positions advance in sim minutes
// via Tick, and each request resolves exactly once: arrival inside the
// acceptance radius, an unreachable target, or supersession by a newer
// request. Results fire outside the walker's lock so callbacks may issue a
// fresh MoveTo.
type Walker struct {
	mu       sync.Mutex
	pos      Vec2
	speed    float64 // units per sim minute
	active   *moveRequest
	failHook func(target Vec2) bool
}

// NewWalker creates a walker at start moving at speed units per sim minute.
func NewWalker(start Vec2, speed float64) *Walker {
	if speed <= 0 {
		speed = 1
	}
	return &Walker{pos: start, speed: speed}
}

// Position returns the current position.
func (w *Walker) Position() Vec2 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pos
}

// SetPosition teleports the walker without touching any active request.
func (w *Walker) SetPosition(pos Vec2) {
	w.mu.Lock()
	w.pos = pos
	w.mu.Unlock()
}

// SetFailHook installs a reachability check. A hook returning true marks the
// target unreachable and the request fails on the next Tick.
func (w *Walker) SetFailHook(hook func(target Vec2) bool) {
	w.mu.Lock()
	w.failHook = hook
	w.mu.Unlock()
}

// MoveTo starts a walk toward target, resolving when the walker is within
// radius of it. Any in-flight request is superseded and reported as failed.
// The returned tag identifies this request in the result callback.
func (w *Walker) MoveTo(target Vec2, radius float64, onResult func(MoveResult)) uuid.UUID {
	tag := uuid.New()

	w.mu.Lock()
	prev := w.active
	w.active = &moveRequest{tag: tag, target: target, radius: radius, onResult: onResult}
	w.mu.Unlock()

	if prev != nil && prev.onResult != nil {
		prev.onResult(MoveResult{Tag: prev.tag, Arrived: false})
	}
	return tag
}

// Cancel drops the active request without reporting a result.
func (w *Walker) Cancel() {
	w.mu.Lock()
	w.active = nil
	w.mu.Unlock()
}

// Tick advances the walker by minutes of sim time. A request completes the
// tick its walker enters the acceptance radius.
func (w *Walker) Tick(minutes float64) {
	w.mu.Lock()
	req := w.active
	if req == nil {
		w.mu.Unlock()
		return
	}

	if w.failHook != nil && w.failHook(req.target) {
		w.active = nil
		w.mu.Unlock()
		if req.onResult != nil {
			req.onResult(MoveResult{Tag: req.tag, Arrived: false})
		}
		return
	}

	delta := req.target.Sub(w.pos)
	dist := delta.Len()
	step := w.speed * minutes
	if step >= dist {
		w.pos = req.target
	} else if dist > 0 {
		w.pos = w.pos.Add(delta.Scale(step / dist))
	}

	if w.pos.Dist(req.target) <= req.radius {
		w.active = nil
		w.mu.Unlock()
		if req.onResult != nil {
			req.onResult(MoveResult{Tag: req.tag, Arrived: true})
		}
		return
	}
	w.mu.Unlock()
}

// Moving reports whether a request is in flight.
func (w *Walker) Moving() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active != nil
}
