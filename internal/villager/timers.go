package villager

import (
	"sync"
	"time"
)

// timerSet is the scheduler's deferred-task service: one cancellable slot
// per purpose. Scheduling a purpose replaces any pending timer under it, so
// a stale retry can never fire twice. Fired callbacks are posted to the
// villager's event loop.
type timerSet struct {
	mu    sync.Mutex
	post  func(func())
	slots map[string]*time.Timer
}

func newTimerSet(post func(func())) *timerSet {
	return &timerSet{post: post, slots: make(map[string]*time.Timer)}
}

func (t *timerSet) Schedule(purpose string, delay time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if old, ok := t.slots[purpose]; ok {
		old.Stop()
	}
	var tm *time.Timer
	tm = time.AfterFunc(delay, func() {
		t.mu.Lock()
		live := t.slots[purpose] == tm
		if live {
			delete(t.slots, purpose)
		}
		t.mu.Unlock()
		if live {
			t.post(fn)
		}
	})
	t.slots[purpose] = tm
}

func (t *timerSet) Cancel(purpose string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tm, ok := t.slots[purpose]; ok {
		tm.Stop()
		delete(t.slots, purpose)
	}
}

func (t *timerSet) CancelAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for purpose, tm := range t.slots {
		tm.Stop()
		delete(t.slots, purpose)
	}
}
