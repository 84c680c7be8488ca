package world

import (
	"log/slog"
	"sync"
	"time"
)

// Clock is the authoritative in-game time source. It advances one simulated
// minute per tick and notifies subscribers. The default cadence maps one real
// second to one sim-minute, matching the village prototype tuning.
type Clock struct {
	mu sync.Mutex

	hour   int
	minute int

	secondsPerMinute float64
	minuteSubs       []func(hour, minute int)
	hourSubs         []func(hour int)

	stop    chan struct{}
	running bool
}

// NewClock creates a clock starting at the given hour.
func NewClock(startHour int, secondsPerGameMinute float64) *Clock {
	if secondsPerGameMinute < 0.1 {
		secondsPerGameMinute = 0.1
	}
	return &Clock{
		hour:             startHour % 24,
		secondsPerMinute: secondsPerGameMinute,
	}
}

// SubscribeMinute registers a callback fired once per simulated minute.
// Callbacks run on the clock goroutine; subscribers must not block.
func (c *Clock) SubscribeMinute(fn func(hour, minute int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.minuteSubs = append(c.minuteSubs, fn)
}

// SubscribeHour registers a callback fired on every hour change.
func (c *Clock) SubscribeHour(fn func(hour int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hourSubs = append(c.hourSubs, fn)
}

// CurrentHour returns the current hour in 24-hour format.
func (c *Clock) CurrentHour() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hour
}

// CurrentMinute returns the current minute.
func (c *Clock) CurrentMinute() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.minute
}

// Start begins ticking in a goroutine. Calling Start on a running clock is
// a no-op.
func (c *Clock) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.stop = make(chan struct{})
	interval := time.Duration(c.secondsPerMinute * float64(time.Second))
	stop := c.stop
	c.mu.Unlock()

	slog.Info("village clock started", "hour", c.CurrentHour(), "seconds_per_minute", c.secondsPerMinute)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.Advance()
			}
		}
	}()
}

// Stop halts the ticking goroutine.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	close(c.stop)
	slog.Info("village clock stopped", "hour", c.hour, "minute", c.minute)
}

// Advance moves the clock forward one simulated minute and fires
// subscriptions. Exposed so tests and batch runs can drive time manually.
func (c *Clock) Advance() {
	c.mu.Lock()
	c.minute++
	hourChanged := false
	if c.minute >= 60 {
		c.minute = 0
		c.hour++
		if c.hour >= 24 {
			c.hour = 0
		}
		hourChanged = true
	}
	hour, minute := c.hour, c.minute
	minuteSubs := append([]func(int, int){}, c.minuteSubs...)
	hourSubs := append([]func(int){}, c.hourSubs...)
	c.mu.Unlock()

	if hourChanged {
		for _, fn := range hourSubs {
			fn(hour)
		}
	}
	for _, fn := range minuteSubs {
		fn(hour, minute)
	}
}
