// Package fakeclock provides a controllable Clock implementation for testing.
package fakeclock

import (
	"sync"
	"time"

	"github.com/acolita/stopwatch-mcp/internal/ports"
)

// Clock is a fake clock that can be controlled in tests.
// Wall time and monotonic time advance together.
type Clock struct {
	mu      sync.Mutex
	current time.Time
	mono    ports.Timestamp
	tickers []*Ticker
}

// New creates a new fake clock initialized to the given wall time.
// The monotonic reading starts at zero.
func New(initial time.Time) *Clock {
	return &Clock{current: initial}
}

// Now returns the current fake wall time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Monotonic returns the current fake monotonic reading.
func (c *Clock) Monotonic() ports.Timestamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mono
}

// NewTicker returns a fake ticker. It only ticks when Tick is called.
func (c *Clock) NewTicker(d time.Duration) ports.Ticker {
	t := &Ticker{
		clock:    c,
		interval: d,
		ch:       make(chan time.Time),
	}
	c.mu.Lock()
	c.tickers = append(c.tickers, t)
	c.mu.Unlock()
	return t
}

// Tickers returns every ticker created so far.
func (c *Clock) Tickers() []*Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Ticker, len(c.tickers))
	copy(out, c.tickers)
	return out
}

// Advance moves the clock forward by duration d.
// Negative durations are ignored; the monotonic reading never goes back.
func (c *Clock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.current = c.current.Add(d)
	c.mono = c.mono.Add(d)
	c.mu.Unlock()
}

// Set sets the wall clock to a specific time. The monotonic reading is unchanged.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Ticker is a fake ticker for testing.
type Ticker struct {
	clock    *Clock
	interval time.Duration
	ch       chan time.Time
	stopped  bool
	mu       sync.Mutex
}

// C returns the channel on which ticks are delivered.
func (t *Ticker) C() <-chan time.Time {
	return t.ch
}

// Stop turns off the ticker.
func (t *Ticker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

// Stopped reports whether Stop was called.
func (t *Ticker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Interval returns the period the ticker was created with.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// Tick advances the clock by the ticker interval and sends a tick.
// The channel is unbuffered, so Tick blocks until the consumer receives it.
// Ticks after Stop are dropped.
func (t *Ticker) Tick() {
	t.mu.Lock()
	stopped := t.stopped
	t.mu.Unlock()

	if stopped {
		return
	}
	t.clock.Advance(t.interval)
	t.ch <- t.clock.Now()
}

// Ensure Clock implements ports.Clock.
var _ ports.Clock = (*Clock)(nil)
