// Package realclock provides a real implementation of the Clock port using the time package.
package realclock

import (
	"time"

	"github.com/aristanetworks/goarista/monotime"

	"github.com/acolita/stopwatch-mcp/internal/ports"
)

// Clock implements ports.Clock using the standard time package and the
// runtime's monotonic clock.
type Clock struct{}

// New returns a new real Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current wall-clock time.
func (c *Clock) Now() time.Time {
	return time.Now()
}

// Monotonic returns the runtime's monotonic reading in nanoseconds.
func (c *Clock) Monotonic() ports.Timestamp {
	return ports.Timestamp(monotime.Now())
}

// NewTicker returns a new Ticker that sends the current time on its channel.
func (c *Clock) NewTicker(d time.Duration) ports.Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

// realTicker wraps time.Ticker to implement ports.Ticker.
type realTicker struct {
	ticker *time.Ticker
}

func (t *realTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t *realTicker) Stop() {
	t.ticker.Stop()
}

// Ensure Clock implements ports.Clock.
var _ ports.Clock = (*Clock)(nil)
