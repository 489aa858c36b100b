// Package ports defines interfaces for external dependencies (Ports and Adapters pattern).
package ports

import "time"

// Timestamp is a monotonic clock reading measured from an arbitrary origin.
// It never goes backwards and is unaffected by wall-clock adjustments.
type Timestamp time.Duration

// Add returns t shifted by d.
func (t Timestamp) Add(d time.Duration) Timestamp {
	return t + Timestamp(d)
}

// Sub returns the duration t-u.
func (t Timestamp) Sub(u Timestamp) time.Duration {
	return time.Duration(t - u)
}

// Clock abstracts time operations for testing.
type Clock interface {
	// Now returns the current wall-clock time.
	Now() time.Time

	// Monotonic returns the current monotonic reading.
	Monotonic() Timestamp

	// NewTicker returns a new Ticker that sends the current time on its channel
	// after each tick.
	NewTicker(d time.Duration) Ticker
}

// Ticker wraps time.Ticker for testing.
type Ticker interface {
	// C returns the channel on which ticks are delivered.
	C() <-chan time.Time

	// Stop turns off the ticker.
	Stop()
}

// FrameCallback runs once per display frame with the frame's monotonic timestamp.
type FrameCallback func(now Timestamp)

// FrameHandle identifies a pending frame request. Zero is never a valid handle.
type FrameHandle uint64

// FrameScheduler is the per-frame clock source that drives the timers.
type FrameScheduler interface {
	// Now returns the current monotonic reading.
	Now() Timestamp

	// RequestFrame registers cb to run once on the next frame.
	// A callback requested while a frame is being dispatched runs on the
	// following frame.
	RequestFrame(cb FrameCallback) (FrameHandle, error)

	// CancelFrame guarantees the callback for h will not run if it has not
	// already. Unknown or zero handles are ignored.
	CancelFrame(h FrameHandle)
}

// FrameHost is a FrameScheduler that also serializes arbitrary work onto the
// goroutine that dispatches frames.
type FrameHost interface {
	FrameScheduler

	// Do runs fn on the frame goroutine and waits for it to return.
	// It must not be called from inside a frame callback.
	Do(fn func()) error
}
