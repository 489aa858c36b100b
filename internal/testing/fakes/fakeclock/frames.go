package fakeclock

import (
	"sync"
	"time"

	"github.com/acolita/stopwatch-mcp/internal/ports"
)

// Frames is a deterministic ports.FrameHost. Frames are only dispatched when
// a test calls Frame, and Do runs its closure inline on the caller's goroutine.
type Frames struct {
	*Clock

	mu       sync.Mutex
	pending  []frame
	inflight map[ports.FrameHandle]bool
	next     ports.FrameHandle
	failErr  error
	requests int
}

type frame struct {
	handle ports.FrameHandle
	cb     ports.FrameCallback
}

// NewFrames returns a frame host backed by a fresh fake clock.
func NewFrames() *Frames {
	return &Frames{Clock: New(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}
}

// Now returns the monotonic reading of the underlying clock.
func (f *Frames) Now() ports.Timestamp {
	return f.Clock.Monotonic()
}

// RequestFrame queues cb for the next Frame call.
func (f *Frames) RequestFrame(cb ports.FrameCallback) (ports.FrameHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests++
	if f.failErr != nil {
		return 0, f.failErr
	}
	f.next++
	f.pending = append(f.pending, frame{handle: f.next, cb: cb})
	return f.next, nil
}

// CancelFrame drops a queued callback.
func (f *Frames) CancelFrame(h ports.FrameHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, p := range f.pending {
		if p.handle == h {
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			return
		}
	}
	delete(f.inflight, h)
}

// Do runs fn immediately.
func (f *Frames) Do(fn func()) error {
	fn()
	return nil
}

// FailRequests makes every later RequestFrame return err. Pass nil to restore.
func (f *Frames) FailRequests(err error) {
	f.mu.Lock()
	f.failErr = err
	f.mu.Unlock()
}

// Pending returns the number of queued callbacks.
func (f *Frames) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// Requests returns how many times RequestFrame was called.
func (f *Frames) Requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

// Frame advances the clock by dt and dispatches every callback that was
// queued before the call. Callbacks queued during dispatch wait for the next
// Frame. It returns the number of callbacks run.
func (f *Frames) Frame(dt time.Duration) int {
	f.Clock.Advance(dt)

	f.mu.Lock()
	batch := f.pending
	f.pending = nil
	f.inflight = make(map[ports.FrameHandle]bool, len(batch))
	for _, p := range batch {
		f.inflight[p.handle] = true
	}
	f.mu.Unlock()

	now := f.Clock.Monotonic()
	ran := 0
	for _, p := range batch {
		f.mu.Lock()
		live := f.inflight[p.handle]
		delete(f.inflight, p.handle)
		f.mu.Unlock()

		if live {
			p.cb(now)
			ran++
		}
	}
	return ran
}

// Run dispatches frames of length step until total time has passed. The last
// frame is shortened so exactly total elapses.
func (f *Frames) Run(total, step time.Duration) {
	for total > 0 {
		dt := step
		if dt > total {
			dt = total
		}
		f.Frame(dt)
		total -= dt
	}
}

// Ensure Frames implements ports.FrameHost.
var _ ports.FrameHost = (*Frames)(nil)
