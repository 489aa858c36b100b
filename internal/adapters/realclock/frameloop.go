package realclock

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/acolita/stopwatch-mcp/internal/ports"
)

// DefaultFrameRate is the number of frames dispatched per second when the
// configured rate is not positive.
const DefaultFrameRate = 60

// ErrLoopClosed is returned by RequestFrame and Do after Close.
var ErrLoopClosed = errors.New("frame loop closed")

// ErrLoopNotStarted is returned by Do before Start.
var ErrLoopNotStarted = errors.New("frame loop not started")

type pendingFrame struct {
	handle ports.FrameHandle
	cb     ports.FrameCallback
}

type task struct {
	fn   func()
	done chan struct{}
}

// FrameLoop implements ports.FrameHost on a single goroutine. Frame callbacks
// and closures passed to Do all run on that goroutine, one at a time.
type FrameLoop struct {
	clock    ports.Clock
	interval time.Duration

	mu       sync.Mutex
	pending  []pendingFrame
	inflight map[ports.FrameHandle]struct{}
	next     ports.FrameHandle
	closed   bool
	started  atomic.Bool

	tasks     chan task
	done      chan struct{}
	finished  chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
}

// NewFrameLoop creates a loop dispatching fps frames per second. Call Start
// to begin dispatching.
func NewFrameLoop(clock ports.Clock, fps int) *FrameLoop {
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	return &FrameLoop{
		clock:    clock,
		interval: time.Second / time.Duration(fps),
		tasks:    make(chan task),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// Start launches the dispatch goroutine. Calling it more than once has no effect.
func (l *FrameLoop) Start() {
	l.startOnce.Do(func() {
		l.started.Store(true)
		go l.run()
	})
}

// Interval returns the time between frames.
func (l *FrameLoop) Interval() time.Duration {
	return l.interval
}

// Now returns the current monotonic reading.
func (l *FrameLoop) Now() ports.Timestamp {
	return l.clock.Monotonic()
}

// RequestFrame registers cb to run on the next frame.
func (l *FrameLoop) RequestFrame(cb ports.FrameCallback) (ports.FrameHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0, ErrLoopClosed
	}
	l.next++
	l.pending = append(l.pending, pendingFrame{handle: l.next, cb: cb})
	return l.next, nil
}

// CancelFrame removes a pending callback.
func (l *FrameLoop) CancelFrame(h ports.FrameHandle) {
	if h == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i, p := range l.pending {
		if p.handle == h {
			l.pending = append(l.pending[:i], l.pending[i+1:]...)
			return
		}
	}
	delete(l.inflight, h)
}

// Pending returns the number of callbacks waiting for the next frame.
func (l *FrameLoop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Do runs fn on the loop goroutine and blocks until it returns.
func (l *FrameLoop) Do(fn func()) error {
	if !l.started.Load() {
		select {
		case <-l.done:
			return ErrLoopClosed
		default:
			return ErrLoopNotStarted
		}
	}
	t := task{fn: fn, done: make(chan struct{})}
	select {
	case l.tasks <- t:
	case <-l.done:
		return ErrLoopClosed
	}
	<-t.done
	return nil
}

// Close stops dispatching. Pending callbacks are dropped.
func (l *FrameLoop) Close() error {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		l.pending = nil
		l.inflight = nil
		l.mu.Unlock()
		close(l.done)
	})

	// Start after Close must not launch the goroutine.
	l.startOnce.Do(func() {})
	if l.started.Load() {
		<-l.finished
	}
	return nil
}

func (l *FrameLoop) run() {
	defer close(l.finished)

	ticker := l.clock.NewTicker(l.interval)
	defer ticker.Stop()

	slog.Debug("frame loop started", slog.Duration("interval", l.interval))

	for {
		select {
		case <-l.done:
			slog.Debug("frame loop stopped")
			return
		case t := <-l.tasks:
			t.fn()
			close(t.done)
		case <-ticker.C():
			l.dispatch()
		}
	}
}

// dispatch runs every callback that was pending when the frame began.
// Callbacks run without the lock held so they can request or cancel frames.
func (l *FrameLoop) dispatch() {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.inflight = make(map[ports.FrameHandle]struct{}, len(batch))
	for _, p := range batch {
		l.inflight[p.handle] = struct{}{}
	}
	l.mu.Unlock()

	now := l.clock.Monotonic()
	for _, p := range batch {
		l.mu.Lock()
		_, live := l.inflight[p.handle]
		delete(l.inflight, p.handle)
		l.mu.Unlock()

		// An earlier callback in this frame may have cancelled this one.
		if live {
			p.cb(now)
		}
	}

	l.mu.Lock()
	l.inflight = nil
	l.mu.Unlock()
}

// Ensure FrameLoop implements ports.FrameHost.
var _ ports.FrameHost = (*FrameLoop)(nil)
