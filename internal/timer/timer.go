// Package timer implements the frame-driven stopwatch and countdown engine.
//
// A Timer advances by accumulating the delta between consecutive frame
// callbacks rather than measuring from a fixed start. When the host throttles
// or pauses frames the next frame simply carries a larger delta.
//
// Timers are not safe for concurrent use. All calls, including the frame
// callbacks, must happen on one goroutine, which ports.FrameHost provides.
// Commands may be issued from inside the OnTick and OnComplete observers.
package timer

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/acolita/stopwatch-mcp/internal/ports"
)

var (
	// ErrSchedulingUnavailable is returned by Start when the frame scheduler
	// refuses the request. The timer is left stopped.
	ErrSchedulingUnavailable = errors.New("frame scheduling unavailable")

	// ErrRunning is returned by SetDuration while the countdown is running.
	ErrRunning = errors.New("timer is running")

	// ErrWrongKind is returned by variant-specific operations called on the
	// other variant.
	ErrWrongKind = errors.New("operation not supported by this timer kind")
)

// Kind selects the timer variant.
type Kind int

const (
	// KindStopwatch counts up from zero without bound.
	KindStopwatch Kind = iota
	// KindCountdown counts down from a configured duration to zero.
	KindCountdown
)

func (k Kind) String() string {
	switch k {
	case KindStopwatch:
		return "stopwatch"
	case KindCountdown:
		return "countdown"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Option configures a Timer.
type Option func(*Timer)

// WithOnTick registers the observer called with the current value after every
// frame, reset and set.
func WithOnTick(fn func(time.Duration)) Option {
	return func(t *Timer) {
		t.onTick = fn
	}
}

// WithOnComplete registers the observer called once when a countdown reaches zero.
func WithOnComplete(fn func()) Option {
	return func(t *Timer) {
		t.onComplete = fn
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Timer) {
		t.logger = l
	}
}

// Timer is a stopwatch or countdown driven by a ports.FrameScheduler.
type Timer struct {
	kind   Kind
	frames ports.FrameScheduler
	logger *slog.Logger

	onTick     func(time.Duration)
	onComplete func()

	running    bool
	value      time.Duration // elapsed for a stopwatch, remaining for a countdown
	configured time.Duration
	last       ports.Timestamp
	handle     ports.FrameHandle
	gen        uint64
}

// New creates a stopped timer of the given kind at zero.
func New(kind Kind, frames ports.FrameScheduler, opts ...Option) *Timer {
	t := &Timer{
		kind:   kind,
		frames: frames,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With(slog.String("timer", kind.String()))
	return t
}

// NewStopwatch creates a stopped stopwatch at zero.
func NewStopwatch(frames ports.FrameScheduler, opts ...Option) *Timer {
	return New(KindStopwatch, frames, opts...)
}

// NewCountdown creates a stopped countdown with no configured duration.
func NewCountdown(frames ports.FrameScheduler, opts ...Option) *Timer {
	return New(KindCountdown, frames, opts...)
}

// SetOnTick replaces the tick observer. Nil removes it.
func (t *Timer) SetOnTick(fn func(time.Duration)) {
	t.onTick = fn
}

// SetOnComplete replaces the completion observer. Nil removes it.
func (t *Timer) SetOnComplete(fn func()) {
	t.onComplete = fn
}

// Kind returns the timer variant.
func (t *Timer) Kind() Kind {
	return t.kind
}

// Running reports whether the timer is accumulating.
func (t *Timer) Running() bool {
	return t.running
}

// Value returns the elapsed time of a stopwatch or the remaining time of a countdown.
func (t *Timer) Value() time.Duration {
	return t.value
}

// Configured returns the countdown's last set duration. Always zero for a stopwatch.
func (t *Timer) Configured() time.Duration {
	return t.configured
}

// Start begins accumulating. It is a no-op when already running, and for a
// countdown when nothing remains.
func (t *Timer) Start() error {
	if t.running {
		return nil
	}
	if t.kind == KindCountdown && t.value <= 0 {
		return nil
	}

	t.running = true
	t.gen++
	t.last = t.frames.Now()
	if err := t.schedule(); err != nil {
		return err
	}

	t.logger.Debug("timer started", slog.Duration("value", t.value))
	return nil
}

// Stop halts accumulation. Calling it on a stopped timer does nothing.
func (t *Timer) Stop() {
	if !t.running && t.handle == 0 {
		return
	}

	t.running = false
	t.gen++
	// Cancel before clearing so the pending frame can never run.
	if t.handle != 0 {
		t.frames.CancelFrame(t.handle)
		t.handle = 0
	}

	t.logger.Debug("timer stopped", slog.Duration("value", t.value))
}

// Reset stops the timer and returns it to zero. For a countdown this also
// clears the configured duration.
func (t *Timer) Reset() {
	t.Stop()
	t.value = 0
	t.configured = 0
	t.notify()
}

// SetDuration arms a stopped countdown with d, clamping negatives to zero.
func (t *Timer) SetDuration(d time.Duration) error {
	if t.kind != KindCountdown {
		return fmt.Errorf("set duration on %s: %w", t.kind, ErrWrongKind)
	}
	if t.running {
		return ErrRunning
	}
	if d < 0 {
		d = 0
	}

	t.configured = d
	t.value = d
	t.notify()
	return nil
}

// RestoreConfigured stops a countdown and rewinds it to its configured duration.
func (t *Timer) RestoreConfigured() error {
	if t.kind != KindCountdown {
		return fmt.Errorf("restore on %s: %w", t.kind, ErrWrongKind)
	}

	t.Stop()
	t.value = t.configured
	t.notify()
	return nil
}

// schedule requests the next frame for the current run. On failure the timer
// is stopped.
func (t *Timer) schedule() error {
	gen := t.gen
	h, err := t.frames.RequestFrame(func(now ports.Timestamp) {
		t.frame(gen, now)
	})
	if err != nil {
		t.running = false
		t.handle = 0
		t.gen++
		t.logger.Warn("frame request failed, timer stopped",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %v", ErrSchedulingUnavailable, err)
	}
	t.handle = h
	return nil
}

func (t *Timer) frame(gen uint64, now ports.Timestamp) {
	if !t.running || gen != t.gen {
		return
	}
	t.handle = 0

	dt := now.Sub(t.last)
	if dt < 0 {
		dt = 0
	}
	t.last = now

	finished := false
	switch t.kind {
	case KindStopwatch:
		t.value += dt
	case KindCountdown:
		before := t.value
		t.value -= dt
		if t.value <= 0 {
			t.value = 0
			finished = before > 0
		}
	}

	t.notify()

	// An observer that rewound the countdown during the final tick cancels
	// the completion.
	if finished && t.value == 0 {
		t.Stop()
		t.logger.Debug("countdown complete")
		if t.onComplete != nil {
			t.onComplete()
		}
		return
	}

	// The observer may have stopped, or stopped and restarted, the timer.
	if t.running && t.handle == 0 && gen == t.gen {
		_ = t.schedule()
	}
}

func (t *Timer) notify() {
	if t.onTick != nil {
		t.onTick(t.value)
	}
}
