package fakeclock

import (
	"errors"
	"testing"
	"time"

	"github.com/acolita/stopwatch-mcp/internal/ports"
)

func TestClock_Now(t *testing.T) {
	initial := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(initial)

	if got := c.Now(); !got.Equal(initial) {
		t.Errorf("Now() = %v, want %v", got, initial)
	}
	if got := c.Monotonic(); got != 0 {
		t.Errorf("Monotonic() = %v, want 0", got)
	}
}

func TestClock_Advance(t *testing.T) {
	initial := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(initial)

	c.Advance(5 * time.Minute)

	expected := initial.Add(5 * time.Minute)
	if got := c.Now(); !got.Equal(expected) {
		t.Errorf("Now() after Advance = %v, want %v", got, expected)
	}
	if got := c.Monotonic(); got != ports.Timestamp(5*time.Minute) {
		t.Errorf("Monotonic() after Advance = %v, want %v", got, 5*time.Minute)
	}

	// Negative advances never move time back.
	c.Advance(-time.Hour)
	if got := c.Monotonic(); got != ports.Timestamp(5*time.Minute) {
		t.Errorf("Monotonic() after negative Advance = %v", got)
	}
}

func TestClock_SetKeepsMonotonic(t *testing.T) {
	c := New(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	c.Advance(time.Second)

	c.Set(time.Date(2020, 6, 15, 12, 30, 0, 0, time.UTC))

	if got := c.Monotonic(); got != ports.Timestamp(time.Second) {
		t.Errorf("Monotonic() after Set = %v, want 1s", got)
	}
}

func TestTicker_TickAndStop(t *testing.T) {
	c := New(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ticker := c.NewTicker(16 * time.Millisecond).(*Ticker)

	received := make(chan time.Time)
	go func() { received <- <-ticker.C() }()

	ticker.Tick()
	<-received

	if got := c.Monotonic(); got != ports.Timestamp(16*time.Millisecond) {
		t.Errorf("Monotonic() after Tick = %v, want 16ms", got)
	}

	ticker.Stop()
	if !ticker.Stopped() {
		t.Error("Stopped() = false after Stop")
	}
	// Must not block once stopped.
	ticker.Tick()

	if len(c.Tickers()) != 1 {
		t.Errorf("Tickers() = %d, want 1", len(c.Tickers()))
	}
}

func TestFrames_DispatchOrderAndDeferral(t *testing.T) {
	f := NewFrames()

	var got []string
	var stamps []ports.Timestamp
	_, _ = f.RequestFrame(func(now ports.Timestamp) {
		got = append(got, "a")
		stamps = append(stamps, now)
		// Requested during dispatch: runs on the following frame.
		_, _ = f.RequestFrame(func(ports.Timestamp) { got = append(got, "c") })
	})
	_, _ = f.RequestFrame(func(now ports.Timestamp) {
		got = append(got, "b")
		stamps = append(stamps, now)
	})

	if ran := f.Frame(10 * time.Millisecond); ran != 2 {
		t.Fatalf("Frame() ran %d callbacks, want 2", ran)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("dispatch order = %v, want [a b]", got)
	}
	if stamps[0] != stamps[1] || stamps[0] != ports.Timestamp(10*time.Millisecond) {
		t.Errorf("frame timestamps = %v, want both 10ms", stamps)
	}

	f.Frame(10 * time.Millisecond)
	if len(got) != 3 || got[2] != "c" {
		t.Errorf("deferred callback did not run on next frame: %v", got)
	}
}

func TestFrames_Cancel(t *testing.T) {
	f := NewFrames()

	fired := false
	h, err := f.RequestFrame(func(ports.Timestamp) { fired = true })
	if err != nil {
		t.Fatalf("RequestFrame() error: %v", err)
	}
	if h == 0 {
		t.Fatal("RequestFrame() returned zero handle")
	}

	f.CancelFrame(h)
	f.Frame(time.Millisecond)

	if fired {
		t.Error("cancelled callback fired")
	}
	if f.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", f.Pending())
	}
}

func TestFrames_CancelWithinSameFrame(t *testing.T) {
	f := NewFrames()

	var second ports.FrameHandle
	fired := false
	_, _ = f.RequestFrame(func(ports.Timestamp) { f.CancelFrame(second) })
	second, _ = f.RequestFrame(func(ports.Timestamp) { fired = true })

	f.Frame(time.Millisecond)

	if fired {
		t.Error("callback cancelled earlier in the same frame still fired")
	}
}

func TestFrames_FailRequests(t *testing.T) {
	f := NewFrames()
	boom := errors.New("no display")

	f.FailRequests(boom)
	if _, err := f.RequestFrame(func(ports.Timestamp) {}); !errors.Is(err, boom) {
		t.Errorf("RequestFrame() error = %v, want %v", err, boom)
	}

	f.FailRequests(nil)
	if _, err := f.RequestFrame(func(ports.Timestamp) {}); err != nil {
		t.Errorf("RequestFrame() after restore error = %v", err)
	}
	if f.Requests() != 2 {
		t.Errorf("Requests() = %d, want 2", f.Requests())
	}
}

func TestFrames_Run(t *testing.T) {
	f := NewFrames()

	frames := 0
	var loop ports.FrameCallback
	loop = func(ports.Timestamp) {
		frames++
		_, _ = f.RequestFrame(loop)
	}
	_, _ = f.RequestFrame(loop)

	f.Run(100*time.Millisecond, 16*time.Millisecond)

	// 6 full frames of 16ms plus one of 4ms.
	if frames != 7 {
		t.Errorf("frames = %d, want 7", frames)
	}
	if got := f.Now(); got != ports.Timestamp(100*time.Millisecond) {
		t.Errorf("Now() = %v, want 100ms", got)
	}
}
