package recording

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/acolita/stopwatch-mcp/internal/testing/fakes/fakeclock"
	"github.com/acolita/stopwatch-mcp/internal/testing/fakes/fakefs"
)

func newTestRecorder(t *testing.T, opts Options) (*Recorder, *fakefs.FS, *fakeclock.Clock) {
	t.Helper()
	fs := fakefs.New()
	clock := fakeclock.New(time.Date(2024, 3, 9, 14, 5, 30, 0, time.UTC))
	r, err := NewRecorder(fs, clock, "/rec", "stopwatch", opts)
	if err != nil {
		t.Fatalf("NewRecorder() error: %v", err)
	}
	return r, fs, clock
}

// readCast returns the header and events of the recording at path.
func readCast(t *testing.T, fs *fakefs.FS, path string) (Header, [][]any) {
	t.Helper()
	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error: %v", path, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	if !scanner.Scan() {
		t.Fatal("recording is empty")
	}
	var h Header
	if err := json.Unmarshal(scanner.Bytes(), &h); err != nil {
		t.Fatalf("parse header: %v", err)
	}

	var events [][]any
	for scanner.Scan() {
		var ev []any
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("parse event %q: %v", scanner.Text(), err)
		}
		events = append(events, ev)
	}
	return h, events
}

func TestEventMarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		expected string
	}{
		{
			name:     "output event",
			event:    Event{Time: 1.5, Type: EventOutput, Data: "\r00:00:01.500"},
			expected: `[1.5,"o","\r00:00:01.500"]`,
		},
		{
			name:     "marker event",
			event:    Event{Time: 0, Type: EventMarker, Data: "start"},
			expected: `[0,"m","start"]`,
		},
		{
			name:     "unicode data",
			event:    Event{Time: 0.25, Type: EventOutput, Data: "00:00:00 – Time’s up"},
			expected: `[0.25,"o","00:00:00 – Time’s up"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.event)
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("MarshalJSON() = %s, want %s", string(got), tt.expected)
			}
		})
	}
}

func TestNewRecorder_PathAndHeader(t *testing.T) {
	r, fs, _ := newTestRecorder(t, Options{Title: "stopwatch run"})

	if r.Path() != "/rec/stopwatch_20240309_140530.cast" {
		t.Errorf("Path() = %q", r.Path())
	}
	if len(fs.Files()) != 0 {
		t.Errorf("NewRecorder wrote before Flush: %v", fs.Files())
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	h, events := readCast(t, fs, r.Path())
	if h.Version != 2 {
		t.Errorf("Version = %d, want 2", h.Version)
	}
	if h.Width != 40 || h.Height != 1 {
		t.Errorf("size = %dx%d, want default 40x1", h.Width, h.Height)
	}
	if h.Title != "stopwatch run" {
		t.Errorf("Title = %q", h.Title)
	}
	if h.Timestamp != time.Date(2024, 3, 9, 14, 5, 30, 0, time.UTC).Unix() {
		t.Errorf("Timestamp = %d", h.Timestamp)
	}
	if len(events) != 0 {
		t.Errorf("events = %v, want none", events)
	}
}

func TestNewRecorder_RefusesExistingFile(t *testing.T) {
	fs := fakefs.New()
	clock := fakeclock.New(time.Date(2024, 3, 9, 14, 5, 30, 0, time.UTC))
	fs.AddFile("/rec/countdown_20240309_140530.cast", []byte("{}"), 0600)

	_, err := NewRecorder(fs, clock, "/rec", "countdown", Options{})
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("NewRecorder() error = %v, want already exists", err)
	}
}

func TestRecorder_EventTimestamps(t *testing.T) {
	r, fs, clock := newTestRecorder(t, Options{})

	_ = r.RecordMarker("start")
	clock.Advance(1500 * time.Millisecond)
	_ = r.RecordOutput("\r00:00:01.500")
	clock.Advance(500 * time.Millisecond)
	_ = r.RecordMarker("stop")
	_ = r.Close()

	_, events := readCast(t, fs, r.Path())
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	wantTimes := []float64{0, 1.5, 2}
	wantTypes := []string{"m", "o", "m"}
	for i, ev := range events {
		if ev[0].(float64) != wantTimes[i] {
			t.Errorf("event %d time = %v, want %v", i, ev[0], wantTimes[i])
		}
		if ev[1].(string) != wantTypes[i] {
			t.Errorf("event %d type = %v, want %v", i, ev[1], wantTypes[i])
		}
	}
}

func TestRecorder_ThrottlesOutputNotMarkers(t *testing.T) {
	r, fs, clock := newTestRecorder(t, Options{MinInterval: 100 * time.Millisecond})

	for i := 0; i < 10; i++ {
		_ = r.RecordOutput("frame")
		_ = r.RecordMarker("tick")
		clock.Advance(16 * time.Millisecond)
	}
	_ = r.Close()

	_, events := readCast(t, fs, r.Path())
	outputs, markers := 0, 0
	for _, ev := range events {
		switch ev[1] {
		case EventOutput:
			outputs++
		case EventMarker:
			markers++
		}
	}
	// Frames at 0, 112 ms pass the 100 ms throttle within 160 ms.
	if outputs != 2 {
		t.Errorf("outputs = %d, want 2", outputs)
	}
	if markers != 10 {
		t.Errorf("markers = %d, want 10", markers)
	}
}

func TestRecorder_CloseIdempotentAndDropsLateEvents(t *testing.T) {
	r, fs, _ := newTestRecorder(t, Options{})

	_ = r.RecordMarker("one")
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := r.RecordMarker("late"); err != nil {
		t.Errorf("RecordMarker() after Close error: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}

	_, events := readCast(t, fs, r.Path())
	if len(events) != 1 {
		t.Errorf("events = %d, want 1", len(events))
	}
	if fs.Writes() != 1 {
		t.Errorf("Writes() = %d, want 1", fs.Writes())
	}
}

func TestRecorder_FlushWriteError(t *testing.T) {
	r, fs, _ := newTestRecorder(t, Options{})
	boom := errors.New("read-only")
	fs.FailWrites(boom)

	if err := r.Flush(); !errors.Is(err, boom) {
		t.Errorf("Flush() error = %v, want %v", err, boom)
	}
}
