// Package recording records the timer display in asciicast v2 format so a
// run can be replayed with asciinema.
package recording

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/acolita/stopwatch-mcp/internal/ports"
)

// Event types used in recordings.
const (
	EventOutput = "o"
	EventMarker = "m"
)

// Recorder buffers a recording and writes it through ports.FileSystem.
// See: https://docs.asciinema.org/manual/asciicast/v2/
type Recorder struct {
	mu          sync.Mutex
	fs          ports.FileSystem
	clock       ports.Clock
	path        string
	start       ports.Timestamp
	minInterval time.Duration
	lastOutput  ports.Timestamp
	hasOutput   bool
	buf         bytes.Buffer
	closed      bool
}

// Header is the asciicast v2 header.
type Header struct {
	Version   int               `json:"version"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Timestamp int64             `json:"timestamp"`
	Title     string            `json:"title,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
}

// Event is an asciicast v2 event [time, type, data].
type Event struct {
	Time float64 `json:"-"`
	Type string  `json:"-"`
	Data string  `json:"-"`
}

// MarshalJSON implements custom JSON marshaling for Event.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{e.Time, e.Type, e.Data})
}

// Options configures a Recorder.
type Options struct {
	Width  int
	Height int
	Title  string
	// MinInterval drops output events closer together than this.
	// Markers are never dropped.
	MinInterval time.Duration
}

// NewRecorder creates a recorder for a file named <name>_<timestamp>.cast in basePath.
// Nothing is written until Flush or Close.
func NewRecorder(fs ports.FileSystem, clock ports.Clock, basePath, name string, opts Options) (*Recorder, error) {
	if err := fs.MkdirAll(basePath, 0700); err != nil {
		return nil, fmt.Errorf("create recording directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.cast", name, clock.Now().Format("20060102_150405"))
	fullPath := filepath.Join(basePath, filename)
	if _, err := fs.Stat(fullPath); err == nil {
		return nil, fmt.Errorf("create recording file: %s already exists", fullPath)
	}

	if opts.Width <= 0 {
		opts.Width = 40
	}
	if opts.Height <= 0 {
		opts.Height = 1
	}

	r := &Recorder{
		fs:          fs,
		clock:       clock,
		path:        fullPath,
		start:       clock.Monotonic(),
		minInterval: opts.MinInterval,
	}

	header := Header{
		Version:   2,
		Width:     opts.Width,
		Height:    opts.Height,
		Timestamp: clock.Now().Unix(),
		Title:     opts.Title,
		Env: map[string]string{
			"TERM": "xterm-256color",
		},
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("marshal header: %w", err)
	}
	r.buf.Write(headerJSON)
	r.buf.WriteByte('\n')

	return r, nil
}

// RecordOutput records a display update, subject to MinInterval.
func (r *Recorder) RecordOutput(data string) error {
	return r.record(EventOutput, data, true)
}

// RecordMarker records a named marker such as a command or completion.
func (r *Recorder) RecordMarker(label string) error {
	return r.record(EventMarker, label, false)
}

func (r *Recorder) record(eventType, data string, throttle bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	now := r.clock.Monotonic()
	if throttle {
		if r.hasOutput && now.Sub(r.lastOutput) < r.minInterval {
			return nil
		}
		r.hasOutput = true
		r.lastOutput = now
	}

	event := Event{
		Time: now.Sub(r.start).Seconds(),
		Type: eventType,
		Data: data,
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	r.buf.Write(eventJSON)
	r.buf.WriteByte('\n')
	return nil
}

// Flush writes everything recorded so far to the file.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushLocked()
}

func (r *Recorder) flushLocked() error {
	if err := r.fs.WriteFile(r.path, r.buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("write recording: %w", err)
	}
	return nil
}

// Close flushes the recording. Later events are ignored.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	return r.flushLocked()
}

// Path returns the path to the recording file.
func (r *Recorder) Path() string {
	return r.path
}
