// Package board wires one stopwatch and one countdown into the page the user
// sees: the slide panels, the countdown keypad, the window title, the blink
// state and the completion alert.
//
// A Board is driven from any goroutine. Every exported method hops onto the
// frame host with ports.FrameHost.Do, so the timers only ever run on the
// host goroutine. Exported methods must not be called from inside a frame
// callback or from the OnComplete hook.
package board

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/acolita/stopwatch-mcp/internal/carousel"
	"github.com/acolita/stopwatch-mcp/internal/keypad"
	"github.com/acolita/stopwatch-mcp/internal/logging"
	"github.com/acolita/stopwatch-mcp/internal/ports"
	"github.com/acolita/stopwatch-mcp/internal/timer"
)

// Window titles.
const (
	LandingTitle = "Online Stopwatch – Landing"
	TimesUpTitle = "00:00:00 – Time’s up"
)

// ErrWrongStage is returned when a countdown command is issued while the
// countdown shows the other stage.
var ErrWrongStage = errors.New("countdown is not in that stage")

// Stage is what the countdown panel is showing.
type Stage string

const (
	// StageKeypad shows the digit keypad for entering minutes.
	StageKeypad Stage = "keypad"
	// StageRun shows the armed countdown with start and reset.
	StageRun Stage = "run"
)

// Recorder receives display updates and command markers.
type Recorder interface {
	RecordOutput(data string) error
	RecordMarker(label string) error
}

// Option configures a Board.
type Option func(*Board)

// WithAlerter sets the alert played when the countdown finishes.
func WithAlerter(a ports.Alerter) Option {
	return func(b *Board) {
		b.alerter = a
	}
}

// WithAlertEnabled turns the completion alert on or off. Default on.
func WithAlertEnabled(on bool) Option {
	return func(b *Board) {
		b.alertEnabled = on
	}
}

// WithRecorder records display updates and command markers.
func WithRecorder(r Recorder) Option {
	return func(b *Board) {
		b.recorder = r
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Board) {
		b.logger = l
	}
}

// WithOnComplete registers a hook run on the host goroutine after every
// countdown completion, with the board state at that moment.
func WithOnComplete(fn func(Snapshot)) Option {
	return func(b *Board) {
		b.onComplete = fn
	}
}

// Board is the stopwatch page.
type Board struct {
	host   ports.FrameHost
	logger *slog.Logger

	stopwatch *timer.Timer
	countdown *timer.Timer
	carousel  *carousel.Carousel
	keypad    *keypad.Keypad

	alerter      ports.Alerter
	alertEnabled bool
	recorder     Recorder
	onComplete   func(Snapshot)

	title            string
	stage            Stage
	blinking         bool
	completions      int
	stopwatchDisplay timer.Parts
	countdownDisplay timer.Parts
}

// New builds a board on host showing the landing panel, with both timers
// stopped at zero and the countdown keypad empty.
func New(host ports.FrameHost, opts ...Option) *Board {
	b := &Board{
		host:             host,
		logger:           slog.Default(),
		carousel:         carousel.New(),
		keypad:           keypad.New(),
		alertEnabled:     true,
		title:            LandingTitle,
		stage:            StageKeypad,
		stopwatchDisplay: timer.Format(0),
		countdownDisplay: timer.Format(0),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With(slog.String("component", "board"))

	b.stopwatch = timer.NewStopwatch(host,
		timer.WithOnTick(b.stopwatchTick),
		timer.WithLogger(b.logger),
	)
	b.countdown = timer.NewCountdown(host,
		timer.WithOnTick(b.countdownTick),
		timer.WithOnComplete(b.countdownComplete),
		timer.WithLogger(b.logger),
	)
	return b
}

// exec runs fn on the host goroutine and returns the state after it.
func (b *Board) exec(marker string, fn func() error) (Snapshot, error) {
	var snap Snapshot
	var opErr error
	err := b.host.Do(func() {
		opErr = fn()
		if marker != "" && opErr == nil {
			b.mark(marker)
		}
		snap = b.snapshot()
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, opErr
}

// Snapshot returns the current board state.
func (b *Board) Snapshot() (Snapshot, error) {
	return b.exec("", func() error { return nil })
}

// --- Stopwatch ---

// StopwatchToggle starts a stopped stopwatch and stops a running one.
func (b *Board) StopwatchToggle() (Snapshot, error) {
	return b.exec("stopwatch_toggle", func() error {
		if b.stopwatch.Running() {
			b.stopStopwatch()
			return nil
		}
		return b.stopwatch.Start()
	})
}

// StopwatchStart starts the stopwatch. Starting a running stopwatch does nothing.
func (b *Board) StopwatchStart() (Snapshot, error) {
	return b.exec("stopwatch_start", func() error {
		return b.stopwatch.Start()
	})
}

// StopwatchStop stops the stopwatch and shows its time in the title.
func (b *Board) StopwatchStop() (Snapshot, error) {
	return b.exec("stopwatch_stop", func() error {
		b.stopStopwatch()
		return nil
	})
}

// StopwatchClear stops the stopwatch and sets it back to zero.
func (b *Board) StopwatchClear() (Snapshot, error) {
	return b.exec("stopwatch_clear", func() error {
		b.stopwatch.Stop()
		b.stopwatch.Reset()
		b.title = b.stopwatchTitle()
		return nil
	})
}

func (b *Board) stopStopwatch() {
	b.stopwatch.Stop()
	b.title = b.stopwatchTitle()
}

// --- Countdown ---

// KeypadPress presses a keypad button by label: "0"-"9", "set" or "clear".
func (b *Board) KeypadPress(label string) (Snapshot, error) {
	key, err := keypad.ParseKey(label)
	if err != nil {
		return Snapshot{}, err
	}
	switch key.Action {
	case keypad.ActionSet:
		return b.KeypadSet()
	case keypad.ActionClear:
		return b.KeypadClear()
	}
	return b.exec("", func() error {
		if b.stage != StageKeypad {
			return fmt.Errorf("press %q: %w", label, ErrWrongStage)
		}
		b.keypad.Press(key.Digit)
		return nil
	})
}

// KeypadClear empties the keypad.
func (b *Board) KeypadClear() (Snapshot, error) {
	return b.exec("keypad_clear", func() error {
		if b.stage != StageKeypad {
			return fmt.Errorf("clear keypad: %w", ErrWrongStage)
		}
		b.keypad.Clear()
		return nil
	})
}

// KeypadSet arms the countdown with the typed minutes and shows the run stage.
func (b *Board) KeypadSet() (Snapshot, error) {
	return b.exec("keypad_set", func() error {
		if b.stage != StageKeypad {
			return fmt.Errorf("set from keypad: %w", ErrWrongStage)
		}
		return b.arm(b.keypad.Duration())
	})
}

// CountdownSet arms the countdown with d from either stage, stopping it first.
// Negative durations become zero.
func (b *Board) CountdownSet(d time.Duration) (Snapshot, error) {
	return b.exec("countdown_set", func() error {
		b.countdown.Stop()
		return b.arm(d)
	})
}

func (b *Board) arm(d time.Duration) error {
	if err := b.countdown.SetDuration(d); err != nil {
		return err
	}
	b.blinking = false
	b.stage = StageRun
	b.title = b.countdownTitle()
	b.logger.Info("countdown set", slog.Duration("duration", b.countdown.Configured()))
	return nil
}

// CountdownStart clears the blink and starts the countdown. Starting with
// nothing remaining does nothing.
func (b *Board) CountdownStart() (Snapshot, error) {
	return b.exec("countdown_start", func() error {
		if b.stage != StageRun {
			return fmt.Errorf("start countdown: %w", ErrWrongStage)
		}
		b.blinking = false
		return b.countdown.Start()
	})
}

// CountdownStop pauses the countdown.
func (b *Board) CountdownStop() (Snapshot, error) {
	return b.exec("countdown_stop", func() error {
		b.countdown.Stop()
		if b.stage == StageRun {
			b.title = b.countdownTitle()
		}
		return nil
	})
}

// CountdownReset clears the blink, stops the countdown and rewinds it to the
// last set duration.
func (b *Board) CountdownReset() (Snapshot, error) {
	return b.exec("countdown_reset", func() error {
		b.blinking = false
		b.countdown.Stop()
		if err := b.countdown.RestoreConfigured(); err != nil {
			return err
		}
		b.title = b.countdownTitle()
		return nil
	})
}

// CountdownEdit stops the countdown and returns to the keypad stage. The
// typed digits are kept.
func (b *Board) CountdownEdit() (Snapshot, error) {
	return b.exec("countdown_edit", func() error {
		b.countdown.Stop()
		b.blinking = false
		b.stage = StageKeypad
		return nil
	})
}

// --- Navigation and settings ---

// Navigate slides to panel. Out-of-range panels clamp to the nearest end.
func (b *Board) Navigate(panel carousel.Panel) (Snapshot, error) {
	return b.exec("navigate_"+panel.String(), func() error {
		if b.carousel.Go(int(panel)) == carousel.PanelLanding {
			b.title = LandingTitle
		}
		return nil
	})
}

// SetAlertEnabled turns the completion alert on or off.
func (b *Board) SetAlertEnabled(on bool) error {
	return b.host.Do(func() {
		b.alertEnabled = on
	})
}

// SetRecorder replaces the recorder. Nil stops recording. The caller owns
// closing the previous recorder.
func (b *Board) SetRecorder(r Recorder) error {
	return b.host.Do(func() {
		b.recorder = r
	})
}

// --- Observers, run on the host goroutine ---

func (b *Board) stopwatchTick(d time.Duration) {
	b.stopwatchDisplay = timer.FormatDuration(d)
	if b.stopwatch.Running() {
		b.title = b.stopwatchTitle()
	}
	b.output(timer.KindStopwatch, b.stopwatchDisplay)
}

func (b *Board) countdownTick(d time.Duration) {
	b.countdownDisplay = timer.FormatDuration(d)
	if b.countdown.Running() {
		b.title = b.countdownTitle()
	}
	b.output(timer.KindCountdown, b.countdownDisplay)
}

func (b *Board) countdownComplete() {
	b.title = TimesUpTitle
	b.blinking = true
	b.completions++

	b.logger.Info("countdown complete",
		logging.Elapsed("configured", b.countdown.Configured()),
		slog.Int("completions", b.completions),
	)

	if b.alertEnabled && b.alerter != nil {
		if err := b.alerter.Alert(); err != nil {
			b.logger.Warn("alert failed", slog.String("error", err.Error()))
		}
	}
	b.mark("countdown_complete")

	if b.onComplete != nil {
		b.onComplete(b.snapshot())
	}
}

func (b *Board) output(kind timer.Kind, p timer.Parts) {
	if b.recorder == nil {
		return
	}
	if err := b.recorder.RecordOutput(fmt.Sprintf("\r%-9s %s", kind, p)); err != nil {
		b.logger.Debug("record output failed", slog.String("error", err.Error()))
	}
}

func (b *Board) mark(label string) {
	if b.recorder == nil {
		return
	}
	if err := b.recorder.RecordMarker(label); err != nil {
		b.logger.Debug("record marker failed", slog.String("error", err.Error()))
	}
}

func (b *Board) stopwatchTitle() string {
	return b.stopwatchDisplay.String() + " – Stopwatch"
}

func (b *Board) countdownTitle() string {
	return b.countdownDisplay.String() + " – Countdown"
}
