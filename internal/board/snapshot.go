package board

import (
	"github.com/acolita/stopwatch-mcp/internal/carousel"
	"github.com/acolita/stopwatch-mcp/internal/timer"
)

// TimerView is the visible state of one timer.
type TimerView struct {
	Running bool        `json:"running"`
	ValueMS int64       `json:"value_ms"`
	Display string      `json:"display"`
	Parts   timer.Parts `json:"parts"`
}

// CountdownView adds the countdown panel state to TimerView.
type CountdownView struct {
	TimerView
	ConfiguredMS int64  `json:"configured_ms"`
	Stage        Stage  `json:"stage"`
	Keypad       string `json:"keypad"`
	Digits       string `json:"digits"`
	Blinking     bool   `json:"blinking"`
	Completions  int    `json:"completions"`
}

// Snapshot is a copy of the board state, safe to hold on any goroutine.
type Snapshot struct {
	Title        string         `json:"title"`
	Panel        carousel.Panel `json:"panel"`
	Stopwatch    TimerView      `json:"stopwatch"`
	Countdown    CountdownView  `json:"countdown"`
	AlertEnabled bool           `json:"alert_enabled"`
}

func (b *Board) snapshot() Snapshot {
	return Snapshot{
		Title: b.title,
		Panel: b.carousel.Current(),
		Stopwatch: TimerView{
			Running: b.stopwatch.Running(),
			ValueMS: b.stopwatch.Value().Milliseconds(),
			Display: b.stopwatchDisplay.String(),
			Parts:   b.stopwatchDisplay,
		},
		Countdown: CountdownView{
			TimerView: TimerView{
				Running: b.countdown.Running(),
				ValueMS: b.countdown.Value().Milliseconds(),
				Display: b.countdownDisplay.String(),
				Parts:   b.countdownDisplay,
			},
			ConfiguredMS: b.countdown.Configured().Milliseconds(),
			Stage:        b.stage,
			Keypad:       b.keypad.Display(),
			Digits:       b.keypad.Digits(),
			Blinking:     b.blinking,
			Completions:  b.completions,
		},
		AlertEnabled: b.alertEnabled,
	}
}
