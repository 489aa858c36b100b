package main

import (
	"errors"
	"testing"
	"time"

	"github.com/acolita/stopwatch-mcp/internal/board"
	"github.com/acolita/stopwatch-mcp/internal/carousel"
	"github.com/acolita/stopwatch-mcp/internal/config"
	"github.com/acolita/stopwatch-mcp/internal/ports"
	"github.com/acolita/stopwatch-mcp/internal/testing/fakes/fakeclock"
	"github.com/acolita/stopwatch-mcp/internal/testing/fakes/fakedialog"
)

func TestArmCountdown(t *testing.T) {
	tests := []struct {
		name       string
		minutes    int
		result     ports.DurationFormData
		formErr    error
		wantStart  bool
		wantErr    error
		wantConfig time.Duration
		wantForm   bool
	}{
		{
			name:       "minutes flag skips form",
			minutes:    3,
			wantStart:  true,
			wantConfig: 3 * time.Minute,
		},
		{
			name:       "form start now",
			minutes:    -1,
			result:     ports.DurationFormData{Digits: "90", StartNow: true, Confirmed: true},
			wantStart:  true,
			wantConfig: 90 * time.Minute,
			wantForm:   true,
		},
		{
			name:       "form start later",
			minutes:    -1,
			result:     ports.DurationFormData{Digits: "1", Confirmed: true},
			wantConfig: time.Minute,
			wantForm:   true,
		},
		{
			name:     "form cancelled",
			minutes:  -1,
			result:   ports.DurationFormData{Digits: "5"},
			wantErr:  errCancelled,
			wantForm: true,
		},
		{
			name:     "form error",
			minutes:  -1,
			formErr:  errors.New("no tty"),
			wantErr:  errors.New("no tty"),
			wantForm: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := board.New(fakeclock.NewFrames())
			dialog := fakedialog.New()
			dialog.Result = tt.result
			dialog.Err = tt.formErr
			cfg := config.DefaultConfig()

			start, err := armCountdown(b, dialog, cfg, tt.minutes)
			if tt.wantErr != nil {
				if err == nil || err.Error() != tt.wantErr.Error() {
					t.Fatalf("armCountdown() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("armCountdown() error: %v", err)
			}
			if start != tt.wantStart {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if (dialog.Calls > 0) != tt.wantForm {
				t.Errorf("form calls = %d, want form %v", dialog.Calls, tt.wantForm)
			}
			if tt.wantForm && dialog.ReceivedPrefill.Digits != "5" {
				t.Errorf("prefill digits = %q, want default 5", dialog.ReceivedPrefill.Digits)
			}

			snap, _ := b.Snapshot()
			if got := time.Duration(snap.Countdown.ConfiguredMS) * time.Millisecond; got != tt.wantConfig {
				t.Errorf("configured = %v, want %v", got, tt.wantConfig)
			}
			if snap.Countdown.Stage != board.StageRun {
				t.Errorf("stage = %q, want run", snap.Countdown.Stage)
			}
		})
	}
}

func TestStartPanel(t *testing.T) {
	frames := fakeclock.NewFrames()
	b := board.New(frames)

	if err := startPanel(b, carousel.PanelStopwatch); err != nil {
		t.Fatalf("startPanel(stopwatch) error: %v", err)
	}
	snap, _ := b.Snapshot()
	if !snap.Stopwatch.Running {
		t.Error("stopwatch not running")
	}

	if err := startPanel(b, carousel.PanelCountdown); !errors.Is(err, board.ErrWrongStage) {
		t.Errorf("startPanel(countdown) without a duration error = %v, want ErrWrongStage", err)
	}
}
