// stopwatch runs a stopwatch or a countdown in the terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mitchellh/go-glint"

	"github.com/acolita/stopwatch-mcp/internal/adapters/realalert"
	"github.com/acolita/stopwatch-mcp/internal/adapters/realclock"
	"github.com/acolita/stopwatch-mcp/internal/adapters/realdialog"
	"github.com/acolita/stopwatch-mcp/internal/adapters/realfs"
	"github.com/acolita/stopwatch-mcp/internal/board"
	"github.com/acolita/stopwatch-mcp/internal/carousel"
	"github.com/acolita/stopwatch-mcp/internal/config"
	"github.com/acolita/stopwatch-mcp/internal/logging"
	"github.com/acolita/stopwatch-mcp/internal/ports"
	"github.com/acolita/stopwatch-mcp/internal/recording"
)

// Version information - set at build time.
var Version = "0.3.0"

var errCancelled = errors.New("countdown not set")

func main() {
	var (
		configPath  string
		mode        string
		minutes     int
		showVersion bool
		debug       bool
	)

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&mode, "mode", "stopwatch", "Timer to run: 'stopwatch' or 'countdown'")
	flag.IntVar(&minutes, "minutes", -1, "Countdown length in minutes (omit to use the keypad form)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&debug, "debug", false, "Log at debug level to stderr")
	flag.Parse()

	if showVersion {
		fmt.Printf("stopwatch version %s\n", Version)
		os.Exit(0)
	}

	err := run(configPath, mode, minutes, debug)
	if errors.Is(err, errCancelled) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, mode string, minutes int, debug bool) error {
	panel, err := carousel.ParsePanel(mode)
	if err != nil || panel == carousel.PanelLanding {
		return fmt.Errorf("unknown mode %q", mode)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// The display owns the terminal, so only warnings are logged unless asked.
	level := "warn"
	if debug {
		level = "debug"
	}
	logging.Setup(level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock := realclock.New()
	loop := realclock.NewFrameLoop(clock, cfg.Frames.Rate)
	loop.Start()
	defer loop.Close()

	completed := make(chan struct{}, 1)
	opts := []board.Option{
		board.WithAlerter(realalert.NewBell(os.Stderr)),
		board.WithAlertEnabled(cfg.Countdown.Alert),
		board.WithOnComplete(func(board.Snapshot) {
			select {
			case completed <- struct{}{}:
			default:
			}
		}),
	}

	if cfg.Recording.Enabled {
		rec, err := recording.NewRecorder(realfs.New(), clock, cfg.Recording.Path, mode, recording.Options{
			Title:       "stopwatch " + mode,
			MinInterval: cfg.Recording.MinInterval,
		})
		if err != nil {
			slog.Warn("recording disabled", slog.String("error", err.Error()))
		} else {
			defer func() {
				if err := rec.Close(); err != nil {
					slog.Warn("failed to save recording", slog.String("error", err.Error()))
				}
			}()
			opts = append(opts, board.WithRecorder(rec))
		}
	}

	b := board.New(loop, opts...)
	if _, err := b.Navigate(panel); err != nil {
		return err
	}

	hint := "Ctrl-C to stop"
	startNow := true
	if panel == carousel.PanelCountdown {
		startNow, err = armCountdown(b, realdialog.New(), cfg, minutes)
		if err != nil {
			return err
		}
		if !startNow {
			hint = "Enter to start, Ctrl-C to quit"
			go waitForEnter(ctx, b)
		}
	}

	if startNow {
		if err := startPanel(b, panel); err != nil {
			return err
		}
	}

	d := glint.New()
	d.Append(&boardView{board: b, hint: hint})
	go d.Render(ctx)

	select {
	case <-ctx.Done():
	case <-completed:
		// Let the final frame show the alarm before exiting.
		time.Sleep(500 * time.Millisecond)
	}

	if _, err := b.StopwatchStop(); err != nil {
		slog.Debug("stop stopwatch", slog.String("error", err.Error()))
	}
	if _, err := b.CountdownStop(); err != nil {
		slog.Debug("stop countdown", slog.String("error", err.Error()))
	}
	d.RenderFrame()
	return d.Close()
}

// armCountdown sets the countdown from -minutes or, when it is negative,
// from the keypad form. It reports whether to start right away. A cancelled
// form is an error.
func armCountdown(b *board.Board, dialog ports.DialogProvider, cfg *config.Config, minutes int) (bool, error) {
	if minutes >= 0 {
		_, err := b.CountdownSet(time.Duration(minutes) * time.Minute)
		return true, err
	}

	result, err := dialog.DurationForm(ports.DurationFormData{
		Digits:   strconv.Itoa(cfg.Countdown.DefaultMinutes),
		StartNow: true,
	})
	if err != nil {
		return false, err
	}
	if !result.Confirmed {
		return false, errCancelled
	}

	for i := 0; i < len(result.Digits); i++ {
		if _, err := b.KeypadPress(result.Digits[i : i+1]); err != nil {
			return false, err
		}
	}
	if _, err := b.KeypadSet(); err != nil {
		return false, err
	}
	return result.StartNow, nil
}

func startPanel(b *board.Board, panel carousel.Panel) error {
	var err error
	if panel == carousel.PanelCountdown {
		_, err = b.CountdownStart()
	} else {
		_, err = b.StopwatchStart()
	}
	return err
}

func waitForEnter(ctx context.Context, b *board.Board) {
	lines := make(chan struct{})
	go func() {
		bufio.NewReader(os.Stdin).ReadString('\n')
		close(lines)
	}()

	select {
	case <-ctx.Done():
	case <-lines:
		if _, err := b.CountdownStart(); err != nil {
			slog.Warn("start countdown", slog.String("error", err.Error()))
		}
	}
}
