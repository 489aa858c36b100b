// Package mcp implements the MCP protocol server for stopwatch-mcp.
package mcp

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/acolita/stopwatch-mcp/internal/adapters/realalert"
	"github.com/acolita/stopwatch-mcp/internal/adapters/realclock"
	"github.com/acolita/stopwatch-mcp/internal/adapters/realfs"
	"github.com/acolita/stopwatch-mcp/internal/board"
	"github.com/acolita/stopwatch-mcp/internal/config"
	"github.com/acolita/stopwatch-mcp/internal/ports"
	"github.com/acolita/stopwatch-mcp/internal/recording"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is reported to MCP clients during initialization.
var Version = "0.3.0"

// Server wraps the MCP server implementation.
type Server struct {
	mcpServer *server.MCPServer
	board     *board.Board
	host      ports.FrameHost
	loop      *realclock.FrameLoop // set when the server owns the frame host
	alerter   ports.Alerter
	fs        ports.FileSystem
	clock     ports.Clock

	mu       sync.Mutex
	config   *config.Config
	recorder *recording.Recorder
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithFileSystem sets the filesystem used for recordings.
func WithFileSystem(fs ports.FileSystem) ServerOption {
	return func(s *Server) {
		s.fs = fs
	}
}

// WithClock sets the clock used for recordings and the default frame loop.
func WithClock(c ports.Clock) ServerOption {
	return func(s *Server) {
		s.clock = c
	}
}

// WithFrameHost runs the board on h instead of a frame loop owned by the server.
func WithFrameHost(h ports.FrameHost) ServerOption {
	return func(s *Server) {
		s.host = h
	}
}

// WithAlerter sets the completion alert. Defaults to the terminal bell on stderr.
func WithAlerter(a ports.Alerter) ServerOption {
	return func(s *Server) {
		s.alerter = a
	}
}

// NewServer creates a new MCP server with the given configuration.
func NewServer(cfg *config.Config, opts ...ServerOption) *Server {
	mcpServer := server.NewMCPServer(
		"stopwatch-mcp",
		Version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)

	s := &Server{
		mcpServer: mcpServer,
		config:    cfg,
		fs:        realfs.New(), // default to real filesystem
		clock:     realclock.New(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.alerter == nil {
		s.alerter = realalert.NewBell(nil)
	}
	if s.host == nil {
		s.loop = realclock.NewFrameLoop(s.clock, cfg.Frames.Rate)
		s.loop.Start()
		s.host = s.loop
	}

	boardOpts := []board.Option{
		board.WithAlerter(s.alerter),
		board.WithAlertEnabled(cfg.Countdown.Alert),
		board.WithOnComplete(s.notifyComplete),
	}
	if rec := s.openRecorder(cfg.Recording); rec != nil {
		s.recorder = rec
		boardOpts = append(boardOpts, board.WithRecorder(rec))
	}
	s.board = board.New(s.host, boardOpts...)

	s.registerTools()

	return s
}

// Board returns the board the tools drive.
func (s *Server) Board() *board.Board {
	return s.board
}

// Run starts the MCP server on stdio transport.
func (s *Server) Run() error {
	slog.Info("starting MCP server on stdio transport")
	return server.ServeStdio(s.mcpServer)
}

// Close flushes any recording and stops the frame loop if the server owns it.
func (s *Server) Close() error {
	s.mu.Lock()
	rec := s.recorder
	s.recorder = nil
	s.mu.Unlock()

	var firstErr error
	if rec != nil {
		if err := rec.Close(); err != nil {
			firstErr = err
		}
	}
	if s.loop != nil {
		if err := s.loop.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// UpdateConfig applies a new configuration at runtime.
// The frame rate needs a restart; alert and recording settings apply now.
func (s *Server) UpdateConfig(cfg *config.Config) {
	slog.Debug("applying config update")

	s.mu.Lock()
	old := s.config
	s.config = cfg
	s.mu.Unlock()

	if old.Frames.Rate != cfg.Frames.Rate {
		slog.Warn("frames.rate change needs a restart",
			slog.Int("current", old.Frames.Rate),
			slog.Int("configured", cfg.Frames.Rate),
		)
	}

	if err := s.board.SetAlertEnabled(cfg.Countdown.Alert); err != nil {
		slog.Warn("failed to update alert setting", slog.String("error", err.Error()))
	}

	if old.Recording != cfg.Recording {
		s.swapRecorder(cfg.Recording)
	}

	slog.Info("configuration hot-reloaded successfully")
}

func (s *Server) swapRecorder(rc config.RecordingConfig) {
	rec := s.openRecorder(rc)

	var err error
	if rec != nil { // a nil *Recorder must not reach the interface
		err = s.board.SetRecorder(rec)
	} else {
		err = s.board.SetRecorder(nil)
	}
	if err != nil {
		slog.Warn("failed to update recorder", slog.String("error", err.Error()))
		return
	}

	s.mu.Lock()
	prev := s.recorder
	s.recorder = rec
	s.mu.Unlock()

	if prev != nil {
		if err := prev.Close(); err != nil {
			slog.Warn("failed to close recording", slog.String("error", err.Error()))
		}
	}
	slog.Debug("recorder updated", slog.Bool("enabled", rec != nil))
}

// openRecorder returns nil when recording is off or cannot start.
func (s *Server) openRecorder(rc config.RecordingConfig) *recording.Recorder {
	if !rc.Enabled {
		return nil
	}
	rec, err := recording.NewRecorder(s.fs, s.clock, rc.Path, "board", recording.Options{
		Title:       "stopwatch-mcp",
		MinInterval: rc.MinInterval,
	})
	if err != nil {
		slog.Warn("recording disabled", slog.String("error", err.Error()))
		return nil
	}
	slog.Info("recording board", slog.String("path", rec.Path()))
	return rec
}

// notifyComplete runs on the frame goroutine. mcp-go drops notifications
// for clients whose queue is full, so this never blocks the frame.
func (s *Server) notifyComplete(snap board.Snapshot) {
	s.mcpServer.SendNotificationToAllClients("notifications/message", map[string]any{
		"level":  mcp.LoggingLevelNotice,
		"logger": "stopwatch-mcp",
		"data": map[string]any{
			"event":         "countdown_complete",
			"title":         snap.Title,
			"configured_ms": snap.Countdown.ConfiguredMS,
			"completions":   snap.Countdown.Completions,
		},
	})
	if err := s.flushRecording(); err != nil {
		slog.Warn("failed to flush recording", slog.String("error", err.Error()))
	}
}

func (s *Server) flushRecording() error {
	s.mu.Lock()
	rec := s.recorder
	s.mu.Unlock()
	if rec == nil {
		return nil
	}
	if err := rec.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", rec.Path(), err)
	}
	return nil
}
