package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/acolita/stopwatch-mcp/internal/board"
	"github.com/acolita/stopwatch-mcp/internal/carousel"
	"github.com/acolita/stopwatch-mcp/internal/keypad"
	"github.com/acolita/stopwatch-mcp/internal/timer"
	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(boardCommandTool("stopwatch_start", "Start the stopwatch. Does nothing if it is already running"), s.command(s.board.StopwatchStart))
	s.mcpServer.AddTool(boardCommandTool("stopwatch_stop", "Stop the stopwatch and keep its time"), s.command(s.board.StopwatchStop))
	s.mcpServer.AddTool(boardCommandTool("stopwatch_toggle", "Start the stopwatch if stopped, stop it if running"), s.command(s.board.StopwatchToggle))
	s.mcpServer.AddTool(boardCommandTool("stopwatch_clear", "Stop the stopwatch and set it back to zero"), s.command(s.board.StopwatchClear))
	s.mcpServer.AddTool(countdownSetTool(), s.handleCountdownSet)
	s.mcpServer.AddTool(boardCommandTool("countdown_start", "Start the armed countdown. Does nothing when no time remains"), s.command(s.board.CountdownStart))
	s.mcpServer.AddTool(boardCommandTool("countdown_stop", "Pause the countdown"), s.command(s.board.CountdownStop))
	s.mcpServer.AddTool(boardCommandTool("countdown_reset", "Stop the countdown, clear the alarm and rewind to the last set duration"), s.command(s.board.CountdownReset))
	s.mcpServer.AddTool(boardCommandTool("countdown_edit", "Stop the countdown and return to the keypad"), s.command(s.board.CountdownEdit))
	s.mcpServer.AddTool(keypadPressTool(), s.handleKeypadPress)
	s.mcpServer.AddTool(navigateTool(), s.handleNavigate)
	s.mcpServer.AddTool(boardCommandTool("board_status", "Show both timers, the keypad, the current panel and the window title"), s.command(s.board.Snapshot))
	s.mcpServer.AddTool(formatDurationTool(), s.handleFormatDuration)
}

// Tool definitions

func boardCommandTool(name, description string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(description),
	)
}

func countdownSetTool() mcp.Tool {
	return mcp.NewTool("countdown_set",
		mcp.WithDescription("Arm the countdown with a duration and show its start controls. A running countdown is stopped first"),
		mcp.WithNumber("minutes",
			mcp.Description(fmt.Sprintf("Whole minutes, as typed on the keypad (0-%d)", maxKeypadMinutes)),
		),
		mcp.WithNumber("duration_ms",
			mcp.Description("Duration in milliseconds. Takes precedence over minutes"),
		),
		mcp.WithBoolean("start",
			mcp.Description("Start the countdown right away (default: false)"),
		),
	)
}

func keypadPressTool() mcp.Tool {
	return mcp.NewTool("keypad_press",
		mcp.WithDescription("Press a countdown keypad button. Digits are read as minutes, at most 4 of them"),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description(descKey),
		),
	)
}

func navigateTool() mcp.Tool {
	return mcp.NewTool("navigate",
		mcp.WithDescription("Slide to a panel"),
		mcp.WithString("panel",
			mcp.Required(),
			mcp.Description(descPanel),
		),
	)
}

func formatDurationTool() mcp.Tool {
	return mcp.NewTool("format_duration",
		mcp.WithDescription("Split a millisecond duration into zero-padded hours, minutes, seconds and milliseconds"),
		mcp.WithNumber("duration_ms",
			mcp.Required(),
			mcp.Description("Duration in milliseconds. Negative values format as zero"),
		),
	)
}

// Tool handlers

// command adapts a board method without arguments to a tool handler.
func (s *Server) command(fn func() (board.Snapshot, error)) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snap, err := fn()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(snap)
	}
}

func (s *Server) handleCountdownSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	_, hasMinutes := args["minutes"]
	_, hasMS := args["duration_ms"]

	var d time.Duration
	switch {
	case hasMS:
		d = time.Duration(mcp.ParseInt64(req, "duration_ms", 0)) * time.Millisecond
	case hasMinutes:
		minutes := mcp.ParseInt(req, "minutes", 0)
		if minutes < 0 || minutes > maxKeypadMinutes {
			return mcp.NewToolResultError(fmt.Sprintf(errMinutesRange, maxKeypadMinutes)), nil
		}
		d = time.Duration(minutes) * time.Minute
	default:
		return mcp.NewToolResultError(errDurationRequired), nil
	}

	snap, err := s.board.CountdownSet(d)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if mcp.ParseBoolean(req, "start", false) {
		snap, err = s.board.CountdownStart()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	return jsonResult(snap)
}

func (s *Server) handleKeypadPress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := mcp.ParseString(req, "key", "")
	if key == "" {
		return mcp.NewToolResultError(errKeyRequired), nil
	}

	snap, err := s.board.KeypadPress(key)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(snap)
}

func (s *Server) handleNavigate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := mcp.ParseString(req, "panel", "")
	if name == "" {
		return mcp.NewToolResultError(errPanelRequired), nil
	}

	panel, err := carousel.ParsePanel(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap, err := s.board.Navigate(panel)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(snap)
}

// FormatDurationResult is the result of format_duration.
type FormatDurationResult struct {
	DurationMS int64       `json:"duration_ms"`
	Parts      timer.Parts `json:"parts"`
	Main       string      `json:"main"`
	Display    string      `json:"display"`
}

func (s *Server) handleFormatDuration(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, ok := req.GetArguments()["duration_ms"]; !ok {
		return mcp.NewToolResultError(errDurationMSRequired), nil
	}
	ms := mcp.ParseInt64(req, "duration_ms", 0)
	parts := timer.Format(ms)

	return jsonResult(FormatDurationResult{
		DurationMS: ms,
		Parts:      parts,
		Main:       parts.Main(),
		Display:    parts.String(),
	})
}

// maxKeypadMinutes is the largest value the keypad can hold.
var maxKeypadMinutes = int(math.Pow10(keypad.MaxDigits)) - 1

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
