package main

import (
	"context"

	"github.com/mitchellh/go-glint"

	"github.com/acolita/stopwatch-mcp/internal/board"
	"github.com/acolita/stopwatch-mcp/internal/carousel"
)

// boardView renders the timer on the current panel as a single line.
type boardView struct {
	board *board.Board
	hint  string
}

func (v *boardView) Body(context.Context) glint.Component {
	snap, err := v.board.Snapshot()
	if err != nil {
		return glint.Style(glint.Text(err.Error()), glint.Color("red"))
	}
	return renderSnapshot(snap, v.hint)
}

func renderSnapshot(snap board.Snapshot, hint string) glint.Component {
	label := "Stopwatch"
	tv := snap.Stopwatch
	blink := false
	if snap.Panel == carousel.PanelCountdown {
		label = "Countdown"
		tv = snap.Countdown.TimerView
		blink = snap.Countdown.Blinking
	}

	face := glint.Style(glint.Text(tv.Parts.Main()), glint.Bold())
	if blink {
		face = glint.Style(glint.Text(tv.Parts.Main()), glint.Bold(), glint.Color("red"))
	}

	parts := []glint.Component{
		glint.Style(glint.Text(label+"  "), glint.Color("cyan")),
		face,
		glint.Text("." + tv.Parts.Milliseconds),
	}
	if blink {
		parts = append(parts, glint.Style(glint.Text("  Time’s up"), glint.Color("red")))
	} else if hint != "" {
		parts = append(parts, glint.Text("  "+hint))
	}
	return glint.Layout(parts...).Row()
}
