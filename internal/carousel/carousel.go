// Package carousel tracks the three-panel slide navigation
// [Stopwatch | Landing | Countdown].
package carousel

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPanel is returned by ParsePanel for unrecognised names.
var ErrUnknownPanel = errors.New("unknown panel")

// Panel is a slide index.
type Panel int

const (
	PanelStopwatch Panel = iota
	PanelLanding
	PanelCountdown
)

func (p Panel) String() string {
	switch p {
	case PanelStopwatch:
		return "stopwatch"
	case PanelLanding:
		return "landing"
	case PanelCountdown:
		return "countdown"
	default:
		return fmt.Sprintf("Panel(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Panel) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ParsePanel maps a panel name to its index.
func ParsePanel(name string) (Panel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "stopwatch":
		return PanelStopwatch, nil
	case "landing", "back", "home":
		return PanelLanding, nil
	case "countdown":
		return PanelCountdown, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPanel, name)
}

// Carousel is the current slide. It starts on the landing panel.
type Carousel struct {
	current Panel
}

// New returns a carousel showing the landing panel.
func New() *Carousel {
	return &Carousel{current: PanelLanding}
}

// Go moves to index, clamped to the first and last panel.
func (c *Carousel) Go(index int) Panel {
	if index < int(PanelStopwatch) {
		index = int(PanelStopwatch)
	}
	if index > int(PanelCountdown) {
		index = int(PanelCountdown)
	}
	c.current = Panel(index)
	return c.current
}

// Current returns the panel on screen.
func (c *Carousel) Current() Panel {
	return c.current
}

// Offset is the horizontal translation that puts the current panel in a
// viewport of the given width.
func (c *Carousel) Offset(width int) int {
	return -int(c.current) * width
}
