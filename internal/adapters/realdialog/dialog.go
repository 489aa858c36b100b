// Package realdialog provides a TUI-based DialogProvider using charmbracelet/huh.
//
// The form runs on the controlling terminal, so it is only used by the
// terminal front end. The MCP server drives the keypad through tools instead.
package realdialog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/acolita/stopwatch-mcp/internal/keypad"
	"github.com/acolita/stopwatch-mcp/internal/ports"
	"github.com/charmbracelet/huh"
)

// Provider implements ports.DialogProvider with a huh form.
type Provider struct {
	accessible bool
}

// Option configures a Provider.
type Option func(*Provider)

// WithAccessible switches the form to huh's line-based accessible mode,
// which works without a full-screen terminal.
func WithAccessible(on bool) Option {
	return func(p *Provider) {
		p.accessible = on
	}
}

// New returns a new TUI dialog provider.
func New(opts ...Option) *Provider {
	p := &Provider{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DurationForm asks for the countdown length in minutes. Aborting the form
// returns Confirmed=false without an error.
func (p *Provider) DurationForm(prefill ports.DurationFormData) (ports.DurationFormData, error) {
	result := prefill
	result.Digits = trimDigits(prefill.Digits)
	result.Confirmed = false

	var confirmed bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Minutes").
				Description(fmt.Sprintf("Countdown length, up to %d digits", keypad.MaxDigits)).
				CharLimit(keypad.MaxDigits).
				Validate(keypad.Validate).
				Value(&result.Digits),

			huh.NewConfirm().
				Title("Start immediately?").
				Value(&result.StartNow),
		),
		huh.NewGroup(
			huh.NewConfirm().
				TitleFunc(func() string {
					return fmt.Sprintf("Set countdown to %s?", preview(result.Digits))
				}, &result.Digits).
				Value(&confirmed),
		),
	).WithAccessible(p.accessible)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return result, nil
		}
		return prefill, fmt.Errorf("duration form: %w", err)
	}

	result.Confirmed = confirmed
	return result, nil
}

// trimDigits drops anything the keypad would not accept.
func trimDigits(s string) string {
	var k keypad.Keypad
	k.Type(strings.TrimSpace(s))
	return k.Digits()
}

// preview renders digits the way the keypad display shows them.
func preview(digits string) string {
	var k keypad.Keypad
	k.Type(digits)
	return k.Display()
}

var _ ports.DialogProvider = (*Provider)(nil)
