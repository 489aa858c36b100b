// Package fakedialog provides a test fake for ports.DialogProvider.
package fakedialog

import "github.com/acolita/stopwatch-mcp/internal/ports"

// Provider is a controllable fake DialogProvider for testing.
type Provider struct {
	// Result is the form data returned by DurationForm.
	Result ports.DurationFormData
	// Err is the error returned by DurationForm.
	Err error
	// Calls counts DurationForm invocations.
	Calls int
	// ReceivedPrefill captures the prefill data passed to DurationForm.
	ReceivedPrefill ports.DurationFormData
}

// New returns a new fake dialog provider.
func New() *Provider {
	return &Provider{}
}

// DurationForm returns the pre-configured Result and Err.
func (p *Provider) DurationForm(prefill ports.DurationFormData) (ports.DurationFormData, error) {
	p.Calls++
	p.ReceivedPrefill = prefill
	if p.Err != nil {
		return prefill, p.Err
	}
	return p.Result, nil
}

var _ ports.DialogProvider = (*Provider)(nil)
