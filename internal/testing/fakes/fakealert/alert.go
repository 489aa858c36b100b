// Package fakealert provides a test fake for ports.Alerter.
package fakealert

import (
	"sync"

	"github.com/acolita/stopwatch-mcp/internal/ports"
)

// Alerter counts alerts instead of making noise.
type Alerter struct {
	mu    sync.Mutex
	calls int
	// Err is returned by every Alert call.
	Err error
}

// New returns a silent alerter.
func New() *Alerter {
	return &Alerter{}
}

// Alert records the call.
func (a *Alerter) Alert() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	return a.Err
}

// Calls returns how many times Alert was called.
func (a *Alerter) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

var _ ports.Alerter = (*Alerter)(nil)
