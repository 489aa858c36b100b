// Package realalert provides the terminal bell as a ports.Alerter.
package realalert

import (
	"io"
	"os"
	"sync"

	"github.com/acolita/stopwatch-mcp/internal/ports"
)

// Bell rings the terminal bell by writing BEL to a writer.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell returns a bell that writes to w, or to stderr when w is nil.
// Stdout is not used because the MCP transport owns it.
func NewBell(w io.Writer) *Bell {
	if w == nil {
		w = os.Stderr
	}
	return &Bell{w: w}
}

// Alert rings the bell once.
func (b *Bell) Alert() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := io.WriteString(b.w, "\a")
	return err
}

var _ ports.Alerter = (*Bell)(nil)
