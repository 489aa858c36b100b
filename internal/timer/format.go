package timer

import (
	"fmt"
	"time"
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

// Parts is a duration split into zero-padded display fields.
type Parts struct {
	Hours        string `json:"hours"`
	Minutes      string `json:"minutes"`
	Seconds      string `json:"seconds"`
	Milliseconds string `json:"milliseconds"`
}

// Format splits ms into hours, minutes, seconds and milliseconds using floor
// truncation. Hours are not wrapped and grow past two digits when needed.
// Negative input formats as zero.
func Format(ms int64) Parts {
	if ms < 0 {
		ms = 0
	}
	return Parts{
		Hours:        fmt.Sprintf("%02d", ms/msPerHour),
		Minutes:      fmt.Sprintf("%02d", ms%msPerHour/msPerMinute),
		Seconds:      fmt.Sprintf("%02d", ms%msPerMinute/msPerSecond),
		Milliseconds: fmt.Sprintf("%03d", ms%msPerSecond),
	}
}

// FormatDuration formats d truncated to whole milliseconds.
func FormatDuration(d time.Duration) Parts {
	return Format(d.Milliseconds())
}

// Main returns the HH:MM:SS part.
func (p Parts) Main() string {
	return p.Hours + ":" + p.Minutes + ":" + p.Seconds
}

// String returns HH:MM:SS.mmm.
func (p Parts) String() string {
	return p.Main() + "." + p.Milliseconds
}
