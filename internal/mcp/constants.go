package mcp

// Common error messages and descriptions used across MCP tools.
const (
	// Tool parameter descriptions
	descKey   = "Keypad button: a digit 0-9, 'set' or 'clear'"
	descPanel = "Panel to show: 'stopwatch', 'landing' or 'countdown'"

	// Common error messages
	errKeyRequired        = "key is required"
	errPanelRequired      = "panel is required"
	errDurationRequired   = "minutes or duration_ms is required"
	errDurationMSRequired = "duration_ms is required"
	errMinutesRange       = "minutes must be between 0 and %d"
)
