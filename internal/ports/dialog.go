package ports

// DurationFormData holds the result of the countdown duration form.
type DurationFormData struct {
	Digits    string // typed keypad digits, whole minutes
	StartNow  bool
	Confirmed bool
}

// DialogProvider abstracts interactive user dialogs.
// Implementations may use TUI forms or test fakes.
type DialogProvider interface {
	// DurationForm asks for a countdown duration on the digit keypad.
	// Returns the final form data with Confirmed=true if the user accepted.
	DurationForm(prefill DurationFormData) (DurationFormData, error)
}
