// Package keypad parses digit keypad input for the countdown duration.
//
// Typed digits are read as a whole number of minutes, at most MaxDigits long.
package keypad

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxDigits is the number of digits the keypad accepts.
const MaxDigits = 4

// ErrUnknownKey is returned by ParseKey for labels that are not keypad keys.
var ErrUnknownKey = errors.New("unknown keypad key")

// Action is what a key does.
type Action int

const (
	ActionDigit Action = iota
	ActionSet
	ActionClear
)

// Key is one keypad button.
type Key struct {
	Action Action
	Digit  byte // '0'..'9' when Action is ActionDigit
}

// ParseKey maps a button label ("0"-"9", "set", "clear") to a Key.
func ParseKey(label string) (Key, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	switch label {
	case "set":
		return Key{Action: ActionSet}, nil
	case "clear":
		return Key{Action: ActionClear}, nil
	}
	if len(label) == 1 && label[0] >= '0' && label[0] <= '9' {
		return Key{Action: ActionDigit, Digit: label[0]}, nil
	}
	return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, label)
}

// Keypad accumulates typed digits.
type Keypad struct {
	digits string
}

// New returns an empty keypad.
func New() *Keypad {
	return &Keypad{}
}

// Press appends a digit. It reports false when the keypad is full or d is
// not a digit.
func (k *Keypad) Press(d byte) bool {
	if d < '0' || d > '9' || len(k.digits) >= MaxDigits {
		return false
	}
	k.digits += string(d)
	return true
}

// Type presses each digit of s in turn and stops at the first rejected one.
// It returns the number of digits accepted.
func (k *Keypad) Type(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if !k.Press(s[i]) {
			break
		}
		n++
	}
	return n
}

// Clear empties the keypad.
func (k *Keypad) Clear() {
	k.digits = ""
}

// Digits returns the typed digits.
func (k *Keypad) Digits() string {
	return k.digits
}

// Minutes returns the typed value, zero when empty.
func (k *Keypad) Minutes() int {
	if k.digits == "" {
		return 0
	}
	// At most four ASCII digits, so this cannot fail.
	n, _ := strconv.Atoi(k.digits)
	return n
}

// Duration returns the typed minutes as a duration.
func (k *Keypad) Duration() time.Duration {
	return time.Duration(k.Minutes()) * time.Minute
}

// Display renders the typed minutes as HH:MM.
func (k *Keypad) Display() string {
	m := k.Minutes()
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Validate checks that s could have been typed on the keypad.
func Validate(s string) error {
	if len(s) > MaxDigits {
		return fmt.Errorf("at most %d digits", MaxDigits)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return errors.New("digits only")
		}
	}
	return nil
}
