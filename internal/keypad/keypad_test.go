package keypad

import (
	"errors"
	"testing"
	"time"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		label   string
		want    Key
		wantErr bool
	}{
		{label: "0", want: Key{Action: ActionDigit, Digit: '0'}},
		{label: " 7 ", want: Key{Action: ActionDigit, Digit: '7'}},
		{label: "set", want: Key{Action: ActionSet}},
		{label: "CLEAR", want: Key{Action: ActionClear}},
		{label: "10", wantErr: true},
		{label: "x", wantErr: true},
		{label: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParseKey(tt.label)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownKey) {
					t.Errorf("ParseKey(%q) error = %v, want ErrUnknownKey", tt.label, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKey(%q) error: %v", tt.label, err)
			}
			if got != tt.want {
				t.Errorf("ParseKey(%q) = %+v, want %+v", tt.label, got, tt.want)
			}
		})
	}
}

func TestKeypad_DigitLimit(t *testing.T) {
	k := New()

	if n := k.Type("123456"); n != MaxDigits {
		t.Errorf("Type() accepted %d digits, want %d", n, MaxDigits)
	}
	if k.Digits() != "1234" {
		t.Errorf("Digits() = %q, want %q", k.Digits(), "1234")
	}
	if k.Press('9') {
		t.Error("Press() accepted a fifth digit")
	}
	if k.Press('a') {
		t.Error("Press() accepted a non-digit")
	}
}

func TestKeypad_DisplayAndDuration(t *testing.T) {
	tests := []struct {
		typed    string
		display  string
		duration time.Duration
	}{
		{typed: "", display: "00:00", duration: 0},
		{typed: "5", display: "00:05", duration: 5 * time.Minute},
		{typed: "90", display: "01:30", duration: 90 * time.Minute},
		{typed: "0005", display: "00:05", duration: 5 * time.Minute},
		{typed: "9999", display: "166:39", duration: 9999 * time.Minute},
	}

	for _, tt := range tests {
		k := New()
		k.Type(tt.typed)
		if k.Display() != tt.display {
			t.Errorf("%q: Display() = %q, want %q", tt.typed, k.Display(), tt.display)
		}
		if k.Duration() != tt.duration {
			t.Errorf("%q: Duration() = %v, want %v", tt.typed, k.Duration(), tt.duration)
		}
	}
}

func TestKeypad_Clear(t *testing.T) {
	k := New()
	k.Type("12")
	k.Clear()

	if k.Digits() != "" || k.Minutes() != 0 {
		t.Errorf("after Clear: digits %q minutes %d", k.Digits(), k.Minutes())
	}
}

func TestValidate(t *testing.T) {
	for _, ok := range []string{"", "0", "25", "9999"} {
		if err := Validate(ok); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", ok, err)
		}
	}
	for _, bad := range []string{"12345", "1a", "-1", "1.5"} {
		if err := Validate(bad); err == nil {
			t.Errorf("Validate(%q) = nil, want error", bad)
		}
	}
}
