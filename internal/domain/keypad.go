package domain

import "errors"

// MaxCheckInCodeLength caps what the front-desk keypad lets an operator compose.
const MaxCheckInCodeLength = 10

var (
	ErrEmptyCheckInCode   = errors.New("check-in code is empty")
	ErrCheckInCodeTooLong = errors.New("check-in code exceeds 10 digits")
	ErrCheckInCodeDigits  = errors.New("check-in code must contain only digits 0-9")
)

// ValidateCheckInCode accepts 1..MaxCheckInCodeLength ASCII digits.
// The code is validated as typed; it is never trimmed or reformatted.
func ValidateCheckInCode(code string) error {
	if code == "" {
		return ErrEmptyCheckInCode
	}
	if len(code) > MaxCheckInCodeLength {
		return ErrCheckInCodeTooLong
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return ErrCheckInCodeDigits
		}
	}
	return nil
}

// Key is a single keypad press.
type Key string

const (
	KeyBack   Key = "back"
	KeyClear  Key = "clear"
	KeySubmit Key = "submit"
)

// IsDigit reports whether k is one of "0".."9".
func (k Key) IsDigit() bool {
	return len(k) == 1 && k[0] >= '0' && k[0] <= '9'
}

// Keypad is the digit buffer an operator composes a check-in code on.
// The zero value is an empty keypad.
type Keypad struct {
	buf []byte
}

// Press applies a digit, back or clear key. It reports false for keys it does not handle
// (including submit, which belongs to the caller).
// Digits beyond MaxCheckInCodeLength are ignored.
func (k *Keypad) Press(key Key) bool {
	switch {
	case key.IsDigit():
		if len(k.buf) < MaxCheckInCodeLength {
			k.buf = append(k.buf, key[0])
		}
		return true
	case key == KeyBack:
		if len(k.buf) > 0 {
			k.buf = k.buf[:len(k.buf)-1]
		}
		return true
	case key == KeyClear:
		k.buf = k.buf[:0]
		return true
	default:
		return false
	}
}

func (k *Keypad) Code() string { return string(k.buf) }
func (k *Keypad) Empty() bool  { return len(k.buf) == 0 }
