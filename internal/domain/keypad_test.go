package domain

import (
	"errors"
	"testing"
	"time"
)

func TestValidateCheckInCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code string
		want error
	}{
		{"4821", nil},
		{"0000000001", nil},
		{"", ErrEmptyCheckInCode},
		{"12345678901", ErrCheckInCodeTooLong},
		{" 4821", ErrCheckInCodeDigits},
		{"48a1", ErrCheckInCodeDigits},
	}
	for _, tc := range cases {
		if err := ValidateCheckInCode(tc.code); !errors.Is(err, tc.want) {
			t.Fatalf("ValidateCheckInCode(%q)=%v, want %v", tc.code, err, tc.want)
		}
	}
}

func TestKeypad_ComposeBackClearAndCap(t *testing.T) {
	t.Parallel()

	var k Keypad
	for _, key := range []Key{"4", "8", "2", "1"} {
		if !k.Press(key) {
			t.Fatalf("Press(%q) not handled", key)
		}
	}
	if k.Code() != "4821" {
		t.Fatalf("Code()=%q", k.Code())
	}

	k.Press(KeyBack)
	if k.Code() != "482" {
		t.Fatalf("after back Code()=%q", k.Code())
	}

	for i := 0; i < 20; i++ {
		k.Press("9")
	}
	if len(k.Code()) != MaxCheckInCodeLength {
		t.Fatalf("len(Code())=%d, want %d", len(k.Code()), MaxCheckInCodeLength)
	}

	k.Press(KeyClear)
	if !k.Empty() {
		t.Fatalf("expected empty keypad after clear, got %q", k.Code())
	}

	if k.Press(KeySubmit) || k.Press("x") {
		t.Fatalf("submit and unknown keys must not be handled by the keypad")
	}
}

func TestRosterDate(t *testing.T) {
	t.Parallel()

	if _, err := ParseRosterDate("2024-02-30"); err == nil {
		t.Fatalf("expected invalid date error")
	}
	got, err := ParseRosterDate("2024-03-01")
	if err != nil {
		t.Fatalf("ParseRosterDate err=%v", err)
	}
	if got.Day() != 1 || got.Month() != time.March {
		t.Fatalf("ParseRosterDate=%v", got)
	}

	loc := time.FixedZone("UTC-3", -3*60*60)
	at := time.Date(2024, 3, 2, 1, 30, 0, 0, time.UTC)
	if d := RosterDateOf(at, loc); d != "2024-03-01" {
		t.Fatalf("RosterDateOf=%q, want 2024-03-01", d)
	}
}
