package domain

import (
	"fmt"
	"time"
)

// RosterDateLayout is the wire and display format of a roster date.
const RosterDateLayout = "2006-01-02"

// RosterEntry is a read-only projection of one check-in on a given date.
type RosterEntry struct {
	MemberID    MemberID
	FirstName   string
	LastName    string
	Phone       string
	CheckedInAt time.Time
}

func (e RosterEntry) DisplayName() string {
	return JoinName(e.FirstName, e.LastName)
}

// ParseRosterDate validates a YYYY-MM-DD date string.
func ParseRosterDate(s string) (time.Time, error) {
	t, err := time.Parse(RosterDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	return t, nil
}

// RosterDateOf formats t as a roster date in loc (UTC when loc is nil).
func RosterDateOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(RosterDateLayout)
}
