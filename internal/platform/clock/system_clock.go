package clock

import "time"

// SystemClock reads the wall clock in UTC. Callers convert to the gym's zone
// when they need a calendar day.
type SystemClock struct{}

func NewSystemClock() SystemClock { return SystemClock{} }

func (SystemClock) Now() time.Time { return time.Now().UTC() }
