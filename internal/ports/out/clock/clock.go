package clock

import "time"

// Clock supplies "now" for terminal creation, roster dates and roster load stamps.
type Clock interface {
	Now() time.Time
}
