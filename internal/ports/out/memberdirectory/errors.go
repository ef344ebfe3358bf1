package memberdirectory

import "errors"

// ErrNotFound indicates no member matched the lookup.
var ErrNotFound = errors.New("member not found")
