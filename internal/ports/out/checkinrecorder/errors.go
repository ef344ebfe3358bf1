package checkinrecorder

import "errors"

// ErrRecording indicates the backend rejected or never received the check-in write.
var ErrRecording = errors.New("check-in recording failed")
