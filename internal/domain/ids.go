package domain

// MemberID is the backend's numeric identifier for a member record.
type MemberID int64

// FitnessCenterID identifies the gym a terminal operates for.
// It is injected configuration; the core never discovers it on its own.
type FitnessCenterID int64

// SessionID identifies one operator terminal session on the console.
type SessionID string
