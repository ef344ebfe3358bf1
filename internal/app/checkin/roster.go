package checkin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Overland-East-Bay/front-desk/internal/domain"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/roster"
)

// RosterSnapshot is an immutable copy of a RosterView's visible state.
type RosterSnapshot struct {
	Date     string
	Entries  []domain.RosterEntry
	Loaded   bool
	LoadedAt time.Time
	Error    *Error
}

// RosterView tracks the check-ins for one selected date.
//
// Entries are never edited locally; every load replaces them wholesale with the
// backend's list. Loads are tagged so that a response for a superseded request is dropped.
type RosterView struct {
	src      roster.Source
	centerID domain.FitnessCenterID
	now      func() time.Time

	mu       sync.Mutex
	seq      uint64
	date     string
	entries  []domain.RosterEntry
	loaded   bool
	loadedAt time.Time
	err      *Error
}

func NewRosterView(src roster.Source, centerID domain.FitnessCenterID, date string, now func() time.Time) *RosterView {
	if now == nil {
		now = time.Now
	}
	return &RosterView{src: src, centerID: centerID, date: date, now: now}
}

// SetDate selects date and refetches when it differs from the current one
// (or nothing has been loaded yet).
func (v *RosterView) SetDate(ctx context.Context, date string) (RosterSnapshot, error) {
	if _, err := domain.ParseRosterDate(date); err != nil {
		return v.Snapshot(), &Error{
			Status:  422,
			Code:    CodeValidation,
			Message: "invalid date",
			Details: map[string]any{"date": err.Error()},
		}
	}

	v.mu.Lock()
	unchanged := v.loaded && v.date == date
	v.mu.Unlock()
	if unchanged {
		return v.Snapshot(), nil
	}
	err := v.load(ctx, date)
	return v.Snapshot(), err
}

// Refresh refetches the currently selected date.
func (v *RosterView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	date := v.date
	v.mu.Unlock()
	return v.load(ctx, date)
}

func (v *RosterView) Snapshot() RosterSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := RosterSnapshot{
		Date:     v.date,
		Loaded:   v.loaded,
		LoadedAt: v.loadedAt,
		Error:    cloneError(v.err),
	}
	if v.entries != nil {
		out.Entries = append([]domain.RosterEntry(nil), v.entries...)
	}
	return out
}

func (v *RosterView) load(ctx context.Context, date string) error {
	v.mu.Lock()
	v.seq++
	seq := v.seq
	if v.date != date {
		v.date = date
		v.entries = nil
		v.loaded = false
	}
	v.mu.Unlock()

	entries, err := v.src.LoadRoster(ctx, v.centerID, date)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq {
		return nil
	}
	if err != nil {
		v.err = &Error{Status: 502, Code: CodeLookupFailed, Message: "Could not load the check-in roster."}
		return fmt.Errorf("load roster %s: %w", date, err)
	}
	v.entries = entries
	v.loaded = true
	v.loadedAt = v.now()
	v.err = nil
	return nil
}
