package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Overland-East-Bay/front-desk/internal/domain"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/checkinrecorder"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/memberdirectory"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/roster"
)

type CleanupFunc = func()

// Backend is everything the console needs from the gym backend.
type Backend interface {
	memberdirectory.Directory
	checkinrecorder.Recorder
	roster.Source
}

// BackendFactory returns a backend holding members for centerID whose check-ins are
// timestamped at now. Name search results must omit billing data.
type BackendFactory func(t *testing.T, centerID domain.FitnessCenterID, members []domain.MemberIdentity, now time.Time) (Backend, CleanupFunc)

// Members is the fixture every backend contract runs against.
func Members() []domain.MemberIdentity {
	return []domain.MemberIdentity{
		{ID: 11, FirstName: "Ana", LastName: "Lima", CheckInCode: "4821", Phone: "555-0011", LatestBillingStatus: domain.NewBillingStatus("paid")},
		{ID: 12, FirstName: "Anabel", LastName: "Costa", CheckInCode: "1007", Phone: "555-0012", LatestBillingStatus: domain.NewBillingStatus("overdue")},
		{ID: 13, FirstName: "Mariana", LastName: "Souza", CheckInCode: "3300", Phone: "555-0013", LatestBillingStatus: domain.NewBillingStatus("Pending")},
		{ID: 14, FirstName: "Carla", LastName: "Dias", CheckInCode: "5150", Phone: "555-0014"},
	}
}

func RunBackend(t *testing.T, newBackend BackendFactory) {
	t.Helper()
	ctx := context.Background()

	const (
		center domain.FitnessCenterID = 3
		other  domain.FitnessCenterID = 4
	)
	now := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	today := "2026-03-02"

	b, cleanup := newBackend(t, center, Members(), now)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	// Lookup by code is exact, scoped to the gym and repeatable.
	a, err := b.LookupByCode(ctx, center, "4821")
	if err != nil {
		t.Fatalf("LookupByCode: %v", err)
	}
	if a.ID != 11 || a.DisplayName() != "Ana Lima" || a.Phone != "555-0011" || !a.LatestBillingStatus.IsPaid() {
		t.Fatalf("unexpected member: %+v", a)
	}
	again, err := b.LookupByCode(ctx, center, "4821")
	if err != nil || again != a {
		t.Fatalf("repeat lookup=%+v err=%v, want %+v", again, err, a)
	}
	if _, err := b.LookupByCode(ctx, center, "0000"); !errors.Is(err, memberdirectory.ErrNotFound) {
		t.Fatalf("unknown code err=%v, want ErrNotFound", err)
	}
	if _, err := b.LookupByCode(ctx, other, "4821"); !errors.Is(err, memberdirectory.ErrNotFound) {
		t.Fatalf("other gym err=%v, want ErrNotFound", err)
	}

	// Billing status is normalized; a member without one stays unknown.
	m, err := b.LookupByCode(ctx, center, "3300")
	if err != nil || m.LatestBillingStatus.String() != "pending" {
		t.Fatalf("normalized status=%q err=%v", m.LatestBillingStatus.String(), err)
	}
	m, err = b.LookupByCode(ctx, center, "5150")
	if err != nil || m.LatestBillingStatus.Known() {
		t.Fatalf("expected unknown billing, got %+v err=%v", m.LatestBillingStatus, err)
	}

	// Name search is a case-insensitive substring match, ordered by name, without billing.
	ms, err := b.LookupByName(ctx, center, "ANA")
	if err != nil {
		t.Fatalf("LookupByName: %v", err)
	}
	if len(ms) != 3 || ms[0].ID != 11 || ms[1].ID != 12 || ms[2].ID != 13 {
		t.Fatalf("unexpected search result: %+v", ms)
	}
	for _, m := range ms {
		if m.LatestBillingStatus.Known() {
			t.Fatalf("expected search to omit billing, got %+v", m)
		}
	}
	if _, err := b.LookupByName(ctx, center, "zed"); !errors.Is(err, memberdirectory.ErrNotFound) {
		t.Fatalf("no match err=%v, want ErrNotFound", err)
	}

	// Recording a check-in adds exactly one roster entry for that day.
	before, err := b.LoadRoster(ctx, center, today)
	if err != nil {
		t.Fatalf("LoadRoster: %v", err)
	}
	if err := b.Record(ctx, center, 11); err != nil {
		t.Fatalf("Record: %v", err)
	}
	after, err := b.LoadRoster(ctx, center, today)
	if err != nil {
		t.Fatalf("LoadRoster after: %v", err)
	}
	if len(after) != len(before)+1 {
		t.Fatalf("roster size=%d, want %d", len(after), len(before)+1)
	}
	last := after[len(after)-1]
	if last.MemberID != 11 || last.DisplayName() != "Ana Lima" || !last.CheckedInAt.Equal(now) {
		t.Fatalf("unexpected roster entry: %+v", last)
	}

	if rs, err := b.LoadRoster(ctx, center, "2026-03-01"); err != nil || len(rs) != 0 {
		t.Fatalf("other day roster=%+v err=%v", rs, err)
	}
	if rs, err := b.LoadRoster(ctx, other, today); err != nil || len(rs) != 0 {
		t.Fatalf("other gym roster=%+v err=%v", rs, err)
	}

	if err := b.Record(ctx, center, 999); !errors.Is(err, checkinrecorder.ErrRecording) {
		t.Fatalf("Record(unknown) err=%v, want ErrRecording", err)
	}
}
