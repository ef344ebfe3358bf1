package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	memclock "github.com/Overland-East-Bay/front-desk/internal/adapters/memory/clock"
	"github.com/Overland-East-Bay/front-desk/internal/domain"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/memberdirectory"
)

func TestBackend_AddMember_Uniqueness(t *testing.T) {
	t.Parallel()

	b := NewBackend(memclock.NewManualClock(time.Unix(0, 0).UTC()), nil)
	ana := domain.MemberIdentity{ID: 1, FirstName: "Ana", LastName: "Lima", CheckInCode: "4821"}
	if err := b.AddMember(1, ana); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if err := b.AddMember(1, ana); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("duplicate id err=%v, want ErrAlreadyExists", err)
	}
	if err := b.AddMember(1, domain.MemberIdentity{ID: 2, FirstName: "Bo", CheckInCode: "4821"}); !errors.Is(err, ErrCodeTaken) {
		t.Fatalf("duplicate code err=%v, want ErrCodeTaken", err)
	}
	// Codes are per gym.
	if err := b.AddMember(2, domain.MemberIdentity{ID: 2, FirstName: "Bo", CheckInCode: "4821"}); err != nil {
		t.Fatalf("other gym AddMember: %v", err)
	}
}

func TestBackend_SetBillingStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := NewBackend(memclock.NewManualClock(time.Unix(0, 0).UTC()), nil)
	if err := b.AddMember(1, domain.MemberIdentity{ID: 1, FirstName: "Ana", CheckInCode: "4821", LatestBillingStatus: domain.NewBillingStatus("overdue")}); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if err := b.SetBillingStatus(1, 1, " Paid"); err != nil {
		t.Fatalf("SetBillingStatus: %v", err)
	}
	m, err := b.LookupByCode(ctx, 1, "4821")
	if err != nil || !m.LatestBillingStatus.IsPaid() {
		t.Fatalf("member=%+v err=%v", m, err)
	}
	if err := b.SetBillingStatus(1, 99, "paid"); !errors.Is(err, memberdirectory.ErrNotFound) {
		t.Fatalf("unknown member err=%v", err)
	}
}

func TestBackend_SearchKeepsBillingUnlessConfigured(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := NewBackend(memclock.NewManualClock(time.Unix(0, 0).UTC()), nil)
	if err := b.AddMember(1, domain.MemberIdentity{ID: 1, FirstName: "Ana", LastName: "Lima", CheckInCode: "4821", LatestBillingStatus: domain.NewBillingStatus("paid")}); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	ms, err := b.LookupByName(ctx, 1, "lima ana")
	if err != nil || len(ms) != 1 || !ms[0].LatestBillingStatus.IsPaid() {
		t.Fatalf("search=%+v err=%v", ms, err)
	}

	b.SearchOmitsBilling = true
	ms, err = b.LookupByName(ctx, 1, "ana")
	if err != nil || len(ms) != 1 || ms[0].LatestBillingStatus.Known() {
		t.Fatalf("search=%+v err=%v", ms, err)
	}
	if _, err := b.LookupByName(ctx, 1, "  "); !errors.Is(err, memberdirectory.ErrNotFound) {
		t.Fatalf("blank search err=%v", err)
	}
}

func TestBackend_RosterUsesGymLocalDate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	loc := time.FixedZone("UTC-3", -3*60*60)
	clk := memclock.NewManualClock(time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC))
	b := NewBackend(clk, loc)
	if err := b.AddMember(1, domain.MemberIdentity{ID: 1, FirstName: "Ana", LastName: "Lima", CheckInCode: "4821"}); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if err := b.AddMember(1, domain.MemberIdentity{ID: 2, FirstName: "Bruno", LastName: "Alves", CheckInCode: "0042"}); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	if err := b.Record(ctx, 1, 2); err != nil {
		t.Fatalf("Record: %v", err)
	}
	clk.Advance(4 * time.Hour)
	if err := b.Record(ctx, 1, 1); err != nil {
		t.Fatalf("Record: %v", err)
	}

	prev, err := b.LoadRoster(ctx, 1, "2026-03-01")
	if err != nil || len(prev) != 1 || prev[0].MemberID != 2 {
		t.Fatalf("2026-03-01 roster=%+v err=%v", prev, err)
	}
	cur, err := b.LoadRoster(ctx, 1, "2026-03-02")
	if err != nil || len(cur) != 1 || cur[0].MemberID != 1 {
		t.Fatalf("2026-03-02 roster=%+v err=%v", cur, err)
	}
	if _, err := b.LoadRoster(ctx, 1, "03/02/2026"); err == nil {
		t.Fatalf("expected invalid date error")
	}
}
