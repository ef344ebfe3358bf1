package checkin

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Overland-East-Bay/front-desk/internal/domain"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/checkinrecorder"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/memberdirectory"
)

const testCenter domain.FitnessCenterID = 42

func member(id int64, first, last, code, billing string) domain.MemberIdentity {
	m := domain.MemberIdentity{
		ID:          domain.MemberID(id),
		FirstName:   first,
		LastName:    last,
		CheckInCode: code,
		Phone:       fmt.Sprintf("555-%04d", id),
	}
	if billing != "" {
		m.LatestBillingStatus = domain.NewBillingStatus(billing)
	}
	return m
}

// withoutBilling mimics a search result that omitted the billing fields.
func withoutBilling(m domain.MemberIdentity) domain.MemberIdentity {
	m.LatestBillingStatus = domain.UnknownBillingStatus()
	return m
}

type fakeDirectory struct {
	mu        sync.Mutex
	byCode    map[string]domain.MemberIdentity
	byName    map[string][]domain.MemberIdentity
	codeCalls map[string]int
	nameCalls int
	codeErr   error
	nameErr   error

	// hold parks a lookup for the key (code or name) until the channel is closed.
	hold    map[string]chan struct{}
	entered chan string
}

func newFakeDirectory(ms ...domain.MemberIdentity) *fakeDirectory {
	d := &fakeDirectory{
		byCode:    make(map[string]domain.MemberIdentity),
		byName:    make(map[string][]domain.MemberIdentity),
		codeCalls: make(map[string]int),
		hold:      make(map[string]chan struct{}),
		entered:   make(chan string, 8),
	}
	for _, m := range ms {
		d.byCode[m.CheckInCode] = m
	}
	return d
}

func (d *fakeDirectory) holdKey(key string) chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch := make(chan struct{})
	d.hold[key] = ch
	return ch
}

func (d *fakeDirectory) wait(ctx context.Context, key string) error {
	d.mu.Lock()
	ch := d.hold[key]
	d.mu.Unlock()
	if ch == nil {
		return nil
	}
	d.entered <- key
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *fakeDirectory) LookupByCode(ctx context.Context, centerID domain.FitnessCenterID, code string) (domain.MemberIdentity, error) {
	d.mu.Lock()
	d.codeCalls[code]++
	d.mu.Unlock()

	if err := d.wait(ctx, code); err != nil {
		return domain.MemberIdentity{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if centerID != testCenter {
		return domain.MemberIdentity{}, memberdirectory.ErrNotFound
	}
	if d.codeErr != nil {
		return domain.MemberIdentity{}, d.codeErr
	}
	m, ok := d.byCode[code]
	if !ok {
		return domain.MemberIdentity{}, memberdirectory.ErrNotFound
	}
	return m, nil
}

func (d *fakeDirectory) LookupByName(ctx context.Context, centerID domain.FitnessCenterID, term string) ([]domain.MemberIdentity, error) {
	d.mu.Lock()
	d.nameCalls++
	d.mu.Unlock()

	if err := d.wait(ctx, term); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.nameErr != nil {
		return nil, d.nameErr
	}
	ms, ok := d.byName[strings.ToLower(term)]
	if !ok || centerID != testCenter {
		return nil, memberdirectory.ErrNotFound
	}
	return append([]domain.MemberIdentity(nil), ms...), nil
}

func (d *fakeDirectory) calls(code string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.codeCalls[code]
}

type fakeRecorder struct {
	mu       sync.Mutex
	recorded []domain.MemberID
	failures int
	// onRecord runs before the call returns, outside the recorder lock.
	onRecord func()
}

func (r *fakeRecorder) Record(ctx context.Context, centerID domain.FitnessCenterID, memberID domain.MemberID) error {
	_ = ctx
	r.mu.Lock()
	hook := r.onRecord
	r.recorded = append(r.recorded, memberID)
	fail := r.failures > 0
	if fail {
		r.failures--
	}
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	if fail {
		return fmt.Errorf("%w: backend returned 500", checkinrecorder.ErrRecording)
	}
	return nil
}

func (r *fakeRecorder) calls() []domain.MemberID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.MemberID(nil), r.recorded...)
}

type fakeRosterSource struct {
	mu      sync.Mutex
	entries map[string][]domain.RosterEntry
	loads   map[string]int
	err     error
	hold    map[string]chan struct{}
}

func newFakeRosterSource() *fakeRosterSource {
	return &fakeRosterSource{
		entries: make(map[string][]domain.RosterEntry),
		loads:   make(map[string]int),
		hold:    make(map[string]chan struct{}),
	}
}

func (s *fakeRosterSource) LoadRoster(ctx context.Context, centerID domain.FitnessCenterID, date string) ([]domain.RosterEntry, error) {
	s.mu.Lock()
	s.loads[date]++
	ch := s.hold[date]
	s.mu.Unlock()
	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]domain.RosterEntry(nil), s.entries[date]...), nil
}

func (s *fakeRosterSource) loadCount(date string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads[date]
}

type fakeMetrics struct {
	mu       sync.Mutex
	lookups  map[string]int
	checkIns map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{lookups: make(map[string]int), checkIns: make(map[string]int)}
}

func (m *fakeMetrics) LookupCompleted(mode Mode, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups[string(mode)+"/"+outcome]++
}

func (m *fakeMetrics) CheckInCompleted(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkIns[outcome]++
}

func (m *fakeMetrics) lookup(mode Mode, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookups[string(mode)+"/"+outcome]
}

func (m *fakeMetrics) checkIn(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkIns[outcome]
}
