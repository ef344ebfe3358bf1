package backend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Overland-East-Bay/front-desk/internal/domain"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/checkinrecorder"
	clockport "github.com/Overland-East-Bay/front-desk/internal/ports/out/clock"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/memberdirectory"
)

var (
	// ErrAlreadyExists indicates a member already exists with the provided ID.
	ErrAlreadyExists = errors.New("member already exists")

	// ErrCodeTaken indicates another member of the same gym already holds the check-in code.
	ErrCodeTaken = errors.New("check-in code already assigned")
)

type checkIn struct {
	centerID domain.FitnessCenterID
	memberID domain.MemberID
	at       time.Time
}

// Backend is an in-memory stand-in for the gym's REST backend. It implements
// memberdirectory.Directory, checkinrecorder.Recorder and roster.Source.
// It is safe for concurrent use.
type Backend struct {
	clk clockport.Clock
	loc *time.Location

	// SearchOmitsBilling makes name search drop billing fields, as the real search endpoint does.
	SearchOmitsBilling bool

	mu       sync.RWMutex
	members  map[domain.FitnessCenterID]map[domain.MemberID]domain.MemberIdentity
	checkIns []checkIn
}

// NewBackend returns an empty backend. Roster dates are computed in loc (UTC when nil).
func NewBackend(clk clockport.Clock, loc *time.Location) *Backend {
	if loc == nil {
		loc = time.UTC
	}
	return &Backend{
		clk:     clk,
		loc:     loc,
		members: make(map[domain.FitnessCenterID]map[domain.MemberID]domain.MemberIdentity),
	}
}

func (b *Backend) AddMember(centerID domain.FitnessCenterID, m domain.MemberIdentity) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	gym := b.members[centerID]
	if gym == nil {
		gym = make(map[domain.MemberID]domain.MemberIdentity)
		b.members[centerID] = gym
	}
	if _, ok := gym[m.ID]; ok {
		return ErrAlreadyExists
	}
	if m.CheckInCode != "" {
		for _, other := range gym {
			if other.CheckInCode == m.CheckInCode {
				return ErrCodeTaken
			}
		}
	}
	gym[m.ID] = m
	return nil
}

// SetBillingStatus replaces a member's latest billing status, as a billing desk would.
func (b *Backend) SetBillingStatus(centerID domain.FitnessCenterID, id domain.MemberID, status string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.members[centerID][id]
	if !ok {
		return memberdirectory.ErrNotFound
	}
	m.LatestBillingStatus = domain.NewBillingStatus(status)
	b.members[centerID][id] = m
	return nil
}

func (b *Backend) LookupByCode(ctx context.Context, centerID domain.FitnessCenterID, code string) (domain.MemberIdentity, error) {
	_ = ctx
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, m := range b.members[centerID] {
		if m.CheckInCode == code {
			return m, nil
		}
	}
	return domain.MemberIdentity{}, memberdirectory.ErrNotFound
}

func (b *Backend) LookupByName(ctx context.Context, centerID domain.FitnessCenterID, term string) ([]domain.MemberIdentity, error) {
	_ = ctx

	qTokens := tokenize(term)
	if len(qTokens) == 0 {
		return nil, memberdirectory.ErrNotFound
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]domain.MemberIdentity, 0)
	for _, m := range b.members[centerID] {
		if !matchesAllTokens(m.DisplayName(), qTokens) {
			continue
		}
		if b.SearchOmitsBilling {
			m.LatestBillingStatus = domain.UnknownBillingStatus()
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil, memberdirectory.ErrNotFound
	}
	sortMembersByDisplayName(out)
	return out, nil
}

func (b *Backend) Record(ctx context.Context, centerID domain.FitnessCenterID, memberID domain.MemberID) error {
	_ = ctx
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.members[centerID][memberID]; !ok {
		return fmt.Errorf("%w: member %d is not registered at fitness center %d", checkinrecorder.ErrRecording, memberID, centerID)
	}
	b.checkIns = append(b.checkIns, checkIn{centerID: centerID, memberID: memberID, at: b.clk.Now()})
	return nil
}

func (b *Backend) LoadRoster(ctx context.Context, centerID domain.FitnessCenterID, date string) ([]domain.RosterEntry, error) {
	_ = ctx
	if _, err := domain.ParseRosterDate(date); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]domain.RosterEntry, 0)
	for _, ci := range b.checkIns {
		if ci.centerID != centerID || domain.RosterDateOf(ci.at, b.loc) != date {
			continue
		}
		m := b.members[centerID][ci.memberID]
		out = append(out, domain.RosterEntry{
			MemberID:    ci.memberID,
			FirstName:   m.FirstName,
			LastName:    m.LastName,
			Phone:       m.Phone,
			CheckedInAt: ci.at,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CheckedInAt.Before(out[j].CheckedInAt)
	})
	return out, nil
}

func sortMembersByDisplayName(ms []domain.MemberIdentity) {
	sort.Slice(ms, func(i, j int) bool {
		di := strings.ToLower(ms[i].DisplayName())
		dj := strings.ToLower(ms[j].DisplayName())
		if di == dj {
			return ms[i].ID < ms[j].ID
		}
		return di < dj
	})
}

func tokenize(s string) []string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

func matchesAllTokens(displayName string, tokens []string) bool {
	hay := strings.ToLower(displayName)
	for _, t := range tokens {
		if !strings.Contains(hay, t) {
			return false
		}
	}
	return true
}
