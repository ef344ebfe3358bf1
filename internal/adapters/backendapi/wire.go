package backendapi

import (
	"time"

	"github.com/oapi-codegen/nullable"

	"github.com/Overland-East-Bay/front-desk/internal/domain"
)

// Member is the member shape returned by both search endpoints.
//
// The backend is inconsistent about the billing field name, so both spellings are decoded.
// Only a string value counts as billing data; an absent or null field leaves the status unknown.
type Member struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	CheckInCode string `json:"checkInCode"`
	Phone       string `json:"phone"`

	LatestBillingStatus       nullable.Nullable[string] `json:"latestBillingStatus,omitempty"`
	LatestBillingStatusLegacy nullable.Nullable[string] `json:"latest_billing_status,omitempty"`
}

type SearchByCodeResponse struct {
	Member *Member `json:"member"`
}

type SearchByNameResponse struct {
	Members []Member `json:"members"`
}

type RecordCheckInRequest struct {
	MemberID        int64 `json:"memberId"`
	FitnessCenterID int64 `json:"fitnessCenterId"`
}

type RosterEntry struct {
	MemberID    int64     `json:"memberId"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Phone       string    `json:"phone"`
	CheckedInAt time.Time `json:"checkInTime"`
}

type RosterResponse struct {
	Members []RosterEntry `json:"members"`
}

// BillingStatus folds the two upstream spellings into one canonical status.
// The camelCase field wins when it carries a value.
func (m Member) BillingStatus() domain.BillingStatus {
	if v, err := m.LatestBillingStatus.Get(); err == nil {
		return domain.NewBillingStatus(v)
	}
	if v, err := m.LatestBillingStatusLegacy.Get(); err == nil {
		return domain.NewBillingStatus(v)
	}
	return domain.UnknownBillingStatus()
}

func (m Member) ToDomain() domain.MemberIdentity {
	return domain.MemberIdentity{
		ID:                  domain.MemberID(m.ID),
		FirstName:           m.FirstName,
		LastName:            m.LastName,
		CheckInCode:         m.CheckInCode,
		Phone:               m.Phone,
		LatestBillingStatus: m.BillingStatus(),
	}
}

// MemberFromDomain encodes m for servers speaking the backend protocol.
// Unknown billing status is encoded by omitting both billing fields.
func MemberFromDomain(m domain.MemberIdentity) Member {
	out := Member{
		ID:          int64(m.ID),
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		CheckInCode: m.CheckInCode,
		Phone:       m.Phone,
	}
	if m.LatestBillingStatus.Known() {
		out.LatestBillingStatus = nullable.NewNullableWithValue(m.LatestBillingStatus.String())
	}
	return out
}

func (e RosterEntry) ToDomain() domain.RosterEntry {
	return domain.RosterEntry{
		MemberID:    domain.MemberID(e.MemberID),
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Phone:       e.Phone,
		CheckedInAt: e.CheckedInAt,
	}
}

func RosterEntryFromDomain(e domain.RosterEntry) RosterEntry {
	return RosterEntry{
		MemberID:    int64(e.MemberID),
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Phone:       e.Phone,
		CheckedInAt: e.CheckedInAt.UTC(),
	}
}
