package domain

import "strings"

// BillingStatus is the canonical, normalized latest billing status of a member.
//
// The zero value is "unknown": the upstream response carried no billing field at all.
// Unknown is never treated as eligible.
type BillingStatus struct {
	value string
	known bool
}

// BillingStatusPaid is the only status that allows a check-in.
const BillingStatusPaid = "paid"

// UnknownBillingStatus returns the status used when upstream omitted billing data.
func UnknownBillingStatus() BillingStatus { return BillingStatus{} }

// NewBillingStatus normalizes a raw upstream status by lower-casing it. Nothing else
// is stripped: " paid" is not "paid".
// A present-but-empty value is known and empty, which is ineligible.
func NewBillingStatus(raw string) BillingStatus {
	return BillingStatus{value: strings.ToLower(raw), known: true}
}

func (b BillingStatus) Known() bool    { return b.known }
func (b BillingStatus) String() string { return b.value }

// IsPaid reports whether the status equals "paid" (case-insensitive).
func (b BillingStatus) IsPaid() bool {
	return b.known && b.value == BillingStatusPaid
}

// MemberIdentity is the resolved subject of a directory lookup.
type MemberIdentity struct {
	ID          MemberID
	FirstName   string
	LastName    string
	CheckInCode string
	Phone       string

	LatestBillingStatus BillingStatus
}

// DisplayName joins first and last name with normalized whitespace.
func (m MemberIdentity) DisplayName() string {
	return JoinName(m.FirstName, m.LastName)
}
