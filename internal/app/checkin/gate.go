package checkin

import (
	"context"
	"errors"
	"fmt"

	"github.com/Overland-East-Bay/front-desk/internal/domain"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/memberdirectory"
)

// IsEligible reports whether member may check in: latest billing status is "paid".
// Unknown billing status is never eligible.
func IsEligible(member domain.MemberIdentity) bool {
	return member.LatestBillingStatus.IsPaid()
}

// Decision is the outcome of one gate evaluation.
type Decision struct {
	// Member is the identity the decision was made on; after a re-lookup it is the fresh copy.
	Member   domain.MemberIdentity
	Eligible bool
	// Reverified is set when the gate had to re-lookup the member by code.
	Reverified bool
	// Reason is the advisory shown to the operator when Eligible is false.
	Reason string
}

// Gate decides whether a resolved member may check in.
type Gate struct {
	dir memberdirectory.Directory
}

func NewGate(dir memberdirectory.Directory) *Gate {
	return &Gate{dir: dir}
}

// Evaluate applies the billing rule to member.
//
// When member carries no billing data (name search results may omit it), Evaluate performs
// exactly one lookup by the member's check-in code and decides on the fresh copy.
// Billing data that is still missing afterwards blocks the check-in.
// A non-nil error means the re-lookup could not be completed; no decision was made.
func (g *Gate) Evaluate(ctx context.Context, centerID domain.FitnessCenterID, member domain.MemberIdentity) (Decision, error) {
	d := Decision{Member: member}

	if !member.LatestBillingStatus.Known() {
		if member.CheckInCode == "" {
			d.Reason = MessageBillingUnknown
			return d, nil
		}
		fresh, err := g.dir.LookupByCode(ctx, centerID, member.CheckInCode)
		if err != nil {
			if errors.Is(err, memberdirectory.ErrNotFound) {
				d.Reverified = true
				d.Reason = MessageBillingUnknown
				return d, nil
			}
			return Decision{}, fmt.Errorf("reverify billing: %w", err)
		}
		d.Reverified = true
		if fresh.ID != member.ID {
			// The code now belongs to someone else; the selected member stays unverified.
			d.Reason = MessageBillingUnknown
			return d, nil
		}
		d.Member = fresh
	}

	switch {
	case IsEligible(d.Member):
		d.Eligible = true
	case d.Member.LatestBillingStatus.Known():
		d.Reason = MessagePaymentPending
	default:
		d.Reason = MessageBillingUnknown
	}
	return d, nil
}
