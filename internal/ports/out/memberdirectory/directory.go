package memberdirectory

import (
	"context"

	"github.com/Overland-East-Bay/front-desk/internal/domain"
)

// Directory resolves members of a fitness center.
//
// Both operations are read-only, idempotent and safe to retry.
// Implementations normalize the upstream billing fields into domain.BillingStatus before returning;
// callers never see the raw field names.
type Directory interface {
	// LookupByCode returns the member whose check-in code equals code exactly.
	// It returns ErrNotFound when no member has that code.
	LookupByCode(ctx context.Context, centerID domain.FitnessCenterID, code string) (domain.MemberIdentity, error)

	// LookupByName returns every fuzzy match for term.
	// It returns ErrNotFound when the candidate list is empty.
	// Search results may omit billing fields; see domain.BillingStatus.Known.
	LookupByName(ctx context.Context, centerID domain.FitnessCenterID, term string) ([]domain.MemberIdentity, error)
}
