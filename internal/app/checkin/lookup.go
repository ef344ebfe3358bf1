package checkin

import (
	"context"
	"fmt"

	"github.com/Overland-East-Bay/front-desk/internal/domain"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/memberdirectory"
)

// Lookup resolves members by check-in code or by name.
type Lookup struct {
	dir memberdirectory.Directory
}

func NewLookup(dir memberdirectory.Directory) *Lookup {
	return &Lookup{dir: dir}
}

// ByCode resolves exactly one member by check-in code.
// The code is passed through as typed; malformed codes are rejected before any backend call.
func (l *Lookup) ByCode(ctx context.Context, centerID domain.FitnessCenterID, code string) (domain.MemberIdentity, error) {
	if err := domain.ValidateCheckInCode(code); err != nil {
		return domain.MemberIdentity{}, &Error{
			Status:  422,
			Code:    CodeValidation,
			Message: "invalid check-in code",
			Details: map[string]any{"code": err.Error()},
		}
	}
	m, err := l.dir.LookupByCode(ctx, centerID, code)
	if err != nil {
		return domain.MemberIdentity{}, fmt.Errorf("lookup by code: %w", err)
	}
	return m, nil
}

// ByName returns every fuzzy match for term.
// A blank term is a no-op: it returns (nil, nil) without calling the directory.
// An empty candidate list is reported as memberdirectory.ErrNotFound.
func (l *Lookup) ByName(ctx context.Context, centerID domain.FitnessCenterID, term string) ([]domain.MemberIdentity, error) {
	if domain.IsBlank(term) {
		return nil, nil
	}
	ms, err := l.dir.LookupByName(ctx, centerID, term)
	if err != nil {
		return nil, fmt.Errorf("lookup by name: %w", err)
	}
	if len(ms) == 0 {
		return nil, fmt.Errorf("lookup by name: %w", memberdirectory.ErrNotFound)
	}
	return ms, nil
}
