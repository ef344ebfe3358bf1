package roster

import (
	"context"

	"github.com/Overland-East-Bay/front-desk/internal/domain"
)

// Source loads the authoritative list of check-ins for one date (YYYY-MM-DD).
//
// Results are ordered by check-in time ascending.
type Source interface {
	LoadRoster(ctx context.Context, centerID domain.FitnessCenterID, date string) ([]domain.RosterEntry, error)
}
