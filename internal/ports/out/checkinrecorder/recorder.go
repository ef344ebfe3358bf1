package checkinrecorder

import (
	"context"

	"github.com/Overland-East-Bay/front-desk/internal/domain"
)

// Recorder persists a check-in event for a member.
//
// It performs no billing check of its own. Failures wrap ErrRecording.
type Recorder interface {
	Record(ctx context.Context, centerID domain.FitnessCenterID, memberID domain.MemberID) error
}
