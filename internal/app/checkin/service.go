package checkin

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/front-desk/internal/domain"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/checkinrecorder"
	clockport "github.com/Overland-East-Bay/front-desk/internal/ports/out/clock"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/memberdirectory"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/roster"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/sessionstore"
)

// Terminal is one operator terminal: a check-in controller plus the roster it keeps current.
type Terminal struct {
	ID        domain.SessionID
	CreatedAt time.Time

	Controller *Controller
	Roster     *RosterView
}

// ServiceDeps holds dependencies for Service.
type ServiceDeps struct {
	Store     sessionstore.Store[*Terminal]
	Clock     clockport.Clock
	Directory memberdirectory.Directory
	Recorder  checkinrecorder.Recorder
	Roster    roster.Source

	// FitnessCenterID is the gym every terminal of this console operates for.
	FitnessCenterID domain.FitnessCenterID
	// Location decides which calendar day "today" is for new terminals. Defaults to UTC.
	Location *time.Location

	Metrics Metrics      // optional
	Logger  *slog.Logger // optional
}

type Service struct {
	deps ServiceDeps
	log  *slog.Logger

	newSessionID func() domain.SessionID
}

func NewService(deps ServiceDeps) *Service {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	return &Service{
		deps: deps,
		log:  log,
		newSessionID: func() domain.SessionID {
			return domain.SessionID(uuid.NewString())
		},
	}
}

// Today is the roster date new terminals start on.
func (s *Service) Today() string {
	return domain.RosterDateOf(s.deps.Clock.Now(), s.deps.Location)
}

// StartSession opens a new terminal and loads today's roster for it.
// A failed initial roster load is logged and left visible on the roster; the terminal still opens.
func (s *Service) StartSession(ctx context.Context) (*Terminal, error) {
	now := s.deps.Clock.Now()
	rv := NewRosterView(s.deps.Roster, s.deps.FitnessCenterID, s.Today(), s.deps.Clock.Now)
	t := &Terminal{
		ID:        s.newSessionID(),
		CreatedAt: now,
		Roster:    rv,
		Controller: NewController(s.deps.FitnessCenterID, ControllerDeps{
			Directory: s.deps.Directory,
			Recorder:  s.deps.Recorder,
			Roster:    rv,
			Metrics:   s.deps.Metrics,
			Logger:    s.log,
		}),
	}
	if err := s.deps.Store.Put(ctx, t.ID, t); err != nil {
		return nil, err
	}
	if err := rv.Refresh(ctx); err != nil {
		s.log.Warn("checkin_event", "event", "roster_load_failed", "session_id", string(t.ID), "error", err)
	}
	s.log.Info("checkin_event", "event", "terminal_opened",
		"session_id", string(t.ID), "fitness_center_id", int64(s.deps.FitnessCenterID))
	return t, nil
}

func (s *Service) Session(ctx context.Context, id domain.SessionID) (*Terminal, error) {
	t, err := s.deps.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) {
			return nil, &Error{
				Status:  404,
				Code:    CodeSessionNotFound,
				Message: "No terminal session exists for the provided id.",
			}
		}
		return nil, err
	}
	return t, nil
}

// EndSession closes a terminal. Anything it still has in flight is dropped on completion.
func (s *Service) EndSession(ctx context.Context, id domain.SessionID) error {
	t, err := s.Session(ctx, id)
	if err != nil {
		return err
	}
	t.Controller.Reset()
	if err := s.deps.Store.Delete(ctx, id); err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) {
			return nil
		}
		return err
	}
	s.log.Info("checkin_event", "event", "terminal_closed", "session_id", string(id))
	return nil
}
