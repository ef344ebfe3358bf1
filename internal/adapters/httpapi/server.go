package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/nullable"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Overland-East-Bay/front-desk/internal/app/checkin"
	"github.com/Overland-East-Bay/front-desk/internal/domain"
)

// Server is the console HTTP adapter over the check-in service.
type Server struct {
	Checkin *checkin.Service
}

func NewServer(svc *checkin.Service) *Server {
	return &Server{Checkin: svc}
}

type MemberJSON struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DisplayName string `json:"displayName"`
	CheckInCode string `json:"checkInCode"`
	Phone       string `json:"phone"`
	// BillingStatus is null when the backend did not report one.
	BillingStatus nullable.Nullable[string] `json:"billingStatus"`
}

type AttemptErrorJSON struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type SessionJSON struct {
	SessionID  string            `json:"sessionId"`
	CreatedAt  time.Time         `json:"createdAt"`
	Mode       string            `json:"mode"`
	Phase      string            `json:"phase"`
	Input      string            `json:"input"`
	Candidates []MemberJSON      `json:"candidates"`
	Selected   *MemberJSON       `json:"selected,omitempty"`
	Error      *AttemptErrorJSON `json:"error,omitempty"`
	Message    string            `json:"message,omitempty"`
	Seq        uint64            `json:"seq"`
}

type RosterEntryJSON struct {
	MemberID    int64     `json:"memberId"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	CheckedInAt time.Time `json:"checkedInAt"`
}

type RosterJSON struct {
	Date     string            `json:"date"`
	Loaded   bool              `json:"loaded"`
	LoadedAt *time.Time        `json:"loadedAt,omitempty"`
	Entries  []RosterEntryJSON `json:"entries"`
	Error    *AttemptErrorJSON `json:"error,omitempty"`
}

type CreateSessionResponse struct {
	SessionID string      `json:"sessionId"`
	Session   SessionJSON `json:"session"`
	Roster    RosterJSON  `json:"roster"`
}

type ModeRequest struct {
	Mode string `json:"mode"`
}

type KeyRequest struct {
	Key string `json:"key"`
}

type CodeRequest struct {
	Code string `json:"code"`
}

type SearchRequest struct {
	Name string `json:"name"`
}

type SelectRequest struct {
	MemberID int64 `json:"memberId"`
}

func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	t, err := s.Checkin.StartSession(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateSessionResponse{
		SessionID: string(t.ID),
		Session:   sessionFromSnapshot(t, t.Controller.Snapshot()),
		Roster:    rosterFromSnapshot(t.Roster.Snapshot()),
	})
}

func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	t := mustTerminal(r)
	writeJSON(w, http.StatusOK, sessionFromSnapshot(t, t.Controller.Snapshot()))
}

func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	t := mustTerminal(r)
	if err := s.Checkin.EndSession(r.Context(), t.ID); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) SetMode(w http.ResponseWriter, r *http.Request) {
	t := mustTerminal(r)
	var body ModeRequest
	if !decodeBody(w, r, &body) {
		return
	}
	snap, err := t.Controller.SetMode(checkin.Mode(body.Mode))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionFromSnapshot(t, snap))
}

func (s *Server) PressKey(w http.ResponseWriter, r *http.Request) {
	t := mustTerminal(r)
	var body KeyRequest
	if !decodeBody(w, r, &body) {
		return
	}
	snap, err := t.Controller.PressKey(r.Context(), domain.Key(body.Key))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionFromSnapshot(t, snap))
}

func (s *Server) SubmitCode(w http.ResponseWriter, r *http.Request) {
	t := mustTerminal(r)
	var body CodeRequest
	if !decodeBody(w, r, &body) {
		return
	}
	writeJSON(w, http.StatusOK, sessionFromSnapshot(t, t.Controller.SubmitCode(r.Context(), body.Code)))
}

func (s *Server) SearchByName(w http.ResponseWriter, r *http.Request) {
	t := mustTerminal(r)
	var body SearchRequest
	if !decodeBody(w, r, &body) {
		return
	}
	writeJSON(w, http.StatusOK, sessionFromSnapshot(t, t.Controller.SubmitName(r.Context(), body.Name)))
}

func (s *Server) SelectCandidate(w http.ResponseWriter, r *http.Request) {
	t := mustTerminal(r)
	var body SelectRequest
	if !decodeBody(w, r, &body) {
		return
	}
	snap, err := t.Controller.Select(r.Context(), domain.MemberID(body.MemberID))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionFromSnapshot(t, snap))
}

func (s *Server) ConfirmCheckIn(w http.ResponseWriter, r *http.Request) {
	t := mustTerminal(r)
	// An accepted confirm finishes its write even if the terminal hangs up.
	snap, err := t.Controller.Confirm(context.WithoutCancel(r.Context()))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionFromSnapshot(t, snap))
}

func (s *Server) ResetSession(w http.ResponseWriter, r *http.Request) {
	t := mustTerminal(r)
	writeJSON(w, http.StatusOK, sessionFromSnapshot(t, t.Controller.Reset()))
}

// GetRoster returns the terminal's roster. A date switches the roster to that day
// (refetching only when it changed); refresh=true refetches unconditionally.
func (s *Server) GetRoster(w http.ResponseWriter, r *http.Request) {
	t := mustTerminal(r)

	var (
		date    *openapi_types.Date
		refresh *bool
	)
	if err := runtime.BindQueryParameter("form", true, false, "date", r.URL.Query(), &date); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, checkin.CodeValidation, "invalid date", map[string]any{"date": "must be YYYY-MM-DD"})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "refresh", r.URL.Query(), &refresh); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, checkin.CodeValidation, "invalid refresh flag", map[string]any{"refresh": "must be true or false"})
		return
	}

	var err error
	switch {
	case date != nil:
		_, err = t.Roster.SetDate(r.Context(), date.Format(openapi_types.DateFormat))
		if err == nil && refresh != nil && *refresh {
			err = t.Roster.Refresh(r.Context())
		}
	case (refresh != nil && *refresh) || !t.Roster.Snapshot().Loaded:
		err = t.Roster.Refresh(r.Context())
	}
	if ae := (*checkin.Error)(nil); errors.As(err, &ae) {
		writeAppError(w, r, err)
		return
	}
	// Backend failures are reported inside the roster payload, like attempt failures.
	writeJSON(w, http.StatusOK, rosterFromSnapshot(t.Roster.Snapshot()))
}

// terminalCtx resolves {sessionId} once for every session route.
func (s *Server) terminalCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := domain.SessionID(chi.URLParam(r, "sessionId"))
		t, err := s.Checkin.Session(r.Context(), id)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithTerminal(r.Context(), t)))
	})
}

func mustTerminal(r *http.Request) *checkin.Terminal {
	t, ok := TerminalFromContext(r.Context())
	if !ok {
		panic("httpapi: session route without terminal context")
	}
	return t
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil {
		writeError(w, r, http.StatusUnprocessableEntity, checkin.CodeValidation, "missing request body", nil)
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, r, http.StatusUnprocessableEntity, checkin.CodeValidation, "missing request body", nil)
			return false
		}
		writeError(w, r, http.StatusUnprocessableEntity, checkin.CodeValidation, "invalid request body", map[string]any{"body": err.Error()})
		return false
	}
	return true
}

func memberFromDomain(m domain.MemberIdentity) MemberJSON {
	out := MemberJSON{
		ID:          int64(m.ID),
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		DisplayName: m.DisplayName(),
		CheckInCode: m.CheckInCode,
		Phone:       m.Phone,
	}
	if m.LatestBillingStatus.Known() {
		out.BillingStatus = nullable.NewNullableWithValue(m.LatestBillingStatus.String())
	} else {
		out.BillingStatus = nullable.NewNullNullable[string]()
	}
	return out
}

func attemptErrorFrom(e *checkin.Error) *AttemptErrorJSON {
	if e == nil {
		return nil
	}
	return &AttemptErrorJSON{Code: e.Code, Message: e.Message, Details: e.Details}
}

func sessionFromSnapshot(t *checkin.Terminal, s checkin.Snapshot) SessionJSON {
	out := SessionJSON{
		SessionID:  string(t.ID),
		CreatedAt:  t.CreatedAt,
		Mode:       string(s.Mode),
		Phase:      string(s.Phase),
		Input:      s.Input,
		Candidates: make([]MemberJSON, 0, len(s.Candidates)),
		Error:      attemptErrorFrom(s.Error),
		Message:    s.Message,
		Seq:        s.Seq,
	}
	for _, m := range s.Candidates {
		out.Candidates = append(out.Candidates, memberFromDomain(m))
	}
	if s.Selected != nil {
		m := memberFromDomain(*s.Selected)
		out.Selected = &m
	}
	return out
}

func rosterFromSnapshot(s checkin.RosterSnapshot) RosterJSON {
	out := RosterJSON{
		Date:    s.Date,
		Loaded:  s.Loaded,
		Entries: make([]RosterEntryJSON, 0, len(s.Entries)),
		Error:   attemptErrorFrom(s.Error),
	}
	if s.Loaded {
		at := s.LoadedAt
		out.LoadedAt = &at
	}
	for _, e := range s.Entries {
		out.Entries = append(out.Entries, RosterEntryJSON{
			MemberID:    int64(e.MemberID),
			Name:        e.DisplayName(),
			Phone:       e.Phone,
			CheckedInAt: e.CheckedInAt,
		})
	}
	return out
}
