// Package stubbackend serves the gym backend's check-in endpoints from in-process adapters.
//
// It exists for local development and for exercising the HTTP client end to end. It is not
// a backend: nothing it holds outlives the process.
package stubbackend

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Overland-East-Bay/front-desk/internal/adapters/backendapi"
	"github.com/Overland-East-Bay/front-desk/internal/domain"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/checkinrecorder"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/memberdirectory"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/roster"
)

// Backend is what the stub serves.
type Backend interface {
	memberdirectory.Directory
	checkinrecorder.Recorder
	roster.Source
}

type server struct {
	b Backend
}

// NewRouter returns the stub's HTTP handler.
func NewRouter(b Backend) http.Handler {
	s := &server{b: b}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/members/search", s.searchMembers)
	r.Post("/record-check-in", s.recordCheckIn)
	r.Get("/check-ins", s.listCheckIns)
	return r
}

func (s *server) searchMembers(w http.ResponseWriter, r *http.Request) {
	var (
		centerID int64
		code     *string
		name     *string
	)
	if err := runtime.BindQueryParameter("form", true, true, "fitnessCenterId", r.URL.Query(), &centerID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "checkInCode", r.URL.Query(), &code); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "name", r.URL.Query(), &name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch {
	case code != nil:
		m, err := s.b.LookupByCode(r.Context(), domain.FitnessCenterID(centerID), *code)
		if err != nil {
			if errors.Is(err, memberdirectory.ErrNotFound) {
				writeError(w, http.StatusNotFound, "member not found")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		member := backendapi.MemberFromDomain(m)
		writeJSON(w, http.StatusOK, backendapi.SearchByCodeResponse{Member: &member})
	case name != nil:
		ms, err := s.b.LookupByName(r.Context(), domain.FitnessCenterID(centerID), *name)
		if err != nil && !errors.Is(err, memberdirectory.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out := backendapi.SearchByNameResponse{Members: make([]backendapi.Member, 0, len(ms))}
		for _, m := range ms {
			out.Members = append(out.Members, backendapi.MemberFromDomain(m))
		}
		writeJSON(w, http.StatusOK, out)
	default:
		writeError(w, http.StatusBadRequest, "checkInCode or name is required")
	}
}

func (s *server) recordCheckIn(w http.ResponseWriter, r *http.Request) {
	var body backendapi.RecordCheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.MemberID <= 0 || body.FitnessCenterID <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "memberId and fitnessCenterId are required")
		return
	}
	if err := s.b.Record(r.Context(), domain.FitnessCenterID(body.FitnessCenterID), domain.MemberID(body.MemberID)); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) listCheckIns(w http.ResponseWriter, r *http.Request) {
	var (
		centerID int64
		date     openapi_types.Date
	)
	if err := runtime.BindQueryParameter("form", true, true, "fitnessCenterId", r.URL.Query(), &centerID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, true, "date", r.URL.Query(), &date); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := s.b.LoadRoster(r.Context(), domain.FitnessCenterID(centerID), date.Format(openapi_types.DateFormat))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := backendapi.RosterResponse{Members: make([]backendapi.RosterEntry, 0, len(entries))}
	for _, e := range entries {
		out.Members = append(out.Members, backendapi.RosterEntryFromDomain(e))
	}
	writeJSON(w, http.StatusOK, out)
}

type errorBody struct {
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
