package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterOptions struct {
	// Metrics, when set, is served at /metrics.
	Metrics http.Handler
}

// NewRouter constructs the console HTTP router.
func NewRouter(s *Server) http.Handler {
	return NewRouterWithOptions(s, RouterOptions{})
}

func NewRouterWithOptions(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Post("/sessions", s.CreateSession)
	r.Route("/sessions/{sessionId}", func(r chi.Router) {
		r.Use(s.terminalCtx)

		r.Get("/", s.GetSession)
		r.Delete("/", s.DeleteSession)
		r.Post("/mode", s.SetMode)
		r.Post("/keypad", s.PressKey)
		r.Post("/code", s.SubmitCode)
		r.Post("/search", s.SearchByName)
		r.Post("/select", s.SelectCandidate)
		r.Post("/confirm", s.ConfirmCheckIn)
		r.Post("/reset", s.ResetSession)
		r.Get("/roster", s.GetRoster)
	})
	return r
}
