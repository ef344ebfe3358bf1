package itest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Overland-East-Bay/front-desk/internal/adapters/backendapi"
	"github.com/Overland-East-Bay/front-desk/internal/adapters/httpapi"
	membackend "github.com/Overland-East-Bay/front-desk/internal/adapters/memory/backend"
	memclock "github.com/Overland-East-Bay/front-desk/internal/adapters/memory/clock"
	memsessionstore "github.com/Overland-East-Bay/front-desk/internal/adapters/memory/sessionstore"
	"github.com/Overland-East-Bay/front-desk/internal/adapters/stubbackend"
	"github.com/Overland-East-Bay/front-desk/internal/app/checkin"
	"github.com/Overland-East-Bay/front-desk/internal/domain"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/checkinrecorder"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/memberdirectory"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/roster"
)

// backend selects how the console reaches member data.
type backend string

const (
	// backendMemory wires the console straight to the in-memory backend.
	backendMemory backend = "memory"
	// backendHTTP goes through the REST client and the stub backend server.
	backendHTTP backend = "http"
)

const centerID domain.FitnessCenterID = 1

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "all":
		return []backend{backendMemory, backendHTTP}
	case "memory":
		return []backend{backendMemory}
	case "http":
		return []backend{backendHTTP}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|http|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	mem := membackend.NewBackend(clk, time.UTC)
	mem.SearchOmitsBilling = true
	if err := stubbackend.Seed(mem, centerID); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var (
		dir memberdirectory.Directory
		rec checkinrecorder.Recorder
		src roster.Source
	)
	switch b {
	case backendHTTP:
		stub := httptest.NewServer(stubbackend.NewRouter(mem))
		t.Cleanup(stub.Close)
		c, err := backendapi.New(backendapi.Options{BaseURL: stub.URL, Token: "itest-token", Timeout: 5 * time.Second})
		if err != nil {
			t.Fatalf("backendapi.New: %v", err)
		}
		dir, rec, src = c, c, c
	case backendMemory:
		dir, rec, src = mem, mem, mem
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	svc := checkin.NewService(checkin.ServiceDeps{
		Store:           memsessionstore.NewStore[*checkin.Terminal](),
		Clock:           clk,
		Directory:       dir,
		Recorder:        rec,
		Roster:          src,
		FitnessCenterID: centerID,
		Location:        time.UTC,
	})
	srv := httptest.NewServer(httpapi.NewRouter(httpapi.NewServer(svc)))
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) doJSON(t *testing.T, method string, path string, body any) (int, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type sessionResponse struct {
	SessionID  string `json:"sessionId"`
	Phase      string `json:"phase"`
	Candidates []struct {
		ID            int64   `json:"id"`
		DisplayName   string  `json:"displayName"`
		BillingStatus *string `json:"billingStatus"`
	} `json:"candidates"`
	Selected *struct {
		ID            int64   `json:"id"`
		BillingStatus *string `json:"billingStatus"`
	} `json:"selected"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

type rosterResponse struct {
	Date    string `json:"date"`
	Entries []struct {
		MemberID int64  `json:"memberId"`
		Name     string `json:"name"`
	} `json:"entries"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireStatus(t *testing.T, status int, body []byte, want int) {
	t.Helper()
	if status != want {
		t.Fatalf("status=%d want=%d body=%s", status, want, string(body))
	}
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	requireStatus(t, status, body, wantStatus)
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
}

func requirePhase(t *testing.T, body []byte, want checkin.Phase) sessionResponse {
	t.Helper()
	got := mustUnmarshal[sessionResponse](t, body)
	if got.Phase != string(want) {
		t.Fatalf("phase=%q want=%q body=%s", got.Phase, want, string(body))
	}
	return got
}
