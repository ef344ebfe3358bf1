package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"golang.org/x/oauth2"

	"github.com/Overland-East-Bay/front-desk/internal/domain"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/checkinrecorder"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/memberdirectory"
)

// maxErrorBody bounds how much of a failed response body is kept for diagnostics.
const maxErrorBody = 4 << 10

// StatusError is returned for an unexpected non-2xx backend response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Options configures a Client.
type Options struct {
	// BaseURL is the backend API root, e.g. https://api.example.com/v1.
	BaseURL string
	// Token is the operator's bearer token. Empty sends no Authorization header.
	Token string
	// Timeout bounds each request. Zero leaves the transport default.
	Timeout time.Duration
	// Transport overrides the base round tripper (tests).
	Transport http.RoundTripper
}

// Client talks to the gym's REST backend. It implements memberdirectory.Directory,
// checkinrecorder.Recorder and roster.Source.
type Client struct {
	base *url.URL
	hc   *http.Client
}

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("backend base URL is required")
	}
	u, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New("invalid backend base URL: scheme must be http or https")
	}

	rt := opts.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	if opts.Token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: "Bearer"}),
			Base:   rt,
		}
	}
	return &Client{
		base: u,
		hc:   &http.Client{Transport: rt, Timeout: opts.Timeout},
	}, nil
}

func (c *Client) LookupByCode(ctx context.Context, centerID domain.FitnessCenterID, code string) (domain.MemberIdentity, error) {
	q, err := query(
		param{"checkInCode", code},
		param{"fitnessCenterId", int64(centerID)},
	)
	if err != nil {
		return domain.MemberIdentity{}, err
	}

	var out SearchByCodeResponse
	if err := c.getJSON(ctx, "/members/search", q, &out); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return domain.MemberIdentity{}, fmt.Errorf("code %q: %w", code, memberdirectory.ErrNotFound)
		}
		return domain.MemberIdentity{}, err
	}
	if out.Member == nil {
		return domain.MemberIdentity{}, fmt.Errorf("code %q: %w", code, memberdirectory.ErrNotFound)
	}
	return out.Member.ToDomain(), nil
}

func (c *Client) LookupByName(ctx context.Context, centerID domain.FitnessCenterID, term string) ([]domain.MemberIdentity, error) {
	q, err := query(
		param{"name", term},
		param{"fitnessCenterId", int64(centerID)},
	)
	if err != nil {
		return nil, err
	}

	var out SearchByNameResponse
	if err := c.getJSON(ctx, "/members/search", q, &out); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("name %q: %w", term, memberdirectory.ErrNotFound)
		}
		return nil, err
	}
	if len(out.Members) == 0 {
		return nil, fmt.Errorf("name %q: %w", term, memberdirectory.ErrNotFound)
	}
	ms := make([]domain.MemberIdentity, 0, len(out.Members))
	for _, m := range out.Members {
		ms = append(ms, m.ToDomain())
	}
	return ms, nil
}

func (c *Client) Record(ctx context.Context, centerID domain.FitnessCenterID, memberID domain.MemberID) error {
	body, err := json.Marshal(RecordCheckInRequest{MemberID: int64(memberID), FitnessCenterID: int64(centerID)})
	if err != nil {
		return fmt.Errorf("%w: %v", checkinrecorder.ErrRecording, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/record-check-in", nil), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", checkinrecorder.ErrRecording, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", checkinrecorder.ErrRecording, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := statusError(req, resp)
		return fmt.Errorf("%w: %v", checkinrecorder.ErrRecording, se)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) LoadRoster(ctx context.Context, centerID domain.FitnessCenterID, date string) ([]domain.RosterEntry, error) {
	q, err := query(
		param{"date", date},
		param{"fitnessCenterId", int64(centerID)},
	)
	if err != nil {
		return nil, err
	}
	var out RosterResponse
	if err := c.getJSON(ctx, "/check-ins", q, &out); err != nil {
		return nil, err
	}
	entries := make([]domain.RosterEntry, 0, len(out.Members))
	for _, e := range out.Members {
		entries = append(entries, e.ToDomain())
	}
	return entries, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, q), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("backend GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(req, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("backend GET %s: decode: %w", path, err)
	}
	return nil
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func statusError(req *http.Request, resp *http.Response) *StatusError {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Method:     req.Method,
		Path:       req.URL.Path,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(b)),
	}
}

type param struct {
	name  string
	value any
}

// query encodes params in OpenAPI form style, as generated clients do.
func query(params ...param) (url.Values, error) {
	q := make(url.Values)
	for _, p := range params {
		frag, err := runtime.StyleParamWithLocation("form", true, p.name, runtime.ParamLocationQuery, p.value)
		if err != nil {
			return nil, fmt.Errorf("encode query param %s: %w", p.name, err)
		}
		parsed, err := url.ParseQuery(frag)
		if err != nil {
			return nil, fmt.Errorf("encode query param %s: %w", p.name, err)
		}
		for k, vs := range parsed {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
	}
	return q, nil
}

// String helps log lines identify which backend a console talks to.
func (c *Client) String() string {
	return "backendapi(" + c.base.Redacted() + ")"
}
