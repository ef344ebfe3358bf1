package checkin

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Overland-East-Bay/front-desk/internal/domain"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/checkinrecorder"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/memberdirectory"
)

// Phase is the lifecycle phase of the current check-in attempt.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseSearching Phase = "searching"
	// PhaseResolved is only passed through: a code lookup's single result is selected at once.
	PhaseResolved          Phase = "resolved"
	PhaseAwaitingSelection Phase = "awaiting_selection"
	PhaseSelected          Phase = "selected"
	PhaseGating            Phase = "gating"
	PhaseEligible          Phase = "eligible"
	PhaseBlocked           Phase = "blocked"
	PhaseRecording         Phase = "recording"
	PhaseSuccess           Phase = "success"
	PhaseRecordingFailed   Phase = "recording_failed"
)

// Mode is the input mode of a terminal.
type Mode string

const (
	ModeCode Mode = "code"
	ModeName Mode = "name"
)

func (m Mode) Valid() bool { return m == ModeCode || m == ModeName }

// Lookup outcomes reported to Metrics.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomeStale    = "stale"
)

// Check-in outcomes reported to Metrics.
const (
	OutcomeRecorded = "recorded"
	OutcomeBlocked  = "blocked"
	OutcomeFailed   = "failed"
)

// Metrics receives attempt outcomes. A nil Metrics discards them.
type Metrics interface {
	LookupCompleted(mode Mode, outcome string)
	CheckInCompleted(outcome string)
}

// RosterRefresher is invalidated after every recorded check-in.
type RosterRefresher interface {
	Refresh(ctx context.Context) error
}

// Snapshot is an immutable copy of the controller's visible state.
type Snapshot struct {
	Mode       Mode
	Phase      Phase
	Input      string
	Candidates []domain.MemberIdentity
	Selected   *domain.MemberIdentity
	Error      *Error
	Message    string
	// Seq is the tag of the most recent operation; responses for older tags were discarded.
	Seq uint64
}

// ControllerDeps holds dependencies for a Controller.
type ControllerDeps struct {
	Directory memberdirectory.Directory
	Recorder  checkinrecorder.Recorder
	Roster    RosterRefresher // optional
	Metrics   Metrics         // optional
	Logger    *slog.Logger    // optional: defaults to slog.Default()
}

// Controller is the check-in state machine of one terminal.
//
// Every operation that waits on the backend is tagged with a new sequence number while the
// lock is held, runs unlocked, and applies its result only if its tag is still current.
// A reset or newer operation therefore supersedes anything in flight without cancelling it.
type Controller struct {
	centerID domain.FitnessCenterID
	lookup   *Lookup
	gate     *Gate
	recorder checkinrecorder.Recorder
	roster   RosterRefresher
	metrics  Metrics
	log      *slog.Logger

	mu         sync.Mutex
	seq        uint64
	mode       Mode
	phase      Phase
	keypad     domain.Keypad
	candidates []domain.MemberIdentity
	selected   *domain.MemberIdentity
	// eligibleID is the member the latest gate evaluation approved; only it may be recorded.
	eligibleID  domain.MemberID
	hasEligible bool
	err         *Error
	message     string
}

func NewController(centerID domain.FitnessCenterID, deps ControllerDeps) *Controller {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		centerID: centerID,
		lookup:   NewLookup(deps.Directory),
		gate:     NewGate(deps.Directory),
		recorder: deps.Recorder,
		roster:   deps.Roster,
		metrics:  deps.Metrics,
		log:      log,
		mode:     ModeCode,
		phase:    PhaseIdle,
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Reset returns to Idle from any phase and clears the keypad.
func (c *Controller) Reset() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	c.keypad.Press(domain.KeyClear)
	return c.snapshotLocked()
}

// SetMode switches the input mode and resets the attempt.
func (c *Controller) SetMode(mode Mode) (Snapshot, error) {
	if !mode.Valid() {
		return c.Snapshot(), &Error{
			Status:  422,
			Code:    CodeValidation,
			Message: "invalid mode",
			Details: map[string]any{"mode": "must be one of: code, name"},
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	c.keypad.Press(domain.KeyClear)
	c.mode = mode
	return c.snapshotLocked(), nil
}

// PressKey applies a keypad press. Clearing the keypad resets the attempt; submit
// looks the composed code up.
func (c *Controller) PressKey(ctx context.Context, key domain.Key) (Snapshot, error) {
	c.mu.Lock()
	if c.mode != ModeCode {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, &Error{Status: 409, Code: CodeInvalidState, Message: "keypad is only available in code mode"}
	}
	switch {
	case key == domain.KeySubmit:
		code := c.keypad.Code()
		c.mu.Unlock()
		return c.submitCode(ctx, code), nil
	case key == domain.KeyClear:
		c.keypad.Press(key)
		c.resetLocked()
	case c.keypad.Press(key):
	default:
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, &Error{
			Status:  422,
			Code:    CodeValidation,
			Message: "invalid key",
			Details: map[string]any{"key": "must be 0-9, back, clear or submit"},
		}
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	return snap, nil
}

// SubmitCode looks up a member by check-in code, auto-selects the single result and
// runs the billing gate on it. The code did not come from the keypad, so the keypad
// is cleared to keep Input from showing a different code than the one looked up.
func (c *Controller) SubmitCode(ctx context.Context, code string) Snapshot {
	c.mu.Lock()
	c.keypad.Press(domain.KeyClear)
	c.mu.Unlock()
	return c.submitCode(ctx, code)
}

func (c *Controller) submitCode(ctx context.Context, code string) Snapshot {
	seq := c.startSearch(ModeCode)

	m, err := c.lookup.ByCode(ctx, c.centerID, code)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.observeLookup(ModeCode, OutcomeStale)
		return c.Snapshot()
	}
	if err != nil {
		c.failLookupLocked(ModeCode, err, MessageCodeNotFound)
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	c.candidates = []domain.MemberIdentity{m}
	c.selected = &m
	c.phase = PhaseSelected
	c.mu.Unlock()
	c.observeLookup(ModeCode, OutcomeFound)

	return c.runGate(ctx, seq, m)
}

// SubmitName searches members by name. A blank term is a no-op.
// Zero matches leave the terminal Idle with a not-found message.
func (c *Controller) SubmitName(ctx context.Context, term string) Snapshot {
	if domain.IsBlank(term) {
		return c.Snapshot()
	}
	seq := c.startSearch(ModeName)

	ms, err := c.lookup.ByName(ctx, c.centerID, term)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		c.observeLookup(ModeName, OutcomeStale)
		return c.snapshotLocked()
	}
	if err != nil {
		c.failLookupLocked(ModeName, err, MessageNoResults)
		return c.snapshotLocked()
	}
	c.candidates = ms
	c.phase = PhaseAwaitingSelection
	c.observeLookup(ModeName, OutcomeFound)
	return c.snapshotLocked()
}

// Select picks one of the current candidates and runs the billing gate on it.
func (c *Controller) Select(ctx context.Context, memberID domain.MemberID) (Snapshot, error) {
	c.mu.Lock()
	switch c.phase {
	case PhaseAwaitingSelection, PhaseSelected, PhaseEligible, PhaseBlocked:
	default:
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, &Error{Status: 409, Code: CodeInvalidState, Message: "no candidates to select from"}
	}
	var picked *domain.MemberIdentity
	for i := range c.candidates {
		if c.candidates[i].ID == memberID {
			m := c.candidates[i]
			picked = &m
			break
		}
	}
	if picked == nil {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, &Error{
			Status:  422,
			Code:    CodeValidation,
			Message: "member is not one of the candidates",
			Details: map[string]any{"memberId": int64(memberID)},
		}
	}
	c.seq++
	seq := c.seq
	c.selected = picked
	c.phase = PhaseSelected
	c.err = nil
	c.message = ""
	c.mu.Unlock()

	return c.runGate(ctx, seq, *picked), nil
}

// Confirm records the check-in for the selected member. It requires the latest gate
// decision to have approved that exact member. From RecordingFailed it retries the write
// without re-running the gate.
func (c *Controller) Confirm(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	if (c.phase != PhaseEligible && c.phase != PhaseRecordingFailed) ||
		c.selected == nil || !c.hasEligible || c.eligibleID != c.selected.ID {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, &Error{Status: 409, Code: CodeInvalidState, Message: "no eligible member to check in"}
	}
	c.seq++
	seq := c.seq
	member := *c.selected
	c.phase = PhaseRecording
	c.err = nil
	c.message = ""
	c.mu.Unlock()

	err := c.recorder.Record(ctx, c.centerID, member.ID)
	if err == nil {
		c.log.Info("checkin_event", "event", "member_checked_in",
			"fitness_center_id", int64(c.centerID), "member_id", int64(member.ID), "name", member.DisplayName())
		c.observeCheckIn(OutcomeRecorded)
		// The roster reflects the backend even when this attempt was superseded meanwhile.
		if c.roster != nil {
			if rerr := c.roster.Refresh(ctx); rerr != nil {
				c.log.Warn("checkin_event", "event", "roster_refresh_failed", "error", rerr)
			}
		}
	} else {
		c.log.Warn("checkin_event", "event", "record_failed",
			"fitness_center_id", int64(c.centerID), "member_id", int64(member.ID), "error", err)
		c.observeCheckIn(OutcomeFailed)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return c.snapshotLocked(), nil
	}
	if err != nil {
		c.phase = PhaseRecordingFailed
		c.err = &Error{Status: 502, Code: CodeRecordingFailed, Message: MessageRecordFailed}
		return c.snapshotLocked(), nil
	}
	c.phase = PhaseSuccess
	c.hasEligible = false
	c.message = "Check-in recorded for " + member.DisplayName() + "."
	return c.snapshotLocked(), nil
}

func (c *Controller) runGate(ctx context.Context, seq uint64, member domain.MemberIdentity) Snapshot {
	c.mu.Lock()
	if seq != c.seq {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	c.phase = PhaseGating
	c.hasEligible = false
	c.mu.Unlock()

	d, err := c.gate.Evaluate(ctx, c.centerID, member)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return c.snapshotLocked()
	}
	if err != nil {
		c.phase = PhaseSelected
		c.err = &Error{Status: 502, Code: CodeLookupFailed, Message: MessageLookupFailed}
		c.log.Warn("checkin_event", "event", "billing_reverify_failed", "member_id", int64(member.ID), "error", err)
		return c.snapshotLocked()
	}

	m := d.Member
	c.selected = &m
	if d.Eligible {
		c.phase = PhaseEligible
		c.eligibleID = m.ID
		c.hasEligible = true
		return c.snapshotLocked()
	}
	c.phase = PhaseBlocked
	c.err = &Error{
		Status:  402,
		Code:    CodeBillingBlocked,
		Message: d.Reason,
		Details: map[string]any{"billingStatus": m.LatestBillingStatus.String()},
	}
	c.log.Info("checkin_event", "event", "checkin_blocked",
		"fitness_center_id", int64(c.centerID), "member_id", int64(m.ID),
		"billing_status", m.LatestBillingStatus.String(), "reverified", d.Reverified)
	c.observeCheckIn(OutcomeBlocked)
	return c.snapshotLocked()
}

func (c *Controller) startSearch(mode Mode) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.clearAttemptLocked()
	c.mode = mode
	c.phase = PhaseSearching
	return c.seq
}

func (c *Controller) failLookupLocked(mode Mode, err error, notFoundMessage string) {
	c.clearAttemptLocked()
	c.phase = PhaseIdle

	var ae *Error
	switch {
	case errors.As(err, &ae):
		c.err = cloneError(ae)
		c.observeLookup(mode, OutcomeError)
	case errors.Is(err, memberdirectory.ErrNotFound):
		c.err = &Error{Status: 404, Code: CodeNotFound, Message: notFoundMessage}
		c.observeLookup(mode, OutcomeNotFound)
	default:
		c.err = &Error{Status: 502, Code: CodeLookupFailed, Message: MessageLookupFailed}
		c.log.Warn("checkin_event", "event", "lookup_failed", "mode", string(mode), "error", err)
		c.observeLookup(mode, OutcomeError)
	}
}

func (c *Controller) resetLocked() {
	c.seq++
	c.clearAttemptLocked()
	c.phase = PhaseIdle
}

func (c *Controller) clearAttemptLocked() {
	c.candidates = nil
	c.selected = nil
	c.hasEligible = false
	c.eligibleID = 0
	c.err = nil
	c.message = ""
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		Mode:    c.mode,
		Phase:   c.phase,
		Input:   c.keypad.Code(),
		Error:   cloneError(c.err),
		Message: c.message,
		Seq:     c.seq,
	}
	if c.candidates != nil {
		s.Candidates = append([]domain.MemberIdentity(nil), c.candidates...)
	}
	if c.selected != nil {
		m := *c.selected
		s.Selected = &m
	}
	return s
}

func (c *Controller) observeLookup(mode Mode, outcome string) {
	if c.metrics != nil {
		c.metrics.LookupCompleted(mode, outcome)
	}
}

func (c *Controller) observeCheckIn(outcome string) {
	if c.metrics != nil {
		c.metrics.CheckInCompleted(outcome)
	}
}
