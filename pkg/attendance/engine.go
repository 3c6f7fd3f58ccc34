package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kintaihq/kintai/pkg/timecalc"
)

// staleBreakWarn is how old an unclosed break must be before self-healing
// it is logged as an anomaly rather than a routine missed tap.
const staleBreakWarn = 12 * time.Hour

// Engine applies attendance actions to per-user-per-day sessions. It is
// stateless apart from the store; "now" is an explicit argument on every
// operation so behavior is deterministic and testable.
type Engine struct {
	store  Store
	offset time.Duration
}

// NewEngine creates an engine over the given store. offset is the fixed UTC
// offset that defines the local calendar day (e.g. 9h for JST).
func NewEngine(store Store, offset time.Duration) *Engine {
	return &Engine{store: store, offset: offset}
}

// Offset returns the engine's configured local-time offset.
func (e *Engine) Offset() time.Duration {
	return e.offset
}

// ClockIn opens a new session for the user's current local day. It fails
// with ErrAlreadyClockedIn if any session exists for today, open or closed.
// Two racing clock-ins are resolved by the store's uniqueness constraint:
// the loser gets ErrDuplicateDay instead of a second record.
func (e *Engine) ClockIn(ctx context.Context, userID string, now time.Time) (*DaySession, error) {
	dateKey := timecalc.DateKey(now, e.offset)

	existing, err := e.store.GetDay(ctx, userID, dateKey)
	if err != nil {
		return nil, fmt.Errorf("checking existing session: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyClockedIn
	}

	s := &DaySession{
		ID:             uuid.NewString(),
		UserID:         userID,
		DateKey:        dateKey,
		Status:         StatusOpen,
		ClockIn:        now.UTC(),
		Breaks:         []Break{},
		LastModifiedBy: userID,
		CreatedAt:      now.UTC(),
		UpdatedAt:      now.UTC(),
	}
	if err := e.store.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// BreakStart begins a break on the user's open session. If a previous break
// was never ended, it is closed at now first: a missed break-end tap must
// not wedge the session, and closing it here keeps the at-most-one-open-
// interval invariant. The running break total is recomputed with now as the
// provisional end of the new interval.
func (e *Engine) BreakStart(ctx context.Context, userID string, now time.Time) (*DaySession, error) {
	s, err := e.findOpen(ctx, userID)
	if err != nil {
		return nil, err
	}

	if open := s.OpenBreak(); open != nil {
		if age := now.Sub(open.Start); age > staleBreakWarn {
			slog.Warn("closing stale break interval",
				"user_id", userID, "date_key", s.DateKey, "age", age)
		}
		end := now.UTC()
		open.End = &end
	}
	s.Breaks = append(s.Breaks, Break{Start: now.UTC()})
	s.TotalBreakMinutes = timecalc.MsToMinutes(timecalc.BreakMs(s.Breaks, now))
	s.LastModifiedBy = userID
	s.UpdatedAt = now.UTC()

	if err := e.store.SaveBreaks(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// BreakEndResult is what BreakEnd reports back to the caller. WorkedMinutes
// is a live preview of work time as of now; it is not persisted and is not
// the frozen total used by monthly aggregation.
type BreakEndResult struct {
	Session       *DaySession
	WorkedMinutes int
}

// BreakEnd closes the user's open break at now and recomputes the break
// total from closed intervals only.
func (e *Engine) BreakEnd(ctx context.Context, userID string, now time.Time) (*BreakEndResult, error) {
	s, err := e.findOpen(ctx, userID)
	if err != nil {
		return nil, err
	}

	open := s.OpenBreak()
	if open == nil {
		return nil, ErrNoActiveBreak
	}
	end := now.UTC()
	open.End = &end
	s.TotalBreakMinutes = timecalc.MsToMinutes(timecalc.ClosedBreakMs(s.Breaks))
	s.LastModifiedBy = userID
	s.UpdatedAt = now.UTC()

	if err := e.store.SaveBreaks(ctx, s); err != nil {
		return nil, err
	}

	return &BreakEndResult{
		Session:       s,
		WorkedMinutes: timecalc.MsToMinutes(timecalc.WorkingMs(s.ClockIn, now, s.Breaks)),
	}, nil
}

// ClockOut closes the user's open session and freezes its worked-minutes
// total. It fails with ErrOnBreak while a break is open; the break must be
// ended first. The frozen value is never recomputed afterward.
func (e *Engine) ClockOut(ctx context.Context, userID string, now time.Time) (*DaySession, error) {
	s, err := e.findOpen(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.OnBreak() {
		return nil, ErrOnBreak
	}

	out := now.UTC()
	worked := timecalc.MsToMinutes(timecalc.WorkingMs(s.ClockIn, now, s.Breaks))
	s.Status = StatusClosed
	s.ClockOut = &out
	s.WorkedMinutes = &worked
	s.LastModifiedBy = userID
	s.UpdatedAt = now.UTC()

	if err := e.store.CloseDay(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// findOpen looks up the user's single open session. Break and clock-out
// actions deliberately do not re-derive a date key from now: a user still
// clocked in past midnight keeps acting on the original day's session.
func (e *Engine) findOpen(ctx context.Context, userID string) (*DaySession, error) {
	s, err := e.store.FindOpen(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("finding open session: %w", err)
	}
	if s == nil {
		return nil, ErrNoActiveSession
	}
	return s, nil
}

// TodayView is the live status of the user's current local day, including
// on-demand work and break durations that are computed but never persisted.
type TodayView struct {
	Date              string     `json:"date"`
	Status            string     `json:"status"` // "none", "open" or "closed"
	ClockIn           *time.Time `json:"clock_in"`
	ClockOut          *time.Time `json:"clock_out"`
	WorkedMinutes     *int       `json:"worked_minutes"`
	TotalBreakMinutes int        `json:"total_break_minutes"`
	IsOnBreak         bool       `json:"is_on_break"`
	CurrentBreakStart *time.Time `json:"current_break_start"`
	LiveWorkedMs      int64      `json:"live_worked_ms"`
	LiveBreakMs       int64      `json:"live_break_ms"`
}

// Today returns the live view of the user's session for now's local day.
// When no record exists the status is "none" and all fields are zero.
func (e *Engine) Today(ctx context.Context, userID string, now time.Time) (*TodayView, error) {
	dateKey := timecalc.DateKey(now, e.offset)

	s, err := e.store.GetDay(ctx, userID, dateKey)
	if err != nil {
		return nil, fmt.Errorf("loading today's session: %w", err)
	}
	if s == nil {
		return &TodayView{Date: dateKey, Status: "none"}, nil
	}

	// A closed session stops accruing: measure against clock-out, not now.
	end := now
	if s.ClockOut != nil {
		end = *s.ClockOut
	}
	view := &TodayView{
		Date:              dateKey,
		Status:            string(s.Status),
		ClockIn:           &s.ClockIn,
		ClockOut:          s.ClockOut,
		WorkedMinutes:     s.WorkedMinutes,
		TotalBreakMinutes: s.TotalBreakMinutes,
		LiveWorkedMs:      timecalc.WorkingMs(s.ClockIn, end, s.Breaks),
	}
	if open := s.OpenBreak(); open != nil {
		view.IsOnBreak = true
		view.CurrentBreakStart = &open.Start
		view.LiveBreakMs = timecalc.ElapsedMs(open.Start, now)
	}
	return view, nil
}
