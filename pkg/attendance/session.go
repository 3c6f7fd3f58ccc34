// Package attendance implements the per-user-per-day attendance session
// engine: the clock-in/break/clock-out state machine, the derived work and
// break totals, and the monthly aggregation over closed sessions. It defines
// the Store interface for session persistence; PostgreSQL and in-memory
// implementations are provided.
package attendance

import (
	"errors"
	"time"

	"github.com/kintaihq/kintai/pkg/timecalc"
)

// Status is the lifecycle state of a DaySession. "Not started" is implicit:
// no record exists for the day and nothing is persisted.
type Status string

const (
	// StatusOpen means the user is clocked in and has not clocked out.
	StatusOpen Status = "open"
	// StatusClosed means the user has clocked out. Closed sessions are
	// immutable through this engine.
	StatusClosed Status = "closed"
)

// Break is one break interval within a session. The last interval may be
// open (End nil); at most one interval is ever open.
type Break = timecalc.Interval

// DaySession is one user's attendance record for one calendar day in the
// configured local timezone. (UserID, DateKey) is the natural key.
type DaySession struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	DateKey string `json:"date_key"`
	Status  Status `json:"status"`

	// ClockIn is set once at creation and never changes.
	ClockIn time.Time `json:"clock_in"`

	// ClockOut is set exactly once, when the session closes.
	ClockOut *time.Time `json:"clock_out"`

	// Breaks is ordered by start time; intervals never overlap.
	Breaks []Break `json:"breaks"`

	// WorkedMinutes is the frozen work total, written only at clock-out.
	// While the session is open it stays nil; live values are computed on
	// demand and never persisted.
	WorkedMinutes *int `json:"worked_minutes"`

	// TotalBreakMinutes is a running total of closed break time, updated
	// on every break transition.
	TotalBreakMinutes int `json:"total_break_minutes"`

	LastModifiedBy string    `json:"last_modified_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// OpenBreak returns a pointer to the session's in-progress break interval,
// or nil if no break is open. Only the last interval can be open.
func (s *DaySession) OpenBreak() *Break {
	if len(s.Breaks) == 0 {
		return nil
	}
	last := &s.Breaks[len(s.Breaks)-1]
	if last.End == nil {
		return last
	}
	return nil
}

// OnBreak reports whether the session has an open break interval.
func (s *DaySession) OnBreak() bool {
	return s.OpenBreak() != nil
}

// Expected, recoverable engine failures. Handlers map these to 4xx
// responses; none of them is fatal to the process.
var (
	// ErrAlreadyClockedIn is returned by ClockIn when a session already
	// exists for the user's current local day, open or closed. A user may
	// not clock in twice in the same day, even after clocking out.
	ErrAlreadyClockedIn = errors.New("attendance: already clocked in today")

	// ErrNoActiveSession is returned by break and clock-out operations
	// when the user has no open session.
	ErrNoActiveSession = errors.New("attendance: no active session")

	// ErrNoActiveBreak is returned by BreakEnd when no break is open.
	ErrNoActiveBreak = errors.New("attendance: no active break")

	// ErrOnBreak is returned by ClockOut while a break is still open.
	// Employees must end their break before clocking out.
	ErrOnBreak = errors.New("attendance: break in progress")

	// ErrDuplicateDay is returned by Store.Create when the (user, date)
	// uniqueness constraint rejects the insert. It is the storage-level
	// fallback for ErrAlreadyClockedIn when two clock-ins race.
	ErrDuplicateDay = errors.New("attendance: duplicate session for day")

	// ErrNotFound is returned by lookups for an unknown user or record.
	ErrNotFound = errors.New("attendance: not found")

	// ErrInvalidMonth is returned for month parameters not of the form
	// YYYY-MM.
	ErrInvalidMonth = errors.New("attendance: invalid month")
)
