package attendance

import "context"

// Store defines the interface for session persistence. Implementations must
// enforce uniqueness of (user_id, date_key) and apply break/close writes
// conditionally on the session still being open, so that concurrent actions
// on the same session surface as errors rather than silent corruption.
type Store interface {
	// Create persists a new session. Returns ErrDuplicateDay if a session
	// already exists for (UserID, DateKey), or if the user already has an
	// open session on another day.
	Create(ctx context.Context, s *DaySession) error

	// GetDay retrieves the session for (userID, dateKey). Returns nil, nil
	// if no record exists.
	GetDay(ctx context.Context, userID, dateKey string) (*DaySession, error)

	// FindOpen retrieves the user's open session regardless of its date.
	// There is at most one. Returns nil, nil if the user is not clocked in.
	FindOpen(ctx context.Context, userID string) (*DaySession, error)

	// SaveBreaks persists the session's break list and running break total.
	// Returns ErrNoActiveSession if the session is no longer open.
	SaveBreaks(ctx context.Context, s *DaySession) error

	// CloseDay persists the closed session: status, clock-out time, and the
	// frozen worked-minutes total. Returns ErrNoActiveSession if the
	// session was already closed by a concurrent request.
	CloseDay(ctx context.Context, s *DaySession) error

	// ListMonth returns the user's sessions whose date key falls in the
	// given YYYY-MM month, ordered by date key ascending.
	ListMonth(ctx context.Context, userID, monthKey string) ([]*DaySession, error)
}
