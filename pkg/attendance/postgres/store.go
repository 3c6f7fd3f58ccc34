// Package postgres provides PostgreSQL storage for attendance sessions.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/kintaihq/kintai/pkg/attendance"
)

// psq is the PostgreSQL statement builder with dollar placeholders.
var psq = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// sessionColumns lists columns returned by attendance SELECT queries.
var sessionColumns = []string{
	"id", "user_id", "date_key", "status", "clock_in", "clock_out",
	"breaks", "worked_minutes", "total_break_minutes", "last_modified_by",
	"created_at", "updated_at",
}

// uniqueViolation is the PostgreSQL error code raised by the unique
// indexes on (user_id, date_key) and on the single open session per user.
const uniqueViolation = "23505"

// Store implements attendance.Store using PostgreSQL.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL attendance store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create persists a new session. Unique-index violations are reported as
// attendance.ErrDuplicateDay so a lost clock-in race becomes an observable
// failure instead of a second record.
func (s *Store) Create(ctx context.Context, sess *attendance.DaySession) error {
	breaksJSON, err := json.Marshal(sess.Breaks)
	if err != nil {
		return fmt.Errorf("marshaling breaks: %w", err)
	}

	query := `
		INSERT INTO attendance_days
		(id, user_id, date_key, status, clock_in, clock_out, breaks, worked_minutes, total_break_minutes, last_modified_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = s.db.ExecContext(ctx, query,
		sess.ID,
		sess.UserID,
		sess.DateKey,
		sess.Status,
		sess.ClockIn,
		sess.ClockOut,
		breaksJSON,
		sess.WorkedMinutes,
		sess.TotalBreakMinutes,
		sess.LastModifiedBy,
		sess.CreatedAt,
		sess.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return attendance.ErrDuplicateDay
		}
		return fmt.Errorf("inserting attendance day: %w", err)
	}
	return nil
}

// GetDay retrieves the session for (userID, dateKey). Returns nil, nil if
// no record exists.
func (s *Store) GetDay(ctx context.Context, userID, dateKey string) (*attendance.DaySession, error) {
	query, args, err := psq.Select(sessionColumns...).
		From("attendance_days").
		Where(sq.Eq{"user_id": userID, "date_key": dateKey}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building day query: %w", err)
	}
	return s.scanSession(s.db.QueryRowContext(ctx, query, args...))
}

// FindOpen retrieves the user's open session regardless of its date key.
// The partial unique index guarantees there is at most one.
func (s *Store) FindOpen(ctx context.Context, userID string) (*attendance.DaySession, error) {
	query, args, err := psq.Select(sessionColumns...).
		From("attendance_days").
		Where(sq.Eq{"user_id": userID, "status": attendance.StatusOpen}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building open-session query: %w", err)
	}
	return s.scanSession(s.db.QueryRowContext(ctx, query, args...))
}

// SaveBreaks persists the break list and running break total, conditional
// on the session still being open.
func (s *Store) SaveBreaks(ctx context.Context, sess *attendance.DaySession) error {
	breaksJSON, err := json.Marshal(sess.Breaks)
	if err != nil {
		return fmt.Errorf("marshaling breaks: %w", err)
	}

	query, args, err := psq.Update("attendance_days").
		Set("breaks", breaksJSON).
		Set("total_break_minutes", sess.TotalBreakMinutes).
		Set("last_modified_by", sess.LastModifiedBy).
		Set("updated_at", sess.UpdatedAt).
		Where(sq.Eq{"id": sess.ID, "status": attendance.StatusOpen}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building breaks update: %w", err)
	}
	return s.execOpenUpdate(ctx, query, args, "updating breaks")
}

// CloseDay persists the closed session, conditional on it still being open.
// A concurrent close loses the race and gets ErrNoActiveSession.
func (s *Store) CloseDay(ctx context.Context, sess *attendance.DaySession) error {
	breaksJSON, err := json.Marshal(sess.Breaks)
	if err != nil {
		return fmt.Errorf("marshaling breaks: %w", err)
	}

	query, args, err := psq.Update("attendance_days").
		Set("status", attendance.StatusClosed).
		Set("clock_out", sess.ClockOut).
		Set("breaks", breaksJSON).
		Set("worked_minutes", sess.WorkedMinutes).
		Set("total_break_minutes", sess.TotalBreakMinutes).
		Set("last_modified_by", sess.LastModifiedBy).
		Set("updated_at", sess.UpdatedAt).
		Where(sq.Eq{"id": sess.ID, "status": attendance.StatusOpen}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building close update: %w", err)
	}
	return s.execOpenUpdate(ctx, query, args, "closing attendance day")
}

// execOpenUpdate runs a conditional update and maps zero affected rows to
// ErrNoActiveSession.
func (s *Store) execOpenUpdate(ctx context.Context, query string, args []any, action string) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", action, err)
	}
	if affected == 0 {
		return attendance.ErrNoActiveSession
	}
	return nil
}

// ListMonth returns the user's sessions for the YYYY-MM month, ordered by
// date key ascending.
func (s *Store) ListMonth(ctx context.Context, userID, monthKey string) ([]*attendance.DaySession, error) {
	query, args, err := psq.Select(sessionColumns...).
		From("attendance_days").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Like{"date_key": monthKey + "-%"}).
		OrderBy("date_key ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building month query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing month: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []*attendance.DaySession
	for rows.Next() {
		sess, err := s.scanSessionRow(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating month rows: %w", err)
	}
	return sessions, nil
}

// scanSession scans a single row into a DaySession.
func (*Store) scanSession(row *sql.Row) (*attendance.DaySession, error) {
	var sess attendance.DaySession
	var breaksJSON []byte

	err := row.Scan(
		&sess.ID, &sess.UserID, &sess.DateKey, &sess.Status,
		&sess.ClockIn, &sess.ClockOut, &breaksJSON, &sess.WorkedMinutes,
		&sess.TotalBreakMinutes, &sess.LastModifiedBy,
		&sess.CreatedAt, &sess.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // Store interface specifies nil,nil for not-found
	}
	if err != nil {
		return nil, fmt.Errorf("scanning attendance day: %w", err)
	}

	if err := unmarshalBreaks(breaksJSON, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// scanSessionRow scans a row from sql.Rows into a DaySession.
func (*Store) scanSessionRow(rows *sql.Rows) (*attendance.DaySession, error) {
	var sess attendance.DaySession
	var breaksJSON []byte

	err := rows.Scan(
		&sess.ID, &sess.UserID, &sess.DateKey, &sess.Status,
		&sess.ClockIn, &sess.ClockOut, &breaksJSON, &sess.WorkedMinutes,
		&sess.TotalBreakMinutes, &sess.LastModifiedBy,
		&sess.CreatedAt, &sess.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning attendance day row: %w", err)
	}

	if err := unmarshalBreaks(breaksJSON, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func unmarshalBreaks(data []byte, sess *attendance.DaySession) error {
	sess.Breaks = []attendance.Break{}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &sess.Breaks); err != nil {
		return fmt.Errorf("unmarshaling breaks: %w", err)
	}
	return nil
}

// Verify interface compliance.
var _ attendance.Store = (*Store)(nil)
