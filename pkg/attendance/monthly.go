package attendance

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/kintaihq/kintai/pkg/timecalc"
)

var monthKeyRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ParseMonth validates a YYYY-MM month parameter. An empty value defaults
// to now's month in the given local offset; anything else malformed is
// ErrInvalidMonth.
func ParseMonth(month string, now time.Time, offset time.Duration) (string, error) {
	if month == "" {
		return timecalc.MonthKey(now, offset), nil
	}
	if !monthKeyRe.MatchString(month) {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonth, month)
	}
	return month, nil
}

// MonthlyRecord is one day's row in a monthly report.
type MonthlyRecord struct {
	DateKey           string     `json:"date_key"`
	Status            Status     `json:"status"`
	ClockIn           time.Time  `json:"clock_in"`
	ClockOut          *time.Time `json:"clock_out"`
	WorkedMinutes     *int       `json:"worked_minutes"`
	TotalBreakMinutes int        `json:"total_break_minutes"`
	WorkedHHMM        string     `json:"worked_hhmm"`
}

// MonthlySummary aggregates one user's sessions for one month.
type MonthlySummary struct {
	UserID       string          `json:"user_id"`
	Month        string          `json:"month"`
	TotalMinutes int             `json:"total_minutes"`
	TotalHours   float64         `json:"total_hours"`
	Records      []MonthlyRecord `json:"records"`
}

// Monthly folds the user's sessions for monthKey (YYYY-MM) into a summary,
// ordered by date key. Only closed sessions' frozen worked minutes count
// toward the total; an open day's live work time is deliberately excluded
// so that monthly figures are reproducible no matter when the report runs.
func (e *Engine) Monthly(ctx context.Context, userID, monthKey string) (*MonthlySummary, error) {
	sessions, err := e.store.ListMonth(ctx, userID, monthKey)
	if err != nil {
		return nil, fmt.Errorf("listing month %s: %w", monthKey, err)
	}

	summary := &MonthlySummary{
		UserID:  userID,
		Month:   monthKey,
		Records: make([]MonthlyRecord, 0, len(sessions)),
	}
	for _, s := range sessions {
		rec := MonthlyRecord{
			DateKey:           s.DateKey,
			Status:            s.Status,
			ClockIn:           s.ClockIn,
			ClockOut:          s.ClockOut,
			WorkedMinutes:     s.WorkedMinutes,
			TotalBreakMinutes: s.TotalBreakMinutes,
			WorkedHHMM:        timecalc.MinutesToHHMM(s.WorkedMinutes),
		}
		if s.Status == StatusClosed && s.WorkedMinutes != nil {
			summary.TotalMinutes += *s.WorkedMinutes
		}
		summary.Records = append(summary.Records, rec)
	}
	summary.TotalHours = roundHours(summary.TotalMinutes)
	return summary, nil
}

// roundHours converts minutes to hours rounded to two decimals for display.
func roundHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}
