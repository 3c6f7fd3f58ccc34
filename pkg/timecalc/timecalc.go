// Package timecalc provides pure time arithmetic for attendance records:
// calendar-day keys in a fixed UTC offset, elapsed and break durations in
// milliseconds, and display formatting. All functions are deterministic;
// "now" is always an explicit argument, never read from the wall clock.
package timecalc

import (
	"fmt"
	"time"
)

// DefaultOffset is the local-time offset used when none is configured (JST).
const DefaultOffset = 9 * time.Hour

// Interval is a single break span. End is nil while the break is in
// progress; at most one interval in a session may be open at a time.
type Interval struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end"`
}

// Open reports whether the interval has no end yet.
func (iv Interval) Open() bool {
	return iv.End == nil
}

// DateKey returns the calendar day of t in the given fixed UTC offset,
// formatted as YYYY-MM-DD. This function, not the caller's wall clock,
// defines "today" for the attendance state machine.
func DateKey(t time.Time, offset time.Duration) string {
	return t.UTC().Add(offset).Format("2006-01-02")
}

// MonthKey returns the calendar month of t in the given fixed UTC offset,
// formatted as YYYY-MM.
func MonthKey(t time.Time, offset time.Duration) string {
	return t.UTC().Add(offset).Format("2006-01")
}

// ElapsedMs returns the milliseconds between start and end, clamped at
// zero. Negative spans (clock skew, malformed input) are not an error
// here; callers log the anomaly and continue.
func ElapsedMs(start, end time.Time) int64 {
	ms := end.Sub(start).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}

// BreakMs sums the durations of the given intervals in milliseconds. An
// open interval is measured against ref as a provisional end, which lets
// callers display an in-progress break without persisting a guess.
func BreakMs(intervals []Interval, ref time.Time) int64 {
	var total int64
	for _, iv := range intervals {
		end := ref
		if iv.End != nil {
			end = *iv.End
		}
		total += ElapsedMs(iv.Start, end)
	}
	return total
}

// ClosedBreakMs sums the durations of only the closed intervals.
func ClosedBreakMs(intervals []Interval) int64 {
	var total int64
	for _, iv := range intervals {
		if iv.End == nil {
			continue
		}
		total += ElapsedMs(iv.Start, *iv.End)
	}
	return total
}

// WorkingMs returns the working time between clockIn and end, minus break
// time, in milliseconds, floored at zero. Open intervals are measured
// against end.
func WorkingMs(clockIn, end time.Time, intervals []Interval) int64 {
	ms := ElapsedMs(clockIn, end) - BreakMs(intervals, end)
	if ms < 0 {
		return 0
	}
	return ms
}

// MsToMinutes converts milliseconds to whole minutes, always flooring so
// that totals are stable and reproducible.
func MsToMinutes(ms int64) int {
	return int(ms / 60_000)
}

// MinutesToHHMM formats a minute count as "H:MM" for display. A nil value
// (no frozen total yet) renders as "-".
func MinutesToHHMM(mins *int) string {
	if mins == nil {
		return "-"
	}
	return fmt.Sprintf("%d:%02d", *mins/60, *mins%60)
}
