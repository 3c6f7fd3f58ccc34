package mcptools

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kintaihq/kintai/pkg/attendance"
	"github.com/kintaihq/kintai/pkg/timecalc"
	"github.com/kintaihq/kintai/pkg/user"
)

func newTestToolkit(t *testing.T, now time.Time) (*Toolkit, *attendance.Engine) {
	t.Helper()
	engine := attendance.NewEngine(attendance.NewMemoryStore(), timecalc.DefaultOffset)
	users := user.NewMemoryDirectory(
		&user.User{ID: "user-1", Email: "ichiro@example.com", Name: "Ichiro", Role: "employee"},
	)
	return New(engine, users, func() time.Time { return now }), engine
}

// jstInstant returns the UTC instant for the given JST wall-clock time.
func jstInstant(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	require.NoError(t, err)
	return parsed.Add(-timecalc.DefaultOffset).UTC()
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestToolkit_Register(t *testing.T) {
	tk, _ := newTestToolkit(t, time.Now())
	s := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "v0.1"}, nil)
	tk.Register(s)
	// If tool registration panics, this test fails.
}

func TestHandleTodayStatus(t *testing.T) {
	now := jstInstant(t, "2025-06-02 10:30")
	tk, engine := newTestToolkit(t, now)

	t.Run("missing user_id", func(t *testing.T) {
		res, _, err := tk.handleTodayStatus(context.Background(), todayStatusInput{})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "user_id is required")
	})

	t.Run("unknown user", func(t *testing.T) {
		res, _, err := tk.handleTodayStatus(context.Background(), todayStatusInput{UserID: "nobody"})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "user not found")
	})

	t.Run("no session today", func(t *testing.T) {
		res, _, err := tk.handleTodayStatus(context.Background(), todayStatusInput{UserID: "user-1"})
		require.NoError(t, err)
		require.False(t, res.IsError)

		var view attendance.TodayView
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &view))
		assert.Equal(t, "none", view.Status)
	})

	t.Run("open session", func(t *testing.T) {
		_, err := engine.ClockIn(context.Background(), "user-1", jstInstant(t, "2025-06-02 09:00"))
		require.NoError(t, err)

		res, _, err := tk.handleTodayStatus(context.Background(), todayStatusInput{UserID: "user-1"})
		require.NoError(t, err)
		require.False(t, res.IsError)

		var view attendance.TodayView
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &view))
		assert.Equal(t, string(attendance.StatusOpen), view.Status)
		assert.Equal(t, int64(90*60*1000), view.LiveWorkedMs)
	})
}

func TestHandleMonthlyAttendance(t *testing.T) {
	now := jstInstant(t, "2025-06-10 10:00")
	tk, engine := newTestToolkit(t, now)

	_, err := engine.ClockIn(context.Background(), "user-1", jstInstant(t, "2025-06-02 09:00"))
	require.NoError(t, err)
	_, err = engine.ClockOut(context.Background(), "user-1", jstInstant(t, "2025-06-02 17:00"))
	require.NoError(t, err)

	t.Run("explicit month", func(t *testing.T) {
		res, _, err := tk.handleMonthlyAttendance(context.Background(), monthlyAttendanceInput{
			UserID: "user-1",
			Month:  "2025-06",
		})
		require.NoError(t, err)
		require.False(t, res.IsError)

		var summary attendance.MonthlySummary
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &summary))
		assert.Equal(t, 480, summary.TotalMinutes)
		assert.InDelta(t, 8.0, summary.TotalHours, 0.001)
		require.Len(t, summary.Records, 1)
	})

	t.Run("defaults to current month", func(t *testing.T) {
		res, _, err := tk.handleMonthlyAttendance(context.Background(), monthlyAttendanceInput{UserID: "user-1"})
		require.NoError(t, err)
		require.False(t, res.IsError)

		var summary attendance.MonthlySummary
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &summary))
		assert.Equal(t, "2025-06", summary.Month)
	})

	t.Run("invalid month", func(t *testing.T) {
		res, _, err := tk.handleMonthlyAttendance(context.Background(), monthlyAttendanceInput{
			UserID: "user-1",
			Month:  "June 2025",
		})
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("unknown user", func(t *testing.T) {
		res, _, err := tk.handleMonthlyAttendance(context.Background(), monthlyAttendanceInput{UserID: "nobody"})
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})
}
