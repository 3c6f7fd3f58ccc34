package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kintaihq/kintai/pkg/attendance"
	"github.com/kintaihq/kintai/pkg/auth"
	"github.com/kintaihq/kintai/pkg/timecalc"
	"github.com/kintaihq/kintai/pkg/user"
)

// testClock is a settable clock shared by a handler under test.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

// jst returns the UTC instant for the given JST wall-clock time.
func jst(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	require.NoError(t, err)
	return parsed.Add(-timecalc.DefaultOffset).UTC()
}

// identityMiddleware injects a fixed user context, standing in for the
// real authentication chain.
func identityMiddleware(uc *auth.UserContext) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithUserContext(r.Context(), uc)))
		})
	}
}

func rejectMiddleware() Middleware {
	return func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusForbidden, "admin role required")
		})
	}
}

func newTestHandler(t *testing.T, uc *auth.UserContext, admin bool) (*Handler, *testClock) {
	t.Helper()
	clock := &testClock{now: jst(t, "2025-06-02 09:00")}
	engine := attendance.NewEngine(attendance.NewMemoryStore(), timecalc.DefaultOffset)
	users := user.NewMemoryDirectory(
		&user.User{ID: "user-1", Email: "ichiro@example.com", Name: "Ichiro", Role: "employee"},
		&user.User{ID: "admin-1", Email: "boss@example.com", Name: "Boss", Role: "admin"},
	)
	adminMW := rejectMiddleware()
	if admin {
		adminMW = identityMiddleware(uc)
	}
	return NewHandler(engine, users, identityMiddleware(uc), adminMW, clock.Now), clock
}

func do(h *Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHandler_ClockIn(t *testing.T) {
	uc := &auth.UserContext{UserID: "user-1", Role: auth.RoleEmployee}
	h, _ := newTestHandler(t, uc, false)

	w := do(h, http.MethodPost, "/api/v1/attendance/clock-in")
	require.Equal(t, http.StatusCreated, w.Code)
	res := decode[clockInResponse](t, w)
	assert.Equal(t, "clocked in", res.Message)
	require.NotNil(t, res.Record)
	assert.Equal(t, "user-1", res.Record.UserID)
	assert.Equal(t, "2025-06-02", res.Record.DateKey)
	assert.Equal(t, attendance.StatusOpen, res.Record.Status)

	// Second punch on the same day is rejected.
	w = do(h, http.MethodPost, "/api/v1/attendance/clock-in")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorResponse](t, w).Error, "already clocked in")
}

func TestHandler_FullDay(t *testing.T) {
	uc := &auth.UserContext{UserID: "user-1", Role: auth.RoleEmployee}
	h, clock := newTestHandler(t, uc, false)

	require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/api/v1/attendance/clock-in").Code)

	clock.now = jst(t, "2025-06-02 12:00")
	w := do(h, http.MethodPost, "/api/v1/attendance/break/start")
	require.Equal(t, http.StatusOK, w.Code)
	start := decode[breakStartResponse](t, w)
	assert.Equal(t, "break started", start.Message)
	require.Len(t, start.Breaks, 1)
	assert.True(t, start.Breaks[0].Open())

	clock.now = jst(t, "2025-06-02 13:00")
	w = do(h, http.MethodPost, "/api/v1/attendance/break/end")
	require.Equal(t, http.StatusOK, w.Code)
	end := decode[breakEndResponse](t, w)
	assert.Equal(t, 60, end.TotalBreakMinutes)
	assert.Equal(t, 180, end.WorkedMinutes)

	clock.now = jst(t, "2025-06-02 18:30")
	w = do(h, http.MethodPost, "/api/v1/attendance/clock-out")
	require.Equal(t, http.StatusOK, w.Code)
	out := decode[clockOutResponse](t, w)
	require.NotNil(t, out.WorkedMinutes)
	assert.Equal(t, 510, *out.WorkedMinutes)
}

func TestHandler_BreakErrors(t *testing.T) {
	uc := &auth.UserContext{UserID: "user-1", Role: auth.RoleEmployee}
	h, clock := newTestHandler(t, uc, false)

	// No session open yet.
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/v1/attendance/break/start").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/v1/attendance/break/end").Code)

	require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/api/v1/attendance/clock-in").Code)

	// No open break to end.
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/v1/attendance/break/end").Code)

	// Clock-out while on break is rejected.
	clock.now = jst(t, "2025-06-02 12:00")
	require.Equal(t, http.StatusOK, do(h, http.MethodPost, "/api/v1/attendance/break/start").Code)
	w := do(h, http.MethodPost, "/api/v1/attendance/clock-out")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorResponse](t, w).Error, "break")
}

func TestHandler_Today(t *testing.T) {
	uc := &auth.UserContext{UserID: "user-1", Role: auth.RoleEmployee}
	h, clock := newTestHandler(t, uc, false)

	w := do(h, http.MethodGet, "/api/v1/me/attendance/today")
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[attendance.TodayView](t, w)
	assert.Equal(t, "none", view.Status)

	require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/api/v1/attendance/clock-in").Code)
	clock.now = jst(t, "2025-06-02 10:30")
	w = do(h, http.MethodGet, "/api/v1/me/attendance/today")
	require.Equal(t, http.StatusOK, w.Code)
	view = decode[attendance.TodayView](t, w)
	assert.Equal(t, string(attendance.StatusOpen), view.Status)
	assert.Equal(t, int64(90*60*1000), view.LiveWorkedMs)
}

func TestHandler_MyMonthly(t *testing.T) {
	uc := &auth.UserContext{UserID: "user-1", Role: auth.RoleEmployee}
	h, clock := newTestHandler(t, uc, false)

	require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/api/v1/attendance/clock-in").Code)
	clock.now = jst(t, "2025-06-02 17:00")
	require.Equal(t, http.StatusOK, do(h, http.MethodPost, "/api/v1/attendance/clock-out").Code)

	w := do(h, http.MethodGet, "/api/v1/me/attendance?month=2025-06")
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[attendance.MonthlySummary](t, w)
	assert.Equal(t, "user-1", summary.UserID)
	assert.Equal(t, "2025-06", summary.Month)
	assert.Equal(t, 480, summary.TotalMinutes)
	require.Len(t, summary.Records, 1)

	// Defaults to the current month when no query is given.
	w = do(h, http.MethodGet, "/api/v1/me/attendance")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2025-06", decode[attendance.MonthlySummary](t, w).Month)

	w = do(h, http.MethodGet, "/api/v1/me/attendance?month=2025-13")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_AdminMonthly(t *testing.T) {
	uc := &auth.UserContext{UserID: "admin-1", Role: auth.RoleAdmin}
	h, clock := newTestHandler(t, uc, true)

	t.Run("requires user_id", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/api/v1/admin/attendance?month=2025-06").Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		w := do(h, http.MethodGet, "/api/v1/admin/attendance?user_id=nobody&month=2025-06")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("known user", func(t *testing.T) {
		// The admin's own punches should not leak into the target user's report.
		require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/api/v1/attendance/clock-in").Code)
		clock.now = jst(t, "2025-06-02 18:00")
		require.Equal(t, http.StatusOK, do(h, http.MethodPost, "/api/v1/attendance/clock-out").Code)

		w := do(h, http.MethodGet, "/api/v1/admin/attendance?user_id=user-1&month=2025-06")
		require.Equal(t, http.StatusOK, w.Code)
		summary := decode[attendance.MonthlySummary](t, w)
		assert.Equal(t, "user-1", summary.UserID)
		assert.Zero(t, summary.TotalMinutes)
	})
}

func TestHandler_AdminUsers(t *testing.T) {
	uc := &auth.UserContext{UserID: "admin-1", Role: auth.RoleAdmin}
	h, _ := newTestHandler(t, uc, true)

	w := do(h, http.MethodGet, "/api/v1/admin/users")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[userListResponse](t, w)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Users, 2)
	assert.Equal(t, "Boss", res.Users[0].Name)
}

func TestHandler_AdminRoutesGuarded(t *testing.T) {
	uc := &auth.UserContext{UserID: "user-1", Role: auth.RoleEmployee}
	h, _ := newTestHandler(t, uc, false)

	assert.Equal(t, http.StatusForbidden, do(h, http.MethodGet, "/api/v1/admin/users").Code)
	assert.Equal(t, http.StatusForbidden, do(h, http.MethodGet, "/api/v1/admin/attendance?user_id=user-1").Code)
}
