package api

import (
	"net/http"

	"github.com/kintaihq/kintai/pkg/attendance"
	"github.com/kintaihq/kintai/pkg/auth"
)

// clockInResponse is returned after a successful clock-in.
type clockInResponse struct {
	Message string                 `json:"message"`
	Record  *attendance.DaySession `json:"record"`
}

// breakStartResponse is returned after a break begins.
type breakStartResponse struct {
	Message           string             `json:"message"`
	Breaks            []attendance.Break `json:"breaks"`
	TotalBreakMinutes int                `json:"total_break_minutes"`
}

// breakEndResponse is returned after a break ends.
type breakEndResponse struct {
	Message           string `json:"message"`
	TotalBreakMinutes int    `json:"total_break_minutes"`
	WorkedMinutes     int    `json:"worked_minutes"`
}

// clockOutResponse is returned after a successful clock-out.
type clockOutResponse struct {
	Message       string `json:"message"`
	WorkedMinutes *int   `json:"worked_minutes"`
}

// ClockIn handles POST /api/v1/attendance/clock-in.
//
// @Summary      Clock in
// @Description  Opens a new attendance session for the caller's current day.
// @Tags         Attendance
// @Produce      json
// @Success      201  {object}  clockInResponse
// @Failure      400  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Security     BearerAuth
// @Router       /attendance/clock-in [post]
func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	uc := auth.GetUserContext(r.Context())
	s, err := h.engine.ClockIn(r.Context(), uc.UserID, h.clock())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, clockInResponse{Message: "clocked in", Record: s})
}

// BreakStart handles POST /api/v1/attendance/break/start.
//
// @Summary      Start break
// @Description  Opens a break interval on the caller's active session.
// @Tags         Attendance
// @Produce      json
// @Success      200  {object}  breakStartResponse
// @Failure      400  {object}  errorResponse
// @Security     BearerAuth
// @Router       /attendance/break/start [post]
func (h *Handler) BreakStart(w http.ResponseWriter, r *http.Request) {
	uc := auth.GetUserContext(r.Context())
	s, err := h.engine.BreakStart(r.Context(), uc.UserID, h.clock())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakStartResponse{
		Message:           "break started",
		Breaks:            s.Breaks,
		TotalBreakMinutes: s.TotalBreakMinutes,
	})
}

// BreakEnd handles POST /api/v1/attendance/break/end.
//
// @Summary      End break
// @Description  Closes the caller's open break interval and reports worked time so far.
// @Tags         Attendance
// @Produce      json
// @Success      200  {object}  breakEndResponse
// @Failure      400  {object}  errorResponse
// @Security     BearerAuth
// @Router       /attendance/break/end [post]
func (h *Handler) BreakEnd(w http.ResponseWriter, r *http.Request) {
	uc := auth.GetUserContext(r.Context())
	res, err := h.engine.BreakEnd(r.Context(), uc.UserID, h.clock())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakEndResponse{
		Message:           "break ended",
		TotalBreakMinutes: res.Session.TotalBreakMinutes,
		WorkedMinutes:     res.WorkedMinutes,
	})
}

// ClockOut handles POST /api/v1/attendance/clock-out.
//
// @Summary      Clock out
// @Description  Closes the caller's active session and freezes its worked minutes.
// @Tags         Attendance
// @Produce      json
// @Success      200  {object}  clockOutResponse
// @Failure      400  {object}  errorResponse
// @Security     BearerAuth
// @Router       /attendance/clock-out [post]
func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	uc := auth.GetUserContext(r.Context())
	s, err := h.engine.ClockOut(r.Context(), uc.UserID, h.clock())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clockOutResponse{Message: "clocked out", WorkedMinutes: s.WorkedMinutes})
}
