package api

import (
	"net/http"

	"github.com/kintaihq/kintai/pkg/attendance"
	"github.com/kintaihq/kintai/pkg/auth"
	"github.com/kintaihq/kintai/pkg/user"
)

// userListResponse wraps the user directory listing.
type userListResponse struct {
	Users []*user.User `json:"users"`
	Total int          `json:"total"`
}

// Today handles GET /api/v1/me/attendance/today.
//
// @Summary      Today's status
// @Description  Returns the caller's session for the current day, including live counters.
// @Tags         Reports
// @Produce      json
// @Success      200  {object}  attendance.TodayView
// @Failure      500  {object}  errorResponse
// @Security     BearerAuth
// @Router       /me/attendance/today [get]
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	uc := auth.GetUserContext(r.Context())
	view, err := h.engine.Today(r.Context(), uc.UserID, h.clock())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// MyMonthly handles GET /api/v1/me/attendance.
//
// @Summary      My monthly summary
// @Description  Returns the caller's attendance records and totals for a month.
// @Tags         Reports
// @Produce      json
// @Param        month  query  string  false  "Month in YYYY-MM form (default: current month)"
// @Success      200  {object}  attendance.MonthlySummary
// @Failure      400  {object}  errorResponse
// @Security     BearerAuth
// @Router       /me/attendance [get]
func (h *Handler) MyMonthly(w http.ResponseWriter, r *http.Request) {
	uc := auth.GetUserContext(r.Context())
	h.monthly(w, r, uc.UserID)
}

// AdminMonthly handles GET /api/v1/admin/attendance.
//
// @Summary      Monthly summary for any user
// @Description  Returns attendance records and totals for the given user and month.
// @Tags         Admin
// @Produce      json
// @Param        user_id  query  string  true   "Target user ID"
// @Param        month    query  string  false  "Month in YYYY-MM form (default: current month)"
// @Success      200  {object}  attendance.MonthlySummary
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Security     BearerAuth
// @Router       /admin/attendance [get]
func (h *Handler) AdminMonthly(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	u, err := h.users.Lookup(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	h.monthly(w, r, userID)
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request, userID string) {
	monthKey, err := attendance.ParseMonth(r.URL.Query().Get("month"), h.clock(), h.engine.Offset())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	summary, err := h.engine.Monthly(r.Context(), userID, monthKey)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// AdminUsers handles GET /api/v1/admin/users.
//
// @Summary      List users
// @Description  Returns all users known to the directory, ordered by name.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  userListResponse
// @Failure      500  {object}  errorResponse
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *Handler) AdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, userListResponse{Users: users, Total: len(users)})
}
