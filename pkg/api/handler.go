// Package api provides the REST endpoints for attendance tracking.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kintaihq/kintai/pkg/attendance"
	"github.com/kintaihq/kintai/pkg/user"
)

// Middleware wraps a handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler provides the attendance REST API endpoints.
type Handler struct {
	mux          *http.ServeMux
	engine       *attendance.Engine
	users        user.Directory
	clock        func() time.Time
	requireUser  Middleware
	requireAdmin Middleware
}

// NewHandler creates a new attendance API handler. The clock is used as the
// source of truth for all punch times; pass nil to use time.Now.
func NewHandler(engine *attendance.Engine, users user.Directory, requireUser, requireAdmin Middleware, clock func() time.Time) *Handler {
	if clock == nil {
		clock = time.Now
	}
	h := &Handler{
		mux:          http.NewServeMux(),
		engine:       engine,
		users:        users,
		clock:        clock,
		requireUser:  requireUser,
		requireAdmin: requireAdmin,
	}
	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// registerRoutes registers all attendance API routes.
func (h *Handler) registerRoutes() {
	h.handle("POST /api/v1/attendance/clock-in", h.requireUser, h.ClockIn)
	h.handle("POST /api/v1/attendance/break/start", h.requireUser, h.BreakStart)
	h.handle("POST /api/v1/attendance/break/end", h.requireUser, h.BreakEnd)
	h.handle("POST /api/v1/attendance/clock-out", h.requireUser, h.ClockOut)
	h.handle("GET /api/v1/me/attendance/today", h.requireUser, h.Today)
	h.handle("GET /api/v1/me/attendance", h.requireUser, h.MyMonthly)
	h.handle("GET /api/v1/admin/attendance", h.requireAdmin, h.AdminMonthly)
	h.handle("GET /api/v1/admin/users", h.requireAdmin, h.AdminUsers)
}

func (h *Handler) handle(pattern string, mw Middleware, fn http.HandlerFunc) {
	if mw != nil {
		h.mux.Handle(pattern, mw(fn))
		return
	}
	h.mux.Handle(pattern, fn)
}

// errorResponse is the body returned for all error statuses.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeEngineError maps engine errors onto HTTP status codes.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, attendance.ErrDuplicateDay):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, attendance.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, attendance.ErrAlreadyClockedIn),
		errors.Is(err, attendance.ErrNoActiveSession),
		errors.Is(err, attendance.ErrNoActiveBreak),
		errors.Is(err, attendance.ErrOnBreak),
		errors.Is(err, attendance.ErrInvalidMonth):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
