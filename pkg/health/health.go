// Package health provides readiness state tracking and HTTP health check
// handlers for the attendance service.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// State constants for the readiness state machine.
const (
	stateStarting int32 = iota
	stateReady
	stateDraining
)

// pingTimeout bounds the storage probe so a wedged database cannot hang
// the readiness endpoint.
const pingTimeout = 2 * time.Second

// Checker tracks the readiness state of the service. It is safe for
// concurrent use.
type Checker struct {
	state atomic.Int32

	// ping probes the session store; nil means no storage dependency
	// (in-memory mode).
	ping func(ctx context.Context) error
}

// NewChecker creates a Checker in the Starting state. ping, if non-nil, is
// consulted on every readiness probe, typically (*sql.DB).PingContext.
func NewChecker(ping func(ctx context.Context) error) *Checker {
	return &Checker{ping: ping}
}

// SetReady transitions to the Ready state.
func (c *Checker) SetReady() {
	c.state.Store(stateReady)
}

// SetDraining transitions to the Draining state.
func (c *Checker) SetDraining() {
	c.state.Store(stateDraining)
}

// State returns the current state as a human-readable string.
func (c *Checker) State() string {
	switch c.state.Load() {
	case stateReady:
		return "ready"
	case stateDraining:
		return "draining"
	default:
		return "starting"
	}
}

// healthResponse is the JSON body returned by health endpoints.
type healthResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// LivenessHandler returns an http.HandlerFunc that always responds 200 OK.
// Use this for a Kubernetes livenessProbe (/healthz).
func (*Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}

// ReadinessHandler returns an http.HandlerFunc that responds 200 when the
// service is ready and its session store answers a ping, 503 otherwise.
// Use this for a Kubernetes readinessProbe (/readyz).
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c.state.Load() != stateReady {
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: c.State()})
			return
		}
		if c.ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
			defer cancel()
			if err := c.ping(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, healthResponse{
					Status: "not ready",
					Reason: "session store unreachable",
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, healthResponse{Status: "ready"})
	}
}

func writeJSON(w http.ResponseWriter, code int, v healthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
