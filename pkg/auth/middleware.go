package auth

import (
	"encoding/json"
	"net/http"
)

// Chain tries each authenticator in order and returns the first identity.
type Chain []Authenticator

// Authenticate tries each authenticator in order. Verification errors stop
// the chain: a present-but-invalid credential must not fall through to
// anonymous handling.
func (c Chain) Authenticate(r *http.Request) (*UserContext, error) {
	for _, a := range c {
		uc, err := a.Authenticate(r)
		if err != nil {
			return nil, err
		}
		if uc != nil {
			return uc, nil
		}
	}
	return nil, nil //nolint:nilnil // nil user with nil error means no credentials provided
}

// RequireUser creates middleware that enforces an authenticated user and
// attaches the user context to the request.
func RequireUser(a Authenticator) func(http.Handler) http.Handler {
	return requireRole(a, false)
}

// RequireAdmin creates middleware that additionally enforces the admin role.
func RequireAdmin(a Authenticator) func(http.Handler) http.Handler {
	return requireRole(a, true)
}

func requireRole(a Authenticator, admin bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uc, err := a.Authenticate(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			if uc == nil {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if admin && !uc.IsAdmin() {
				writeError(w, http.StatusForbidden, "admin role required")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), uc)))
		})
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
