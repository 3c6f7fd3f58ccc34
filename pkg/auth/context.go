// Package auth verifies request identity for the attendance API. Tokens are
// issued by the external identity service; this package only validates them
// and attaches the resulting user context to the request.
package auth

import "context"

// Role values carried in verified tokens.
const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// contextKey is a private type for context keys.
type contextKey int

const userContextKey contextKey = iota

// UserContext holds verified identity information for a request.
type UserContext struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
	AuthType string `json:"auth_type"` // "jwt", "apikey"
}

// IsAdmin reports whether the user carries the admin role.
func (uc *UserContext) IsAdmin() bool {
	return uc.Role == RoleAdmin
}

// WithUserContext adds user context to the context.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, uc)
}

// GetUserContext retrieves user context from the context, or nil if the
// request was not authenticated.
func GetUserContext(ctx context.Context) *UserContext {
	if uc, ok := ctx.Value(userContextKey).(*UserContext); ok {
		return uc
	}
	return nil
}
