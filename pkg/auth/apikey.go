package auth

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// APIKey is one configured service key. Only the bcrypt hash of the key is
// held in configuration; the plaintext never leaves the operator.
type APIKey struct {
	// KeyHash is the bcrypt hash of the key material.
	KeyHash string `yaml:"key_hash"`

	// UserID identifies the service principal in audit trails.
	UserID string `yaml:"user_id"`

	// Name is a human-readable label for the key.
	Name string `yaml:"name"`

	// Role granted to the key, usually admin for reporting integrations.
	Role string `yaml:"role"`
}

// APIKeyAuthenticator validates X-API-Key headers against configured
// bcrypt-hashed keys. Intended for the admin surface, where a handful of
// service integrations authenticate without a user token.
type APIKeyAuthenticator struct {
	keys []APIKey
}

// NewAPIKeyAuthenticator creates an API key authenticator.
func NewAPIKeyAuthenticator(keys []APIKey) *APIKeyAuthenticator {
	return &APIKeyAuthenticator{keys: keys}
}

// Authenticate checks the X-API-Key header. The configured key set is
// small, so comparing against each hash is fine.
func (a *APIKeyAuthenticator) Authenticate(r *http.Request) (*UserContext, error) {
	key := r.Header.Get("X-API-Key")
	if key == "" {
		return nil, nil //nolint:nilnil // nil user with nil error means no credentials provided
	}

	for _, k := range a.keys {
		if bcrypt.CompareHashAndPassword([]byte(k.KeyHash), []byte(key)) == nil {
			role := k.Role
			if role == "" {
				role = RoleEmployee
			}
			return &UserContext{
				UserID:   k.UserID,
				Name:     k.Name,
				Role:     role,
				AuthType: "apikey",
			}, nil
		}
	}
	return nil, nil //nolint:nilnil // nil user with nil error means invalid key (unauthenticated)
}

// Verify interface compliance.
var _ Authenticator = (*APIKeyAuthenticator)(nil)
