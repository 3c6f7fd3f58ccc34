package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Authenticator validates request credentials. A nil UserContext with a nil
// error means no usable credentials were presented.
type Authenticator interface {
	Authenticate(r *http.Request) (*UserContext, error)
}

// JWTConfig configures bearer-token verification.
type JWTConfig struct {
	// SigningKey is the shared HMAC secret of the identity service.
	SigningKey []byte

	// Issuer is the required "iss" claim. Empty disables the check.
	Issuer string
}

// JWTAuthenticator verifies HMAC-signed bearer tokens from the identity
// service and extracts the user context from their claims.
type JWTAuthenticator struct {
	cfg JWTConfig
}

// NewJWTAuthenticator creates a JWT authenticator.
func NewJWTAuthenticator(cfg JWTConfig) *JWTAuthenticator {
	return &JWTAuthenticator{cfg: cfg}
}

// Authenticate verifies the Authorization bearer token, if present.
func (a *JWTAuthenticator) Authenticate(r *http.Request) (*UserContext, error) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return nil, nil //nolint:nilnil // nil user with nil error means no credentials provided
	}

	claims, err := a.parseAndValidateToken(token)
	if err != nil {
		return nil, err
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	uc := &UserContext{
		UserID:   sub,
		AuthType: "jwt",
		Role:     RoleEmployee,
	}
	if email, ok := claims["email"].(string); ok {
		uc.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		uc.Name = name
	}
	if role, ok := claims["role"].(string); ok && role != "" {
		uc.Role = role
	}
	return uc, nil
}

// parseAndValidateToken parses and validates the JWT.
func (a *JWTAuthenticator) parseAndValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.cfg.SigningKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims type")
	}

	if a.cfg.Issuer != "" {
		iss, ok := claims["iss"].(string)
		if !ok || iss != a.cfg.Issuer {
			return nil, fmt.Errorf("invalid issuer: got %q, want %q", iss, a.cfg.Issuer)
		}
	}
	return claims, nil
}

// Verify interface compliance.
var _ Authenticator = (*JWTAuthenticator)(nil)
