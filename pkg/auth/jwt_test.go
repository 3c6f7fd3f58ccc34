package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSigningKey = "test-signing-key"
	testIssuer     = "kintai-identity"
)

func signToken(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func defaultClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":   testIssuer,
		"sub":   "user-1",
		"email": "taro@example.com",
		"name":  "Taro Yamada",
		"role":  RoleEmployee,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func bearerRequest(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func newTestJWTAuth() *JWTAuthenticator {
	return NewJWTAuthenticator(JWTConfig{
		SigningKey: []byte(testSigningKey),
		Issuer:     testIssuer,
	})
}

func TestJWTAuthenticator_ValidToken(t *testing.T) {
	a := newTestJWTAuth()
	token := signToken(t, testSigningKey, defaultClaims())

	uc, err := a.Authenticate(bearerRequest(token))
	require.NoError(t, err)
	require.NotNil(t, uc)
	assert.Equal(t, "user-1", uc.UserID)
	assert.Equal(t, "taro@example.com", uc.Email)
	assert.Equal(t, "Taro Yamada", uc.Name)
	assert.Equal(t, RoleEmployee, uc.Role)
	assert.Equal(t, "jwt", uc.AuthType)
	assert.False(t, uc.IsAdmin())
}

func TestJWTAuthenticator_AdminRole(t *testing.T) {
	a := newTestJWTAuth()
	claims := defaultClaims()
	claims["role"] = RoleAdmin
	token := signToken(t, testSigningKey, claims)

	uc, err := a.Authenticate(bearerRequest(token))
	require.NoError(t, err)
	require.NotNil(t, uc)
	assert.True(t, uc.IsAdmin())
}

func TestJWTAuthenticator_MissingRoleDefaultsToEmployee(t *testing.T) {
	a := newTestJWTAuth()
	claims := defaultClaims()
	delete(claims, "role")
	token := signToken(t, testSigningKey, claims)

	uc, err := a.Authenticate(bearerRequest(token))
	require.NoError(t, err)
	require.NotNil(t, uc)
	assert.Equal(t, RoleEmployee, uc.Role)
}

func TestJWTAuthenticator_NoCredentials(t *testing.T) {
	a := newTestJWTAuth()

	uc, err := a.Authenticate(bearerRequest(""))
	assert.NoError(t, err)
	assert.Nil(t, uc)
}

func TestJWTAuthenticator_WrongKey(t *testing.T) {
	a := newTestJWTAuth()
	token := signToken(t, "some-other-key", defaultClaims())

	_, err := a.Authenticate(bearerRequest(token))
	assert.Error(t, err)
}

func TestJWTAuthenticator_WrongIssuer(t *testing.T) {
	a := newTestJWTAuth()
	claims := defaultClaims()
	claims["iss"] = "someone-else"
	token := signToken(t, testSigningKey, claims)

	_, err := a.Authenticate(bearerRequest(token))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid issuer")
}

func TestJWTAuthenticator_Expired(t *testing.T) {
	a := newTestJWTAuth()
	claims := defaultClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	token := signToken(t, testSigningKey, claims)

	_, err := a.Authenticate(bearerRequest(token))
	assert.Error(t, err)
}

func TestJWTAuthenticator_MissingSubject(t *testing.T) {
	a := newTestJWTAuth()
	claims := defaultClaims()
	delete(claims, "sub")
	token := signToken(t, testSigningKey, claims)

	_, err := a.Authenticate(bearerRequest(token))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no subject")
}
