package jwt

import (
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	tokenString, expiresAt, err := svc.GenerateAccessToken("user-1", "company-1")
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	// The token must verify against the same auth the router uses.
	token, err := jwtauth.VerifyToken(svc.JWTAuth(), tokenString)
	require.NoError(t, err)

	companyID, _ := token.Get("company_id")
	assert.Equal(t, "company-1", companyID)
	userID, _ := token.Get("user_id")
	assert.Equal(t, "user-1", userID)
	tokenType, _ := token.Get("type")
	assert.Equal(t, "access", tokenType)
}

func TestGenerateAccessToken_InvalidExpiration(t *testing.T) {
	svc := NewJWTService("test-secret", "soon")

	_, _, err := svc.GenerateAccessToken("user-1", "company-1")
	require.Error(t, err)
}

func TestGenerateAccessToken_WrongSecretRejected(t *testing.T) {
	issuer := NewJWTService("secret-a", "1h")
	verifier := NewJWTService("secret-b", "1h")

	tokenString, _, err := issuer.GenerateAccessToken("user-1", "company-1")
	require.NoError(t, err)

	_, err = jwtauth.VerifyToken(verifier.JWTAuth(), tokenString)
	require.Error(t, err)
}
