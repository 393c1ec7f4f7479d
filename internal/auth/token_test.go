// ABOUTME: Tests for JWT token generation and verification
// ABOUTME: Covers roundtrip, expiry, wrong secret, and malformed tokens

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerifyRoundtrip(t *testing.T) {
	v := NewJWTVerifier([]byte("test-secret"), "carelog-gateway")

	token, err := v.Generate("claude-code", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	principalID, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "claude-code", principalID)
}

func TestVerifyExpiredToken(t *testing.T) {
	v := NewJWTVerifier([]byte("test-secret"), "carelog-gateway")

	token, err := v.Generate("claude-code", -time.Minute)
	require.NoError(t, err)

	_, err = v.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	minter := NewJWTVerifier([]byte("secret-a"), "carelog-gateway")
	verifier := NewJWTVerifier([]byte("secret-b"), "carelog-gateway")

	token, err := minter.Generate("claude-code", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformedToken(t *testing.T) {
	v := NewJWTVerifier([]byte("test-secret"), "carelog-gateway")

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	v := NewJWTVerifier([]byte("test-secret"), "carelog-gateway")

	// alg=none tokens must never verify
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "claude-code",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRequiresSubject(t *testing.T) {
	secret := []byte("test-secret")
	v := NewJWTVerifier(secret, "carelog-gateway")

	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = v.Verify(token)
	assert.ErrorIs(t, err, ErrMissingClaim)
}
