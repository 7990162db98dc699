package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("super-secret", time.Hour)
	tok, err := issuer.GenerateJWT("acc-123")
	require.NoError(t, err)

	claims, err := issuer.ValidateJWT(tok)
	require.NoError(t, err)
	assert.Equal(t, "acc-123", claims.AccountID)
	assert.Equal(t, "acc-123", claims.Subject)
}

func TestValidateJWT_Expired(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("secret", -time.Second)
	tok, err := issuer.GenerateJWT("acc")
	require.NoError(t, err)

	_, err = issuer.ValidateJWT(tok)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenIssuer("right-secret", time.Hour).GenerateJWT("acc")
	require.NoError(t, err)

	_, err = NewTokenIssuer("wrong-secret", time.Hour).ValidateJWT(tok)
	require.ErrorIs(t, err, jwt.ErrSignatureInvalid)
}

func TestValidateJWT_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewTokenIssuer("k", time.Hour).ValidateJWT("not.a.jwt")
	require.Error(t, err)
}

func TestMissingSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("", time.Hour)
	_, err := issuer.GenerateJWT("acc")
	require.ErrorIs(t, err, ErrMissingSecret)

	_, err = issuer.ValidateJWT("anything")
	require.ErrorIs(t, err, ErrMissingSecret)
}
