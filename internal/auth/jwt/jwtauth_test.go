package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken(t *testing.T) {
	jwtAuth := New(&Config{JWTSecret: "secret"})

	tok, err := NewToken(jwtAuth, time.Hour, "u-1", RoleAdmin)
	require.NoError(t, err)

	claims, err := VerifyToken(jwtAuth, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.True(t, claims.IsAdmin())
}

func TestTokenWithoutRole(t *testing.T) {
	jwtAuth := New(&Config{JWTSecret: "secret"})

	tok, err := NewToken(jwtAuth, time.Hour, "u-2", "")
	require.NoError(t, err)

	claims, err := VerifyToken(jwtAuth, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-2", claims.Subject)
	assert.Empty(t, claims.Role)
	assert.False(t, claims.IsAdmin())
}

func TestTokenRejected(t *testing.T) {
	jwtAuth := New(&Config{JWTSecret: "secret"})

	expired, err := NewToken(jwtAuth, -time.Hour, "u-1", RoleSeller)
	require.NoError(t, err)
	_, err = VerifyToken(jwtAuth, expired)
	assert.Error(t, err)

	other, err := NewToken(New(&Config{JWTSecret: "other"}), time.Hour, "u-1", RoleAdmin)
	require.NoError(t, err)
	_, err = VerifyToken(jwtAuth, other)
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	jwtAuth := New(&Config{JWTSecret: "secret"})
	tok, err := NewToken(jwtAuth, time.Hour, "u-1", RoleSeller)
	require.NoError(t, err)

	parsed, err := jwtauth.VerifyToken(jwtAuth, tok)
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), parsed, nil)
	claims, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, Claims{Subject: "u-1", Role: RoleSeller}, claims)

	_, err = FromContext(context.Background())
	assert.Error(t, err)
}
