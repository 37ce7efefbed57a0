package service

import (
	"testing"
	"time"

	"provider-billing/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret-at-least-32-bytes-long", time.Hour, "provider-billing")
	userID := uuid.New()

	token, expiresAt, err := svc.Generate(userID, "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-one-at-least-32-bytes-long!", time.Hour, "provider-billing")
	verifier := NewJWTService("secret-two-at-least-32-bytes-long!", time.Hour, "provider-billing")

	token, _, err := issuer.Generate(uuid.New(), "alice")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.True(t, apperror.Is(err, apperror.CodeInvalidToken))
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("test-secret-at-least-32-bytes-long", -time.Minute, "provider-billing")

	token, _, err := svc.Generate(uuid.New(), "alice")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.True(t, apperror.Is(err, apperror.CodeInvalidToken))
}

func TestJWTService_WrongIssuer(t *testing.T) {
	issuer := NewJWTService("test-secret-at-least-32-bytes-long", time.Hour, "other-service")
	verifier := NewJWTService("test-secret-at-least-32-bytes-long", time.Hour, "provider-billing")

	token, _, err := issuer.Generate(uuid.New(), "alice")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.True(t, apperror.Is(err, apperror.CodeInvalidToken))
}

func TestJWTService_Garbage(t *testing.T) {
	svc := NewJWTService("test-secret-at-least-32-bytes-long", time.Hour, "provider-billing")

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Validate(raw)
		assert.True(t, apperror.Is(err, apperror.CodeInvalidToken), "input %q", raw)
	}
}
