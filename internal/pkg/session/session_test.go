//go:build unit

package session_test

import (
	"testing"
	"time"

	"slotbook/internal/pkg/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	svc := session.NewService("test-secret", 30*time.Minute)
	sessionID := uuid.New()
	holdID := uuid.New()

	token, err := svc.IssueToken(sessionID, holdID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.Equal(t, holdID, claims.HoldID)
}

func TestValidateToken(t *testing.T) {
	svc := session.NewService("test-secret", 30*time.Minute)

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.jwt")
		assert.ErrorIs(t, err, session.ErrInvalidToken)
	})

	t.Run("token signed with another secret rejected", func(t *testing.T) {
		other := session.NewService("other-secret", 30*time.Minute)
		token, err := other.IssueToken(uuid.New(), uuid.New())
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, session.ErrInvalidToken)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		expired := session.NewService("test-secret", -time.Minute)
		token, err := expired.IssueToken(uuid.New(), uuid.New())
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, session.ErrExpiredToken)
	})
}
