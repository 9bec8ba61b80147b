package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/session"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
)

func newSession(t *testing.T, token string) *session.Session {
	t.Helper()
	s, err := session.NewSession(session.NewSessionArgs{
		ID:           session.NewID(),
		UserID:       user.NewID(),
		RefreshToken: token,
		ExpiresAt:    time.Now().Add(session.RefreshTokenTTL),
	})
	require.NoError(t, err)
	return s
}

func TestNewSession(t *testing.T) {
	t.Parallel()

	s := newSession(t, "refresh-token")
	assert.Equal(t, session.HashRefreshToken("refresh-token"), s.RefreshHash())
	assert.False(t, s.IsRevoked())
	assert.False(t, s.IsExpired())

	_, err := session.NewSession(session.NewSessionArgs{UserID: user.NewID()})
	assert.Error(t, err, "empty refresh token is rejected")

	_, err = session.NewSession(session.NewSessionArgs{RefreshToken: "x"})
	assert.Error(t, err, "zero user id is rejected")
}

func TestSession_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		s := newSession(t, "refresh-token")
		assert.NoError(t, s.Validate("refresh-token"))
	})

	t.Run("mismatched token", func(t *testing.T) {
		t.Parallel()
		s := newSession(t, "refresh-token")
		assert.ErrorIs(t, s.Validate("other-token"), session.ErrTokenMismatch)
	})

	t.Run("revoked", func(t *testing.T) {
		t.Parallel()
		s := newSession(t, "refresh-token")
		s.Revoke()
		assert.ErrorIs(t, s.Validate("refresh-token"), session.ErrRevoked)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		s := session.Rehydrate(session.RehydrateArgs{
			ID:          session.NewID(),
			UserID:      user.NewID(),
			RefreshHash: session.HashRefreshToken("refresh-token"),
			ExpiresAt:   time.Now().Add(-time.Minute),
			CreatedAt:   time.Now().Add(-time.Hour),
		})
		assert.ErrorIs(t, s.Validate("refresh-token"), session.ErrExpired)
	})
}

func TestSession_Revoke(t *testing.T) {
	t.Parallel()

	s := newSession(t, "refresh-token")
	s.Revoke()
	require.True(t, s.IsRevoked())
	first := s.RevokedAt()

	// revoking twice keeps the original timestamp
	s.Revoke()
	assert.Equal(t, first, s.RevokedAt())
}
