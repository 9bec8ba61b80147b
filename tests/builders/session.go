package builders

import (
	"time"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/session"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
)

type SessionBuilder struct {
	id           session.ID
	userID       user.ID
	refreshToken string
	expiresAt    time.Time
	revokedAt    time.Time
	createdAt    time.Time
}

func NewSessionBuilder() *SessionBuilder {
	now := time.Now().UTC()

	return &SessionBuilder{
		id:           session.NewID(),
		userID:       user.NewID(),
		refreshToken: "test-refresh-token",
		expiresAt:    now.Add(session.RefreshTokenTTL),
		createdAt:    now,
	}
}

func (b *SessionBuilder) WithID(id session.ID) *SessionBuilder {
	b.id = id
	return b
}

func (b *SessionBuilder) ForUser(u *user.User) *SessionBuilder {
	b.userID = u.ID()
	return b
}

func (b *SessionBuilder) WithRefreshToken(token string) *SessionBuilder {
	b.refreshToken = token
	return b
}

func (b *SessionBuilder) Expired() *SessionBuilder {
	b.expiresAt = time.Now().UTC().Add(-time.Minute)
	return b
}

func (b *SessionBuilder) Revoked() *SessionBuilder {
	b.revokedAt = time.Now().UTC()
	return b
}

func (b *SessionBuilder) Build() *session.Session {
	return session.Rehydrate(session.RehydrateArgs{
		ID:          b.id,
		UserID:      b.userID,
		RefreshHash: session.HashRefreshToken(b.refreshToken),
		ExpiresAt:   b.expiresAt,
		RevokedAt:   b.revokedAt,
		CreatedAt:   b.createdAt,
	})
}
