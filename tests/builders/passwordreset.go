package builders

import (
	"time"

	"github.com/google/uuid"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/passwordreset"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
)

const TestResetPlainToken = "dGVzdC1yZXNldC10b2tlbi1wbGFpbnRleHQtdmFsdWU"

type ResetTokenBuilder struct {
	id        passwordreset.ID
	userID    user.ID
	email     string
	plain     string
	status    passwordreset.Status
	expiresAt time.Time
	createdAt time.Time
	usedAt    time.Time
}

func NewResetTokenBuilder() *ResetTokenBuilder {
	now := time.Now().UTC()

	return &ResetTokenBuilder{
		id:        passwordreset.ID(uuid.New()),
		userID:    user.NewID(),
		email:     TestEmail,
		plain:     TestResetPlainToken,
		status:    passwordreset.StatusPending,
		expiresAt: now.Add(passwordreset.TokenTTL),
		createdAt: now,
	}
}

func (b *ResetTokenBuilder) ForUser(u *user.User) *ResetTokenBuilder {
	b.userID = u.ID()
	b.email = u.Email()
	return b
}

// Plain returns the plaintext the builder hashes into the aggregate.
func (b *ResetTokenBuilder) Plain() string {
	return b.plain
}

func (b *ResetTokenBuilder) WithPlain(plain string) *ResetTokenBuilder {
	b.plain = plain
	return b
}

func (b *ResetTokenBuilder) WithStatus(s passwordreset.Status) *ResetTokenBuilder {
	b.status = s
	return b
}

func (b *ResetTokenBuilder) Expired() *ResetTokenBuilder {
	b.expiresAt = time.Now().UTC().Add(-time.Minute)
	return b
}

func (b *ResetTokenBuilder) Used() *ResetTokenBuilder {
	b.status = passwordreset.StatusUsed
	b.usedAt = time.Now().UTC()
	return b
}

func (b *ResetTokenBuilder) Build() *passwordreset.Token {
	return passwordreset.Rehydrate(passwordreset.RehydrateArgs{
		ID:        b.id,
		UserID:    b.userID,
		Email:     b.email,
		TokenHash: passwordreset.HashToken(b.plain),
		Status:    b.status,
		ExpiresAt: b.expiresAt,
		CreatedAt: b.createdAt,
		UsedAt:    b.usedAt,
	})
}
