package builders

import (
	"time"

	"github.com/google/uuid"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/otp"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
)

const TestOTPCode = "428517"

type OTPBuilder struct {
	id            otp.ID
	userID        user.ID
	email         string
	code          string
	status        otp.Status
	codeAttempts  int8
	resendTimeout time.Time
	expiresAt     time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

func NewOTPBuilder() *OTPBuilder {
	now := time.Now().UTC()

	return &OTPBuilder{
		id:            otp.ID(uuid.New()),
		userID:        user.NewID(),
		email:         TestEmail,
		code:          TestOTPCode,
		status:        otp.StatusPending,
		resendTimeout: now.Add(otp.ResendTimeout),
		expiresAt:     now.Add(otp.CodeTTL),
		createdAt:     now,
		updatedAt:     now,
	}
}

func (b *OTPBuilder) ForUser(u *user.User) *OTPBuilder {
	b.userID = u.ID()
	b.email = u.Email()
	return b
}

func (b *OTPBuilder) WithCode(code string) *OTPBuilder {
	b.code = code
	return b
}

func (b *OTPBuilder) WithStatus(s otp.Status) *OTPBuilder {
	b.status = s
	return b
}

func (b *OTPBuilder) WithCodeAttempts(n int8) *OTPBuilder {
	b.codeAttempts = n
	return b
}

func (b *OTPBuilder) Expired() *OTPBuilder {
	b.expiresAt = time.Now().UTC().Add(-time.Minute)
	return b
}

func (b *OTPBuilder) ResendAllowed() *OTPBuilder {
	b.resendTimeout = time.Now().UTC().Add(-time.Second)
	return b
}

func (b *OTPBuilder) Build() *otp.OTP {
	return otp.Rehydrate(otp.RehydrateArgs{
		ID:            b.id,
		UserID:        b.userID,
		Email:         b.email,
		Code:          b.code,
		Status:        b.status,
		CodeAttempts:  b.codeAttempts,
		ResendTimeout: b.resendTimeout,
		ExpiresAt:     b.expiresAt,
		CreatedAt:     b.createdAt,
		UpdatedAt:     b.updatedAt,
	})
}
