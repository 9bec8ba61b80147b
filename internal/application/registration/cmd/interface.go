package cmd

import (
	"context"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/otp"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
)

type UserRepo interface {
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	SaveUser(ctx context.Context, u *user.User) error
	UpdateUser(ctx context.Context, id user.ID, fn func(context.Context, *user.User) error) error
}

type OTPRepo interface {
	SaveOTP(ctx context.Context, o *otp.OTP) error
	GetPendingOTPByUserID(ctx context.Context, userID user.ID) (*otp.OTP, error)
	UpdateOTP(ctx context.Context, id otp.ID, fn func(context.Context, *otp.OTP) error) error
	InvalidatePendingByUserID(ctx context.Context, userID user.ID) error
}

// TxRunner spans several repository calls with one transaction, so a
// user row and its OTP commit or roll back together.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
