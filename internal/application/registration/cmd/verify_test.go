package cmd_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/arcadia-gg/accounts-backend/internal/application/registration/cmd"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/otp"
	"gitlab.com/arcadia-gg/accounts-backend/tests/builders"
	"gitlab.com/arcadia-gg/accounts-backend/tests/mocks"
)

type verifyFixture struct {
	userRepo *mocks.UserRepo
	otpRepo  *mocks.OTPRepo
	handler  *cmd.VerifyEmailHandler
}

func newVerifyFixture() *verifyFixture {
	userRepo := mocks.NewUserRepo()
	otpRepo := mocks.NewOTPRepo()

	return &verifyFixture{
		userRepo: userRepo,
		otpRepo:  otpRepo,
		handler: cmd.NewVerifyEmailHandler(cmd.VerifyEmailHandlerArgs{
			UserRepo: userRepo,
			OTPRepo:  otpRepo,
			TxRunner: mocks.NewTxRunner(),
		}),
	}
}

func TestVerifyEmailHandler_Handle(t *testing.T) {
	t.Parallel()

	t.Run("matching code verifies the user", func(t *testing.T) {
		t.Parallel()
		f := newVerifyFixture()

		u := builders.NewUserBuilder().Unverified().Build()
		f.userRepo.SeedUser(t, u)
		o := builders.NewOTPBuilder().ForUser(u).Build()
		f.otpRepo.SeedOTP(t, o)

		err := f.handler.Handle(context.Background(), cmd.VerifyEmail{
			Email: u.Email(),
			Code:  builders.TestOTPCode,
		})
		require.NoError(t, err)

		f.userRepo.AssertUserVerified(t, u.Email())
		f.otpRepo.AssertStatus(t, o.ID(), otp.StatusUsed)
	})

	t.Run("wrong code counts an attempt and keeps otp pending", func(t *testing.T) {
		t.Parallel()
		f := newVerifyFixture()

		u := builders.NewUserBuilder().Unverified().Build()
		f.userRepo.SeedUser(t, u)
		o := builders.NewOTPBuilder().ForUser(u).Build()
		f.otpRepo.SeedOTP(t, o)

		err := f.handler.Handle(context.Background(), cmd.VerifyEmail{
			Email: u.Email(),
			Code:  "000000",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, otp.ErrCodeMismatch)

		// The failed attempt must survive the error.
		got, gerr := f.otpRepo.GetPendingOTPByUserID(context.Background(), u.ID())
		require.NoError(t, gerr)
		otp.NewOTPAssertion(got).
			AssertStatus(t, otp.StatusPending).
			AssertCodeAttempts(t, 1)
	})

	t.Run("attempt limit invalidates the code", func(t *testing.T) {
		t.Parallel()
		f := newVerifyFixture()

		u := builders.NewUserBuilder().Unverified().Build()
		f.userRepo.SeedUser(t, u)
		o := builders.NewOTPBuilder().ForUser(u).WithCodeAttempts(otp.MaxCodeAttempts - 1).Build()
		f.otpRepo.SeedOTP(t, o)

		err := f.handler.Handle(context.Background(), cmd.VerifyEmail{
			Email: u.Email(),
			Code:  "000000",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, otp.ErrTooManyAttempts)
		f.otpRepo.AssertStatus(t, o.ID(), otp.StatusInvalidated)
	})

	t.Run("expired code is rejected", func(t *testing.T) {
		t.Parallel()
		f := newVerifyFixture()

		u := builders.NewUserBuilder().Unverified().Build()
		f.userRepo.SeedUser(t, u)
		o := builders.NewOTPBuilder().ForUser(u).Expired().Build()
		f.otpRepo.SeedOTP(t, o)

		err := f.handler.Handle(context.Background(), cmd.VerifyEmail{
			Email: u.Email(),
			Code:  builders.TestOTPCode,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, otp.ErrCodeExpired)
	})

	t.Run("no pending code reads as expired", func(t *testing.T) {
		t.Parallel()
		f := newVerifyFixture()

		u := builders.NewUserBuilder().Unverified().Build()
		f.userRepo.SeedUser(t, u)

		err := f.handler.Handle(context.Background(), cmd.VerifyEmail{
			Email: u.Email(),
			Code:  builders.TestOTPCode,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, otp.ErrCodeExpired)
	})

	t.Run("already verified user succeeds without touching otp", func(t *testing.T) {
		t.Parallel()
		f := newVerifyFixture()

		u := builders.NewUserBuilder().Build()
		f.userRepo.SeedUser(t, u)

		err := f.handler.Handle(context.Background(), cmd.VerifyEmail{
			Email: u.Email(),
			Code:  builders.TestOTPCode,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, cmd.ErrOKAlreadyVerified)
	})
}
