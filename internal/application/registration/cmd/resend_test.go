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

type resendFixture struct {
	userRepo *mocks.UserRepo
	otpRepo  *mocks.OTPRepo
	handler  *cmd.ResendCodeHandler
}

func newResendFixture() *resendFixture {
	userRepo := mocks.NewUserRepo()
	otpRepo := mocks.NewOTPRepo()

	return &resendFixture{
		userRepo: userRepo,
		otpRepo:  otpRepo,
		handler: cmd.NewResendCodeHandler(cmd.ResendCodeHandlerArgs{
			UserRepo: userRepo,
			OTPRepo:  otpRepo,
			TxRunner: mocks.NewTxRunner(),
		}),
	}
}

func TestResendCodeHandler_Handle(t *testing.T) {
	t.Parallel()

	t.Run("replaces code once the throttle elapsed", func(t *testing.T) {
		t.Parallel()
		f := newResendFixture()

		u := builders.NewUserBuilder().Unverified().Build()
		f.userRepo.SeedUser(t, u)
		o := builders.NewOTPBuilder().ForUser(u).ResendAllowed().Build()
		f.otpRepo.SeedOTP(t, o)

		err := f.handler.Handle(context.Background(), cmd.ResendCode{Email: u.Email()})
		require.NoError(t, err)

		got, gerr := f.otpRepo.GetPendingOTPByUserID(context.Background(), u.ID())
		require.NoError(t, gerr)
		otp.NewOTPAssertion(got).
			AssertStatus(t, otp.StatusPending).
			AssertCodeIsNot(t, builders.TestOTPCode).
			AssertCodeAttempts(t, 0)
	})

	t.Run("throttles resends inside the window", func(t *testing.T) {
		t.Parallel()
		f := newResendFixture()

		u := builders.NewUserBuilder().Unverified().Build()
		f.userRepo.SeedUser(t, u)
		o := builders.NewOTPBuilder().ForUser(u).Build()
		f.otpRepo.SeedOTP(t, o)

		err := f.handler.Handle(context.Background(), cmd.ResendCode{Email: u.Email()})
		require.Error(t, err)
		assert.ErrorIs(t, err, otp.ErrWaitUntilResend)

		// Old code stays valid.
		f.otpRepo.AssertStatus(t, o.ID(), otp.StatusPending)
	})

	t.Run("issues fresh code when none is pending", func(t *testing.T) {
		t.Parallel()
		f := newResendFixture()

		u := builders.NewUserBuilder().Unverified().Build()
		f.userRepo.SeedUser(t, u)

		err := f.handler.Handle(context.Background(), cmd.ResendCode{Email: u.Email()})
		require.NoError(t, err)

		got, gerr := f.otpRepo.GetPendingOTPByUserID(context.Background(), u.ID())
		require.NoError(t, gerr)
		otp.NewOTPAssertion(got).
			AssertStatus(t, otp.StatusPending).
			AssertCodeNotEmpty(t)
	})

	t.Run("verified user short-circuits", func(t *testing.T) {
		t.Parallel()
		f := newResendFixture()

		u := builders.NewUserBuilder().Build()
		f.userRepo.SeedUser(t, u)

		err := f.handler.Handle(context.Background(), cmd.ResendCode{Email: u.Email()})
		require.Error(t, err)
		assert.ErrorIs(t, err, cmd.ErrOKAlreadyVerified)
	})
}
