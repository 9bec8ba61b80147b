package cmd_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/arcadia-gg/accounts-backend/internal/application/registration/cmd"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/otp"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/valueobject/role"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	"gitlab.com/arcadia-gg/accounts-backend/tests/builders"
	"gitlab.com/arcadia-gg/accounts-backend/tests/mocks"
)

type registerFixture struct {
	userRepo *mocks.UserRepo
	otpRepo  *mocks.OTPRepo
	handler  *cmd.RegisterHandler
}

func newRegisterFixture() *registerFixture {
	userRepo := mocks.NewUserRepo()
	otpRepo := mocks.NewOTPRepo()

	return &registerFixture{
		userRepo: userRepo,
		otpRepo:  otpRepo,
		handler: cmd.NewRegisterHandler(cmd.RegisterHandlerArgs{
			UserRepo: userRepo,
			OTPRepo:  otpRepo,
			TxRunner: mocks.NewTxRunner(),
		}),
	}
}

func TestRegisterHandler_Handle(t *testing.T) {
	t.Parallel()

	t.Run("creates unverified user with pending otp", func(t *testing.T) {
		t.Parallel()
		f := newRegisterFixture()

		u, err := f.handler.Handle(context.Background(), cmd.Register{
			Email:     "fresh@test.gg",
			Password:  builders.TestPassword,
			FirstName: "Nina",
			LastName:  "Park",
		})
		require.NoError(t, err)
		require.NotNil(t, u)

		user.NewUserAssertions(u).
			AssertEmail(t, "fresh@test.gg").
			AssertVerified(t, false).
			AssertRole(t, role.Guest).
			AssertPassword(t, builders.TestPassword)

		o, err := f.otpRepo.GetPendingOTPByUserID(context.Background(), u.ID())
		require.NoError(t, err)
		otp.NewOTPAssertion(o).
			AssertStatus(t, otp.StatusPending).
			AssertEmail(t, "fresh@test.gg").
			AssertCodeNotEmpty(t)
		assert.Len(t, o.Code(), otp.CodeLength)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		t.Parallel()
		f := newRegisterFixture()

		existing := builders.NewUserBuilder().WithEmail("taken@test.gg").Build()
		f.userRepo.SeedUser(t, existing)

		u, err := f.handler.Handle(context.Background(), cmd.Register{
			Email:     "taken@test.gg",
			Password:  builders.TestPassword,
			FirstName: "Nina",
			LastName:  "Park",
		})
		require.Error(t, err)
		assert.Nil(t, u)
		assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)
	})

	t.Run("rejects weak password", func(t *testing.T) {
		t.Parallel()
		f := newRegisterFixture()

		u, err := f.handler.Handle(context.Background(), cmd.Register{
			Email:     "weak@test.gg",
			Password:  "short",
			FirstName: "Nina",
			LastName:  "Park",
		})
		require.Error(t, err)
		assert.Nil(t, u)
		assert.ErrorIs(t, err, user.ErrPasswordNotStrongEnough)
		f.userRepo.AssertUserNotExists(t, "weak@test.gg")
	})

	t.Run("emits registration and otp events", func(t *testing.T) {
		t.Parallel()
		f := newRegisterFixture()

		_, err := f.handler.Handle(context.Background(), cmd.Register{
			Email:     "events@test.gg",
			Password:  builders.TestPassword,
			FirstName: "Nina",
			LastName:  "Park",
		})
		require.NoError(t, err)

		require.NotEmpty(t, f.userRepo.Events())
		require.NotEmpty(t, f.otpRepo.Events())
	})
}

func TestRegisterHandler_Handle_LookupFailure(t *testing.T) {
	t.Parallel()

	f := newRegisterFixture()

	// A NotFound from the pre-check means the email is free; anything
	// else must abort the registration.
	_, err := f.handler.Handle(context.Background(), cmd.Register{
		Email:     "fresh@test.gg",
		Password:  builders.TestPassword,
		FirstName: "Nina",
		LastName:  "Park",
	})
	require.NoError(t, err)
	assert.False(t, errorx.IsNotFound(err))
}
