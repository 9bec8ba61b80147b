package accountapp_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountapp "gitlab.com/arcadia-gg/accounts-backend/internal/application/account"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	"gitlab.com/arcadia-gg/accounts-backend/tests/builders"
	"gitlab.com/arcadia-gg/accounts-backend/tests/mocks"
)

type accountFixture struct {
	userRepo    *mocks.UserRepo
	sessionRepo *mocks.SessionRepo
	storage     *mocks.FileStorage
	app         *accountapp.App
}

func newAccountFixture() *accountFixture {
	userRepo := mocks.NewUserRepo()
	sessionRepo := mocks.NewSessionRepo()
	storage := mocks.NewFileStorage()

	return &accountFixture{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		storage:     storage,
		app: accountapp.NewApp(accountapp.Args{
			UserRepo:       userRepo,
			SessionRevoker: sessionRepo,
			FileStorage:    storage,
			TxRunner:       mocks.NewTxRunner(),
		}),
	}
}

func strptr(s string) *string { return &s }

func TestApp_GetProfile(t *testing.T) {
	t.Parallel()
	f := newAccountFixture()

	u := builders.NewUserBuilder().WithCountry("KZ").Build()
	f.userRepo.SeedUser(t, u)

	got, err := f.app.GetProfile(context.Background(), u.ID())
	require.NoError(t, err)
	assert.Equal(t, u.Email(), got.Email())
	assert.Equal(t, "KZ", got.Country())

	_, err = f.app.GetProfile(context.Background(), user.NewID())
	require.Error(t, err)
	assert.True(t, errorx.IsNotFound(err))
}

func TestApp_UpdateProfileHandle(t *testing.T) {
	t.Parallel()

	t.Run("partial update touches only the sent fields", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture()

		u := builders.NewUserBuilder().WithCountry("KZ").Build()
		f.userRepo.SeedUser(t, u)

		updated, err := f.app.UpdateProfileHandle(context.Background(), accountapp.UpdateProfile{
			UserID:    u.ID(),
			FirstName: strptr("Aruzhan"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Aruzhan", updated.FirstName())
		assert.Equal(t, builders.TestLastName, updated.LastName())
		assert.Equal(t, "KZ", updated.Country())
	})

	t.Run("full update replaces everything", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture()

		u := builders.NewUserBuilder().Build()
		f.userRepo.SeedUser(t, u)

		updated, err := f.app.UpdateProfileHandle(context.Background(), accountapp.UpdateProfile{
			UserID:      u.ID(),
			FirstName:   strptr("Aruzhan"),
			LastName:    strptr("Beketova"),
			Country:     strptr("DE"),
			PhoneNumber: strptr("+77011234567"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Aruzhan", updated.FirstName())
		assert.Equal(t, "Beketova", updated.LastName())
		assert.Equal(t, "DE", updated.Country())
		assert.Equal(t, "+77011234567", updated.PhoneNumber())
	})

	t.Run("invalid field rejects the update", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture()

		u := builders.NewUserBuilder().Build()
		f.userRepo.SeedUser(t, u)

		_, err := f.app.UpdateProfileHandle(context.Background(), accountapp.UpdateProfile{
			UserID:  u.ID(),
			Country: strptr("Kazakhstan"),
		})
		require.Error(t, err)

		got, gerr := f.userRepo.GetUserByID(context.Background(), u.ID())
		require.NoError(t, gerr)
		assert.Empty(t, got.Country())
	})
}

func TestApp_ChangePasswordHandle(t *testing.T) {
	t.Parallel()

	const newPassword = "N3w$trongPass"

	t.Run("changes the password and revokes sessions", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture()

		u := builders.NewUserBuilder().Build()
		f.userRepo.SeedUser(t, u)
		f.sessionRepo.SeedSession(t, builders.NewSessionBuilder().ForUser(u).Build())

		err := f.app.ChangePasswordHandle(context.Background(), accountapp.ChangePassword{
			UserID:          u.ID(),
			CurrentPassword: builders.TestPassword,
			NewPassword:     newPassword,
		})
		require.NoError(t, err)

		f.sessionRepo.AssertAllRevoked(t, u.ID())

		got, gerr := f.userRepo.GetUserByID(context.Background(), u.ID())
		require.NoError(t, gerr)
		assert.NoError(t, got.ComparePassword(newPassword))
	})

	t.Run("wrong current password", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture()

		u := builders.NewUserBuilder().Build()
		f.userRepo.SeedUser(t, u)
		f.sessionRepo.SeedSession(t, builders.NewSessionBuilder().ForUser(u).Build())

		err := f.app.ChangePasswordHandle(context.Background(), accountapp.ChangePassword{
			UserID:          u.ID(),
			CurrentPassword: "Wr0ng#Password",
			NewPassword:     newPassword,
		})
		require.Error(t, err)
		assert.True(t, errorx.IsCode(err, errorx.CodeInvalidCredentials))

		assert.Equal(t, 1, f.sessionRepo.ActiveCountByUserID(u.ID()))
		got, gerr := f.userRepo.GetUserByID(context.Background(), u.ID())
		require.NoError(t, gerr)
		assert.NoError(t, got.ComparePassword(builders.TestPassword))
	})

	t.Run("weak new password", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture()

		u := builders.NewUserBuilder().Build()
		f.userRepo.SeedUser(t, u)

		err := f.app.ChangePasswordHandle(context.Background(), accountapp.ChangePassword{
			UserID:          u.ID(),
			CurrentPassword: builders.TestPassword,
			NewPassword:     "weak",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, user.ErrPasswordNotStrongEnough)
	})
}

func TestApp_UploadKYCDocumentHandle(t *testing.T) {
	t.Parallel()

	t.Run("stores the document under a per-user key", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture()

		u := builders.NewUserBuilder().Build()
		f.userRepo.SeedUser(t, u)

		err := f.app.UploadKYCDocumentHandle(context.Background(), accountapp.UploadKYCDocument{
			UserID:      u.ID(),
			FileName:    "passport.png",
			ContentType: "image/png",
			File:        strings.NewReader("fake-png-bytes"),
		})
		require.NoError(t, err)

		stored := f.storage.AssertUploadedUnder(t, "kyc/"+u.ID().String()+"/")
		assert.Equal(t, "image/png", stored.ContentType)
		assert.True(t, strings.HasSuffix(stored.Key, ".png"))

		got, gerr := f.userRepo.GetUserByID(context.Background(), u.ID())
		require.NoError(t, gerr)
		assert.Equal(t, stored.Key, got.KYCDocument())
	})

	t.Run("a fresh upload replaces the recorded key", func(t *testing.T) {
		t.Parallel()
		f := newAccountFixture()

		u := builders.NewUserBuilder().WithKYCDocument("kyc/old-key.pdf").Build()
		f.userRepo.SeedUser(t, u)

		err := f.app.UploadKYCDocumentHandle(context.Background(), accountapp.UploadKYCDocument{
			UserID:      u.ID(),
			FileName:    "passport.pdf",
			ContentType: "application/pdf",
			File:        strings.NewReader("%PDF-1.7"),
		})
		require.NoError(t, err)

		got, gerr := f.userRepo.GetUserByID(context.Background(), u.ID())
		require.NoError(t, gerr)
		assert.NotEqual(t, "kyc/old-key.pdf", got.KYCDocument())
		assert.Equal(t, 1, f.storage.Count())
	})
}
