package postgres_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	accountsbackend "gitlab.com/arcadia-gg/accounts-backend"
	"gitlab.com/arcadia-gg/accounts-backend/internal/adapters/repos/postgres"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/otp"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/passwordreset"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/session"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	pgpkg "gitlab.com/arcadia-gg/accounts-backend/pkg/postgres"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/watermillx"
	"gitlab.com/arcadia-gg/accounts-backend/tests/builders"
)

type RepoSuite struct {
	suite.Suite
	pgContainer *tcpostgres.PostgresContainer
	pool        *pgxpool.Pool

	users    *postgres.UserRepo
	otps     *postgres.OTPRepo
	tokens   *postgres.ResetTokenRepo
	sessions *postgres.SessionRepo
	txrunner *pgpkg.TxRunner
}

func TestRepoSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping repository integration suite in short mode")
	}
	suite.Run(t, new(RepoSuite))
}

func (s *RepoSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:17-alpine"),
		tcpostgres.WithDatabase("accounts_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	s.Require().NoError(err)
	s.pgContainer = pgContainer

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.pool, err = pgxpool.New(ctx, connStr)
	s.Require().NoError(err)

	migrateDSN := strings.Replace(connStr, "postgres://", "pgx://", 1)
	s.Require().NoError(pgpkg.Migrate(migrateDSN, &accountsbackend.Migrations))

	wlogger := watermill.NewStdLogger(false, false)
	s.Require().NoError(watermillx.InitializeEventSchema(ctx, s.pool, wlogger))

	s.users = postgres.NewUserRepo(s.pool, nil, nil)
	s.otps = postgres.NewOTPRepo(s.pool, nil, nil)
	s.tokens = postgres.NewResetTokenRepo(s.pool, nil, nil)
	s.sessions = postgres.NewSessionRepo(s.pool, nil, nil)
	s.txrunner = pgpkg.NewTxRunner(s.pool)
}

func (s *RepoSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.pgContainer != nil {
		s.Require().NoError(s.pgContainer.Terminate(context.Background()))
	}
}

func (s *RepoSuite) AfterTest(_, _ string) {
	_, err := s.pool.Exec(context.Background(), "TRUNCATE TABLE users RESTART IDENTITY CASCADE")
	s.Require().NoError(err)
}

func (s *RepoSuite) seedUser() *user.User {
	u := builders.NewUserBuilder().Build()
	s.Require().NoError(s.users.SaveUser(context.Background(), u))
	return u
}

func (s *RepoSuite) TestUserLifecycle() {
	ctx := context.Background()
	u := s.seedUser()

	byEmail, err := s.users.GetUserByEmail(ctx, u.Email())
	s.Require().NoError(err)
	s.Equal(u.ID(), byEmail.ID())
	s.Equal(u.Email(), byEmail.Email())
	s.Equal(u.Role(), byEmail.Role())
	s.True(byEmail.IsVerified())
	s.NoError(byEmail.ComparePassword(builders.TestPassword))

	byID, err := s.users.GetUserByID(ctx, u.ID())
	s.Require().NoError(err)
	s.Equal(u.Email(), byID.Email())

	taken, err := s.users.IsEmailTaken(ctx, u.Email())
	s.Require().NoError(err)
	s.True(taken)

	_, err = s.users.GetUserByEmail(ctx, "nobody@test.gg")
	s.Require().Error(err)
	s.True(errorx.IsNotFound(err))
}

func (s *RepoSuite) TestSaveUser_DuplicateEmail() {
	ctx := context.Background()
	u := s.seedUser()

	dup := builders.NewUserBuilder().WithEmail(u.Email()).Build()
	err := s.users.SaveUser(ctx, dup)
	s.Require().Error(err)
	s.ErrorIs(err, user.ErrEmailAlreadyExists)
}

func (s *RepoSuite) TestUpdateUser_PersistsChanges() {
	ctx := context.Background()
	u := s.seedUser()

	err := s.users.UpdateUser(ctx, u.ID(), func(ctx context.Context, u *user.User) error {
		if err := u.SetCountry("KZ"); err != nil {
			return err
		}
		return u.SetPhoneNumber("+77011234567")
	})
	s.Require().NoError(err)

	got, err := s.users.GetUserByID(ctx, u.ID())
	s.Require().NoError(err)
	s.Equal("KZ", got.Country())
	s.Equal("+77011234567", got.PhoneNumber())
}

func (s *RepoSuite) TestOTP_AttemptCounterSurvivesMismatch() {
	ctx := context.Background()
	u := s.seedUser()

	o := builders.NewOTPBuilder().ForUser(u).Build()
	s.Require().NoError(s.otps.SaveOTP(ctx, o))

	err := s.otps.UpdateOTP(ctx, o.ID(), func(ctx context.Context, o *otp.OTP) error {
		return o.Verify("000000")
	})
	s.Require().Error(err)
	s.ErrorIs(err, otp.ErrCodeMismatch)

	// The failed attempt must be committed despite the error.
	got, err := s.otps.GetOTPByID(ctx, o.ID())
	s.Require().NoError(err)
	s.Equal(int8(1), got.CodeAttempts())
	s.Equal(otp.StatusPending, got.Status())
}

func (s *RepoSuite) TestOTP_PendingLookupAndInvalidate() {
	ctx := context.Background()
	u := s.seedUser()

	o := builders.NewOTPBuilder().ForUser(u).Build()
	s.Require().NoError(s.otps.SaveOTP(ctx, o))

	pending, err := s.otps.GetPendingOTPByUserID(ctx, u.ID())
	s.Require().NoError(err)
	s.Equal(o.ID(), pending.ID())

	s.Require().NoError(s.otps.InvalidatePendingByUserID(ctx, u.ID()))

	_, err = s.otps.GetPendingOTPByUserID(ctx, u.ID())
	s.Require().Error(err)
	s.True(errorx.IsNotFound(err))
}

func (s *RepoSuite) TestResetToken_Lifecycle() {
	ctx := context.Background()
	u := s.seedUser()

	b := builders.NewResetTokenBuilder().ForUser(u)
	tok := b.Build()
	s.Require().NoError(s.tokens.SaveToken(ctx, tok))

	got, err := s.tokens.GetTokenByHash(ctx, passwordreset.HashToken(b.Plain()))
	s.Require().NoError(err)
	s.Equal(tok.ID(), got.ID())
	s.Equal(passwordreset.StatusPending, got.Status())

	err = s.tokens.UpdateToken(ctx, tok.ID(), func(ctx context.Context, t *passwordreset.Token) error {
		return t.Consume(b.Plain())
	})
	s.Require().NoError(err)

	got, err = s.tokens.GetTokenByHash(ctx, passwordreset.HashToken(b.Plain()))
	s.Require().NoError(err)
	s.Equal(passwordreset.StatusUsed, got.Status())
	s.False(got.UsedAt().IsZero())
}

func (s *RepoSuite) TestResetToken_InvalidatePending() {
	ctx := context.Background()
	u := s.seedUser()

	b := builders.NewResetTokenBuilder().ForUser(u)
	s.Require().NoError(s.tokens.SaveToken(ctx, b.Build()))

	s.Require().NoError(s.tokens.InvalidatePendingByUserID(ctx, u.ID()))

	got, err := s.tokens.GetTokenByHash(ctx, passwordreset.HashToken(b.Plain()))
	s.Require().NoError(err)
	s.Equal(passwordreset.StatusInvalidated, got.Status())
}

func (s *RepoSuite) TestSession_Lifecycle() {
	ctx := context.Background()
	u := s.seedUser()

	sess := builders.NewSessionBuilder().ForUser(u).Build()
	s.Require().NoError(s.sessions.SaveSession(ctx, sess))

	got, err := s.sessions.GetSessionByID(ctx, sess.ID())
	s.Require().NoError(err)
	s.Equal(u.ID(), got.UserID())
	s.False(got.IsRevoked())

	err = s.sessions.UpdateSession(ctx, sess.ID(), func(ctx context.Context, s *session.Session) error {
		s.Revoke()
		return nil
	})
	s.Require().NoError(err)

	got, err = s.sessions.GetSessionByID(ctx, sess.ID())
	s.Require().NoError(err)
	s.True(got.IsRevoked())

	_, err = s.sessions.GetSessionByID(ctx, session.NewID())
	s.Require().Error(err)
	s.ErrorIs(err, session.ErrNotFound)
}

func (s *RepoSuite) TestSession_RevokeAllAndDeleteExpired() {
	ctx := context.Background()
	u := s.seedUser()

	first := builders.NewSessionBuilder().ForUser(u).Build()
	second := builders.NewSessionBuilder().ForUser(u).Build()
	expired := builders.NewSessionBuilder().ForUser(u).Expired().Build()
	for _, sess := range []*session.Session{first, second, expired} {
		s.Require().NoError(s.sessions.SaveSession(ctx, sess))
	}

	s.Require().NoError(s.sessions.RevokeAllByUserID(ctx, u.ID()))

	for _, id := range []session.ID{first.ID(), second.ID()} {
		got, err := s.sessions.GetSessionByID(ctx, id)
		s.Require().NoError(err)
		s.True(got.IsRevoked())
	}

	deleted, err := s.sessions.DeleteExpired(ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), deleted)
}

func (s *RepoSuite) TestTxRunner_RollsBackOnError() {
	ctx := context.Background()

	u := builders.NewUserBuilder().Build()
	err := s.txrunner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.users.SaveUser(ctx, u); err != nil {
			return err
		}
		return errorx.NewInternalError()
	})
	s.Require().Error(err)

	_, err = s.users.GetUserByEmail(ctx, u.Email())
	s.Require().Error(err)
	s.True(errorx.IsNotFound(err))
}
