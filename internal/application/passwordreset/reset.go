package resetapp

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/passwordreset"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/logging"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/otelx"
)

var (
	tracer = otel.Tracer("accounts/internal/application/passwordreset")
	logger = otelslog.NewLogger("accounts/internal/application/passwordreset")
)

type UserRepo interface {
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	UpdateUser(ctx context.Context, id user.ID, fn func(context.Context, *user.User) error) error
}

type TokenRepo interface {
	SaveToken(ctx context.Context, t *passwordreset.Token) error
	GetTokenByHash(ctx context.Context, hash string) (*passwordreset.Token, error)
	UpdateToken(ctx context.Context, id passwordreset.ID, fn func(context.Context, *passwordreset.Token) error) error
	InvalidatePendingByUserID(ctx context.Context, userID user.ID) error
}

type SessionRevoker interface {
	RevokeAllByUserID(ctx context.Context, userID user.ID) error
}

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type App struct {
	tracer   trace.Tracer
	logger   *slog.Logger
	users    UserRepo
	tokens   TokenRepo
	sessions SessionRevoker
	txrunner TxRunner
}

type Args struct {
	Tracer         trace.Tracer
	Logger         *slog.Logger
	UserRepo       UserRepo
	TokenRepo      TokenRepo
	SessionRevoker SessionRevoker
	TxRunner       TxRunner
}

func NewApp(args Args) *App {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &App{
		tracer:   args.Tracer,
		logger:   args.Logger,
		users:    args.UserRepo,
		tokens:   args.TokenRepo,
		sessions: args.SessionRevoker,
		txrunner: args.TxRunner,
	}
}

type Request struct {
	Email string
}

// RequestHandle starts a password reset. Unknown emails succeed
// silently so responses never leak which accounts exist; for known
// accounts any prior pending token is invalidated and a single fresh
// one is persisted, its event carrying the plaintext for the mail.
func (a *App) RequestHandle(ctx context.Context, cmd Request) error {
	const op = "resetapp.App.RequestHandle"
	ctx, span := a.tracer.Start(ctx, "App.RequestHandle",
		trace.WithAttributes(attribute.String("user.email", logging.RedactEmail(cmd.Email))),
	)
	defer span.End()

	u, err := a.users.GetUserByEmail(ctx, cmd.Email)
	if err != nil {
		if errorx.IsNotFound(err) {
			span.AddEvent("unknown email, uniform success")
			return nil
		}
		otelx.RecordSpanError(span, err, "failed to get user by email")
		return errorx.Wrap(err, op)
	}

	err = a.txrunner.RunInTx(ctx, func(ctx context.Context) error {
		if err := a.tokens.InvalidatePendingByUserID(ctx, u.ID()); err != nil {
			return errorx.Wrap(err, op)
		}

		tok, _, err := passwordreset.NewToken(u.ID(), u.Email())
		if err != nil {
			return errorx.Wrap(err, op)
		}

		return a.tokens.SaveToken(ctx, tok)
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to persist reset token")
		return err
	}

	span.AddEvent("reset token issued")
	a.logger.InfoContext(ctx, "password reset requested", slog.String("user.id", u.ID().String()))

	return nil
}

type Reset struct {
	Token       string
	NewPassword string
}

// ResetHandle consumes the token, re-hashes the password, and revokes
// every refresh session of the user in one transaction. A lost race on
// the row lock surfaces as AlreadyUsed.
func (a *App) ResetHandle(ctx context.Context, cmd Reset) error {
	const op = "resetapp.App.ResetHandle"
	ctx, span := a.tracer.Start(ctx, "App.ResetHandle")
	defer span.End()

	tok, err := a.tokens.GetTokenByHash(ctx, passwordreset.HashToken(cmd.Token))
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get reset token")
		if errorx.IsNotFound(err) {
			return errorx.Wrap(passwordreset.ErrTokenInvalid, op)
		}
		return errorx.Wrap(err, op)
	}
	span.SetAttributes(attribute.String("reset_token.id", tok.ID().String()))

	err = a.txrunner.RunInTx(ctx, func(ctx context.Context) error {
		err := a.tokens.UpdateToken(ctx, tok.ID(), func(ctx context.Context, t *passwordreset.Token) error {
			return t.Consume(cmd.Token)
		})
		if err != nil {
			return err
		}

		err = a.users.UpdateUser(ctx, tok.UserID(), func(ctx context.Context, u *user.User) error {
			return u.ResetPassword(cmd.NewPassword)
		})
		if err != nil {
			return err
		}

		return a.sessions.RevokeAllByUserID(ctx, tok.UserID())
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to reset password")
		return errorx.Wrap(err, op)
	}

	span.AddEvent("password reset, sessions revoked")
	a.logger.InfoContext(ctx, "password reset completed", slog.String("user.id", tok.UserID().String()))

	return nil
}
