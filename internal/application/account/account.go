package accountapp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/otelx"
)

var (
	tracer = otel.Tracer("accounts/internal/application/account")
	logger = otelslog.NewLogger("accounts/internal/application/account")
)

type UserRepo interface {
	GetUserByID(ctx context.Context, id user.ID) (*user.User, error)
	UpdateUser(ctx context.Context, id user.ID, fn func(context.Context, *user.User) error) error
}

type SessionRevoker interface {
	RevokeAllByUserID(ctx context.Context, userID user.ID) error
}

type FileStorage interface {
	UploadFile(ctx context.Context, key string, file io.Reader, contentType string) error
}

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type App struct {
	tracer   trace.Tracer
	logger   *slog.Logger
	users    UserRepo
	sessions SessionRevoker
	storage  FileStorage
	txrunner TxRunner
}

type Args struct {
	Tracer         trace.Tracer
	Logger         *slog.Logger
	UserRepo       UserRepo
	SessionRevoker SessionRevoker
	FileStorage    FileStorage
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
		sessions: args.SessionRevoker,
		storage:  args.FileStorage,
		txrunner: args.TxRunner,
	}
}

func (a *App) GetProfile(ctx context.Context, id user.ID) (*user.User, error) {
	const op = "accountapp.App.GetProfile"
	ctx, span := a.tracer.Start(ctx, "App.GetProfile",
		trace.WithAttributes(attribute.String("user.id", id.String())),
	)
	defer span.End()

	u, err := a.users.GetUserByID(ctx, id)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get user by id")
		return nil, errorx.Wrap(err, op)
	}

	return u, nil
}

// UpdateProfile applies the non-nil fields, so PATCH requests send only
// what changed and PUT requests send everything.
type UpdateProfile struct {
	UserID      user.ID
	FirstName   *string
	LastName    *string
	Country     *string
	PhoneNumber *string
}

func (a *App) UpdateProfileHandle(ctx context.Context, cmd UpdateProfile) (*user.User, error) {
	const op = "accountapp.App.UpdateProfileHandle"
	ctx, span := a.tracer.Start(ctx, "App.UpdateProfileHandle",
		trace.WithAttributes(attribute.String("user.id", cmd.UserID.String())),
	)
	defer span.End()

	var updated *user.User
	err := a.users.UpdateUser(ctx, cmd.UserID, func(ctx context.Context, u *user.User) error {
		if cmd.FirstName != nil {
			if err := u.SetFirstName(*cmd.FirstName); err != nil {
				return err
			}
		}
		if cmd.LastName != nil {
			if err := u.SetLastName(*cmd.LastName); err != nil {
				return err
			}
		}
		if cmd.Country != nil {
			if err := u.SetCountry(*cmd.Country); err != nil {
				return err
			}
		}
		if cmd.PhoneNumber != nil {
			if err := u.SetPhoneNumber(*cmd.PhoneNumber); err != nil {
				return err
			}
		}

		updated = u
		return nil
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to update profile")
		return nil, errorx.Wrap(err, op)
	}

	span.AddEvent("profile updated")

	return updated, nil
}

type ChangePassword struct {
	UserID          user.ID
	CurrentPassword string
	NewPassword     string
}

// ChangePasswordHandle re-hashes the password after checking the
// current one, then revokes every refresh session in the same
// transaction. The caller logs in again with the new password.
func (a *App) ChangePasswordHandle(ctx context.Context, cmd ChangePassword) error {
	const op = "accountapp.App.ChangePasswordHandle"
	ctx, span := a.tracer.Start(ctx, "App.ChangePasswordHandle",
		trace.WithAttributes(attribute.String("user.id", cmd.UserID.String())),
	)
	defer span.End()

	err := a.txrunner.RunInTx(ctx, func(ctx context.Context) error {
		err := a.users.UpdateUser(ctx, cmd.UserID, func(ctx context.Context, u *user.User) error {
			return u.ChangePassword(cmd.CurrentPassword, cmd.NewPassword)
		})
		if err != nil {
			return err
		}

		return a.sessions.RevokeAllByUserID(ctx, cmd.UserID)
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to change password")
		return errorx.Wrap(err, op)
	}

	span.AddEvent("password changed, sessions revoked")
	a.logger.InfoContext(ctx, "password changed", slog.String("user.id", cmd.UserID.String()))

	return nil
}

type UploadKYCDocument struct {
	UserID      user.ID
	FileName    string
	ContentType string
	File        io.Reader
}

// UploadKYCDocumentHandle stores the document under a per-user key and
// records the key on the user. The object key never leaves the backend.
func (a *App) UploadKYCDocumentHandle(ctx context.Context, cmd UploadKYCDocument) error {
	const op = "accountapp.App.UploadKYCDocumentHandle"
	ctx, span := a.tracer.Start(ctx, "App.UploadKYCDocumentHandle",
		trace.WithAttributes(
			attribute.String("user.id", cmd.UserID.String()),
			attribute.String("document.content_type", cmd.ContentType),
		),
	)
	defer span.End()

	key := fmt.Sprintf("kyc/%s/%s%s", cmd.UserID.String(), uuid.NewString(), path.Ext(cmd.FileName))

	if err := a.storage.UploadFile(ctx, key, cmd.File, cmd.ContentType); err != nil {
		otelx.RecordSpanError(span, err, "failed to upload kyc document")
		return errorx.Wrap(err, op)
	}

	err := a.users.UpdateUser(ctx, cmd.UserID, func(ctx context.Context, u *user.User) error {
		return u.SetKYCDocument(key)
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to record kyc document")
		return errorx.Wrap(err, op)
	}

	span.AddEvent("kyc document uploaded")
	a.logger.InfoContext(ctx, "kyc document uploaded", slog.String("user.id", cmd.UserID.String()))

	return nil
}
