package cmd

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/otp"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/logging"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/otelx"
)

var (
	tracer = otel.Tracer("accounts/application/registration/cmd")
	logger = otelslog.NewLogger("accounts/application/registration/cmd")
)

type Register struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type RegisterHandler struct {
	tracer   trace.Tracer
	logger   *slog.Logger
	userRepo UserRepo
	otpRepo  OTPRepo
	txrunner TxRunner
}

type RegisterHandlerArgs struct {
	Tracer   trace.Tracer
	Logger   *slog.Logger
	UserRepo UserRepo
	OTPRepo  OTPRepo
	TxRunner TxRunner
}

func NewRegisterHandler(args RegisterHandlerArgs) *RegisterHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &RegisterHandler{
		tracer:   args.Tracer,
		logger:   args.Logger,
		userRepo: args.UserRepo,
		otpRepo:  args.OTPRepo,
		txrunner: args.TxRunner,
	}
}

// Handle creates the unverified user and its first OTP in one
// transaction. The OTPIssued event rides the same commit, so the
// verification mail can never outrun the user row.
func (h *RegisterHandler) Handle(ctx context.Context, cmd Register) (*user.User, error) {
	const op = "cmd.RegisterHandler.Handle"
	ctx, span := h.tracer.Start(ctx, "RegisterHandler.Handle",
		trace.WithAttributes(attribute.String("user.email", logging.RedactEmail(cmd.Email))),
	)
	defer span.End()

	existing, err := h.userRepo.GetUserByEmail(ctx, cmd.Email)
	if err != nil && !errorx.IsNotFound(err) {
		otelx.RecordSpanError(span, err, "failed to get user by email")
		return nil, errorx.Wrap(err, op)
	}
	if existing != nil {
		otelx.RecordSpanError(span, user.ErrEmailAlreadyExists, "user already exists with this email")
		return nil, errorx.Wrap(user.ErrEmailAlreadyExists, op)
	}

	u, err := user.NewUser(user.NewUserArgs{
		Email:     cmd.Email,
		Password:  cmd.Password,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to create user")
		return nil, errorx.Wrap(err, op)
	}

	err = h.txrunner.RunInTx(ctx, func(ctx context.Context) error {
		if err := h.userRepo.SaveUser(ctx, u); err != nil {
			return errorx.Wrap(err, op)
		}

		o, err := otp.NewOTP(u.ID(), u.Email())
		if err != nil {
			return errorx.Wrap(err, op)
		}

		return h.otpRepo.SaveOTP(ctx, o)
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to save user with otp")
		return nil, err
	}

	span.AddEvent("user registered, verification code issued")
	h.logger.InfoContext(ctx, "user registered", slog.String("user.id", u.ID().String()))

	return u, nil
}
