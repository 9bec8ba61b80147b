package cmd

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/otp"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/logging"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/otelx"
)

var ErrOKAlreadyVerified = errorx.NewAlreadyProcessed().WithHTTPCode(http.StatusOK)

type VerifyEmail struct {
	Email string
	Code  string
}

type VerifyEmailHandler struct {
	tracer   trace.Tracer
	logger   *slog.Logger
	userRepo UserRepo
	otpRepo  OTPRepo
	txrunner TxRunner
}

type VerifyEmailHandlerArgs struct {
	Tracer   trace.Tracer
	Logger   *slog.Logger
	UserRepo UserRepo
	OTPRepo  OTPRepo
	TxRunner TxRunner
}

func NewVerifyEmailHandler(args VerifyEmailHandlerArgs) *VerifyEmailHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &VerifyEmailHandler{
		tracer:   args.Tracer,
		logger:   args.Logger,
		userRepo: args.UserRepo,
		otpRepo:  args.OTPRepo,
		txrunner: args.TxRunner,
	}
}

// Handle consumes the code and flips the user verified in one
// transaction. The row lock inside UpdateOTP makes concurrent
// verifications of the same code a one-winner race.
func (h *VerifyEmailHandler) Handle(ctx context.Context, cmd VerifyEmail) error {
	const op = "cmd.VerifyEmailHandler.Handle"
	ctx, span := h.tracer.Start(ctx, "VerifyEmailHandler.Handle",
		trace.WithAttributes(attribute.String("user.email", logging.RedactEmail(cmd.Email))),
	)
	defer span.End()

	u, err := h.userRepo.GetUserByEmail(ctx, cmd.Email)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get user by email")
		return errorx.Wrap(err, op)
	}
	if u.IsVerified() {
		span.AddEvent("user already verified")
		return errorx.Wrap(ErrOKAlreadyVerified, op)
	}

	o, err := h.otpRepo.GetPendingOTPByUserID(ctx, u.ID())
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get pending otp")
		if errorx.IsNotFound(err) {
			return errorx.Wrap(otp.ErrCodeExpired, op)
		}
		return errorx.Wrap(err, op)
	}

	err = h.txrunner.RunInTx(ctx, func(ctx context.Context) error {
		err := h.otpRepo.UpdateOTP(ctx, o.ID(), func(ctx context.Context, o *otp.OTP) error {
			return o.Verify(cmd.Code)
		})
		if err != nil {
			return err
		}

		return h.userRepo.UpdateUser(ctx, u.ID(), func(ctx context.Context, u *user.User) error {
			return u.VerifyEmail()
		})
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to verify email")
		return errorx.Wrap(err, op)
	}

	span.AddEvent("email verified")
	h.logger.InfoContext(ctx, "email verified", slog.String("user.id", u.ID().String()))

	return nil
}
