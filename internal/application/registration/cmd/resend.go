package cmd

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/otp"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/logging"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/otelx"
)

type ResendCode struct {
	Email string
}

type ResendCodeHandler struct {
	tracer   trace.Tracer
	logger   *slog.Logger
	userRepo UserRepo
	otpRepo  OTPRepo
	txrunner TxRunner
}

type ResendCodeHandlerArgs struct {
	Tracer   trace.Tracer
	Logger   *slog.Logger
	UserRepo UserRepo
	OTPRepo  OTPRepo
	TxRunner TxRunner
}

func NewResendCodeHandler(args ResendCodeHandlerArgs) *ResendCodeHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &ResendCodeHandler{
		tracer:   args.Tracer,
		logger:   args.Logger,
		userRepo: args.UserRepo,
		otpRepo:  args.OTPRepo,
		txrunner: args.TxRunner,
	}
}

// Handle re-issues the pending code, honoring the resend throttle. A
// user whose code aged out entirely gets a fresh one; prior pending
// codes are invalidated so at most one stays active.
func (h *ResendCodeHandler) Handle(ctx context.Context, cmd ResendCode) error {
	const op = "cmd.ResendCodeHandler.Handle"
	ctx, span := h.tracer.Start(ctx, "ResendCodeHandler.Handle",
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
	if err != nil && !errorx.IsNotFound(err) {
		otelx.RecordSpanError(span, err, "failed to get pending otp")
		return errorx.Wrap(err, op)
	}

	if o == nil {
		err = h.txrunner.RunInTx(ctx, func(ctx context.Context) error {
			if err := h.otpRepo.InvalidatePendingByUserID(ctx, u.ID()); err != nil {
				return errorx.Wrap(err, op)
			}

			fresh, err := otp.NewOTP(u.ID(), u.Email())
			if err != nil {
				return errorx.Wrap(err, op)
			}

			return h.otpRepo.SaveOTP(ctx, fresh)
		})
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to issue fresh otp")
			return err
		}

		span.AddEvent("fresh verification code issued")
		return nil
	}

	err = h.otpRepo.UpdateOTP(ctx, o.ID(), func(ctx context.Context, o *otp.OTP) error {
		return o.Resend()
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to resend code")
		return errorx.Wrap(err, op)
	}

	span.AddEvent("verification code resent")
	h.logger.InfoContext(ctx, "verification code resent", slog.String("user.id", u.ID().String()))

	return nil
}
