package mailevent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ARUMANDESU/validation"
	"github.com/ARUMANDESU/validation/is"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/otp"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/valueobject/mails"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/logging"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/otelx"
)

const OTPIssuedSubject = "Email Verification Code"

func (h *MailEventHandler) HandleOTPIssued(ctx context.Context, e *otp.OTPIssued) error {
	if e == nil {
		return nil
	}
	const op = "mailevent.MailEventHandler.HandleOTPIssued"

	l := h.logger.With(slog.String("event", "OTPIssued"), slog.String("otp.id", e.OTPID.String()))
	ctx, span := h.tracer.Start(
		ctx,
		"MailEventHandler.HandleOTPIssued",
		trace.WithNewRoot(),
		trace.WithLinks(trace.LinkFromContext(e.Extract())),
		trace.WithAttributes(
			attribute.String("event.otp.id", e.OTPID.String()),
			attribute.String("event.otp.email", logging.RedactEmail(e.Email)),
		),
	)
	defer span.End()

	err := validation.ValidateStruct(e,
		validation.Field(&e.Email, validation.Required, is.EmailFormat),
		validation.Field(&e.Code, validation.Required),
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "validation failed")
		l.ErrorContext(ctx, "validation failed", slog.Any("error", err))
		return errorx.Wrap(err, op)
	}

	payload := mails.Payload{
		To:      e.Email,
		Subject: OTPIssuedSubject,
		Body:    fmt.Sprintf("Your email verification code is: %s\nIt expires in %d minutes.", e.Code, int(otp.CodeTTL.Minutes())),
	}
	if err := h.mailsender.SendMail(ctx, payload); err != nil {
		otelx.RecordSpanError(span, err, "failed to send email verification code")
		l.ErrorContext(ctx, "failed to send email verification code", slog.Any("error", err))
		return errorx.Wrap(err, op)
	}

	return nil
}

func (h *MailEventHandler) HandleOTPResent(ctx context.Context, e *otp.OTPResent) error {
	if e == nil {
		return nil
	}
	const op = "mailevent.MailEventHandler.HandleOTPResent"

	l := h.logger.With(slog.String("event", "OTPResent"), slog.String("otp.id", e.OTPID.String()))
	ctx, span := h.tracer.Start(
		ctx,
		"MailEventHandler.HandleOTPResent",
		trace.WithNewRoot(),
		trace.WithLinks(trace.LinkFromContext(e.Extract())),
		trace.WithAttributes(
			attribute.String("event.otp.id", e.OTPID.String()),
			attribute.String("event.otp.email", logging.RedactEmail(e.Email)),
		),
	)
	defer span.End()

	err := validation.ValidateStruct(e,
		validation.Field(&e.Email, validation.Required, is.EmailFormat),
		validation.Field(&e.Code, validation.Required),
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "validation failed")
		l.ErrorContext(ctx, "validation failed", slog.Any("error", err))
		return errorx.Wrap(err, op)
	}

	payload := mails.Payload{
		To:      e.Email,
		Subject: OTPIssuedSubject,
		Body:    fmt.Sprintf("Your new email verification code is: %s\nIt expires in %d minutes.", e.Code, int(otp.CodeTTL.Minutes())),
	}
	if err := h.mailsender.SendMail(ctx, payload); err != nil {
		otelx.RecordSpanError(span, err, "failed to send email verification code")
		l.ErrorContext(ctx, "failed to send email verification code", slog.Any("error", err))
		return errorx.Wrap(err, op)
	}

	return nil
}
