package mailevent

import (
	"context"
	"log/slog"

	"github.com/ARUMANDESU/validation"
	"github.com/ARUMANDESU/validation/is"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/valueobject/mails"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/logging"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/otelx"
)

const PasswordChangedSubject = "Your Password Was Changed"

func (h *MailEventHandler) HandlePasswordChanged(ctx context.Context, e *user.PasswordChanged) error {
	if e == nil {
		return nil
	}
	const op = "mailevent.MailEventHandler.HandlePasswordChanged"

	l := h.logger.With(slog.String("event", "PasswordChanged"), slog.String("user.id", e.UserID.String()))
	ctx, span := h.tracer.Start(
		ctx,
		"MailEventHandler.HandlePasswordChanged",
		trace.WithNewRoot(),
		trace.WithLinks(trace.LinkFromContext(e.Extract())),
		trace.WithAttributes(
			attribute.String("event.user.id", e.UserID.String()),
			attribute.String("event.user.email", logging.RedactEmail(e.Email)),
		),
	)
	defer span.End()

	err := validation.ValidateStruct(e,
		validation.Field(&e.Email, validation.Required, is.EmailFormat),
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "validation failed")
		l.ErrorContext(ctx, "validation failed", slog.Any("error", err))
		return errorx.Wrap(err, op)
	}

	payload := mails.Payload{
		To:      e.Email,
		Subject: PasswordChangedSubject,
		Body:    "The password for your account was just changed. If this was not you, reset your password immediately.",
	}
	if err := h.mailsender.SendMail(ctx, payload); err != nil {
		otelx.RecordSpanError(span, err, "failed to send password changed notice")
		l.ErrorContext(ctx, "failed to send password changed notice", slog.Any("error", err))
		return errorx.Wrap(err, op)
	}

	return nil
}
