package mailevent

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/ARUMANDESU/validation"
	"github.com/ARUMANDESU/validation/is"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/passwordreset"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/valueobject/mails"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/logging"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/otelx"
)

const ResetRequestedSubject = "Password Reset"

func (h *MailEventHandler) HandleResetRequested(ctx context.Context, e *passwordreset.ResetRequested) error {
	if e == nil {
		return nil
	}
	const op = "mailevent.MailEventHandler.HandleResetRequested"

	l := h.logger.With(slog.String("event", "ResetRequested"), slog.String("reset_token.id", e.TokenID.String()))
	ctx, span := h.tracer.Start(
		ctx,
		"MailEventHandler.HandleResetRequested",
		trace.WithNewRoot(),
		trace.WithLinks(trace.LinkFromContext(e.Extract())),
		trace.WithAttributes(
			attribute.String("event.reset_token.id", e.TokenID.String()),
			attribute.String("event.reset_token.email", logging.RedactEmail(e.Email)),
		),
	)
	defer span.End()

	err := validation.ValidateStruct(e,
		validation.Field(&e.Email, validation.Required, is.EmailFormat),
		validation.Field(&e.Token, validation.Required),
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "validation failed")
		l.ErrorContext(ctx, "validation failed", slog.Any("error", err))
		return errorx.Wrap(err, op)
	}

	link := fmt.Sprintf("%s?token=%s", h.resetLinkBaseURL, url.QueryEscape(e.Token))
	payload := mails.Payload{
		To:      e.Email,
		Subject: ResetRequestedSubject,
		Body: fmt.Sprintf(
			"A password reset was requested for your account.\nReset it here: %s\nThe link expires in %d minutes. If you did not request this, ignore this mail.",
			link, int(passwordreset.TokenTTL.Minutes()),
		),
	}
	if err := h.mailsender.SendMail(ctx, payload); err != nil {
		otelx.RecordSpanError(span, err, "failed to send password reset link")
		l.ErrorContext(ctx, "failed to send password reset link", slog.Any("error", err))
		return errorx.Wrap(err, op)
	}

	return nil
}
