package mailevent

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/valueobject/mails"
)

var (
	tracer = otel.Tracer("accounts/application/mail/event")
	logger = otelslog.NewLogger("accounts/application/mail/event")
)

type MailSender interface {
	SendMail(ctx context.Context, payload mails.Payload) error
}

type MailEventHandler struct {
	tracer           trace.Tracer
	logger           *slog.Logger
	mailsender       MailSender
	resetLinkBaseURL string
}

type MailEventHandlerArgs struct {
	Tracer           trace.Tracer
	Logger           *slog.Logger
	Mailsender       MailSender
	ResetLinkBaseURL string
}

func NewMailEventHandler(args MailEventHandlerArgs) *MailEventHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &MailEventHandler{
		tracer:           args.Tracer,
		logger:           args.Logger,
		mailsender:       args.Mailsender,
		resetLinkBaseURL: args.ResetLinkBaseURL,
	}
}
