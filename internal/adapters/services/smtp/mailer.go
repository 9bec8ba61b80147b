package smtp

import (
	"context"
	"crypto/tls"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/valueobject/mails"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/logging"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/otelx"
)

const dialTimeout = 5 * time.Second

var (
	tracer = otel.Tracer("accounts/internal/adapters/services/smtp")
	logger = otelslog.NewLogger("accounts/internal/adapters/services/smtp")
)

type Config struct {
	Host string
	Port int
	User string
	Pass string
	From string
	// InsecureSkipVerify skips TLS certificate verification. Only for
	// local catchers like MailHog.
	InsecureSkipVerify bool
}

// Mailer delivers notification mail over plain SMTP with opportunistic
// STARTTLS. It satisfies the application layer's MailSender.
type Mailer struct {
	cfg    Config
	tracer trace.Tracer
	logger *slog.Logger
	auth   smtp.Auth
}

func NewMailer(cfg Config) *Mailer {
	m := &Mailer{
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}
	if cfg.User != "" {
		m.auth = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}

	return m
}

func (m *Mailer) SendMail(ctx context.Context, payload mails.Payload) error {
	const op = "smtp.Mailer.SendMail"
	ctx, span := m.tracer.Start(ctx, "Mailer.SendMail",
		trace.WithAttributes(attribute.String("mail.to", logging.RedactEmail(payload.To))),
	)
	defer span.End()

	if err := m.send(ctx, payload); err != nil {
		otelx.RecordSpanError(span, err, "failed to send mail")
		return errorx.Wrap(err, op)
	}

	m.logger.InfoContext(ctx, "mail sent",
		slog.String("to", logging.RedactEmail(payload.To)),
		slog.String("subject", payload.Subject),
	)

	return nil
}

func (m *Mailer) send(ctx context.Context, payload mails.Payload) error {
	dialer := &net.Dialer{Timeout: dialTimeout}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return err
	}
	defer func() {
		if qerr := c.Quit(); qerr != nil {
			m.logger.WarnContext(ctx, "smtp quit failed", slog.String("error", qerr.Error()))
		}
	}()

	if ok, _ := c.Extension("STARTTLS"); ok {
		cfg := &tls.Config{
			ServerName:         m.cfg.Host,
			InsecureSkipVerify: m.cfg.InsecureSkipVerify,
		}
		if err := c.StartTLS(cfg); err != nil {
			return err
		}
	}

	if m.auth != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(m.auth); err != nil {
				return err
			}
		}
	}

	if err := c.Mail(m.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(payload.To); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(m.message(payload))); err != nil {
		return err
	}

	return w.Close()
}

func (m *Mailer) message(payload mails.Payload) string {
	var sb strings.Builder
	sb.WriteString("From: " + m.cfg.From + "\r\n")
	sb.WriteString("To: " + payload.To + "\r\n")
	sb.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", payload.Subject) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(payload.Body)

	return sb.String()
}
