package passwordresethttp

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ARUMANDESU/validation"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	resetapp "gitlab.com/arcadia-gg/accounts-backend/internal/application/passwordreset"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/httpx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/logging"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/otelx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/sanitizex"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/validationx"
)

var (
	tracer = otel.Tracer("accounts/internal/ports/http/passwordreset")
	logger = otelslog.NewLogger("accounts/internal/ports/http/passwordreset")
)

type HTTP struct {
	tracer     trace.Tracer
	logger     *slog.Logger
	app        *resetapp.App
	errhandler *httpx.ErrorHandler
}

type Args struct {
	Tracer     trace.Tracer
	Logger     *slog.Logger
	App        *resetapp.App
	Errhandler *httpx.ErrorHandler
}

func NewHTTP(args Args) *HTTP {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}
	if args.Errhandler == nil {
		args.Errhandler = httpx.NewErrorHandler()
	}

	return &HTTP{
		tracer:     args.Tracer,
		logger:     args.Logger,
		app:        args.App,
		errhandler: args.Errhandler,
	}
}

func (h *HTTP) Route(r chi.Router) {
	r.Post("/v1/auth/password-reset-request", h.RequestReset)
	r.Post("/v1/auth/password-reset", h.ResetPassword)
}

type RequestResetRequest struct {
	Email string `json:"email"`
}

func (r *RequestResetRequest) Sanitized() {
	r.Email = sanitizex.CleanSingleLine(r.Email)
}

func (r *RequestResetRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{"email": logging.RedactEmail(r.Email)})
}

func (r *RequestResetRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validationx.EmailRules...),
	)
}

// RequestReset always answers 202 for a well-formed email, whether or
// not an account exists behind it.
func (h *HTTP) RequestReset(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RequestReset")
	defer span.End()

	var req RequestResetRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to read json")
		return
	}

	req.Sanitized()
	req.SetSpanAttrs(span)
	err := req.Validate()
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to validate request body")
		return
	}

	if err := h.app.RequestHandle(ctx, resetapp.Request{Email: req.Email}); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to request password reset")
		return
	}

	httpx.Success(w, r, http.StatusAccepted, nil)
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (r *ResetPasswordRequest) Sanitized() {
	r.Token = sanitizex.CleanSingleLine(r.Token)
	r.NewPassword = strings.TrimSpace(r.NewPassword)
}

func (r *ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token, validation.Required, validation.Length(1, 128)),
		validation.Field(&r.NewPassword, validationx.PasswordRules...),
	)
}

func (h *HTTP) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ResetPassword")
	defer span.End()

	var req ResetPasswordRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to read json")
		return
	}

	req.Sanitized()
	err := req.Validate()
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to validate request body")
		return
	}

	cmd := resetapp.Reset{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	}
	if err := h.app.ResetHandle(ctx, cmd); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to reset password")
		return
	}

	httpx.Success(w, r, http.StatusOK, nil)
}
