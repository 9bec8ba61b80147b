package registrationhttp

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ARUMANDESU/validation"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	registrationapp "gitlab.com/arcadia-gg/accounts-backend/internal/application/registration"
	"gitlab.com/arcadia-gg/accounts-backend/internal/application/registration/cmd"
	httpdto "gitlab.com/arcadia-gg/accounts-backend/internal/ports/http/dto"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/httpx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/logging"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/otelx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/sanitizex"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/validationx"
)

var (
	tracer = otel.Tracer("accounts/internal/ports/http/registration")
	logger = otelslog.NewLogger("accounts/internal/ports/http/registration")
)

type HTTP struct {
	tracer     trace.Tracer
	logger     *slog.Logger
	cmd        *registrationapp.Command
	errhandler *httpx.ErrorHandler
}

type Args struct {
	Tracer     trace.Tracer
	Logger     *slog.Logger
	App        *registrationapp.App
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
		cmd:        &args.App.CMD,
		errhandler: args.Errhandler,
	}
}

func (h *HTTP) Route(r chi.Router) {
	r.Post("/v1/auth/register", h.Register)
	r.Post("/v1/auth/verify-otp", h.VerifyOTP)
	r.Post("/v1/auth/resend-otp", h.ResendOTP)
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r *RegisterRequest) Sanitized() {
	r.Email = sanitizex.CleanSingleLine(r.Email)
	r.FirstName = sanitizex.CleanSingleLine(r.FirstName)
	r.LastName = sanitizex.CleanSingleLine(r.LastName)
	r.Password = strings.TrimSpace(r.Password)
}

func (r *RegisterRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{"email": logging.RedactEmail(r.Email)})
}

func (r *RegisterRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validationx.EmailRules...),
		validation.Field(&r.Password, validationx.PasswordRules...),
		validation.Field(&r.FirstName, validationx.NameRules...),
		validation.Field(&r.LastName, validationx.NameRules...),
	)
}

func (h *HTTP) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Register")
	defer span.End()

	var req RegisterRequest
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

	u, err := h.cmd.Register.Handle(ctx, cmd.Register{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to register user")
		return
	}

	httpx.Success(w, r, http.StatusCreated, httpx.Envelope{"user": httpdto.NewUserResponse(u)})
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"otp_code"`
}

func (r *VerifyOTPRequest) Sanitized() {
	r.Email = sanitizex.CleanSingleLine(r.Email)
	r.Code = sanitizex.CleanSingleLine(r.Code)
}

func (r *VerifyOTPRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{"email": logging.RedactEmail(r.Email)})
}

func (r *VerifyOTPRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validationx.EmailRules...),
		validation.Field(&r.Code, validationx.OTPRules...),
	)
}

func (h *HTTP) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "VerifyOTP")
	defer span.End()

	var req VerifyOTPRequest
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

	if err := h.cmd.VerifyEmail.Handle(ctx, cmd.VerifyEmail{Email: req.Email, Code: req.Code}); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to verify email")
		return
	}

	httpx.Success(w, r, http.StatusOK, nil)
}

type ResendOTPRequest struct {
	Email string `json:"email"`
}

func (r *ResendOTPRequest) Sanitized() {
	r.Email = sanitizex.CleanSingleLine(r.Email)
}

func (r *ResendOTPRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{"email": logging.RedactEmail(r.Email)})
}

func (r *ResendOTPRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validationx.EmailRules...),
	)
}

func (h *HTTP) ResendOTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ResendOTP")
	defer span.End()

	var req ResendOTPRequest
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

	if err := h.cmd.ResendCode.Handle(ctx, cmd.ResendCode{Email: req.Email}); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to resend verification code")
		return
	}

	httpx.Success(w, r, http.StatusAccepted, nil)
}
