package authhttp

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ARUMANDESU/validation"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	authapp "gitlab.com/arcadia-gg/accounts-backend/internal/application/auth"
	httpdto "gitlab.com/arcadia-gg/accounts-backend/internal/ports/http/dto"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/httpx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/logging"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/otelx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/sanitizex"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/validationx"
)

var (
	tracer = otel.Tracer("accounts/internal/ports/http/auth")
	logger = otelslog.NewLogger("accounts/internal/ports/http/auth")
)

type HTTP struct {
	tracer     trace.Tracer
	logger     *slog.Logger
	app        *authapp.App
	errhandler *httpx.ErrorHandler
}

type Args struct {
	Tracer     trace.Tracer
	Logger     *slog.Logger
	App        *authapp.App
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
	r.Post("/v1/auth/login", h.Login)
	r.Post("/v1/auth/refresh", h.Refresh)
}

// RouteAuthenticated registers the endpoints that require a valid
// access token; the caller wires the auth middleware around them.
func (h *HTTP) RouteAuthenticated(r chi.Router) {
	r.Post("/v1/auth/logout", h.Logout)
}

// TokenPairResponse is the body of every successful login/refresh.
// Expirations are reported in seconds so clients can schedule refreshes
// without parsing the JWT.
type TokenPairResponse struct {
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token"`
	TokenType             string `json:"token_type"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

func newTokenPairResponse(pair authapp.TokenPair) TokenPairResponse {
	return TokenPairResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		TokenType:             "Bearer",
		AccessTokenExpiresIn:  int64(pair.AccessTokenExp.Seconds()),
		RefreshTokenExpiresIn: int64(pair.RefreshTokenExp.Seconds()),
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Sanitized() {
	r.Email = sanitizex.CleanSingleLine(r.Email)
	r.Password = strings.TrimSpace(r.Password)
}

func (r *LoginRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{"email": logging.RedactEmail(r.Email)})
}

func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validationx.EmailRules...),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 128)),
	)
}

func (h *HTTP) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Login")
	defer span.End()

	var req LoginRequest
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

	pair, err := h.app.LoginHandle(ctx, authapp.Login{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to login")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{
		"tokens": newTokenPairResponse(pair),
		"user":   httpdto.NewUserResponse(pair.User),
	})
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshRequest) Sanitized() {
	r.RefreshToken = sanitizex.CleanSingleLine(r.RefreshToken)
}

func (r *RefreshRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RefreshToken, validation.Required, validation.Length(1, 2048)),
	)
}

func (h *HTTP) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Refresh")
	defer span.End()

	var req RefreshRequest
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

	pair, err := h.app.RefreshHandle(ctx, authapp.Refresh{RefreshToken: req.RefreshToken})
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to refresh tokens")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{"tokens": newTokenPairResponse(pair)})
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *LogoutRequest) Sanitized() {
	r.RefreshToken = sanitizex.CleanSingleLine(r.RefreshToken)
}

func (r *LogoutRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RefreshToken, validation.Required, validation.Length(1, 2048)),
	)
}

func (h *HTTP) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Logout")
	defer span.End()

	var req LogoutRequest
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

	if err := h.app.LogoutHandle(ctx, authapp.Logout{RefreshToken: req.RefreshToken}); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to logout")
		return
	}

	httpx.Success(w, r, http.StatusOK, nil)
}
