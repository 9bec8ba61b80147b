package middlewares

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	authapp "gitlab.com/arcadia-gg/accounts-backend/internal/application/auth"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/valueobject/role"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/ctxs"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/httpx"
)

var (
	tracer = otel.Tracer("accounts/internal/ports/http/middlewares")
	logger = otelslog.NewLogger("accounts/internal/ports/http/middlewares")
)

const bearerPrefix = "Bearer "

type Middleware struct {
	tracer     trace.Tracer
	logger     *slog.Logger
	secret     []byte
	exp        time.Duration
	errhandler *httpx.ErrorHandler
}

type Args struct {
	Tracer     trace.Tracer
	Logger     *slog.Logger
	Secret     []byte
	Exp        time.Duration
	Errhandler *httpx.ErrorHandler
}

func NewMiddleware(args Args) *Middleware {
	m := &Middleware{
		tracer:     args.Tracer,
		logger:     args.Logger,
		secret:     args.Secret,
		exp:        args.Exp,
		errhandler: args.Errhandler,
	}

	if m.tracer == nil {
		m.tracer = tracer
	}
	if m.logger == nil {
		m.logger = logger
	}
	if len(m.secret) == 0 {
		panic("secret key is required for auth middleware")
	}
	if m.exp == 0 {
		m.exp = authapp.AccessTokenExpDuration
	}
	if m.errhandler == nil {
		m.errhandler = httpx.NewErrorHandler()
	}
	return m
}

func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := m.tracer.Start(r.Context(), "AuthMiddleware")
		defer span.End()

		header := r.Header.Get("Authorization")
		if header == "" {
			err := errorx.NewInvalidCredentials().WithCause(errors.New("missing authorization header"))
			m.errhandler.HandleError(w, r, span, err, "missing authorization header")
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			err := errorx.NewInvalidCredentials().WithCause(errors.New("authorization header is not a bearer token"))
			m.errhandler.HandleError(w, r, span, err, "authorization header is not a bearer token")
			return
		}
		rawToken := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if rawToken == "" {
			err := errorx.NewInvalidCredentials().WithCause(errors.New("empty bearer token"))
			m.errhandler.HandleError(w, r, span, err, "empty bearer token")
			return
		}

		accessToken, err := jwt.Parse(rawToken, func(t *jwt.Token) (any, error) {
			return m.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			m.errhandler.HandleError(w, r, span, errorx.NewInvalidCredentials().WithCause(err), "failed to parse access token")
			return
		}
		if !accessToken.Valid {
			err = errorx.NewInvalidCredentials().WithCause(errors.New("invalid access token"))
			m.errhandler.HandleError(w, r, span, err, "invalid access token")
			return
		}

		accessClaims, ok := accessToken.Claims.(jwt.MapClaims)
		if !ok {
			err = errorx.NewInvalidCredentials().WithCause(errors.New("failed to parse access token claims"))
			m.errhandler.HandleError(w, r, span, err, "failed to parse access token claims")
			return
		}
		if accessClaims["iss"] != authapp.Issuer || accessClaims["sub"] != "user" {
			err = errorx.NewInvalidCredentials().
				WithCause(fmt.Errorf("invalid access token issuer or subject: iss=%v, sub=%v", accessClaims["iss"], accessClaims["sub"]))
			m.errhandler.HandleError(w, r, span, err, "invalid access token issuer or subject")
			return
		}
		userRole, ok := accessClaims["user_role"].(string)
		if !ok {
			err = errorx.NewInvalidCredentials().
				WithCause(fmt.Errorf("role not found or type assertion failed in access token claims: %T", accessClaims["user_role"]))
			m.errhandler.HandleError(w, r, span, err, "role not found or type assertion failed in access token claims")
			return
		}
		if userRole == "" {
			err = errorx.NewInvalidCredentials().WithCause(errors.New("role is empty in access token claims"))
			m.errhandler.HandleError(w, r, span, err, "role is empty in access token claims")
			return
		}
		uid, ok := accessClaims["uid"].(string)
		if !ok {
			err = errorx.NewInvalidCredentials().
				WithCause(fmt.Errorf("user id not found or type assertion failed in access token claims: %T", accessClaims["uid"]))
			m.errhandler.HandleError(w, r, span, err, "user id not found or type assertion failed in access token claims")
			return
		}
		expUnix, ok := accessClaims["exp"].(float64)
		if !ok {
			err = errorx.NewInvalidCredentials().
				WithCause(fmt.Errorf("expiration time not found or type assertion failed in access token claims: %T", accessClaims["exp"]))
			m.errhandler.HandleError(w, r, span, err, "expiration time not found or type assertion failed in access token claims")
			return
		}
		exp := time.Unix(int64(expUnix), 0)
		if exp.Before(time.Now().UTC()) {
			err = errorx.NewTokenExpired().WithCause(errors.New("access token is expired"))
			m.errhandler.HandleError(w, r, span, err, "access token is expired")
			return
		}
		userID, err := uuid.Parse(uid)
		if err != nil {
			err = errorx.NewInvalidCredentials().WithCause(err)
			m.errhandler.HandleError(w, r, span, err, "failed to parse user id in access token claims")
			return
		}

		ctx = ctxs.WithUser(ctx, &ctxs.User{
			ID:   user.ID(userID),
			Role: role.Global(userRole),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
