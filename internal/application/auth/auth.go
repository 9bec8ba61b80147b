package authapp

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/session"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/i18nx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/logging"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/otelx"
)

const (
	Issuer = "arcadia_accounts"

	AccessTokenExpDuration  = 15 * time.Minute
	RefreshTokenExpDuration = session.RefreshTokenTTL
)

var (
	tracer = otel.Tracer("accounts/internal/application/auth")
	logger = otelslog.NewLogger("accounts/internal/application/auth")
)

var ErrWrongEmailOrPassword = errorx.NewUnauthorized().WithKey(i18nx.KeyWrongEmailOrPassword)

type UserGetter interface {
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	GetUserByID(ctx context.Context, id user.ID) (*user.User, error)
}

type SessionRepo interface {
	SaveSession(ctx context.Context, s *session.Session) error
	UpdateSession(ctx context.Context, id session.ID, fn func(context.Context, *session.Session) error) error
}

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type App struct {
	tracer     trace.Tracer
	logger     *slog.Logger
	usergetter UserGetter
	sessions   SessionRepo
	txrunner   TxRunner

	accessTokenExpDuration  time.Duration
	refreshTokenExpDuration time.Duration
	accessTokenSecretKey    []byte
	refreshTokenSecretKey   []byte
	signingMethod           *jwt.SigningMethodHMAC
}

type Args struct {
	Tracer      trace.Tracer
	Logger      *slog.Logger
	UserGetter  UserGetter
	SessionRepo SessionRepo
	TxRunner    TxRunner

	AccessTokenSecretKey    string
	RefreshTokenSecretKey   string
	AccessTokenExpDuration  *time.Duration
	RefreshTokenExpDuration *time.Duration
}

func NewApp(args Args) *App {
	app := &App{
		tracer:     tracer,
		logger:     logger,
		usergetter: args.UserGetter,
		sessions:   args.SessionRepo,
		txrunner:   args.TxRunner,

		accessTokenExpDuration:  AccessTokenExpDuration,
		refreshTokenExpDuration: RefreshTokenExpDuration,
		accessTokenSecretKey:    []byte(args.AccessTokenSecretKey),
		refreshTokenSecretKey:   []byte(args.RefreshTokenSecretKey),
		signingMethod:           jwt.SigningMethodHS256,
	}

	if args.AccessTokenExpDuration != nil {
		app.accessTokenExpDuration = *args.AccessTokenExpDuration
	}
	if args.RefreshTokenExpDuration != nil {
		app.refreshTokenExpDuration = *args.RefreshTokenExpDuration
	}
	if args.Tracer != nil {
		app.tracer = args.Tracer
	}
	if args.Logger != nil {
		app.logger = args.Logger
	}

	return app
}

type Login struct {
	Email    string
	Password string
}

type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	AccessTokenExp  time.Duration
	RefreshTokenExp time.Duration
	User            *user.User
}

// LoginHandle checks credentials and mints an access/refresh pair. Only
// verified accounts may log in; the refresh token gets a session row
// keyed by its jti.
func (a *App) LoginHandle(ctx context.Context, cmd Login) (TokenPair, error) {
	const op = "authapp.App.LoginHandle"
	ctx, span := a.tracer.Start(ctx, "App.LoginHandle",
		trace.WithAttributes(
			attribute.String("user.email", logging.RedactEmail(cmd.Email)),
			attribute.String("signing_method", a.signingMethod.Alg()),
		),
	)
	defer span.End()

	u, err := a.usergetter.GetUserByEmail(ctx, cmd.Email)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get user")
		if errorx.IsNotFound(err) {
			return TokenPair{}, ErrWrongEmailOrPassword.WithCause(err, op)
		}
		return TokenPair{}, errorx.Wrap(err, op)
	}

	if err := u.ComparePassword(cmd.Password); err != nil {
		otelx.RecordSpanError(span, err, "failed to compare password")
		return TokenPair{}, ErrWrongEmailOrPassword.WithCause(err, op)
	}

	if !u.IsVerified() {
		otelx.RecordSpanError(span, user.ErrNotVerified, "email not verified")
		return TokenPair{}, errorx.Wrap(user.ErrNotVerified, op)
	}

	pair, err := a.issueTokens(ctx, u)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to issue tokens")
		return TokenPair{}, errorx.Wrap(err, op)
	}

	return pair, nil
}

type Refresh struct {
	RefreshToken string
}

// RefreshHandle rotates the refresh token: the presented session is
// validated and revoked, and a brand-new pair is issued in the same
// transaction. A replayed old token fails on the revoked session.
func (a *App) RefreshHandle(ctx context.Context, cmd Refresh) (TokenPair, error) {
	const op = "authapp.App.RefreshHandle"
	ctx, span := a.tracer.Start(ctx, "App.RefreshHandle",
		trace.WithAttributes(attribute.String("signing_method", a.signingMethod.Alg())),
	)
	defer span.End()

	sessionID, userID, err := a.parseRefreshToken(cmd.RefreshToken)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to parse refresh token")
		return TokenPair{}, errorx.Wrap(err, op)
	}
	span.SetAttributes(attribute.String("session.id", sessionID.String()))

	u, err := a.usergetter.GetUserByID(ctx, userID)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get user by id")
		if errorx.IsNotFound(err) {
			return TokenPair{}, errorx.Wrap(session.ErrNotFound, op)
		}
		return TokenPair{}, errorx.Wrap(err, op)
	}

	var pair TokenPair
	err = a.txrunner.RunInTx(ctx, func(ctx context.Context) error {
		err := a.sessions.UpdateSession(ctx, sessionID, func(ctx context.Context, s *session.Session) error {
			if err := s.Validate(cmd.RefreshToken); err != nil {
				return err
			}
			s.Revoke()
			return nil
		})
		if err != nil {
			return err
		}

		pair, err = a.issueTokens(ctx, u)
		return err
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to rotate refresh token")
		return TokenPair{}, errorx.Wrap(err, op)
	}

	return pair, nil
}

type Logout struct {
	RefreshToken string
}

// LogoutHandle revokes the session behind the refresh token. Logging
// out twice is fine; access tokens ride out their natural expiry.
func (a *App) LogoutHandle(ctx context.Context, cmd Logout) error {
	const op = "authapp.App.LogoutHandle"
	ctx, span := a.tracer.Start(ctx, "App.LogoutHandle")
	defer span.End()

	sessionID, _, err := a.parseRefreshToken(cmd.RefreshToken)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to parse refresh token")
		return errorx.Wrap(err, op)
	}
	span.SetAttributes(attribute.String("session.id", sessionID.String()))

	err = a.sessions.UpdateSession(ctx, sessionID, func(ctx context.Context, s *session.Session) error {
		s.Revoke()
		return nil
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to revoke session")
		return errorx.Wrap(err, op)
	}

	a.logger.InfoContext(ctx, "session revoked", slog.String("session.id", sessionID.String()))

	return nil
}

func (a *App) issueTokens(ctx context.Context, u *user.User) (TokenPair, error) {
	const op = "authapp.App.issueTokens"

	now := time.Now().UTC()
	sessionID := session.NewID()

	accessToken := jwt.NewWithClaims(a.signingMethod, jwt.MapClaims{
		"iss":       Issuer,
		"sub":       "user",
		"exp":       now.Add(a.accessTokenExpDuration).Unix(),
		"iat":       now.Unix(),
		"uid":       u.ID().String(),
		"user_role": u.Role().String(),
	})
	refreshToken := jwt.NewWithClaims(a.signingMethod, jwt.MapClaims{
		"iss":   Issuer,
		"sub":   "refresh",
		"exp":   now.Add(a.refreshTokenExpDuration).Unix(),
		"iat":   now.Unix(),
		"jti":   sessionID.String(),
		"uid":   u.ID().String(),
		"scope": "refresh",
	})

	accessjwt, err := accessToken.SignedString(a.accessTokenSecretKey)
	if err != nil {
		return TokenPair{}, errorx.Wrap(err, op)
	}
	refreshjwt, err := refreshToken.SignedString(a.refreshTokenSecretKey)
	if err != nil {
		return TokenPair{}, errorx.Wrap(err, op)
	}

	s, err := session.NewSession(session.NewSessionArgs{
		ID:           sessionID,
		UserID:       u.ID(),
		RefreshToken: refreshjwt,
		ExpiresAt:    now.Add(a.refreshTokenExpDuration),
	})
	if err != nil {
		return TokenPair{}, errorx.Wrap(err, op)
	}

	if err := a.sessions.SaveSession(ctx, s); err != nil {
		return TokenPair{}, errorx.Wrap(err, op)
	}

	return TokenPair{
		AccessToken:     accessjwt,
		RefreshToken:    refreshjwt,
		AccessTokenExp:  a.accessTokenExpDuration,
		RefreshTokenExp: a.refreshTokenExpDuration,
		User:            u,
	}, nil
}

func (a *App) parseRefreshToken(raw string) (session.ID, user.ID, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return a.refreshTokenSecretKey, nil
	}, jwt.WithValidMethods([]string{a.signingMethod.Alg()}))
	if err != nil {
		return session.ID{}, user.ID{}, errorx.NewInvalidCredentials().WithCause(err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return session.ID{}, user.ID{}, errorx.NewInvalidCredentials().WithCause(errors.New("claims are not jwt.MapClaims"))
	}
	if claims["iss"] != Issuer || claims["sub"] != "refresh" {
		return session.ID{}, user.ID{}, errorx.NewInvalidCredentials().WithCause(errors.New("invalid refresh token issuer or subject"))
	}

	expUnix, ok := claims["exp"].(float64)
	if !ok {
		return session.ID{}, user.ID{}, errorx.NewInvalidCredentials().WithCause(errors.New("missing exp claim"))
	}
	if time.Unix(int64(expUnix), 0).Before(time.Now().UTC()) {
		return session.ID{}, user.ID{}, errorx.NewTokenExpired().WithCause(errors.New("refresh token expired"))
	}

	jti, ok := claims["jti"].(string)
	if !ok {
		return session.ID{}, user.ID{}, errorx.NewInvalidCredentials().WithCause(errors.New("missing jti claim"))
	}
	sessionID, err := session.ParseID(jti)
	if err != nil {
		return session.ID{}, user.ID{}, errorx.NewInvalidCredentials().WithCause(err)
	}

	uid, ok := claims["uid"].(string)
	if !ok {
		return session.ID{}, user.ID{}, errorx.NewInvalidCredentials().WithCause(errors.New("missing uid claim"))
	}
	userID, err := user.ParseID(uid)
	if err != nil {
		return session.ID{}, user.ID{}, errorx.NewInvalidCredentials().WithCause(err)
	}

	return sessionID, userID, nil
}
