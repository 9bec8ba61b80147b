package http

import (
	"github.com/go-chi/chi/v5"

	accountapp "gitlab.com/arcadia-gg/accounts-backend/internal/application/account"
	authapp "gitlab.com/arcadia-gg/accounts-backend/internal/application/auth"
	resetapp "gitlab.com/arcadia-gg/accounts-backend/internal/application/passwordreset"
	registrationapp "gitlab.com/arcadia-gg/accounts-backend/internal/application/registration"
	accounthttp "gitlab.com/arcadia-gg/accounts-backend/internal/ports/http/account"
	authhttp "gitlab.com/arcadia-gg/accounts-backend/internal/ports/http/auth"
	"gitlab.com/arcadia-gg/accounts-backend/internal/ports/http/middlewares"
	passwordresethttp "gitlab.com/arcadia-gg/accounts-backend/internal/ports/http/passwordreset"
	registrationhttp "gitlab.com/arcadia-gg/accounts-backend/internal/ports/http/registration"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/httpx"
)

type Port struct {
	reg     *registrationhttp.HTTP
	auth    *authhttp.HTTP
	reset   *passwordresethttp.HTTP
	account *accounthttp.HTTP
	mw      *middlewares.Middleware
}

type Args struct {
	RegistrationApp   *registrationapp.App
	AuthApp           *authapp.App
	PasswordResetApp  *resetapp.App
	AccountApp        *accountapp.App
	AccessTokenSecret []byte
}

func NewPort(args Args) *Port {
	errhandler := httpx.NewErrorHandler()

	return &Port{
		reg: registrationhttp.NewHTTP(registrationhttp.Args{
			App:        args.RegistrationApp,
			Errhandler: errhandler,
		}),
		auth: authhttp.NewHTTP(authhttp.Args{
			App:        args.AuthApp,
			Errhandler: errhandler,
		}),
		reset: passwordresethttp.NewHTTP(passwordresethttp.Args{
			App:        args.PasswordResetApp,
			Errhandler: errhandler,
		}),
		account: accounthttp.NewHTTP(accounthttp.Args{
			App:        args.AccountApp,
			Errhandler: errhandler,
		}),
		mw: middlewares.NewMiddleware(middlewares.Args{
			Secret:     args.AccessTokenSecret,
			Errhandler: errhandler,
		}),
	}
}

func (p *Port) Route(r chi.Router) chi.Router {
	if r == nil {
		r = chi.NewRouter()
	}

	p.reg.Route(r)
	p.auth.Route(r)
	p.reset.Route(r)

	r.Group(func(r chi.Router) {
		r.Use(p.mw.Auth)
		p.auth.RouteAuthenticated(r)
		p.account.Route(r)
	})

	return r
}
