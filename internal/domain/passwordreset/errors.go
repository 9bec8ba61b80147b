package passwordreset

import "gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"

var (
	// ErrTokenInvalid covers unknown and invalidated tokens alike, so
	// responses do not reveal whether a token ever existed.
	ErrTokenInvalid = errorx.NewResetTokenInvalid()
	ErrTokenExpired = errorx.NewResetTokenInvalid()
	ErrAlreadyUsed  = errorx.NewResetTokenInvalid()
)
