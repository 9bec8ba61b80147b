package session

import "gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"

var (
	ErrNotFound      = errorx.NewUnauthorized()
	ErrTokenMismatch = errorx.NewUnauthorized()
	ErrRevoked       = errorx.NewTokenRevoked()
	ErrExpired       = errorx.NewTokenExpired()
)
