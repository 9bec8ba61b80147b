package ctxs

import (
	"context"

	"github.com/jackc/pgx/v5"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/valueobject/role"
)

type ctxKey string

const (
	txKey   ctxKey = "pgxTx"
	userKey ctxKey = "user"
)

// User is the authenticated caller extracted from the access token.
type User struct {
	ID   user.ID
	Role role.Global
}

func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

func Tx(ctx context.Context) (pgx.Tx, bool) {
	val := ctx.Value(txKey)
	if val == nil {
		return nil, false
	}

	tx, ok := val.(pgx.Tx)
	return tx, ok
}

func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromCtx(ctx context.Context) (*User, bool) {
	val := ctx.Value(userKey)
	if val == nil {
		return nil, false
	}

	user, ok := val.(*User)
	return user, ok
}
