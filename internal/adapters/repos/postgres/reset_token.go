package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/passwordreset"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/otelx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/postgres"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/watermillx"
)

const selectResetTokenQuery = `
        SELECT id, user_id, email, token_hash, status, expires_at, created_at, used_at
        FROM password_reset_tokens
`

type ResetTokenRepo struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	pool    *pgxpool.Pool
	wlogger watermill.LoggerAdapter
}

// NewResetTokenRepo creates a new instance of ResetTokenRepo.
// It also sets default tracer and logger if they are nil.
//
//	WARNING; panics if pool is nil
func NewResetTokenRepo(pool *pgxpool.Pool, t trace.Tracer, l *slog.Logger) *ResetTokenRepo {
	if pool == nil {
		panic("pgxpool.Pool cannot be nil")
	}
	if t == nil {
		t = tracer
	}
	if l == nil {
		l = logger
	}

	return &ResetTokenRepo{
		tracer:  t,
		logger:  l,
		pool:    pool,
		wlogger: watermill.NewSlogLogger(l),
	}
}

func (r *ResetTokenRepo) SaveToken(ctx context.Context, t *passwordreset.Token) error {
	const op = "postgres.ResetTokenRepo.SaveToken"
	ctx, span := r.tracer.Start(ctx, "ResetTokenRepo.SaveToken")
	defer span.End()

	err := postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		query := `
		INSERT INTO password_reset_tokens (id, user_id, email, token_hash, status, expires_at, created_at, used_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`

		dto := DomainToResetTokenDTO(t)
		res, err := tx.Exec(ctx, query,
			dto.ID,
			dto.UserID,
			dto.Email,
			dto.TokenHash,
			dto.Status,
			dto.ExpiresAt,
			dto.CreatedAt,
			dto.UsedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to insert reset token")
			return errorx.Wrap(err, op)
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, err, "no rows affected while inserting reset token")
			return errorx.Wrap(ErrNoRowsAffected, op)
		}

		events := t.GetUncommittedEvents()
		if len(events) > 0 {
			if err := watermillx.Publish(ctx, tx, r.wlogger, events...); err != nil {
				otelx.RecordSpanError(span, err, "failed to publish events")
				return errorx.Wrap(err, op)
			}
		}
		return nil
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to execute transaction")
		return err
	}

	return nil
}

func (r *ResetTokenRepo) UpdateToken(
	ctx context.Context,
	id passwordreset.ID,
	fn func(ctx context.Context, t *passwordreset.Token) error,
) error {
	const op = "postgres.ResetTokenRepo.UpdateToken"
	ctx, span := r.tracer.Start(ctx, "ResetTokenRepo.UpdateToken")
	defer span.End()
	if fn == nil {
		otelx.RecordSpanError(span, ErrNilFunc, "update function cannot be nil")
		return ErrNilFunc
	}
	err := postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		query := selectResetTokenQuery + ` WHERE id = $1 FOR UPDATE;`

		var dto ResetTokenDTO
		err := tx.QueryRow(ctx, query, id).Scan(
			&dto.ID, &dto.UserID, &dto.Email, &dto.TokenHash, &dto.Status,
			&dto.ExpiresAt, &dto.CreatedAt, &dto.UsedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to get reset token by id")
			if errors.Is(err, pgx.ErrNoRows) {
				return errorx.NewNotFound().WithCause(err, op)
			}
			return errorx.Wrap(err, op)
		}

		t := ResetTokenToDomain(dto)

		fnerr := fn(ctx, t)
		if fnerr != nil && !errorx.IsPersistable(fnerr) {
			otelx.RecordSpanError(span, fnerr, "update function returned an error and cannot continue")
			return errorx.Wrap(fnerr, op)
		}

		dto = DomainToResetTokenDTO(t)

		updateQuery := `
		UPDATE password_reset_tokens
		SET status = $2, used_at = $3
		WHERE id = $1;
		`

		res, err := tx.Exec(ctx, updateQuery, dto.ID, dto.Status, dto.UsedAt)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to update reset token")
			return errorx.Wrap(err, op)
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, err, "no rows affected while updating reset token")
			return errorx.Wrap(ErrNoRowsAffected, op)
		}

		events := t.GetUncommittedEvents()
		if len(events) > 0 {
			if err := watermillx.Publish(ctx, tx, r.wlogger, events...); err != nil {
				otelx.RecordSpanError(span, err, "failed to publish events")
				return errorx.Wrap(err, op)
			}
		}

		if fnerr != nil && errorx.IsPersistable(fnerr) {
			otelx.RecordSpanError(span, fnerr, "update function returned an error but is allowed to continue")
			return errorx.Wrap(fnerr, op)
		}

		return nil
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "transaction to update reset token failed")
		return err
	}

	return nil
}

// GetTokenByHash looks a token up by the SHA-256 of its plaintext. The
// plaintext itself is never stored.
func (r *ResetTokenRepo) GetTokenByHash(ctx context.Context, hash string) (*passwordreset.Token, error) {
	const op = "postgres.ResetTokenRepo.GetTokenByHash"
	ctx, span := r.tracer.Start(ctx, "ResetTokenRepo.GetTokenByHash")
	defer span.End()

	query := selectResetTokenQuery + ` WHERE token_hash = $1;`

	var dto ResetTokenDTO
	err := r.pool.QueryRow(ctx, query, hash).Scan(
		&dto.ID, &dto.UserID, &dto.Email, &dto.TokenHash, &dto.Status,
		&dto.ExpiresAt, &dto.CreatedAt, &dto.UsedAt,
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get reset token by hash")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.NewNotFound().WithCause(err, op)
		}
		return nil, errorx.Wrap(err, op)
	}

	return ResetTokenToDomain(dto), nil
}

// InvalidatePendingByUserID retires every pending token for the user so
// each reset request leaves at most one live token behind.
func (r *ResetTokenRepo) InvalidatePendingByUserID(ctx context.Context, userID user.ID) error {
	const op = "postgres.ResetTokenRepo.InvalidatePendingByUserID"
	ctx, span := r.tracer.Start(ctx, "ResetTokenRepo.InvalidatePendingByUserID")
	defer span.End()

	err := postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		query := `
		UPDATE password_reset_tokens
		SET status = $2
		WHERE user_id = $1 AND status = $3;
		`

		_, err := tx.Exec(ctx, query, userID,
			passwordreset.StatusInvalidated.String(), passwordreset.StatusPending.String())
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to invalidate pending reset tokens")
			return errorx.Wrap(err, op)
		}
		return nil
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "transaction to invalidate pending reset tokens failed")
		return err
	}

	return nil
}
