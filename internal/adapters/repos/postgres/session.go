package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/session"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/otelx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/postgres"
)

const selectSessionQuery = `
        SELECT id, user_id, refresh_hash, expires_at, revoked_at, created_at
        FROM sessions
`

// SessionRepo persists refresh-token sessions. Sessions record no
// domain events, so there is no outbox publishing here.
type SessionRepo struct {
	tracer trace.Tracer
	logger *slog.Logger
	pool   *pgxpool.Pool
}

// NewSessionRepo creates a new instance of SessionRepo.
// It also sets default tracer and logger if they are nil.
//
//	WARNING; panics if pool is nil
func NewSessionRepo(pool *pgxpool.Pool, t trace.Tracer, l *slog.Logger) *SessionRepo {
	if pool == nil {
		panic("pgxpool.Pool cannot be nil")
	}
	if t == nil {
		t = tracer
	}
	if l == nil {
		l = logger
	}

	return &SessionRepo{
		tracer: t,
		logger: l,
		pool:   pool,
	}
}

func (r *SessionRepo) SaveSession(ctx context.Context, s *session.Session) error {
	const op = "postgres.SessionRepo.SaveSession"
	ctx, span := r.tracer.Start(ctx, "SessionRepo.SaveSession")
	defer span.End()

	err := postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		query := `
		INSERT INTO sessions (id, user_id, refresh_hash, expires_at, revoked_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
		`

		dto := DomainToSessionDTO(s)
		res, err := tx.Exec(ctx, query,
			dto.ID,
			dto.UserID,
			dto.RefreshHash,
			dto.ExpiresAt,
			dto.RevokedAt,
			dto.CreatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to insert session")
			return errorx.Wrap(err, op)
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, err, "no rows affected while inserting session")
			return errorx.Wrap(ErrNoRowsAffected, op)
		}
		return nil
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to execute transaction")
		return err
	}

	return nil
}

func (r *SessionRepo) UpdateSession(
	ctx context.Context,
	id session.ID,
	fn func(ctx context.Context, s *session.Session) error,
) error {
	const op = "postgres.SessionRepo.UpdateSession"
	ctx, span := r.tracer.Start(ctx, "SessionRepo.UpdateSession")
	defer span.End()
	if fn == nil {
		otelx.RecordSpanError(span, ErrNilFunc, "update function cannot be nil")
		return ErrNilFunc
	}
	err := postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		query := selectSessionQuery + ` WHERE id = $1 FOR UPDATE;`

		var dto SessionDTO
		err := tx.QueryRow(ctx, query, id).Scan(
			&dto.ID, &dto.UserID, &dto.RefreshHash,
			&dto.ExpiresAt, &dto.RevokedAt, &dto.CreatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to get session by id")
			if errors.Is(err, pgx.ErrNoRows) {
				return errorx.Wrap(session.ErrNotFound, op)
			}
			return errorx.Wrap(err, op)
		}

		s := SessionToDomain(dto)

		fnerr := fn(ctx, s)
		if fnerr != nil && !errorx.IsPersistable(fnerr) {
			otelx.RecordSpanError(span, fnerr, "update function returned an error and cannot continue")
			return errorx.Wrap(fnerr, op)
		}

		dto = DomainToSessionDTO(s)

		updateQuery := `
		UPDATE sessions
		SET refresh_hash = $2, expires_at = $3, revoked_at = $4
		WHERE id = $1;
		`

		res, err := tx.Exec(ctx, updateQuery, dto.ID, dto.RefreshHash, dto.ExpiresAt, dto.RevokedAt)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to update session")
			return errorx.Wrap(err, op)
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, err, "no rows affected while updating session")
			return errorx.Wrap(ErrNoRowsAffected, op)
		}

		if fnerr != nil && errorx.IsPersistable(fnerr) {
			otelx.RecordSpanError(span, fnerr, "update function returned an error but is allowed to continue")
			return errorx.Wrap(fnerr, op)
		}

		return nil
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "transaction to update session failed")
		return err
	}

	return nil
}

func (r *SessionRepo) GetSessionByID(ctx context.Context, id session.ID) (*session.Session, error) {
	const op = "postgres.SessionRepo.GetSessionByID"
	ctx, span := r.tracer.Start(ctx, "SessionRepo.GetSessionByID")
	defer span.End()

	query := selectSessionQuery + ` WHERE id = $1;`

	var dto SessionDTO
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&dto.ID, &dto.UserID, &dto.RefreshHash,
		&dto.ExpiresAt, &dto.RevokedAt, &dto.CreatedAt,
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get session by id")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.Wrap(session.ErrNotFound, op)
		}
		return nil, errorx.Wrap(err, op)
	}

	return SessionToDomain(dto), nil
}

// RevokeAllByUserID revokes every live session for the user. Consuming
// a password-reset token calls this so stolen refresh tokens die with
// the old password.
func (r *SessionRepo) RevokeAllByUserID(ctx context.Context, userID user.ID) error {
	const op = "postgres.SessionRepo.RevokeAllByUserID"
	ctx, span := r.tracer.Start(ctx, "SessionRepo.RevokeAllByUserID")
	defer span.End()

	err := postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		query := `
		UPDATE sessions
		SET revoked_at = now()
		WHERE user_id = $1 AND revoked_at IS NULL;
		`

		_, err := tx.Exec(ctx, query, userID)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to revoke sessions")
			return errorx.Wrap(err, op)
		}
		return nil
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "transaction to revoke sessions failed")
		return err
	}

	return nil
}

// DeleteExpired removes sessions whose refresh window has passed.
// Meant for a periodic cleanup job.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	const op = "postgres.SessionRepo.DeleteExpired"
	ctx, span := r.tracer.Start(ctx, "SessionRepo.DeleteExpired")
	defer span.End()

	res, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now();`)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to delete expired sessions")
		return 0, errorx.Wrap(err, op)
	}

	return res.RowsAffected(), nil
}
