package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/otp"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/otelx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/postgres"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/watermillx"
)

const selectOTPQuery = `
        SELECT id, user_id, email, code, status, code_attempts, resend_timeout, expires_at, created_at, updated_at
        FROM otps
`

type OTPRepo struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	pool    *pgxpool.Pool
	wlogger watermill.LoggerAdapter
}

// NewOTPRepo creates a new instance of OTPRepo.
// It also sets default tracer and logger if they are nil.
//
//	WARNING; panics if pool is nil
func NewOTPRepo(pool *pgxpool.Pool, t trace.Tracer, l *slog.Logger) *OTPRepo {
	if pool == nil {
		panic("pgxpool.Pool cannot be nil")
	}
	if t == nil {
		t = tracer
	}
	if l == nil {
		l = logger
	}

	return &OTPRepo{
		tracer:  t,
		logger:  l,
		pool:    pool,
		wlogger: watermill.NewSlogLogger(l),
	}
}

func (r *OTPRepo) SaveOTP(ctx context.Context, o *otp.OTP) error {
	const op = "postgres.OTPRepo.SaveOTP"
	ctx, span := r.tracer.Start(ctx, "OTPRepo.SaveOTP")
	defer span.End()

	err := postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		query := `
		INSERT INTO otps (id, user_id, email, code, status, code_attempts, resend_timeout, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
		`

		dto := DomainToOTPDTO(o)
		res, err := tx.Exec(ctx, query,
			dto.ID,
			dto.UserID,
			dto.Email,
			dto.Code,
			dto.Status,
			dto.CodeAttempts,
			dto.ResendTimeout,
			dto.ExpiresAt,
			dto.CreatedAt,
			dto.UpdatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to insert otp")
			return errorx.Wrap(err, op)
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, err, "no rows affected while inserting otp")
			return errorx.Wrap(ErrNoRowsAffected, op)
		}

		events := o.GetUncommittedEvents()
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

func (r *OTPRepo) UpdateOTP(
	ctx context.Context,
	id otp.ID,
	fn func(ctx context.Context, o *otp.OTP) error,
) error {
	const op = "postgres.OTPRepo.UpdateOTP"
	ctx, span := r.tracer.Start(ctx, "OTPRepo.UpdateOTP")
	defer span.End()
	if fn == nil {
		otelx.RecordSpanError(span, ErrNilFunc, "update function cannot be nil")
		return ErrNilFunc
	}
	err := postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		query := selectOTPQuery + ` WHERE id = $1 FOR UPDATE;`

		var dto OTPDTO
		err := tx.QueryRow(ctx, query, id).Scan(
			&dto.ID, &dto.UserID, &dto.Email, &dto.Code, &dto.Status,
			&dto.CodeAttempts, &dto.ResendTimeout, &dto.ExpiresAt,
			&dto.CreatedAt, &dto.UpdatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to get otp by id")
			if errors.Is(err, pgx.ErrNoRows) {
				return errorx.NewNotFound().WithCause(err, op)
			}
			return errorx.Wrap(err, op)
		}

		o := OTPToDomain(dto)

		fnerr := fn(ctx, o)
		if fnerr != nil && !errorx.IsPersistable(fnerr) {
			otelx.RecordSpanError(span, fnerr, "update function returned an error and cannot continue")
			return errorx.Wrap(fnerr, op)
		}

		dto = DomainToOTPDTO(o)

		updateQuery := `
		UPDATE otps
		SET code = $2, status = $3, code_attempts = $4, resend_timeout = $5, expires_at = $6, updated_at = $7
		WHERE id = $1;
		`

		res, err := tx.Exec(ctx, updateQuery,
			dto.ID,
			dto.Code,
			dto.Status,
			dto.CodeAttempts,
			dto.ResendTimeout,
			dto.ExpiresAt,
			dto.UpdatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to update otp")
			return errorx.Wrap(err, op)
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, err, "no rows affected while updating otp")
			return errorx.Wrap(ErrNoRowsAffected, op)
		}

		events := o.GetUncommittedEvents()
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
		otelx.RecordSpanError(span, err, "transaction to update otp failed")
		return err
	}

	return nil
}

func (r *OTPRepo) GetOTPByID(ctx context.Context, id otp.ID) (*otp.OTP, error) {
	const op = "postgres.OTPRepo.GetOTPByID"
	ctx, span := r.tracer.Start(ctx, "OTPRepo.GetOTPByID")
	defer span.End()

	query := selectOTPQuery + ` WHERE id = $1;`

	var dto OTPDTO
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&dto.ID, &dto.UserID, &dto.Email, &dto.Code, &dto.Status,
		&dto.CodeAttempts, &dto.ResendTimeout, &dto.ExpiresAt,
		&dto.CreatedAt, &dto.UpdatedAt,
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get otp by id")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.NewNotFound().WithCause(err, op)
		}
		return nil, errorx.Wrap(err, op)
	}

	return OTPToDomain(dto), nil
}

// GetPendingOTPByUserID returns the single pending code for the user,
// the newest one if the invariant was ever broken.
func (r *OTPRepo) GetPendingOTPByUserID(ctx context.Context, userID user.ID) (*otp.OTP, error) {
	const op = "postgres.OTPRepo.GetPendingOTPByUserID"
	ctx, span := r.tracer.Start(ctx, "OTPRepo.GetPendingOTPByUserID")
	defer span.End()

	query := selectOTPQuery + `
        WHERE user_id = $1 AND status = $2
        ORDER BY created_at DESC
        LIMIT 1;
    `

	var dto OTPDTO
	err := r.pool.QueryRow(ctx, query, userID, otp.StatusPending.String()).Scan(
		&dto.ID, &dto.UserID, &dto.Email, &dto.Code, &dto.Status,
		&dto.CodeAttempts, &dto.ResendTimeout, &dto.ExpiresAt,
		&dto.CreatedAt, &dto.UpdatedAt,
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get pending otp by user id")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.NewNotFound().WithCause(err, op)
		}
		return nil, errorx.Wrap(err, op)
	}

	return OTPToDomain(dto), nil
}

// InvalidatePendingByUserID retires every pending code for the user so
// a freshly issued one stays the only active code.
func (r *OTPRepo) InvalidatePendingByUserID(ctx context.Context, userID user.ID) error {
	const op = "postgres.OTPRepo.InvalidatePendingByUserID"
	ctx, span := r.tracer.Start(ctx, "OTPRepo.InvalidatePendingByUserID")
	defer span.End()

	err := postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		query := `
		UPDATE otps
		SET status = $2, updated_at = now()
		WHERE user_id = $1 AND status = $3;
		`

		_, err := tx.Exec(ctx, query, userID, otp.StatusInvalidated.String(), otp.StatusPending.String())
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to invalidate pending otps")
			return errorx.Wrap(err, op)
		}
		return nil
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "transaction to invalidate pending otps failed")
		return err
	}

	return nil
}
