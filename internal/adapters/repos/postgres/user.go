package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/otelx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/postgres"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/watermillx"
)

const selectUserQuery = `
        SELECT  u.id, u.role_id, u.email, u.pass_hash, u.verified,
                u.first_name, u.last_name,
                u.country, u.phone_number, u.kyc_document_key,
                u.created_at, u.updated_at,
                gr.id, gr.name
        FROM users u JOIN global_roles gr ON u.role_id = gr.id
`

type UserRepo struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	pool    *pgxpool.Pool
	wlogger watermill.LoggerAdapter
}

// NewUserRepo creates a new instance of UserRepo.
// It also sets default tracer and logger if they are nil.
//
//	WARNING; panics if pool is nil
func NewUserRepo(pool *pgxpool.Pool, t trace.Tracer, l *slog.Logger) *UserRepo {
	if pool == nil {
		panic("pgxpool.Pool cannot be nil")
	}
	if t == nil {
		t = tracer
	}
	if l == nil {
		l = logger
	}

	return &UserRepo{
		tracer:  t,
		logger:  l,
		pool:    pool,
		wlogger: watermill.NewSlogLogger(l),
	}
}

func (r *UserRepo) SaveUser(ctx context.Context, u *user.User) error {
	const op = "postgres.UserRepo.SaveUser"
	ctx, span := r.tracer.Start(ctx, "UserRepo.SaveUser")
	defer span.End()

	err := postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		query := `
		INSERT INTO users (id, role_id, email, pass_hash, verified,
			first_name, last_name, country, phone_number, kyc_document_key,
			created_at, updated_at)
		VALUES ($1, (SELECT id FROM global_roles WHERE name = $2), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
		`

		dto := DomainToUserDTO(u)
		res, err := tx.Exec(ctx, query,
			dto.ID,
			u.Role().String(),
			dto.Email,
			dto.Passhash,
			dto.Verified,
			dto.FirstName,
			dto.LastName,
			dto.Country,
			dto.PhoneNumber,
			dto.KYCDocKey,
			dto.CreatedAt,
			dto.UpdatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to insert user")
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return errorx.Wrap(user.ErrEmailAlreadyExists, op)
			}
			return errorx.Wrap(err, op)
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, err, "no rows affected while inserting user")
			return errorx.Wrap(ErrNoRowsAffected, op)
		}

		events := u.GetUncommittedEvents()
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

func (r *UserRepo) UpdateUser(
	ctx context.Context,
	id user.ID,
	fn func(ctx context.Context, u *user.User) error,
) error {
	const op = "postgres.UserRepo.UpdateUser"
	ctx, span := r.tracer.Start(ctx, "UserRepo.UpdateUser")
	defer span.End()
	if fn == nil {
		otelx.RecordSpanError(span, ErrNilFunc, "update function cannot be nil")
		return ErrNilFunc
	}
	err := postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		query := selectUserQuery + ` WHERE u.id = $1 FOR UPDATE OF u;`

		var dto UserDTO
		var roleDTO GlobalRoleDTO
		err := tx.QueryRow(ctx, query, id).
			Scan(
				&dto.ID, &dto.RoleID, &dto.Email, &dto.Passhash, &dto.Verified,
				&dto.FirstName, &dto.LastName,
				&dto.Country, &dto.PhoneNumber, &dto.KYCDocKey,
				&dto.CreatedAt, &dto.UpdatedAt,
				&roleDTO.ID, &roleDTO.Name,
			)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to get user by id")
			if errors.Is(err, pgx.ErrNoRows) {
				return errorx.NewNotFound().WithCause(err, op)
			}
			return errorx.Wrap(err, op)
		}

		u := UserToDomain(dto, roleDTO)

		fnerr := fn(ctx, u)
		if fnerr != nil && !errorx.IsPersistable(fnerr) {
			otelx.RecordSpanError(span, fnerr, "update function returned an error and cannot continue")
			return errorx.Wrap(fnerr, op)
		}

		dto = DomainToUserDTO(u)

		updateQuery := `
		UPDATE users
		SET role_id = (SELECT id FROM global_roles WHERE name = $2),
			email = $3, pass_hash = $4, verified = $5,
			first_name = $6, last_name = $7,
			country = $8, phone_number = $9, kyc_document_key = $10,
			updated_at = $11
		WHERE id = $1;
		`

		res, err := tx.Exec(ctx, updateQuery,
			dto.ID,
			u.Role().String(),
			dto.Email,
			dto.Passhash,
			dto.Verified,
			dto.FirstName,
			dto.LastName,
			dto.Country,
			dto.PhoneNumber,
			dto.KYCDocKey,
			dto.UpdatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to update user")
			return errorx.Wrap(err, op)
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, err, "no rows affected while updating user")
			return errorx.Wrap(ErrNoRowsAffected, op)
		}

		events := u.GetUncommittedEvents()
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
		otelx.RecordSpanError(span, err, "transaction to update user failed")
		return err
	}

	return nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, id user.ID) (*user.User, error) {
	const op = "postgres.UserRepo.GetUserByID"
	ctx, span := r.tracer.Start(ctx, "UserRepo.GetUserByID")
	defer span.End()

	query := selectUserQuery + ` WHERE u.id = $1;`

	var dto UserDTO
	var roleDTO GlobalRoleDTO
	err := r.pool.QueryRow(ctx, query, id).
		Scan(
			&dto.ID, &dto.RoleID, &dto.Email, &dto.Passhash, &dto.Verified,
			&dto.FirstName, &dto.LastName,
			&dto.Country, &dto.PhoneNumber, &dto.KYCDocKey,
			&dto.CreatedAt, &dto.UpdatedAt,
			&roleDTO.ID, &roleDTO.Name,
		)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get user by id")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.NewNotFound().WithCause(err, op)
		}
		return nil, errorx.Wrap(err, op)
	}

	return UserToDomain(dto, roleDTO), nil
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	const op = "postgres.UserRepo.GetUserByEmail"
	ctx, span := r.tracer.Start(ctx, "UserRepo.GetUserByEmail")
	defer span.End()

	query := selectUserQuery + ` WHERE u.email = $1;`

	var dto UserDTO
	var roleDTO GlobalRoleDTO
	err := r.pool.QueryRow(ctx, query, email).
		Scan(
			&dto.ID, &dto.RoleID, &dto.Email, &dto.Passhash, &dto.Verified,
			&dto.FirstName, &dto.LastName,
			&dto.Country, &dto.PhoneNumber, &dto.KYCDocKey,
			&dto.CreatedAt, &dto.UpdatedAt,
			&roleDTO.ID, &roleDTO.Name,
		)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get user by email")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.NewNotFound().WithCause(err, op)
		}
		return nil, errorx.Wrap(err, op)
	}

	return UserToDomain(dto, roleDTO), nil
}

func (r *UserRepo) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	const op = "postgres.UserRepo.IsEmailTaken"
	ctx, span := r.tracer.Start(ctx, "UserRepo.IsEmailTaken")
	defer span.End()

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1);`

	var taken bool
	if err := r.pool.QueryRow(ctx, query, email).Scan(&taken); err != nil {
		otelx.RecordSpanError(span, err, "failed to check if email is taken")
		return false, errorx.Wrap(err, op)
	}

	return taken, nil
}
