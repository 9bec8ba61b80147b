package postgres

import (
	"time"

	"github.com/google/uuid"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/otp"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/passwordreset"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/session"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/valueobject/role"
)

type UserDTO struct {
	ID          uuid.UUID
	RoleID      int16
	Email       string
	Passhash    []byte
	Verified    bool
	FirstName   string
	LastName    string
	Country     *string
	PhoneNumber *string
	KYCDocKey   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type GlobalRoleDTO struct {
	ID   int16
	Name string
}

type OTPDTO struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Email         string
	Code          string
	Status        string
	CodeAttempts  int16
	ResendTimeout time.Time
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type ResetTokenDTO struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Email     string
	TokenHash string
	Status    string
	ExpiresAt time.Time
	CreatedAt time.Time
	UsedAt    *time.Time
}

type SessionDTO struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	RefreshHash string
	ExpiresAt   time.Time
	RevokedAt   *time.Time
	CreatedAt   time.Time
}

func DomainToUserDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:          uuid.UUID(u.ID()),
		Email:       u.Email(),
		Passhash:    u.PassHash(),
		Verified:    u.IsVerified(),
		FirstName:   u.FirstName(),
		LastName:    u.LastName(),
		Country:     nilIfEmpty(u.Country()),
		PhoneNumber: nilIfEmpty(u.PhoneNumber()),
		KYCDocKey:   nilIfEmpty(u.KYCDocument()),
		CreatedAt:   u.CreatedAt(),
		UpdatedAt:   u.UpdatedAt(),
	}
}

func UserToDomain(dto UserDTO, roleDTO GlobalRoleDTO) *user.User {
	return user.RehydrateUser(user.RehydrateUserArgs{
		ID:          user.ID(dto.ID),
		Email:       dto.Email,
		PassHash:    dto.Passhash,
		Verified:    dto.Verified,
		Role:        role.Global(roleDTO.Name),
		FirstName:   dto.FirstName,
		LastName:    dto.LastName,
		Country:     emptyIfNil(dto.Country),
		PhoneNumber: emptyIfNil(dto.PhoneNumber),
		KYCDocument: emptyIfNil(dto.KYCDocKey),
		CreatedAt:   dto.CreatedAt,
		UpdatedAt:   dto.UpdatedAt,
	})
}

func DomainToOTPDTO(o *otp.OTP) OTPDTO {
	return OTPDTO{
		ID:            uuid.UUID(o.ID()),
		UserID:        uuid.UUID(o.UserID()),
		Email:         o.Email(),
		Code:          o.Code(),
		Status:        o.Status().String(),
		CodeAttempts:  int16(o.CodeAttempts()),
		ResendTimeout: o.ResendTimeout(),
		ExpiresAt:     o.ExpiresAt(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}
}

func OTPToDomain(dto OTPDTO) *otp.OTP {
	return otp.Rehydrate(otp.RehydrateArgs{
		ID:            otp.ID(dto.ID),
		UserID:        user.ID(dto.UserID),
		Email:         dto.Email,
		Code:          dto.Code,
		Status:        otp.Status(dto.Status),
		CodeAttempts:  int8(dto.CodeAttempts),
		ResendTimeout: dto.ResendTimeout,
		ExpiresAt:     dto.ExpiresAt,
		CreatedAt:     dto.CreatedAt,
		UpdatedAt:     dto.UpdatedAt,
	})
}

func DomainToResetTokenDTO(t *passwordreset.Token) ResetTokenDTO {
	return ResetTokenDTO{
		ID:        uuid.UUID(t.ID()),
		UserID:    uuid.UUID(t.UserID()),
		Email:     t.Email(),
		TokenHash: t.TokenHash(),
		Status:    t.Status().String(),
		ExpiresAt: t.ExpiresAt(),
		CreatedAt: t.CreatedAt(),
		UsedAt:    nilIfZeroTime(t.UsedAt()),
	}
}

func ResetTokenToDomain(dto ResetTokenDTO) *passwordreset.Token {
	return passwordreset.Rehydrate(passwordreset.RehydrateArgs{
		ID:        passwordreset.ID(dto.ID),
		UserID:    user.ID(dto.UserID),
		Email:     dto.Email,
		TokenHash: dto.TokenHash,
		Status:    passwordreset.Status(dto.Status),
		ExpiresAt: dto.ExpiresAt,
		CreatedAt: dto.CreatedAt,
		UsedAt:    zeroTimeIfNil(dto.UsedAt),
	})
}

func DomainToSessionDTO(s *session.Session) SessionDTO {
	return SessionDTO{
		ID:          uuid.UUID(s.ID()),
		UserID:      uuid.UUID(s.UserID()),
		RefreshHash: s.RefreshHash(),
		ExpiresAt:   s.ExpiresAt(),
		RevokedAt:   nilIfZeroTime(s.RevokedAt()),
		CreatedAt:   s.CreatedAt(),
	}
}

func SessionToDomain(dto SessionDTO) *session.Session {
	return session.Rehydrate(session.RehydrateArgs{
		ID:          session.ID(dto.ID),
		UserID:      user.ID(dto.UserID),
		RefreshHash: dto.RefreshHash,
		ExpiresAt:   dto.ExpiresAt,
		RevokedAt:   zeroTimeIfNil(dto.RevokedAt),
		CreatedAt:   dto.CreatedAt,
	})
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func emptyIfNil(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nilIfZeroTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func zeroTimeIfNil(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
