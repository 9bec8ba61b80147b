package session

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
)

const RefreshTokenTTL = 7 * 24 * time.Hour

type ID uuid.UUID

func NewID() ID {
	return ID(uuid.New())
}

func ParseID(s string) (ID, error) {
	uid, err := uuid.Parse(s)
	if err != nil {
		return ID{}, err
	}
	return ID(uid), nil
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

// Session is one refresh-token grant. The session ID doubles as the
// token's jti claim; only the SHA-256 of the refresh token is stored.
type Session struct {
	id          ID
	userID      user.ID
	refreshHash string
	expiresAt   time.Time
	revokedAt   time.Time
	createdAt   time.Time
}

type NewSessionArgs struct {
	ID           ID
	UserID       user.ID
	RefreshToken string
	ExpiresAt    time.Time
}

func NewSession(args NewSessionArgs) (*Session, error) {
	const op = "session.NewSession"
	if args.UserID.IsZero() {
		return nil, errorx.Wrap(errors.New("user id is zero"), op)
	}
	if args.RefreshToken == "" {
		return nil, errorx.Wrap(errors.New("refresh token is empty"), op)
	}

	return &Session{
		id:          args.ID,
		userID:      args.UserID,
		refreshHash: HashRefreshToken(args.RefreshToken),
		expiresAt:   args.ExpiresAt,
		createdAt:   time.Now().UTC(),
	}, nil
}

type RehydrateArgs struct {
	ID          ID
	UserID      user.ID
	RefreshHash string
	ExpiresAt   time.Time
	RevokedAt   time.Time
	CreatedAt   time.Time
}

func Rehydrate(args RehydrateArgs) *Session {
	return &Session{
		id:          args.ID,
		userID:      args.UserID,
		refreshHash: args.RefreshHash,
		expiresAt:   args.ExpiresAt,
		revokedAt:   args.RevokedAt,
		createdAt:   args.CreatedAt,
	}
}

// Validate checks that the presented refresh token still grants this
// session: hash match, not revoked, not expired.
func (s *Session) Validate(refreshToken string) error {
	const op = "session.Session.Validate"
	if s == nil {
		return errorx.Wrap(ErrNotFound, op)
	}

	if s.refreshHash != HashRefreshToken(refreshToken) {
		return errorx.Wrap(ErrTokenMismatch, op)
	}

	if s.IsRevoked() {
		return errorx.Wrap(ErrRevoked, op)
	}

	if s.IsExpired() {
		return errorx.Wrap(ErrExpired, op)
	}

	return nil
}

func (s *Session) Revoke() {
	if s == nil || s.IsRevoked() {
		return
	}

	s.revokedAt = time.Now().UTC()
}

func (s *Session) IsRevoked() bool {
	if s == nil {
		return false
	}

	return !s.revokedAt.IsZero()
}

func (s *Session) IsExpired() bool {
	if s == nil {
		return true
	}

	return time.Now().After(s.expiresAt)
}

func (s *Session) ID() ID {
	if s == nil {
		return ID{}
	}

	return s.id
}

func (s *Session) UserID() user.ID {
	if s == nil {
		return user.ID{}
	}

	return s.userID
}

func (s *Session) RefreshHash() string {
	if s == nil {
		return ""
	}

	return s.refreshHash
}

func (s *Session) ExpiresAt() time.Time {
	if s == nil {
		return time.Time{}
	}

	return s.expiresAt
}

func (s *Session) RevokedAt() time.Time {
	if s == nil {
		return time.Time{}
	}

	return s.revokedAt
}

func (s *Session) CreatedAt() time.Time {
	if s == nil {
		return time.Time{}
	}

	return s.createdAt
}

// HashRefreshToken is the storage form of a refresh token.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
