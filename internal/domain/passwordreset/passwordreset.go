package passwordreset

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/event"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/randcode"
)

const (
	TokenBytes = 32

	TokenTTL = 1 * time.Hour
)

type Status string

func (s Status) String() string {
	return string(s)
}

const (
	StatusPending     Status = "pending"
	StatusUsed        Status = "used"
	StatusInvalidated Status = "invalidated"
)

type ID uuid.UUID

func NewID() ID {
	return ID(uuid.New())
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uuid.UUID(id).String())
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	uid, err := uuid.Parse(s)
	if err != nil {
		return err
	}

	*id = ID(uid)
	return nil
}

// Token is a single-use password reset grant. Only the SHA-256 of the
// URL-safe token is kept; the plaintext leaves the process exactly
// once, inside the reset email.
type Token struct {
	event.Recorder
	id        ID
	userID    user.ID
	email     string
	tokenHash string
	status    Status
	expiresAt time.Time
	createdAt time.Time
	usedAt    time.Time
}

// NewToken mints a reset token and returns the aggregate together with
// the plaintext value, which the caller must not persist.
func NewToken(userID user.ID, email string) (*Token, string, error) {
	const op = "passwordreset.NewToken"
	if userID.IsZero() {
		return nil, "", errorx.Wrap(errors.New("user id is zero"), op)
	}

	plain, err := randcode.GenerateURLSafeToken(TokenBytes)
	if err != nil {
		return nil, "", errorx.Wrap(err, op)
	}
	now := time.Now().UTC()

	tok := &Token{
		id:        NewID(),
		userID:    userID,
		email:     email,
		tokenHash: HashToken(plain),
		status:    StatusPending,
		expiresAt: now.Add(TokenTTL),
		createdAt: now,
	}

	tok.AddEvent(&ResetRequested{
		Header:  event.NewEventHeader(),
		TokenID: tok.id,
		UserID:  userID,
		Email:   email,
		Token:   plain,
	})

	return tok, plain, nil
}

type RehydrateArgs struct {
	ID        ID
	UserID    user.ID
	Email     string
	TokenHash string
	Status    Status
	ExpiresAt time.Time
	CreatedAt time.Time
	UsedAt    time.Time
}

func Rehydrate(args RehydrateArgs) *Token {
	return &Token{
		id:        args.ID,
		userID:    args.UserID,
		email:     args.Email,
		tokenHash: args.TokenHash,
		status:    args.Status,
		expiresAt: args.ExpiresAt,
		createdAt: args.CreatedAt,
		usedAt:    args.UsedAt,
	}
}

// Consume burns the token. Expired, already used, and invalidated
// tokens all fail; a consumed token never works twice.
func (t *Token) Consume(plain string) error {
	const op = "passwordreset.Token.Consume"
	switch t.status {
	case StatusUsed:
		return errorx.Wrap(ErrAlreadyUsed, op)
	case StatusInvalidated:
		return errorx.Wrap(ErrTokenInvalid, op)
	}

	if time.Now().After(t.expiresAt) {
		return errorx.Wrap(ErrTokenExpired, op)
	}

	if subtle.ConstantTimeCompare([]byte(t.tokenHash), []byte(HashToken(plain))) != 1 {
		return errorx.Wrap(ErrTokenInvalid, op)
	}

	now := time.Now().UTC()
	t.status = StatusUsed
	t.usedAt = now

	t.AddEvent(&PasswordResetCompleted{
		Header:  event.NewEventHeader(),
		TokenID: t.id,
		UserID:  t.userID,
		Email:   t.email,
	})

	return nil
}

// Invalidate retires a pending token, used when a newer reset request
// supersedes it.
func (t *Token) Invalidate() {
	if t == nil || t.status != StatusPending {
		return
	}

	t.status = StatusInvalidated
}

func (t *Token) ID() ID {
	if t == nil {
		return ID{}
	}

	return t.id
}

func (t *Token) UserID() user.ID {
	if t == nil {
		return user.ID{}
	}

	return t.userID
}

func (t *Token) Email() string {
	if t == nil {
		return ""
	}

	return t.email
}

func (t *Token) TokenHash() string {
	if t == nil {
		return ""
	}

	return t.tokenHash
}

func (t *Token) Status() Status {
	if t == nil {
		return ""
	}

	return t.status
}

func (t *Token) ExpiresAt() time.Time {
	if t == nil {
		return time.Time{}
	}

	return t.expiresAt
}

func (t *Token) CreatedAt() time.Time {
	if t == nil {
		return time.Time{}
	}

	return t.createdAt
}

func (t *Token) UsedAt() time.Time {
	if t == nil {
		return time.Time{}
	}

	return t.usedAt
}

// HashToken is the storage form of a reset token.
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
