package otp

import (
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
	CodeLength = 6

	ResendTimeout   = 1 * time.Minute
	CodeTTL         = 10 * time.Minute
	MaxCodeAttempts = 5
)

type Status string

func (s Status) String() string {
	return string(s)
}

const (
	StatusPending     Status = "pending"
	StatusExpired     Status = "expired"
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

// OTP is a single email verification code. At most one pending code
// exists per user; issuing a new one invalidates the previous.
type OTP struct {
	event.Recorder
	id            ID
	userID        user.ID
	email         string
	code          string
	status        Status
	codeAttempts  int8
	resendTimeout time.Time
	expiresAt     time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

func NewOTP(userID user.ID, email string) (*OTP, error) {
	const op = "otp.NewOTP"
	if userID.IsZero() {
		return nil, errorx.Wrap(errors.New("user id is zero"), op)
	}

	code, err := generateCode()
	if err != nil {
		return nil, errorx.Wrap(err, op)
	}
	now := time.Now().UTC()

	o := &OTP{
		id:            NewID(),
		userID:        userID,
		email:         email,
		code:          code,
		status:        StatusPending,
		codeAttempts:  0,
		resendTimeout: now.Add(ResendTimeout),
		expiresAt:     now.Add(CodeTTL),
		createdAt:     now,
		updatedAt:     now,
	}

	o.AddEvent(&OTPIssued{
		Header: event.NewEventHeader(),
		OTPID:  o.id,
		UserID: userID,
		Email:  email,
		Code:   code,
	})

	return o, nil
}

type RehydrateArgs struct {
	ID            ID
	UserID        user.ID
	Email         string
	Code          string
	Status        Status
	CodeAttempts  int8
	ResendTimeout time.Time
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func Rehydrate(args RehydrateArgs) *OTP {
	return &OTP{
		id:            args.ID,
		userID:        args.UserID,
		email:         args.Email,
		code:          args.Code,
		status:        args.Status,
		codeAttempts:  args.CodeAttempts,
		resendTimeout: args.ResendTimeout,
		expiresAt:     args.ExpiresAt,
		createdAt:     args.CreatedAt,
		updatedAt:     args.UpdatedAt,
	}
}

// Verify consumes the code. A matching code can be consumed exactly
// once; mismatches count against MaxCodeAttempts and must be persisted
// even though an error is returned.
func (o *OTP) Verify(code string) error {
	const op = "otp.OTP.Verify"
	switch o.status {
	case StatusUsed:
		return errorx.Wrap(ErrAlreadyUsed, op)
	case StatusExpired, StatusInvalidated:
		return errorx.Wrap(ErrCodeExpired, op)
	}

	if time.Now().After(o.expiresAt) {
		o.status = StatusExpired
		o.updatedAt = time.Now().UTC()
		return errorx.Wrap(ErrPersistentCodeExpired, op)
	}

	if o.code != code {
		o.codeAttempts++
		o.updatedAt = time.Now().UTC()
		if o.codeAttempts >= MaxCodeAttempts {
			o.status = StatusExpired
			return errorx.Wrap(ErrPersistentTooManyAttempts, op)
		}
		return errorx.Wrap(ErrPersistentCodeMismatch, op)
	}

	o.status = StatusUsed
	o.updatedAt = time.Now().UTC()
	o.AddEvent(&OTPVerified{
		Header: event.NewEventHeader(),
		OTPID:  o.id,
		UserID: o.userID,
		Email:  o.email,
	})

	return nil
}

// Resend replaces the code with a fresh one and resets the attempt
// counter. It is throttled by ResendTimeout.
func (o *OTP) Resend() error {
	const op = "otp.OTP.Resend"
	if o.status == StatusUsed {
		return errorx.Wrap(ErrAlreadyUsed, op)
	}

	if !o.resendTimeout.IsZero() && !time.Now().After(o.resendTimeout) {
		return errorx.Wrap(ErrWaitUntilResend, op)
	}

	code, err := generateCode()
	if err != nil {
		return errorx.Wrap(err, op)
	}

	now := time.Now().UTC()
	o.code = code
	o.status = StatusPending
	o.codeAttempts = 0
	o.resendTimeout = now.Add(ResendTimeout)
	o.expiresAt = now.Add(CodeTTL)
	o.updatedAt = now

	o.AddEvent(&OTPResent{
		Header: event.NewEventHeader(),
		OTPID:  o.id,
		UserID: o.userID,
		Email:  o.email,
		Code:   code,
	})

	return nil
}

// Invalidate retires a pending code without consuming it. Used when a
// newer code is issued for the same user.
func (o *OTP) Invalidate() {
	if o == nil || o.status != StatusPending {
		return
	}

	o.status = StatusInvalidated
	o.updatedAt = time.Now().UTC()
}

func (o *OTP) IsStatus(s Status) bool {
	if o == nil {
		return false
	}

	return o.status == s
}

func (o *OTP) ID() ID {
	if o == nil {
		return ID{}
	}

	return o.id
}

func (o *OTP) UserID() user.ID {
	if o == nil {
		return user.ID{}
	}

	return o.userID
}

func (o *OTP) Email() string {
	if o == nil {
		return ""
	}

	return o.email
}

func (o *OTP) Code() string {
	if o == nil {
		return ""
	}

	return o.code
}

func (o *OTP) Status() Status {
	if o == nil {
		return ""
	}

	return o.status
}

func (o *OTP) CodeAttempts() int8 {
	if o == nil {
		return 0
	}

	return o.codeAttempts
}

func (o *OTP) ResendTimeout() time.Time {
	if o == nil {
		return time.Time{}
	}

	return o.resendTimeout
}

func (o *OTP) ExpiresAt() time.Time {
	if o == nil {
		return time.Time{}
	}

	return o.expiresAt
}

func (o *OTP) CreatedAt() time.Time {
	if o == nil {
		return time.Time{}
	}

	return o.createdAt
}

func (o *OTP) UpdatedAt() time.Time {
	if o == nil {
		return time.Time{}
	}

	return o.updatedAt
}

func generateCode() (string, error) {
	const op = "otp.generateCode"
	code, err := randcode.GenerateNumericCode(CodeLength)
	if err != nil {
		return "", errorx.Wrap(err, op)
	}

	return code, nil
}
