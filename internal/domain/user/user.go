package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ARUMANDESU/validation"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/event"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/valueobject/role"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/validationx"
)

const PasswordCostFactor = 12 // Future-proofing; default is 10 in 2025.08.18

const (
	MaxFirstNameLen = 100
	MinFirstNameLen = 2
	MaxLastNameLen  = 100
	MinLastNameLen  = 2
	MaxCountryLen   = 2
	MaxPhoneLen     = 16
)

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

func (id ID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
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

type User struct {
	event.Recorder
	id          ID
	email       string
	passHash    []byte
	verified    bool
	role        role.Global
	firstName   string
	lastName    string
	country     string
	phoneNumber string
	kycDocument string
	createdAt   time.Time
	updatedAt   time.Time
}

type NewUserArgs struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// NewUser creates an unverified player account. The email stays
// unverified until the one-time code issued alongside it is consumed.
func NewUser(args NewUserArgs) (*User, error) {
	const op = "user.NewUser"

	err := validation.Errors{
		"email":      validation.Validate(args.Email, validationx.EmailRules...),
		"first_name": validation.Validate(args.FirstName, validationx.NameRules...),
		"last_name":  validation.Validate(args.LastName, validationx.NameRules...),
	}.Filter()
	if err != nil {
		return nil, errorx.Wrap(err, op)
	}
	if err := validation.Validate(args.Password, validationx.PasswordRules...); err != nil {
		return nil, errorx.Wrap(ErrPasswordNotStrongEnough, op)
	}

	passHash, err := NewPasswordHash(args.Password)
	if err != nil {
		return nil, errorx.Wrap(err, op)
	}

	now := time.Now().UTC()
	u := &User{
		id:        NewID(),
		email:     args.Email,
		passHash:  passHash,
		verified:  false,
		role:      role.Player,
		firstName: args.FirstName,
		lastName:  args.LastName,
		createdAt: now,
		updatedAt: now,
	}

	u.AddEvent(&UserRegistered{
		Header:    event.NewEventHeader(),
		UserID:    u.id,
		Email:     u.email,
		FirstName: u.firstName,
		LastName:  u.lastName,
	})

	return u, nil
}

type RehydrateUserArgs struct {
	ID          ID
	Email       string
	PassHash    []byte
	Verified    bool
	Role        role.Global
	FirstName   string
	LastName    string
	Country     string
	PhoneNumber string
	KYCDocument string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func RehydrateUser(p RehydrateUserArgs) *User {
	return &User{
		id:          p.ID,
		email:       p.Email,
		passHash:    p.PassHash,
		verified:    p.Verified,
		role:        p.Role,
		firstName:   p.FirstName,
		lastName:    p.LastName,
		country:     p.Country,
		phoneNumber: p.PhoneNumber,
		kycDocument: p.KYCDocument,
		createdAt:   p.CreatedAt,
		updatedAt:   p.UpdatedAt,
	}
}

// VerifyEmail flips the verified flag. The flag never goes back.
func (u *User) VerifyEmail() error {
	const op = "user.User.VerifyEmail"
	if u == nil {
		return errors.New("user is nil")
	}
	if u.verified {
		return errorx.Wrap(ErrAlreadyVerified, op)
	}

	u.verified = true
	u.updatedAt = time.Now().UTC()
	u.AddEvent(&EmailVerified{
		Header: event.NewEventHeader(),
		UserID: u.id,
		Email:  u.email,
	})

	return nil
}

func (u *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword(u.passHash, []byte(password))
}

// ChangePassword requires the current password to match before
// accepting the new one.
func (u *User) ChangePassword(current, next string) error {
	const op = "user.User.ChangePassword"
	if u == nil {
		return errors.New("user is nil")
	}

	if err := u.ComparePassword(current); err != nil {
		return errorx.Wrap(errorx.NewInvalidCredentials().WithCause(err), op)
	}

	return u.setPassword(next, op)
}

// ResetPassword replaces the password without checking the old one.
// Callers must have consumed a valid reset token first.
func (u *User) ResetPassword(next string) error {
	return u.setPassword(next, "user.User.ResetPassword")
}

func (u *User) setPassword(next, op string) error {
	if err := validation.Validate(next, validationx.PasswordRules...); err != nil {
		return errorx.Wrap(ErrPasswordNotStrongEnough, op)
	}

	passHash, err := NewPasswordHash(next)
	if err != nil {
		return errorx.Wrap(err, op)
	}

	u.passHash = passHash
	u.updatedAt = time.Now().UTC()
	u.AddEvent(&PasswordChanged{
		Header: event.NewEventHeader(),
		UserID: u.id,
		Email:  u.email,
	})

	return nil
}

func (u *User) SetFirstName(firstName string) error {
	if u == nil {
		return errors.New("user is nil")
	}
	err := validation.Validate(firstName, validation.Required, validation.Length(MinFirstNameLen, MaxFirstNameLen), validationx.IsPersonName)
	if err != nil {
		return err
	}

	u.firstName = firstName
	u.updatedAt = time.Now().UTC()
	return nil
}

func (u *User) SetLastName(lastName string) error {
	if u == nil {
		return errors.New("user is nil")
	}
	err := validation.Validate(lastName, validation.Required, validation.Length(MinLastNameLen, MaxLastNameLen), validationx.IsPersonName)
	if err != nil {
		return err
	}

	u.lastName = lastName
	u.updatedAt = time.Now().UTC()
	return nil
}

func (u *User) SetCountry(country string) error {
	if u == nil {
		return errors.New("user is nil")
	}
	err := validation.Validate(country, validationx.CountryRules...)
	if err != nil {
		return err
	}

	u.country = country
	u.updatedAt = time.Now().UTC()
	return nil
}

func (u *User) SetPhoneNumber(phoneNumber string) error {
	if u == nil {
		return errors.New("user is nil")
	}
	err := validation.Validate(phoneNumber, validationx.PhoneRules...)
	if err != nil {
		return err
	}

	u.phoneNumber = phoneNumber
	u.updatedAt = time.Now().UTC()
	return nil
}

func (u *User) SetKYCDocument(key string) error {
	if u == nil {
		return errors.New("user is nil")
	}
	if key == "" {
		return validation.ErrRequired
	}

	u.kycDocument = key
	u.updatedAt = time.Now().UTC()
	u.AddEvent(&KYCDocumentUploaded{
		Header:      event.NewEventHeader(),
		UserID:      u.id,
		DocumentKey: key,
	})

	return nil
}

func (u *User) ID() ID {
	if u == nil {
		return ID{}
	}

	return u.id
}

func (u *User) Email() string {
	if u == nil {
		return ""
	}

	return u.email
}

func (u *User) PassHash() []byte {
	if u == nil {
		return nil
	}

	return u.passHash
}

func (u *User) IsVerified() bool {
	if u == nil {
		return false
	}

	return u.verified
}

func (u *User) Role() role.Global {
	if u == nil {
		return ""
	}

	return u.role
}

func (u *User) FirstName() string {
	if u == nil {
		return ""
	}

	return u.firstName
}

func (u *User) LastName() string {
	if u == nil {
		return ""
	}

	return u.lastName
}

func (u *User) Country() string {
	if u == nil {
		return ""
	}

	return u.country
}

func (u *User) PhoneNumber() string {
	if u == nil {
		return ""
	}

	return u.phoneNumber
}

func (u *User) KYCDocument() string {
	if u == nil {
		return ""
	}

	return u.kycDocument
}

func (u *User) CreatedAt() time.Time {
	if u == nil {
		return time.Time{}
	}

	return u.createdAt
}

func (u *User) UpdatedAt() time.Time {
	if u == nil {
		return time.Time{}
	}

	return u.updatedAt
}

func NewPasswordHash(password string) ([]byte, error) {
	passhash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCostFactor)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password hash from password: %w", err)
	}
	return passhash, nil
}
