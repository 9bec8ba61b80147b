package builders

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/valueobject/role"
)

// TestPasswordCost keeps bcrypt cheap in tests.
const TestPasswordCost = 4

const (
	TestEmail     = "player@test.gg"
	TestPassword  = "Sup3r$ecret"
	TestFirstName = "Alex"
	TestLastName  = "Mercer"
)

type UserBuilder struct {
	id          user.ID
	email       string
	password    string
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

func NewUserBuilder() *UserBuilder {
	hash, _ := bcrypt.GenerateFromPassword([]byte(TestPassword), TestPasswordCost)
	now := time.Now().UTC()

	return &UserBuilder{
		id:        user.NewID(),
		email:     TestEmail,
		password:  TestPassword,
		passHash:  hash,
		verified:  true,
		role:      role.Player,
		firstName: TestFirstName,
		lastName:  TestLastName,
		createdAt: now,
		updatedAt: now,
	}
}

func (b *UserBuilder) WithID(id user.ID) *UserBuilder {
	b.id = id
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), TestPasswordCost)
	b.password = password
	b.passHash = hash
	return b
}

func (b *UserBuilder) Unverified() *UserBuilder {
	b.verified = false
	b.role = role.Guest
	return b
}

func (b *UserBuilder) WithRole(r role.Global) *UserBuilder {
	b.role = r
	return b
}

func (b *UserBuilder) WithCountry(country string) *UserBuilder {
	b.country = country
	return b
}

func (b *UserBuilder) WithPhoneNumber(phone string) *UserBuilder {
	b.phoneNumber = phone
	return b
}

func (b *UserBuilder) WithKYCDocument(key string) *UserBuilder {
	b.kycDocument = key
	return b
}

func (b *UserBuilder) Build() *user.User {
	return user.RehydrateUser(user.RehydrateUserArgs{
		ID:          b.id,
		Email:       b.email,
		PassHash:    b.passHash,
		Verified:    b.verified,
		Role:        b.role,
		FirstName:   b.firstName,
		LastName:    b.lastName,
		Country:     b.country,
		PhoneNumber: b.phoneNumber,
		KYCDocument: b.kycDocument,
		CreatedAt:   b.createdAt,
		UpdatedAt:   b.updatedAt,
	})
}
