package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/event"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/valueobject/role"
)

type UserAssertions struct {
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
	Events      []event.Event
}

func NewUserAssertions(u *User) *UserAssertions {
	return &UserAssertions{
		ID:          u.ID(),
		Email:       u.Email(),
		PassHash:    u.PassHash(),
		Verified:    u.IsVerified(),
		Role:        u.Role(),
		FirstName:   u.FirstName(),
		LastName:    u.LastName(),
		Country:     u.Country(),
		PhoneNumber: u.PhoneNumber(),
		KYCDocument: u.KYCDocument(),
		Events:      u.GetUncommittedEvents(),
	}
}

func (a *UserAssertions) AssertByNewUserArgs(t *testing.T, args NewUserArgs) *UserAssertions {
	t.Helper()
	assert.Equal(t, args.Email, a.Email, "Email mismatch")
	assert.Equal(t, args.FirstName, a.FirstName, "FirstName mismatch")
	assert.Equal(t, args.LastName, a.LastName, "LastName mismatch")
	assert.Equal(t, role.Player, a.Role, "Role mismatch")
	assert.False(t, a.Verified, "new user must start unverified")
	assert.NoError(t, bcrypt.CompareHashAndPassword(a.PassHash, []byte(args.Password)), "PassHash mismatch")

	require.Len(t, a.Events, 1, "expected one event")
	assert.IsType(t, &UserRegistered{}, a.Events[0], "expected UserRegistered event type")
	registered := a.Events[0].(*UserRegistered)
	assert.Equal(t, a.ID, registered.UserID, "UserID in event mismatch")
	assert.Equal(t, args.Email, registered.Email, "Email in event mismatch")
	assert.Equal(t, args.FirstName, registered.FirstName, "FirstName in event mismatch")
	assert.Equal(t, args.LastName, registered.LastName, "LastName in event mismatch")

	return a
}

func (a *UserAssertions) AssertVerified(t *testing.T, expected bool) *UserAssertions {
	t.Helper()
	assert.Equal(t, expected, a.Verified, "Verified mismatch")
	return a
}

func (a *UserAssertions) AssertEmail(t *testing.T, expected string) *UserAssertions {
	t.Helper()
	assert.Equal(t, expected, a.Email, "Email mismatch")
	return a
}

func (a *UserAssertions) AssertRole(t *testing.T, expected role.Global) *UserAssertions {
	t.Helper()
	assert.Equal(t, expected, a.Role, "Role mismatch")
	return a
}

func (a *UserAssertions) AssertPassword(t *testing.T, expected string) *UserAssertions {
	t.Helper()
	err := bcrypt.CompareHashAndPassword(a.PassHash, []byte(expected))
	assert.NoError(t, err, "PassHash mismatch")
	return a
}

func (a *UserAssertions) AssertPassHash(t *testing.T, expected []byte) *UserAssertions {
	t.Helper()
	assert.Equal(t, expected, a.PassHash, "PassHash mismatch")
	return a
}

func (a *UserAssertions) AssertCountry(t *testing.T, expected string) *UserAssertions {
	t.Helper()
	assert.Equal(t, expected, a.Country, "Country mismatch")
	return a
}

func (a *UserAssertions) AssertPhoneNumber(t *testing.T, expected string) *UserAssertions {
	t.Helper()
	assert.Equal(t, expected, a.PhoneNumber, "PhoneNumber mismatch")
	return a
}

func (a *UserAssertions) AssertKYCDocument(t *testing.T, expected string) *UserAssertions {
	t.Helper()
	assert.Equal(t, expected, a.KYCDocument, "KYCDocument mismatch")
	return a
}
