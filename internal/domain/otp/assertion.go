package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type OTPAssertion struct {
	OTP *OTP
}

func NewOTPAssertion(o *OTP) *OTPAssertion {
	return &OTPAssertion{OTP: o}
}

func (a *OTPAssertion) AssertStatus(t *testing.T, expected Status) *OTPAssertion {
	t.Helper()
	assert.Equal(t, expected, a.OTP.status, "Expected otp status to be %s, got %s", expected, a.OTP.status)
	return a
}

func (a *OTPAssertion) AssertEmail(t *testing.T, expected string) *OTPAssertion {
	t.Helper()
	assert.Equal(t, expected, a.OTP.email, "Expected otp email to be %s, got %s", expected, a.OTP.email)
	return a
}

func (a *OTPAssertion) AssertCode(t *testing.T, expected string) *OTPAssertion {
	t.Helper()
	assert.Equal(t, expected, a.OTP.code, "Expected otp code to be %s, got %s", expected, a.OTP.code)
	return a
}

func (a *OTPAssertion) AssertCodeNotEmpty(t *testing.T) *OTPAssertion {
	t.Helper()
	assert.NotEmpty(t, a.OTP.code, "Expected otp code to not be empty")
	return a
}

func (a *OTPAssertion) AssertCodeIsNot(t *testing.T, expected string) *OTPAssertion {
	t.Helper()
	assert.NotEqual(t, expected, a.OTP.code, "Expected otp code to not be %s", expected)
	return a
}

func (a *OTPAssertion) AssertCodeAttempts(t *testing.T, expected int8) *OTPAssertion {
	t.Helper()
	assert.Equal(t, expected, a.OTP.codeAttempts, "Expected otp code attempts to be %d, got %d", expected, a.OTP.codeAttempts)
	return a
}

func (a *OTPAssertion) AssertExpiresAfter(t *testing.T, after time.Time) *OTPAssertion {
	t.Helper()
	assert.True(t, a.OTP.expiresAt.After(after), "Expected otp to expire after %s, got %s", after, a.OTP.expiresAt)
	return a
}

func (a *OTPAssertion) AssertEventCount(t *testing.T, expected int) *OTPAssertion {
	t.Helper()
	assert.Len(t, a.OTP.GetUncommittedEvents(), expected, "Expected otp to have %d uncommitted events", expected)
	return a
}
