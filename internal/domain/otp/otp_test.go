package otp_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/otp"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"
)

const testEmail = "player@example.com"

func newPendingOTP(t *testing.T) *otp.OTP {
	t.Helper()
	o, err := otp.NewOTP(user.NewID(), testEmail)
	require.NoError(t, err)
	o.MarkEventsAsCommitted()
	return o
}

func TestNewOTP(t *testing.T) {
	t.Parallel()

	userID := user.NewID()
	o, err := otp.NewOTP(userID, testEmail)
	require.NoError(t, err)

	otp.NewOTPAssertion(o).
		AssertStatus(t, otp.StatusPending).
		AssertEmail(t, testEmail).
		AssertCodeNotEmpty(t).
		AssertCodeAttempts(t, 0).
		AssertExpiresAfter(t, time.Now()).
		AssertEventCount(t, 1)

	assert.Len(t, o.Code(), otp.CodeLength)
	assert.Regexp(t, `^\d+$`, o.Code())
	assert.Equal(t, userID, o.UserID())

	issued, ok := o.GetUncommittedEvents()[0].(*otp.OTPIssued)
	require.True(t, ok, "expected OTPIssued event")
	assert.Equal(t, o.ID(), issued.OTPID)
	assert.Equal(t, o.Code(), issued.Code)
	assert.Equal(t, testEmail, issued.Email)
}

func TestNewOTP_ZeroUserID(t *testing.T) {
	t.Parallel()

	_, err := otp.NewOTP(user.ID{}, testEmail)
	assert.Error(t, err)
}

func TestOTP_Verify(t *testing.T) {
	t.Parallel()

	t.Run("matching code is consumed once", func(t *testing.T) {
		t.Parallel()
		o := newPendingOTP(t)

		require.NoError(t, o.Verify(o.Code()))
		otp.NewOTPAssertion(o).AssertStatus(t, otp.StatusUsed).AssertEventCount(t, 1)

		verified, ok := o.GetUncommittedEvents()[0].(*otp.OTPVerified)
		require.True(t, ok, "expected OTPVerified event")
		assert.Equal(t, o.UserID(), verified.UserID)

		err := o.Verify(o.Code())
		assert.ErrorIs(t, err, otp.ErrAlreadyUsed)
	})

	t.Run("mismatch increments attempts", func(t *testing.T) {
		t.Parallel()
		o := newPendingOTP(t)

		err := o.Verify("000000")
		assert.ErrorIs(t, err, otp.ErrPersistentCodeMismatch)
		assert.True(t, errorx.IsPersistable(err), "mismatch must be persistable")
		otp.NewOTPAssertion(o).AssertStatus(t, otp.StatusPending).AssertCodeAttempts(t, 1)
	})

	t.Run("too many attempts expires the code", func(t *testing.T) {
		t.Parallel()
		o := newPendingOTP(t)

		var err error
		for range otp.MaxCodeAttempts {
			err = o.Verify("000000")
		}
		assert.ErrorIs(t, err, otp.ErrPersistentTooManyAttempts)
		otp.NewOTPAssertion(o).AssertStatus(t, otp.StatusExpired)

		err = o.Verify(o.Code())
		assert.ErrorIs(t, err, otp.ErrCodeExpired, "expired code rejects even the right value")
	})

	t.Run("expired code", func(t *testing.T) {
		t.Parallel()
		o := otp.Rehydrate(otp.RehydrateArgs{
			ID:        otp.NewID(),
			UserID:    user.NewID(),
			Email:     testEmail,
			Code:      "123456",
			Status:    otp.StatusPending,
			ExpiresAt: time.Now().Add(-time.Minute),
		})

		err := o.Verify("123456")
		assert.ErrorIs(t, err, otp.ErrPersistentCodeExpired)
		otp.NewOTPAssertion(o).AssertStatus(t, otp.StatusExpired)
	})

	t.Run("invalidated code", func(t *testing.T) {
		t.Parallel()
		o := newPendingOTP(t)
		o.Invalidate()

		err := o.Verify(o.Code())
		assert.ErrorIs(t, err, otp.ErrCodeExpired)
	})
}

func TestOTP_Resend(t *testing.T) {
	t.Parallel()

	t.Run("throttled before timeout", func(t *testing.T) {
		t.Parallel()
		o := newPendingOTP(t)

		err := o.Resend()
		assert.ErrorIs(t, err, otp.ErrWaitUntilResend)
	})

	t.Run("issues a fresh code after timeout", func(t *testing.T) {
		t.Parallel()
		o := otp.Rehydrate(otp.RehydrateArgs{
			ID:            otp.NewID(),
			UserID:        user.NewID(),
			Email:         testEmail,
			Code:          "123456",
			Status:        otp.StatusPending,
			CodeAttempts:  3,
			ResendTimeout: time.Now().Add(-time.Second),
			ExpiresAt:     time.Now().Add(time.Minute),
		})

		require.NoError(t, o.Resend())
		otp.NewOTPAssertion(o).
			AssertStatus(t, otp.StatusPending).
			AssertCodeAttempts(t, 0).
			AssertCodeIsNot(t, "123456").
			AssertExpiresAfter(t, time.Now().Add(otp.CodeTTL-time.Minute)).
			AssertEventCount(t, 1)

		resent, ok := o.GetUncommittedEvents()[0].(*otp.OTPResent)
		require.True(t, ok, "expected OTPResent event")
		assert.Equal(t, o.Code(), resent.Code)
	})

	t.Run("used code cannot be resent", func(t *testing.T) {
		t.Parallel()
		o := newPendingOTP(t)
		require.NoError(t, o.Verify(o.Code()))

		err := o.Resend()
		assert.ErrorIs(t, err, otp.ErrAlreadyUsed)
	})
}

func TestOTP_Invalidate(t *testing.T) {
	t.Parallel()

	o := newPendingOTP(t)
	o.Invalidate()
	otp.NewOTPAssertion(o).AssertStatus(t, otp.StatusInvalidated)

	// invalidating a used code is a no-op
	used := newPendingOTP(t)
	require.NoError(t, used.Verify(used.Code()))
	used.Invalidate()
	otp.NewOTPAssertion(used).AssertStatus(t, otp.StatusUsed)
}
