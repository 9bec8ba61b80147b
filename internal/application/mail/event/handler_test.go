package mailevent_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mailevent "gitlab.com/arcadia-gg/accounts-backend/internal/application/mail/event"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/event"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/otp"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/passwordreset"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
	"gitlab.com/arcadia-gg/accounts-backend/tests/builders"
	"gitlab.com/arcadia-gg/accounts-backend/tests/mocks"
)

const testResetLinkBaseURL = "https://arcadia.gg/reset-password"

func newHandler(sender *mocks.MockMailSender) *mailevent.MailEventHandler {
	return mailevent.NewMailEventHandler(mailevent.MailEventHandlerArgs{
		Mailsender:       sender,
		ResetLinkBaseURL: testResetLinkBaseURL,
	})
}

func TestMailEventHandler_HandleOTPIssued(t *testing.T) {
	t.Parallel()

	t.Run("sends the code", func(t *testing.T) {
		t.Parallel()
		sender := mocks.NewMockMailSender()
		h := newHandler(sender)

		err := h.HandleOTPIssued(context.Background(), &otp.OTPIssued{
			Header: event.NewEventHeader(),
			OTPID:  otp.NewID(),
			UserID: user.NewID(),
			Email:  builders.TestEmail,
			Code:   builders.TestOTPCode,
		})
		require.NoError(t, err)

		sender.AssertMailSent(t, builders.TestEmail, mailevent.OTPIssuedSubject)
		sender.AssertBodyContains(t, builders.TestEmail, builders.TestOTPCode)
		sender.AssertBodyContains(t, builders.TestEmail, strconv.Itoa(int(otp.CodeTTL.Minutes())))
	})

	t.Run("nil event is a no-op", func(t *testing.T) {
		t.Parallel()
		sender := mocks.NewMockMailSender()
		h := newHandler(sender)

		require.NoError(t, h.HandleOTPIssued(context.Background(), nil))
		sender.AssertNothingSent(t)
	})

	t.Run("event without email fails validation", func(t *testing.T) {
		t.Parallel()
		sender := mocks.NewMockMailSender()
		h := newHandler(sender)

		err := h.HandleOTPIssued(context.Background(), &otp.OTPIssued{
			Header: event.NewEventHeader(),
			OTPID:  otp.NewID(),
			Code:   builders.TestOTPCode,
		})
		require.Error(t, err)
		sender.AssertNothingSent(t)
	})
}

func TestMailEventHandler_HandleOTPResent(t *testing.T) {
	t.Parallel()
	sender := mocks.NewMockMailSender()
	h := newHandler(sender)

	err := h.HandleOTPResent(context.Background(), &otp.OTPResent{
		Header: event.NewEventHeader(),
		OTPID:  otp.NewID(),
		UserID: user.NewID(),
		Email:  builders.TestEmail,
		Code:   "915203",
	})
	require.NoError(t, err)

	sender.AssertMailSent(t, builders.TestEmail, mailevent.OTPIssuedSubject)
	sender.AssertBodyContains(t, builders.TestEmail, "915203")
}

func TestMailEventHandler_HandleResetRequested(t *testing.T) {
	t.Parallel()

	t.Run("sends the reset link with the plaintext token", func(t *testing.T) {
		t.Parallel()
		sender := mocks.NewMockMailSender()
		h := newHandler(sender)

		err := h.HandleResetRequested(context.Background(), &passwordreset.ResetRequested{
			Header:  event.NewEventHeader(),
			TokenID: passwordreset.NewID(),
			UserID:  user.NewID(),
			Email:   builders.TestEmail,
			Token:   builders.TestResetPlainToken,
		})
		require.NoError(t, err)

		sender.AssertMailSent(t, builders.TestEmail, mailevent.ResetRequestedSubject)
		sender.AssertBodyContains(t, builders.TestEmail, testResetLinkBaseURL+"?token=")
		sender.AssertBodyContains(t, builders.TestEmail, builders.TestResetPlainToken)
	})

	t.Run("event without token fails validation", func(t *testing.T) {
		t.Parallel()
		sender := mocks.NewMockMailSender()
		h := newHandler(sender)

		err := h.HandleResetRequested(context.Background(), &passwordreset.ResetRequested{
			Header:  event.NewEventHeader(),
			TokenID: passwordreset.NewID(),
			Email:   builders.TestEmail,
		})
		require.Error(t, err)
		sender.AssertNothingSent(t)
	})
}

func TestMailEventHandler_HandlePasswordChanged(t *testing.T) {
	t.Parallel()
	sender := mocks.NewMockMailSender()
	h := newHandler(sender)

	err := h.HandlePasswordChanged(context.Background(), &user.PasswordChanged{
		Header: event.NewEventHeader(),
		UserID: user.NewID(),
		Email:  builders.TestEmail,
	})
	require.NoError(t, err)

	sender.AssertMailSent(t, builders.TestEmail, mailevent.PasswordChangedSubject)
	assert.Len(t, sender.GetSentMails(), 1)
}
