package otp

import (
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/event"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
)

const EventStreamName = "events_otp"

type OTPIssued struct {
	event.Header
	event.Otel
	OTPID  ID      `json:"otp_id"`
	UserID user.ID `json:"user_id"`
	Email  string  `json:"email"`
	Code   string  `json:"code"`
}

func (e OTPIssued) GetStreamName() string {
	return EventStreamName
}

type OTPResent struct {
	event.Header
	event.Otel
	OTPID  ID      `json:"otp_id"`
	UserID user.ID `json:"user_id"`
	Email  string  `json:"email"`
	Code   string  `json:"code"`
}

func (e OTPResent) GetStreamName() string {
	return EventStreamName
}

type OTPVerified struct {
	event.Header
	event.Otel
	OTPID  ID      `json:"otp_id"`
	UserID user.ID `json:"user_id"`
	Email  string  `json:"email"`
}

func (e OTPVerified) GetStreamName() string {
	return EventStreamName
}
