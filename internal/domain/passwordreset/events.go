package passwordreset

import (
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/event"
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/user"
)

const EventStreamName = "events_password_reset"

type ResetRequested struct {
	event.Header
	event.Otel
	TokenID ID      `json:"token_id"`
	UserID  user.ID `json:"user_id"`
	Email   string  `json:"email"`
	Token   string  `json:"token"`
}

func (e ResetRequested) GetStreamName() string {
	return EventStreamName
}

type PasswordResetCompleted struct {
	event.Header
	event.Otel
	TokenID ID      `json:"token_id"`
	UserID  user.ID `json:"user_id"`
	Email   string  `json:"email"`
}

func (e PasswordResetCompleted) GetStreamName() string {
	return EventStreamName
}
