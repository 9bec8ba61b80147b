package user

import (
	"gitlab.com/arcadia-gg/accounts-backend/internal/domain/event"
)

const EventStreamName = "events_user"

type UserRegistered struct {
	event.Header
	event.Otel
	UserID    ID     `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (e UserRegistered) GetStreamName() string {
	return EventStreamName
}

type EmailVerified struct {
	event.Header
	event.Otel
	UserID ID     `json:"user_id"`
	Email  string `json:"email"`
}

func (e EmailVerified) GetStreamName() string {
	return EventStreamName
}

type PasswordChanged struct {
	event.Header
	event.Otel
	UserID ID     `json:"user_id"`
	Email  string `json:"email"`
}

func (e PasswordChanged) GetStreamName() string {
	return EventStreamName
}

type KYCDocumentUploaded struct {
	event.Header
	event.Otel
	UserID      ID     `json:"user_id"`
	DocumentKey string `json:"document_key"`
}

func (e KYCDocumentUploaded) GetStreamName() string {
	return EventStreamName
}
