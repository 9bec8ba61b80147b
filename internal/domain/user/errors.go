package user

import "gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"

var (
	ErrMissingID               = errorx.NewValidationFieldFailed("id")
	ErrMissingEmail            = errorx.NewValidationFieldFailed("email")
	ErrMissingPassHash         = errorx.NewValidationFieldFailed("password_hash")
	ErrInvalidEmail            = errorx.NewValidationFieldFailed("email")
	ErrPasswordNotStrongEnough = errorx.NewPasswordFormatInvalid()
	ErrAlreadyVerified         = errorx.NewAlreadyProcessed()
	ErrNotVerified             = errorx.NewEmailNotVerified()
	ErrEmailAlreadyExists      = errorx.NewDuplicateEntryWithField("user", "email")
)
