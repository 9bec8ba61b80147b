package otp

import "gitlab.com/arcadia-gg/accounts-backend/pkg/errorx"

var (
	ErrCodeExpired     = errorx.NewOTPExpired()
	ErrCodeMismatch    = errorx.NewOTPMismatch()
	ErrAlreadyUsed     = errorx.NewOTPAlreadyUsed()
	ErrTooManyAttempts = errorx.NewTooManyAttempts()
	ErrWaitUntilResend = errorx.NewRateLimitExceeded()

	// Persistent variants signal the repository to save the aggregate
	// before surfacing the error, so attempt counters and expiry flips
	// survive failed verifications.
	ErrPersistentCodeExpired     = errorx.NewPersistable(ErrCodeExpired)
	ErrPersistentCodeMismatch    = errorx.NewPersistable(ErrCodeMismatch)
	ErrPersistentTooManyAttempts = errorx.NewPersistable(ErrTooManyAttempts)
)
