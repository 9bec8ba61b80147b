package i18nx

// Error message keys
const (
	// Client errors
	KeyInvalid                   = "invalid"
	KeyValidationFailed          = "validation_failed"
	KeyValidationFailedField     = "validation_failed_field"
	KeyMalformedJSON             = "malformed_json"
	KeyUnauthorized              = "unauthorized"
	KeyInvalidCredentials        = "invalid_credentials"
	KeyTokenExpired              = "token_expired"
	KeyForbidden                 = "forbidden"
	KeyAccessDenied              = "access_denied"
	KeyNotFound                  = "not_found"
	KeyNotFoundWithType          = "not_found_with_type"
	KeyMethodNotAllowed          = "method_not_allowed"
	KeyConflict                  = "conflict"
	KeyDuplicateEntry            = "duplicate_entry"
	KeyDuplicateEntryWithField   = "duplicate_entry_with_field"
	KeyRateLimitExceeded         = "rate_limit_exceeded"
	KeyRateLimitExceededWithTime = "rate_limit_exceeded_with_time"

	// Idempotency errors
	KeyIdempotencyKeyMissing    = "idempotency_key_missing"
	KeyIdempotencyKeyMismatch   = "idempotency_key_payload_mismatch"
	KeyIdempotencyKeyInProgress = "idempotency_key_in_progress"

	// Password validation
	KeyPasswordTooWeak       = "password_too_weak"
	KeyPasswordFormatInvalid = "password_format_invalid"

	// Business logic errors
	KeyAlreadyProcessed        = "already_processed"
	KeyBusinessRuleViolation   = "business_rule_violation"
	KeyInsufficientPermissions = "insufficient_permissions"

	// Server errors
	KeyInternalError        = "internal_error"
	KeyServiceUnavailable   = "service_unavailable"
	KeyUpstreamServiceError = "upstream_service_error"
	KeyUpstreamTimeout      = "upstream_timeout"
	KeyMaintenanceMode      = "maintenance_mode"

	// Authentication specific
	KeyWrongEmailOrPassword = "wrong_email_or_password"
	KeyEmailNotVerified     = "email_not_verified"
	KeyTokenRevoked         = "token_revoked"

	// Verification specific
	KeyOTPExpired      = "otp_expired"
	KeyOTPMismatch     = "otp_mismatch"
	KeyOTPAlreadyUsed  = "otp_already_used"
	KeyTooManyAttempts = "too_many_attempts"

	// Password reset specific
	KeyResetTokenInvalid = "reset_token_invalid"

	// KYC specific
	KeyUnsupportedDocumentType = "unsupported_document_type"
)

// Validation message keys (project-specific validation errors)
const (
	ValidationRequired                = "validation_required"
	ValidationNilOrNotEmptyRequired   = "validation_nil_or_not_empty_required"
	ValidationNil                     = "validation_nil"
	ValidationEmpty                   = "validation_empty"
	ValidationInInvalid               = "validation_in_invalid"
	ValidationNotInInvalid            = "validation_not_in_invalid"
	ValidationMatchInvalid            = "validation_match_invalid"
	ValidationMultipleOfInvalid       = "validation_multiple_of_invalid"
	ValidationLengthTooLong           = "validation_length_too_long"
	ValidationLengthTooShort          = "validation_length_too_short"
	ValidationLengthInvalid           = "validation_length_invalid"
	ValidationLengthOutOfRange        = "validation_length_out_of_range"
	ValidationLengthEmptyRequired     = "validation_length_empty_required"
	ValidationMinGreaterEqualRequired = "validation_min_greater_equal_than_required"
	ValidationMaxLessEqualRequired    = "validation_max_less_equal_than_required"
	ValidationMinGreaterRequired      = "validation_min_greater_than_required"
	ValidationMaxLessRequired         = "validation_max_less_than_required"
	ValidationNotNilRequired          = "validation_not_nil_required"
	ValidationKeyWrongType            = "validation_key_wrong_type"
	ValidationKeyMissing              = "validation_key_missing"
	ValidationKeyUnexpected           = "validation_key_unexpected"
	ValidationDateInvalid             = "validation_date_invalid"
	ValidationDateOutOfRange          = "validation_date_out_of_range"

	// Custom validation rules
	ValidationIsEmail     = "validation_is_email"
	ValidationIsPassword  = "validation_is_password"
	ValidationIsName      = "validation_is_name"
	ValidationIsOTP       = "validation_is_otp"
	ValidationIsPhone     = "validation_is_phone"
	ValidationIsCountry   = "validation_is_country"
	ValidationNoDuplicate = "validation_no_duplicate"
	ValidationTimeInPast  = "validation_time_in_past"
)

// Field name keys
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldOldPassword     = "old_password"
	FieldNewPassword     = "new_password"
	FieldOTPCode         = "otp_code"
	FieldToken           = "token"
	FieldRefreshToken    = "refresh_token"
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldCountry         = "country"
	FieldPhoneNumber     = "phone_number"
	FieldDocument        = "document"
)

// Template argument keys (snake_case naming)
const (
	ArgLocalePrefix       = "locale_"
	ArgField              = "field"
	ArgResourceType       = "resource_type"
	ArgLocaleResourceType = "locale_resource_type"
	ArgRetryAfter         = "retry_after"
)
