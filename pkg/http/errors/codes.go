package errors

// Error codes carried in ErrorResponse.Error.
const (
	// access
	ErrCodeSiteAccessRequired = "site_access_required"
	ErrCodeAdminRequired      = "admin_required"
	ErrCodeTooManyAttempts    = "too_many_attempts"
	ErrCodeLoginFailed        = "login_failed"
	ErrCodeUserNotApproved    = "user_not_approved"

	// request validation
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"
	ErrCodeInvalidLevel     = "invalid_level"
	ErrCodeInvalidID        = "invalid_id"

	ErrCodeNotFound = "not_found"

	// operations
	ErrCodeDrawFailed     = "draw_failed"
	ErrCodeResetFailed    = "reset_failed"
	ErrCodeFeedbackFailed = "feedback_failed"
	ErrCodeExportFailed   = "export_failed"

	ErrCodeInternalError = "internal_error"
	ErrCodeUpstreamError = "upstream_error"
)
