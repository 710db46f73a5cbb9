package httputil

// Machine-readable error codes returned to clients. This is the complete
// set; handlers never put internal error text in response bodies.
const (
	// Validation (400)
	CodeInvalidRequestBody   = "INVALID_REQUEST_BODY"
	CodePasswordRequired     = "PASSWORD_REQUIRED"
	CodeIDTokenRequired      = "ID_TOKEN_REQUIRED"
	CodeInvalidBirthDate     = "INVALID_BIRTH_DATE"
	CodeRefreshTokenRequired = "REFRESH_TOKEN_REQUIRED"

	// Unauthorized (401)
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidAuthHeader  = "INVALID_AUTH_HEADER"
	CodeMissingAuth        = "MISSING_AUTH"
	CodeGoogleAuthFailed   = "GOOGLE_AUTH_FAILED"

	// Not found (404)
	CodeUserNotFound = "USER_NOT_FOUND"

	// Conflict (409)
	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"

	// Upstream (503)
	CodeStoreUnavailable = "STORE_UNAVAILABLE"

	// Internal (500)
	CodeInternalError = "INTERNAL_ERROR"
)
