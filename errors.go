package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrAuthenticationFailed is returned for bad credentials
var ErrAuthenticationFailed = errors.New("invalid credentials", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("AUTHENTICATION_FAILED")

// ErrUnknownPrincipal is returned when a token subject has no backing
// account. Boundary layers surface it as an invalid token so account
// existence is not leaked.
var ErrUnknownPrincipal = errors.New("token subject has no backing account", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("UNKNOWN_PRINCIPAL")

// ErrTokenInvalidOrExpired is the user visible failure class for every
// token related error at the boundary
var ErrTokenInvalidOrExpired = errors.New("invalid or expired token", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_INVALID_OR_EXPIRED")

// ErrTokenMalformed flags a syntactically broken token string
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_MALFORMED")

// ErrTokenSignatureInvalid flags a token that parsed but failed
// signature verification
var ErrTokenSignatureInvalid = errors.New("token signature is invalid", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_SIGNATURE_INVALID")

// ErrTokenExpired flags a well formed, correctly signed token whose
// embedded expiry is in the past
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_EXPIRED")

// ErrMismatchedHashAndPassword is the bcrypt comparison failure
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("PASSWORD_MISMATCH")

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode("EMPTY_PASSWORD")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
