package apperrors

import (
	"errors"
	"net/http"
)

// ToHTTPStatus maps an error code to the HTTP status returned at the
// controller boundary.
func ToHTTPStatus(code string) int {
	switch code {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrInvalidCredentials, ErrInvalidCode:
		return http.StatusUnauthorized
	case ErrAccountLocked:
		return http.StatusForbidden
	case ErrDuplicateResource:
		return http.StatusConflict
	case ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// StatusFor resolves the HTTP status for any error. Unknown errors are
// treated as internal.
func StatusFor(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return ToHTTPStatus(appErr.Code)
	}
	return http.StatusInternalServerError
}

// MessageFor returns the user-safe message for an error. Unknown errors
// collapse to a generic message so internals never leak to clients.
func MessageFor(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Something went wrong. Please try again."
}
