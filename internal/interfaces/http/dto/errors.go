package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown            = "ERR_UNKNOWN"
	ErrCodeInternal           = "ERR_INTERNAL"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"
)

// Validation error codes
const (
	ErrCodeValidation = "ERR_VALIDATION"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeBodyTooLarge = "ERR_BODY_TOO_LARGE"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:            http.StatusInternalServerError,
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeBodyTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Codes outside the table fall back to their ERR_INVALID_ / _NOT_FOUND /
// ERR_ALREADY_ shape, then to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "ERR_INVALID_"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasPrefix(code, "ERR_ALREADY_"):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes to API codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":                 ErrCodeNotFound,
	"ALREADY_EXISTS":            ErrCodeAlreadyExists,
	"INVALID_INPUT":             ErrCodeInvalidInput,
	"INVALID_STATE":             ErrCodeInvalidState,
	"UNAUTHORIZED":              ErrCodeUnauthorized,
	"FORBIDDEN":                 ErrCodeForbidden,
	"VALIDATION_ERROR":          ErrCodeValidation,
	"BAD_REQUEST":               ErrCodeBadRequest,
	"INTERNAL_ERROR":            ErrCodeInternal,
	"SERVICE_INACTIVE":          ErrCodeBusinessRule,
	"PDF_UNAVAILABLE":           ErrCodeServiceUnavailable,
	"TRACKING_NUMBER_EXHAUSTED": ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the ERR_ format.
// INVALID_* codes keep their suffix (INVALID_STATUS -> ERR_INVALID_STATUS).
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	if code == "" || strings.HasPrefix(code, "ERR_") {
		return code
	}
	return "ERR_" + code
}
