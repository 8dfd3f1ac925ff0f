package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code, so wrapped copies still satisfy errors.Is.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Error codes
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeAccountDisabled    = "ACCOUNT_DISABLED"
	CodeAccountPending     = "ACCOUNT_PENDING"
	CodeAccountRejected    = "ACCOUNT_REJECTED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAlreadyProcessed   = "ALREADY_PROCESSED"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeForbidden          = "FORBIDDEN"
	CodeRateLimited        = "RATE_LIMITED"
	CodePersistence        = "PERSISTENCE_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
)

// Predefined domain errors
var (
	// Input errors
	ErrValidation   = NewDomainError(CodeValidation, "Validation failed")
	ErrInvalidInput = NewDomainError(CodeInvalidInput, "Invalid request")

	// Account errors
	ErrDuplicateEmail     = NewDomainError(CodeDuplicateEmail, "Email address is already registered")
	ErrAccountDisabled    = NewDomainError(CodeAccountDisabled, "Account is disabled")
	ErrAccountPending     = NewDomainError(CodeAccountPending, "Your account is pending approval. Please wait for administrator review.")
	ErrAccountRejected    = NewDomainError(CodeAccountRejected, "Your account registration was rejected. Please contact support.")
	ErrInvalidCredentials = NewDomainError(CodeInvalidCredentials, "Invalid email or password")

	// Approval workflow errors
	ErrAlreadyProcessed = NewDomainError(CodeAlreadyProcessed, "Hospital has already been processed")
	ErrHospitalNotFound = NewDomainError(CodeNotFound, "Hospital not found")
	ErrAdminNotFound    = NewDomainError(CodeNotFound, "Administrator not found")

	// Authentication errors
	ErrUnauthenticated = NewDomainError(CodeUnauthenticated, "Authentication required")
	ErrForbidden       = NewDomainError(CodeForbidden, "Insufficient permissions")
	ErrRateLimited     = NewDomainError(CodeRateLimited, "Too many requests, please slow down")

	// System errors
	ErrPersistence = NewDomainError(CodePersistence, "Service temporarily unavailable, please try again later")
	ErrInternal    = NewDomainError(CodeInternal, "Internal server error")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	case CodeInvalidInput:
		return http.StatusBadRequest

	case CodeUnauthenticated, CodeInvalidCredentials:
		return http.StatusUnauthorized

	case CodeForbidden, CodeAccountDisabled, CodeAccountPending, CodeAccountRejected:
		return http.StatusForbidden

	case CodeNotFound:
		return http.StatusNotFound

	case CodeDuplicateEmail, CodeAlreadyProcessed:
		return http.StatusConflict

	case CodeValidation:
		return http.StatusUnprocessableEntity

	case CodeRateLimited:
		return http.StatusTooManyRequests

	case CodePersistence:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage returns the caller-safe message. Underlying causes never leak.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return ErrInternal.Message
}

// GetErrorCode returns the domain code, or INTERNAL_ERROR for foreign errors.
func GetErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	return CodeInternal
}
