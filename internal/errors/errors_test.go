package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrValidation, http.StatusUnprocessableEntity},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrDuplicateEmail, http.StatusConflict},
		{ErrAlreadyProcessed, http.StatusConflict},
		{ErrAccountDisabled, http.StatusForbidden},
		{ErrAccountPending, http.StatusForbidden},
		{ErrAccountRejected, http.StatusForbidden},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrUnauthenticated, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrHospitalNotFound, http.StatusNotFound},
		{ErrRateLimited, http.StatusTooManyRequests},
		{ErrPersistence, http.StatusServiceUnavailable},
		{ErrInternal, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
		{fmt.Errorf("handler: %w", ErrForbidden), http.StatusForbidden},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			if got := ToHTTPStatus(tt.err); got != tt.want {
				t.Errorf("ToHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWrapErrorKeepsIdentityAndHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := WrapError(ErrPersistence, cause)

	if !errors.Is(err, ErrPersistence) {
		t.Error("wrapped error should match ErrPersistence")
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if got := GetErrorMessage(err); got != ErrPersistence.Message {
		t.Errorf("GetErrorMessage leaked detail: %q", got)
	}
	if got := GetErrorCode(err); got != CodePersistence {
		t.Errorf("GetErrorCode() = %q", got)
	}
}

func TestForeignErrorsAreOpaque(t *testing.T) {
	err := errors.New("dial tcp 10.0.0.1:5432: i/o timeout")

	if IsDomainError(err) {
		t.Fatal("plain error reported as domain error")
	}
	if got := GetErrorMessage(err); got != ErrInternal.Message {
		t.Errorf("GetErrorMessage() = %q, want generic message", got)
	}
	if got := GetErrorCode(err); got != CodeInternal {
		t.Errorf("GetErrorCode() = %q", got)
	}
}
