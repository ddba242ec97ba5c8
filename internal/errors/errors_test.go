package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("Error returns formatted string", func(t *testing.T) {
		err := New(ErrCodeNotFound, "Access pass not found")
		assert.Equal(t, "NOT_FOUND: Access pass not found", err.Error())
	})

	t.Run("Error with cause includes cause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := Wrap(ErrCodeDatabase, "Database error", cause)
		assert.Contains(t, err.Error(), "DATABASE_ERROR")
		assert.Contains(t, err.Error(), "Database error")
		assert.Contains(t, err.Error(), "database connection failed")
	})

	t.Run("WithCause adds cause to error", func(t *testing.T) {
		cause := errors.New("original error")
		err := New(ErrCodeInternal, "Something went wrong").WithCause(cause)
		assert.Equal(t, cause, err.Unwrap())
	})

	t.Run("WithDetails adds details to error", func(t *testing.T) {
		details := map[string]string{"field": "validUntil", "reason": "must be in the future"}
		err := New(ErrCodeValidation, "Validation failed").WithDetails(details)
		assert.Equal(t, details, err.Details)
	})
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name         string
		constructor  func() *AppError
		expectedCode ErrorCode
	}{
		{"Unauthorized", func() *AppError { return Unauthorized("test") }, ErrCodeUnauthorized},
		{"Forbidden", func() *AppError { return Forbidden("test") }, ErrCodeForbidden},
		{"NotFound", func() *AppError { return NotFound("Access pass") }, ErrCodeNotFound},
		{"AlreadyExists", func() *AppError { return AlreadyExists("Pass code") }, ErrCodeAlreadyExists},
		{"ValidationError", func() *AppError { return ValidationError("test") }, ErrCodeValidation},
		{"InvalidInput", func() *AppError { return InvalidInput("passType", "unknown value") }, ErrCodeInvalidInput},
		{"MissingRequired", func() *AppError { return MissingRequired("visitorName") }, ErrCodeMissingRequired},
		{"InvalidDateRange", func() *AppError { return InvalidDateRange("test") }, ErrCodeInvalidDateRange},
		{"NoContactInfo", func() *AppError { return NoContactInfo() }, ErrCodeNoContactInfo},
		{"QREncoding", func() *AppError { return QREncoding(errors.New("png")) }, ErrCodeQREncoding},
		{"RateLimitExceeded", func() *AppError { return RateLimitExceeded() }, ErrCodeRateLimitExceeded},
		{"Internal", func() *AppError { return Internal("test") }, ErrCodeInternal},
		{"Database", func() *AppError { return Database(errors.New("down")) }, ErrCodeDatabase},
		{"External", func() *AppError { return External("sms-gateway", errors.New("timeout")) }, ErrCodeExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.constructor()
			assert.Equal(t, tt.expectedCode, err.Code)
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	t.Run("IsAppError detects AppError", func(t *testing.T) {
		assert.True(t, IsAppError(NotFound("Pre-registration")))
		assert.False(t, IsAppError(errors.New("plain error")))
	})

	t.Run("IsAppError detects wrapped AppError", func(t *testing.T) {
		wrapped := fmt.Errorf("context: %w", NotFound("Access pass"))
		assert.True(t, IsAppError(wrapped))
	})

	t.Run("AsAppError extracts AppError", func(t *testing.T) {
		appErr := ValidationError("bad input")
		extracted, ok := AsAppError(fmt.Errorf("wrap: %w", appErr))
		assert.True(t, ok)
		assert.Equal(t, ErrCodeValidation, extracted.Code)
	})

	t.Run("GetCode falls back to internal", func(t *testing.T) {
		assert.Equal(t, ErrCodeInternal, GetCode(errors.New("plain")))
		assert.Equal(t, ErrCodeNotFound, GetCode(NotFound("Access pass")))
	})
}
