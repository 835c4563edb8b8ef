package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "parsing", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "validation", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "storage", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "render", errType: ErrTypeRender, expected: "RENDER"},
		{name: "not found", errType: ErrTypeNotFound, expected: "NOT_FOUND"},
		{name: "config", errType: ErrTypeConfig, expected: "CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name:        "error without cause",
			appError:    NewValidationError("missing column sd"),
			wantMessage: "[VALIDATION] missing column sd",
		},
		{
			name:        "error with cause",
			appError:    NewParsingError("invalid count", fmt.Errorf("strconv: bad")),
			wantMessage: "[PARSING] invalid count: strconv: bad",
		},
		{
			name:        "not found formats resource",
			appError:    NewNotFoundError("data directory ./data", nil),
			wantMessage: "[NOT_FOUND] data directory ./data not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("write chart", cause)

	assert.Same(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))

	wrapped := fmt.Errorf("render question chart: %w", err)
	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeParsing, Message: "bad cell"}
	err.WithContext("file", "a.csv").WithContext("row", 3)

	assert.Equal(t, "a.csv", err.Context["file"])
	assert.Equal(t, 3, err.Context["row"])

	attrs := err.LogAttrs()
	assert.Equal(t, "error_type", attrs[0])
	assert.Equal(t, "PARSING", attrs[1])
	assert.Len(t, attrs, 6)
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error", err: errors.New("x"), want: ""},
		{name: "direct", err: NewRenderError("pie", nil), want: ErrTypeRender},
		{name: "wrapped", err: fmt.Errorf("load: %w", NewConfigError("bad", nil)), want: ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
			if tt.want != "" {
				assert.True(t, IsType(tt.err, tt.want))
			}
		})
	}
}
