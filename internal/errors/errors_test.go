package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "error with wrapped error",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "failed to read input",
				Err:     errors.New("file not found"),
			},
			expected: "input: failed to read input: file not found",
		},
		{
			name: "error without wrapped error",
			appError: &AppError{
				Type:    ErrorTypeParsing,
				Message: "invalid JSON syntax",
				Err:     nil,
			},
			expected: "parsing: invalid JSON syntax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("wrapped error")
	appErr := &AppError{
		Type:    ErrorTypeInput,
		Message: "test message",
		Err:     wrappedErr,
	}

	result := appErr.Unwrap()
	assert.Equal(t, wrappedErr, result)
}

func TestAppError_Is(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		target   error
		expected bool
	}{
		{
			name: "same type",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target: &AppError{
				Type:    ErrorTypeInput,
				Message: "different message",
				Err:     errors.New("some error"),
			},
			expected: true,
		},
		{
			name: "different type",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target: &AppError{
				Type:    ErrorTypeParsing,
				Message: "test message",
				Err:     nil,
			},
			expected: false,
		},
		{
			name: "not an AppError",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target:   errors.New("standard error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Is(tt.target)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestUserFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "input error",
			err:      NewInputError("failed to read file", nil),
			expected: "Input error: failed to read file",
		},
		{
			name:     "parsing error",
			err:      NewParsingError("unexpected end of JSON input", nil),
			expected: "Parse error: unexpected end of JSON input",
		},
		{
			name:     "navigation error with cause",
			err:      NewNavigationError("cannot resolve $.a[3]", ErrIndexOutOfRange),
			expected: "Path error: cannot resolve $.a[3] (array index out of range)",
		},
		{
			name:     "navigation error without cause",
			err:      NewNavigationError("cannot resolve $.a", nil),
			expected: "Path error: cannot resolve $.a",
		},
		{
			name:     "conversion error",
			err:      NewConversionError("failed to render YAML", nil),
			expected: "Conversion error: failed to render YAML",
		},
		{
			name:     "diff error",
			err:      NewDiffError("failed to apply patch", nil),
			expected: "Diff error: failed to apply patch",
		},
		{
			name:     "config error",
			err:      NewConfigError("failed to read config file", nil),
			expected: "Config error: failed to read config file",
		},
		{
			name:     "output error",
			err:      NewOutputError("failed to write output", nil),
			expected: "Output error: failed to write output",
		},
		{
			name:     "schema error",
			err:      NewSchemaError("no sample documents to infer a schema from", ErrNoSamples),
			expected: "Schema error: no sample documents to infer a schema from",
		},
		{
			name:     "standard error - empty input",
			err:      ErrEmptyInput,
			expected: "Error: The input is empty. Please provide a JSON or YAML document.",
		},
		{
			name:     "standard error - invalid JSON",
			err:      ErrInvalidJSON,
			expected: "Error: The input contains invalid JSON. Please check your JSON syntax.",
		},
		{
			name:     "standard error - invalid path",
			err:      ErrInvalidPath,
			expected: "Error: Invalid path expression. Paths look like $.user.roles[1].",
		},
		{
			name:     "unknown error",
			err:      errors.New("some unknown error"),
			expected: "Error: some unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := UserFriendlyError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestIsNavigation(t *testing.T) {
	assert.True(t, IsNavigation(NewNavigationError("missing", ErrNotFound)))
	assert.True(t, IsNavigation(fmt.Errorf("wrapped: %w", NewNavigationError("missing", nil))))
	assert.False(t, IsNavigation(NewParsingError("bad", nil)))
	assert.False(t, IsNavigation(ErrNotFound))
	assert.False(t, IsNavigation(nil))
}

func TestAppError_WrapsSentinel(t *testing.T) {
	err := NewNavigationError("cannot delete root", ErrRootDelete)
	assert.ErrorIs(t, err, ErrRootDelete)
	assert.ErrorIs(t, err, &AppError{Type: ErrorTypeNavigation})
	assert.NotErrorIs(t, err, ErrKeyExists)
}
