// Package errors provides the coded errors used across pointmap.
//
// Every failure that crosses a package boundary is an [*Error] carrying a
// [Code]. Codes fall into two groups:
//
//   - configuration codes (INVALID_CONFIG, MISSING_*, DUPLICATE_*,
//     EMPTY_LOCATION, INVALID_COLUMNS) are raised while a dataset is loaded
//     or a map is built, before any marker exists; [IsConfigError] reports them
//   - request codes (INVALID_INDEX, INVALID_EVENT, INVALID_FORMAT,
//     INVALID_INPUT, NOT_FOUND) reject one call and leave state unchanged
//
// Usage:
//
//	err := errors.New(errors.ErrCodeMissingLayout, "region %q has no layout", name)
//	if errors.Is(err, errors.ErrCodeMissingLayout) { ... }
//
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, cause, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

// Configuration codes.
const (
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeMissingLayout     Code = "MISSING_LAYOUT"
	ErrCodeMissingRegion     Code = "MISSING_REGION"
	ErrCodeDuplicateRegion   Code = "DUPLICATE_REGION"
	ErrCodeDuplicateLocation Code = "DUPLICATE_LOCATION"
	ErrCodeEmptyLocation     Code = "EMPTY_LOCATION"
	ErrCodeInvalidColumns    Code = "INVALID_COLUMNS"
)

// Request codes.
const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidIndex  Code = "INVALID_INDEX"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidEvent  Code = "INVALID_EVENT"
	ErrCodeNotFound      Code = "NOT_FOUND"
)

// Internal codes.
const (
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error formats as "CODE: message" or "CODE: message: cause".
func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any *Error in err's chain has code.
func Is(err error, code Code) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its code,
// or err.Error() for other errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsConfigError reports whether err carries a configuration code.
func IsConfigError(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidConfig, ErrCodeMissingLayout, ErrCodeMissingRegion,
		ErrCodeDuplicateRegion, ErrCodeDuplicateLocation, ErrCodeEmptyLocation,
		ErrCodeInvalidColumns:
		return true
	}
	return false
}
