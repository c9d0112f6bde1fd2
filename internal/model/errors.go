package model

import (
	"errors"
	"fmt"
)

// Code classifies a layout error.
type Code string

const (
	ErrCodeInvalidGeometry    Code = "INVALID_GEOMETRY"
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeComputationFailure Code = "COMPUTATION_FAILURE"
)

// Error is a classified error raised by the geometry and engine packages.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a classified error with a formatted message.
func NewError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError classifies cause under code. A nil cause returns nil.
func WrapError(cause error, code Code, message string) error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: cause}
}

// IsCode reports whether any error in err's chain carries code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the first classified error in err's chain,
// or an empty code when there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
