// Package domainerrors carries coded business errors across layer boundaries.
//
// Stores report infrastructure facts with pkg/platform/sentinel; services
// translate those facts, plus their own rule violations, into coded errors
// that transports can map onto a wire status without string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a business-rule outcome.
type Code string

const (
	CodeNotFound              Code = "not_found"
	CodeForbidden             Code = "forbidden"
	CodeInvalidTransition     Code = "invalid_transition"
	CodeCommentRequired       Code = "comment_required"
	CodeUnverifiedAttachments Code = "unverified_attachments"
	CodeConflict              Code = "conflict"
	CodeInvalidInput          Code = "invalid_input"
	CodeBadRequest            Code = "bad_request"
	CodeInternal              Code = "internal"
)

// Error is a coded domain error. The message is safe to surface to callers.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with a caller-facing message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is/As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for call-site readability:
// dErrors.Is(err, dErrors.CodeConflict).
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf returns the code of the outermost coded error, or CodeInternal when
// the error is not coded.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
