// Package errors carries the coded errors shared by the nodemap CLI and API.
//
// Every failure a caller can act on has a [Code]. Definition problems are
// INVALID_*, lookups that miss are *NOT_FOUND, and the render integration
// reports LAYOUT_FAILED when Graphviz rejects a document, ANCHOR_NOT_FOUND
// when its output has no <svg> tag and CONVERSION_FAILED when rsvg-convert
// fails. The HTTP server maps codes onto status codes; the CLI prints
// [UserMessage].
//
//	if errors.Is(err, errors.ErrCodeLayoutFailed) {
//	    // show the Graphviz diagnostic
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidDefinition Code = "INVALID_DEFINITION"
	ErrCodeInvalidLayout     Code = "INVALID_LAYOUT"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeLayoutFailed     Code = "LAYOUT_FAILED"
	ErrCodeAnchorNotFound   Code = "ANCHOR_NOT_FOUND"
	ErrCodeConversionFailed Code = "CONVERSION_FAILED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Invalid reports whether c describes a problem with caller input.
func (c Code) Invalid() bool { return strings.HasPrefix(string(c), "INVALID_") }

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with code that wraps cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost coded error in err's chain, or
// the empty code.
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of a coded error without its code, or
// err.Error() for any other error.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

// Detail is [UserMessage] followed by the wrapped cause, which is where
// engine and decoder diagnostics live.
func Detail(err error) string {
	if e, ok := asError(err); ok && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return UserMessage(err)
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
