package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError carrying the same code, so that
// errors.Is(err, ErrParse) matches any parse failure regardless of message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message
func Newf(code, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	for err != nil {
		switch e := err.(type) {
		case *AppError:
			return e.Code
		case *ParseError:
			return CodeParse
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeDataIntegrity      = "DATA_INTEGRITY"
	CodeEncoding           = "ENCODING"
	CodeParse              = "PARSE"
	CodeInsufficientSignal = "INSUFFICIENT_SIGNAL"
	CodeIO                 = "IO"
	CodeNotFound           = "NOT_FOUND"
	CodeConfigInvalid      = "CONFIG_INVALID"
	CodeSolver             = "SOLVER"
	CodeInternalError      = "INTERNAL_ERROR"
)

// Sentinels for errors.Is checks.
var (
	ErrDataIntegrity      = New(CodeDataIntegrity, "data integrity error")
	ErrEncoding           = New(CodeEncoding, "encoding error")
	ErrParse              = New(CodeParse, "parse error")
	ErrInsufficientSignal = New(CodeInsufficientSignal, "insufficient signal")
	ErrIO                 = New(CodeIO, "io error")
	ErrNotFound           = New(CodeNotFound, "not found")
	ErrConfigInvalid      = New(CodeConfigInvalid, "invalid configuration")
	ErrSolver             = New(CodeSolver, "solver error")
)

// Common error constructors
func DataIntegrity(format string, args ...interface{}) *AppError {
	return Newf(CodeDataIntegrity, format, args...)
}

func Encoding(format string, args ...interface{}) *AppError {
	return Newf(CodeEncoding, format, args...)
}

func InsufficientSignal(format string, args ...interface{}) *AppError {
	return Newf(CodeInsufficientSignal, format, args...)
}

func ConfigInvalid(format string, args ...interface{}) *AppError {
	return Newf(CodeConfigInvalid, format, args...)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

// IO wraps a filesystem failure on path.
func IO(op, path string, cause error) *AppError {
	return &AppError{
		Code:    CodeIO,
		Message: fmt.Sprintf("failed to %s %s", op, path),
		Cause:   cause,
	}
}

func Solver(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeSolver,
		Message: message,
		Cause:   cause,
	}
}

// ParseError reports a malformed token in solver output.
type ParseError struct {
	Token  string
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d near %q: %s", e.Offset, e.Token, e.Reason)
}

func (e *ParseError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == CodeParse
}
