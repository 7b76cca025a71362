package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Stage   string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		causeMsg := e.Cause.Error()
		switch {
		case msg == "":
			msg = causeMsg
		case msg != causeMsg:
			msg = fmt.Sprintf("%s: %s", msg, causeMsg)
		}
	}
	if e.Stage != "" {
		return fmt.Sprintf("%s stage failed: %s", e.Stage, msg)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
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
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Stage:   appErr.Stage,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:  code,
		Cause: err,
	}
}

// AtStage tags an error with the pipeline stage it came from.
// An error that already carries a stage keeps it.
func AtStage(stage string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		if appErr.Stage != "" {
			return appErr
		}
		tagged := *appErr
		tagged.Stage = stage
		return &tagged
	}
	return &AppError{
		Code:  CodeInternalError,
		Stage: stage,
		Cause: err,
	}
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// GetStage returns the first pipeline stage recorded in the error chain, or "".
func GetStage(err error) string {
	for err != nil {
		var appErr *AppError
		if !stderrors.As(err, &appErr) {
			return ""
		}
		if appErr.Stage != "" {
			return appErr.Stage
		}
		err = appErr.Cause
	}
	return ""
}

// Predefined error codes
const (
	CodeConfigInvalid  = "CONFIG_INVALID"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeInternalError  = "INTERNAL_ERROR"
	CodeFileAccess     = "FILE_ACCESS"
	CodeColumnNotFound = "COLUMN_NOT_FOUND"
	CodeTypeCoercion   = "TYPE_COERCION"
	CodeUnavailable    = "UNAVAILABLE"
)

// Pipeline stages recorded by AtStage
const (
	StageLoad      = "load"
	StageResolve   = "resolve"
	StageCoerce    = "coerce"
	StageAggregate = "aggregate"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// FileAccess reports a file that is missing, unreadable, or malformed.
func FileAccess(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeFileAccess,
		Message: fmt.Sprintf("cannot read %q", path),
		Cause:   cause,
	}
}

// Malformed reports a file whose content cannot be parsed as a table.
func Malformed(path, reason string) *AppError {
	return &AppError{
		Code:    CodeFileAccess,
		Message: fmt.Sprintf("malformed file %q: %s", path, reason),
	}
}

func Unavailable(message string) *AppError {
	return New(CodeUnavailable, message)
}
