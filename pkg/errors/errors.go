package errors

import (
	"errors"
	"fmt"
)

// Code identifies a well-known failure category. Registry and lifecycle
// operations fail with one of these; rendering never does.
type Code string

const (
	CodeInvalidParameter Code = "INVALID_PARAMETER"
	CodeNotFound         Code = "NOT_FOUND"
	CodeAlreadyExists    Code = "ALREADY_EXISTS"
	CodeCapacityExceeded Code = "CAPACITY_EXCEEDED"
	CodeInvalidState     Code = "INVALID_STATE"
	CodeOutOfMemory      Code = "OUT_OF_MEMORY"
	CodeParse            Code = "PARSE_ERROR"
	CodeIO               Code = "IO_ERROR"
	CodeSystemCall       Code = "SYSTEM_CALL_ERROR"
)

// Error is a coded error enriched with contextual data.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Context map[string]interface{}
}

// New constructs an Error with the supplied code and message.
func New(code Code, message string, cause error, context map[string]interface{}) *Error {
	return &Error{Code: code, Message: message, Cause: cause, Context: context}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As usage.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches any *Error carrying the same code, so callers can test a
// category with errors.Is(err, errors.NotFound).
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) || other == nil || e == nil {
		return false
	}
	return e.Code == other.Code
}

// WithContext clones the error with additional contextual metadata.
func (e *Error) WithContext(ctx map[string]interface{}) *Error {
	if e == nil {
		return nil
	}
	merged := make(map[string]interface{}, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		merged[k] = v
	}
	for k, v := range ctx {
		merged[k] = v
	}
	return &Error{Code: e.Code, Message: e.Message, Cause: e.Cause, Context: merged}
}

// Sentinels usable as errors.Is targets.
var (
	InvalidParameter = &Error{Code: CodeInvalidParameter}
	NotFound         = &Error{Code: CodeNotFound}
	AlreadyExists    = &Error{Code: CodeAlreadyExists}
	CapacityExceeded = &Error{Code: CodeCapacityExceeded}
	InvalidState     = &Error{Code: CodeInvalidState}
	OutOfMemory      = &Error{Code: CodeOutOfMemory}
	Parse            = &Error{Code: CodeParse}
	IO               = &Error{Code: CodeIO}
	SystemCall       = &Error{Code: CodeSystemCall}
)

// CodeOf reports the code of the first *Error in err's chain.
func CodeOf(err error) (Code, bool) {
	var coded *Error
	if errors.As(err, &coded) && coded != nil {
		return coded.Code, true
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) && parseErr != nil {
		return CodeParse, true
	}
	return "", false
}

// ParseError reports malformed input. Templates set Offset; files set Path
// and, when the decoder reports one, Line.
type ParseError struct {
	Path    string
	Line    int
	Offset  int
	Message string
	Err     error
}

// NewParseError constructs a ParseError for a file.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Offset: -1, Message: message, Err: err}
}

// NewTemplateError constructs a ParseError positioned inside a template string.
func NewTemplateError(offset int, message string) error {
	return &ParseError{Offset: offset, Message: message}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	case e.Path != "":
		return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
	case e.Offset >= 0:
		return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Message)
	default:
		return fmt.Sprintf("parse error: %s", e.Message)
	}
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is(err, errors.Parse) match parse failures.
func (e *ParseError) Is(target error) bool {
	var coded *Error
	if errors.As(target, &coded) && coded != nil {
		return coded.Code == CodeParse
	}
	return false
}
