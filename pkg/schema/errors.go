package schema

import (
	"errors"
	"fmt"
)

// Error codes for structured error reporting.
const (
	ErrCodeEmptyInput       = "EMPTY_INPUT"
	ErrCodeParse            = "PARSE_ERROR"
	ErrCodeInvalidShape     = "INVALID_SHAPE"
	ErrCodeNoWorkflowNodes  = "NO_WORKFLOW_NODES"
	ErrCodeEmptyGraph       = "EMPTY_GRAPH"
	ErrCodeUnknownReference = "UNKNOWN_REFERENCE"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeRender           = "RENDER_ERROR"
)

// Fixed messages for the compile-time failures.
const (
	MsgEmptyInput      = "Empty or null YAML content provided"
	MsgParse           = "Failed to parse YAML"
	MsgInvalidShape    = "YAML content does not contain a valid object"
	MsgNoWorkflowNodes = "No phases or steps found in YAML content"
	MsgEmptyGraph      = "No nodes could be extracted from the workflow"
)

// Sentinels for errors.Is. Matching is by code, so a ParseError carrying a
// parser diagnostic still matches ErrParse.
var (
	ErrEmptyInput       = NewError(ErrCodeEmptyInput, MsgEmptyInput)
	ErrParse            = NewError(ErrCodeParse, MsgParse)
	ErrInvalidShape     = NewError(ErrCodeInvalidShape, MsgInvalidShape)
	ErrNoWorkflowNodes  = NewError(ErrCodeNoWorkflowNodes, MsgNoWorkflowNodes)
	ErrEmptyGraph       = NewError(ErrCodeEmptyGraph, MsgEmptyGraph)
	ErrUnknownReference = NewError(ErrCodeUnknownReference, "unknown node reference")
)

// DiagramError is the structured error type returned by every squadgraph operation.
type DiagramError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

func (e *DiagramError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DiagramError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DiagramError with the same code.
func (e *DiagramError) Is(target error) bool {
	t, ok := target.(*DiagramError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a new DiagramError.
func NewError(code, message string) *DiagramError {
	return &DiagramError{Code: code, Message: message}
}

// NewErrorf creates a new DiagramError with a formatted message.
func NewErrorf(code, format string, args ...any) *DiagramError {
	return &DiagramError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewParseError wraps a parser failure, keeping the parser's own diagnostic in the message.
func NewParseError(cause error) *DiagramError {
	return NewErrorf(ErrCodeParse, "%s: %v", MsgParse, cause).WithCause(cause)
}

// WithCause attaches an underlying cause.
func (e *DiagramError) WithCause(err error) *DiagramError {
	e.Cause = err
	return e
}

// WithDetails attaches key-value details.
func (e *DiagramError) WithDetails(details map[string]any) *DiagramError {
	e.Details = details
	return e
}

// CodeOf returns the code of the first DiagramError in err's chain, or "".
func CodeOf(err error) string {
	var de *DiagramError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
