package schema

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCode is the closed set of caller-facing pipeline error codes.
type ErrorCode string

const (
	CodeInvalidQuery      ErrorCode = "invalid_query"
	CodeSafetyCheckFailed ErrorCode = "safety_check_failed"
	CodeCancelled         ErrorCode = "cancelled"
	CodeEngineError       ErrorCode = "rag_engine_error"
)

// GenericEngineMessage is the only message surfaced for downstream or
// unexpected failures. Raw collaborator error text never reaches callers.
const GenericEngineMessage = "Unable to generate response at this time. Please try again."

// PipelineError is the typed error returned across the pipeline boundary.
type PipelineError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// ErrInvalidQuery rejects empty or whitespace-only queries.
func ErrInvalidQuery() *PipelineError {
	return &PipelineError{Code: CodeInvalidQuery, Message: "query must not be empty"}
}

// ErrSafetyViolation blocks a query before it reaches retrieval or the model.
func ErrSafetyViolation(reason string) *PipelineError {
	msg := "query was blocked by the content safety filter"
	if reason != "" {
		msg = reason
	}
	return &PipelineError{Code: CodeSafetyCheckFailed, Message: msg}
}

// ErrUpstream wraps a collaborator failure behind the generic message.
func ErrUpstream(err error) *PipelineError {
	return &PipelineError{Code: CodeEngineError, Message: GenericEngineMessage, Err: err}
}

// ErrInternal wraps an unexpected failure in scoring or formatting logic.
func ErrInternal(err error) *PipelineError {
	return &PipelineError{Code: CodeEngineError, Message: GenericEngineMessage, Err: err}
}

// ErrCancelled marks a deadline or cancellation so callers can tell
// "try again" apart from "cancelled intentionally".
func ErrCancelled(err error) *PipelineError {
	return &PipelineError{Code: CodeCancelled, Message: "request was cancelled", Err: err}
}

// CodeOf extracts the pipeline error code, defaulting to rag_engine_error.
func CodeOf(err error) ErrorCode {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return CodeEngineError
}

// IsCancellation reports whether err stems from context cancellation.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
