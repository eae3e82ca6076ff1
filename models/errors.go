package models

import (
	"errors"
	"fmt"
)

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidURL        = "INVALID_URL"
	ErrCodeWorkerUnavailable = "WORKER_UNAVAILABLE"
	ErrCodeTimeout           = "EXTRACT_TIMEOUT"
	ErrCodeWorkerCrashed     = "WORKER_CRASHED"
	ErrCodeMalformedOutput   = "MALFORMED_OUTPUT"

	// HTTP-surface codes; the orchestrator never returns these.
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ExtractError is the internal error type carrying an error code.
// Detail holds diagnostic text captured from the worker (stderr, a raw
// output prefix) and is surfaced in API messages.
type ExtractError struct {
	Code    string
	Message string
	Detail  string
	Err     error // wrapped original error
}

func (e *ExtractError) Error() string {
	msg := e.Code + ": " + e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// NewExtractError creates a new ExtractError.
func NewExtractError(code, message string, err error) *ExtractError {
	return &ExtractError{Code: code, Message: message, Err: err}
}

// WithDetail attaches diagnostic text and returns the same error.
func (e *ExtractError) WithDetail(detail string) *ExtractError {
	e.Detail = detail
	return e
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ExtractError) ToDetail() *ErrorDetail {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return &ErrorDetail{Code: e.Code, Message: msg}
}

// CodeOf returns the code of the first ExtractError in err's chain,
// or ErrCodeInternal when there is none.
func CodeOf(err error) string {
	var ee *ExtractError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ErrCodeInternal
}
