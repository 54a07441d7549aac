package client

import (
	"errors"
	"fmt"
)

// Error kinds. Both are handled the same way by callers: log, abort, keep the
// previous view state.
var (
	// ErrFetch matches network and HTTP status failures.
	ErrFetch = errors.New("fetch failure")

	// ErrDecode matches responses that do not have the listing shape.
	ErrDecode = errors.New("decode failure")

	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorKind distinguishes transport failures from shape failures.
type ErrorKind string

const (
	KindFetch  ErrorKind = "fetch"
	KindDecode ErrorKind = "decode"
)

// APIError is returned by FetchPage for every failed page request.
type APIError struct {
	Kind       ErrorKind
	Class      ErrorClass
	StatusCode int
	Page       int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("artworks %s failure (page %d", e.Kind, e.Page)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(", status %d", e.StatusCode)
	}
	msg += ")"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches ErrFetch or ErrDecode according to Kind.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrFetch:
		return e.Kind == KindFetch
	case ErrDecode:
		return e.Kind == KindDecode
	}
	return false
}

// shouldRetry determines if an error should be retried based on its classification.
func shouldRetry(errorClass ErrorClass) bool {
	switch errorClass {
	case ErrorClassClient:
		// 4xx will fail the same way again
		return false
	case ErrorClassServer, ErrorClassRateLimit, ErrorClassNetwork:
		return true
	default:
		return false
	}
}
