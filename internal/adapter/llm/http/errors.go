// Package http carries the shared plumbing for LLM provider clients:
// a common error taxonomy, retry with backoff, response decoding, call
// logging, and usage accounting.
package http

import "fmt"

// ErrorType categorizes a provider API failure.
type ErrorType int

const (
	ErrTypeAuthentication ErrorType = iota
	ErrTypeRateLimit
	ErrTypeServiceUnavailable
	ErrTypeInvalidRequest
	ErrTypeTimeout
	ErrTypeModelNotFound
	ErrTypeUnknown
)

// String returns a human-readable description of the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrTypeAuthentication:
		return "authentication error"
	case ErrTypeRateLimit:
		return "rate limit exceeded"
	case ErrTypeServiceUnavailable:
		return "service unavailable"
	case ErrTypeInvalidRequest:
		return "invalid request"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeModelNotFound:
		return "model not found"
	default:
		return "unknown error"
	}
}

// Error is a provider API error with enough context to decide whether a
// retry makes sense and to report the failure without leaking secrets.
type Error struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Retryable  bool
	Provider   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s (status: %d)", e.Provider, e.Type.String(), e.Message, e.StatusCode)
}

// Is matches on error type so callers can use errors.Is with a sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// IsRetryable reports whether a retry could succeed.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// FromStatus maps an HTTP status code to a typed error. Used by clients
// that talk to raw REST endpoints.
func FromStatus(provider string, status int, message string) *Error {
	switch {
	case status == 401 || status == 403:
		return &Error{Type: ErrTypeAuthentication, Message: message, StatusCode: status, Provider: provider}
	case status == 404:
		return &Error{Type: ErrTypeModelNotFound, Message: message, StatusCode: status, Provider: provider}
	case status == 429:
		return &Error{Type: ErrTypeRateLimit, Message: message, StatusCode: status, Retryable: true, Provider: provider}
	case status == 408:
		return &Error{Type: ErrTypeTimeout, Message: message, StatusCode: status, Retryable: true, Provider: provider}
	case status >= 500:
		return &Error{Type: ErrTypeServiceUnavailable, Message: message, StatusCode: status, Retryable: true, Provider: provider}
	case status >= 400:
		return &Error{Type: ErrTypeInvalidRequest, Message: message, StatusCode: status, Provider: provider}
	default:
		return &Error{Type: ErrTypeUnknown, Message: message, StatusCode: status, Provider: provider}
	}
}

// NewAuthenticationError creates a non-retryable authentication error.
func NewAuthenticationError(provider, message string) *Error {
	return &Error{Type: ErrTypeAuthentication, Message: message, StatusCode: 401, Provider: provider}
}

// NewRateLimitError creates a retryable rate limit error.
func NewRateLimitError(provider, message string) *Error {
	return &Error{Type: ErrTypeRateLimit, Message: message, StatusCode: 429, Retryable: true, Provider: provider}
}

// NewServiceUnavailableError creates a retryable availability error.
func NewServiceUnavailableError(provider, message string) *Error {
	return &Error{Type: ErrTypeServiceUnavailable, Message: message, StatusCode: 503, Retryable: true, Provider: provider}
}

// NewInvalidRequestError creates a non-retryable request error.
func NewInvalidRequestError(provider, message string) *Error {
	return &Error{Type: ErrTypeInvalidRequest, Message: message, StatusCode: 400, Provider: provider}
}

// NewTimeoutError creates a retryable timeout error.
func NewTimeoutError(provider, message string) *Error {
	return &Error{Type: ErrTypeTimeout, Message: message, Retryable: true, Provider: provider}
}

// NewModelNotFoundError creates a non-retryable unknown-model error.
func NewModelNotFoundError(provider, message string) *Error {
	return &Error{Type: ErrTypeModelNotFound, Message: message, StatusCode: 404, Provider: provider}
}
