package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeValidation indicates a local validation failure: an illegal
	// form-data name, an empty multipart body, a disallowed part header.
	ErrCodeValidation ErrorCode = iota
	// ErrCodeTransport indicates the transport failed before producing a response.
	ErrCodeTransport
	// ErrCodeHTTP indicates the server responded but the exchange was not successful.
	ErrCodeHTTP
	// ErrCodeAborted indicates the request was cancelled while in flight.
	ErrCodeAborted
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeValidation:
		return "validation"
	case ErrCodeTransport:
		return "transport"
	case ErrCodeHTTP:
		return "http"
	case ErrCodeAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// ErrAborted is wrapped by every ErrCodeAborted error.
var ErrAborted = errors.New("request aborted")

// Error is a structured HTTP client error.
type Error struct {
	// Code classifies the error.
	Code ErrorCode
	// StatusCode is the HTTP status code (0 unless Code is ErrCodeHTTP).
	StatusCode int
	// Message describes the error.
	Message string
	// Request is the originating request, when known.
	Request *Request
	// Body is the response body of an unsuccessful exchange (may be nil).
	Body *ResponseBody
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error.
func NewValidationError(msg string) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// NewTransportError wraps an error returned by the transport.
func NewTransportError(req *Request, err error) *Error {
	return &Error{
		Code:    ErrCodeTransport,
		Message: err.Error(),
		Request: req,
		Err:     err,
	}
}

// NewHTTPError creates the error raised for an unsuccessful response.
func NewHTTPError(req *Request, statusCode int, message string, body *ResponseBody) *Error {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	if message == "" {
		message = fmt.Sprintf("HTTP %d", statusCode)
	}
	return &Error{
		Code:       ErrCodeHTTP,
		StatusCode: statusCode,
		Message:    message,
		Request:    req,
		Body:       body,
	}
}

// NewAbortedError creates the error returned for a cancelled request.
// cause, when non-nil, is the context error that triggered the abort.
func NewAbortedError(req *Request, cause error) *Error {
	err := ErrAborted
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrAborted, cause)
	}
	return &Error{
		Code:    ErrCodeAborted,
		Message: err.Error(),
		Request: req,
		Err:     err,
	}
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == ErrCodeValidation
}

// IsTransport checks if an error is a transport error.
func IsTransport(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == ErrCodeTransport
}

// IsHTTP checks if an error is an unsuccessful-response error.
func IsHTTP(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == ErrCodeHTTP
}

// IsAborted checks if an error reports a cancelled request.
func IsAborted(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == ErrCodeAborted
}

// IsNotFound checks if an error is an unsuccessful response with status 404.
func IsNotFound(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == ErrCodeHTTP && e.StatusCode == http.StatusNotFound
}
