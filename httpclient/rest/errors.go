package rest

import (
	"errors"

	"github.com/ssj4429108/OkRequest/httpclient"
)

// ErrNoResponse is returned when the transport produced no result.
var ErrNoResponse = errors.New("httpclient/rest: no response")

// REST error helpers delegate to httpclient's error classification so REST
// callers need not import httpclient for error checks.

// IsNotFound checks if the error is a 404 Not Found.
func IsNotFound(err error) bool { return httpclient.IsNotFound(err) }

// IsHTTP checks if the server answered with an unsuccessful response.
func IsHTTP(err error) bool { return httpclient.IsHTTP(err) }

// IsTransport checks if the request never produced a response.
func IsTransport(err error) bool { return httpclient.IsTransport(err) }

// IsAborted checks if the request was cancelled.
func IsAborted(err error) bool { return httpclient.IsAborted(err) }

// StatusCode returns the HTTP status of an unsuccessful response, or 0.
func StatusCode(err error) int {
	if e, ok := httpclient.AsError(err); ok {
		return e.StatusCode
	}
	return 0
}
