package cli

import (
	"errors"

	"github.com/ssj4429108/OkRequest/httpclient"
)

// Exit codes for okreq.
const (
	ExitSuccess = 0

	// ExitHTTPError indicates a non-2xx response.
	ExitHTTPError = 1

	// ExitConfigError indicates the configuration could not be loaded.
	ExitConfigError = 3

	// ExitNetworkError indicates the request never got a response.
	ExitNetworkError = 4

	// ExitUsageError indicates invalid flags or arguments.
	ExitUsageError = 64

	// ExitAborted indicates the request was interrupted.
	ExitAborted = 130
)

// exitError carries an explicit exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCode maps err to the process exit code.
func exitCode(err error) int {
	var ee *exitError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &ee):
		return ee.code
	case httpclient.IsAborted(err):
		return ExitAborted
	case httpclient.IsHTTP(err):
		return ExitHTTPError
	case httpclient.IsTransport(err):
		return ExitNetworkError
	case httpclient.IsValidation(err):
		return ExitUsageError
	default:
		return ExitHTTPError
	}
}
