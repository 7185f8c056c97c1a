package api

import (
	"errors"
	"net/http"
)

// internal errors.
var (
	errNoHijacker   = errors.New("response does not implement http.Hijacker")
	errNoListenAddr = errors.New("no listen address for api available")
)

// HTTPStatusProvider is an interface for errors to provide a custom HTTP
// status code.
type HTTPStatusProvider interface {
	HTTPStatus() int
}

// HTTPStatusError represents an error with an HTTP status code.
type HTTPStatusError struct {
	err  error
	code int
}

// Error returns the error message.
func (e *HTTPStatusError) Error() string {
	return e.err.Error()
}

// Unwrap return the wrapped error.
func (e *HTTPStatusError) Unwrap() error {
	return e.err
}

// HTTPStatus returns the HTTP status code this error.
func (e *HTTPStatusError) HTTPStatus() int {
	return e.code
}

// ErrorWithStatus adds the HTTP status code to the error.
func ErrorWithStatus(err error, code int) error {
	return &HTTPStatusError{
		err:  err,
		code: code,
	}
}

// errorStatus returns the HTTP status code an error should be reported with.
func errorStatus(err error) int {
	var statusProvider HTTPStatusProvider
	if errors.As(err, &statusProvider) {
		return statusProvider.HTTPStatus()
	}
	return http.StatusInternalServerError
}
