package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the backend answers with HTTP 401.
var ErrUnauthorized = errors.New("api: unauthorized")

// ErrSessionExpired is returned when a successful HTTP exchange carries an
// envelope whose Status reports the session as unauthorized. It matches
// ErrUnauthorized under errors.Is.
var ErrSessionExpired = fmt.Errorf("%w: session expired", ErrUnauthorized)

// BusinessError is a rejection reported by the backend through Success=false.
type BusinessError struct {
	Message string
}

// Error implements the error interface.
func (e *BusinessError) Error() string {
	if e.Message == "" {
		return "api: request rejected"
	}
	return "api: " + e.Message
}

// TransportError covers network failures, unexpected HTTP statuses and
// undecodable bodies.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("api: status %d", e.StatusCode)
	case e.Err != nil:
		return "api: " + e.Err.Error()
	default:
		return "api: transport failure"
	}
}

// Unwrap exposes the underlying error.
func (e *TransportError) Unwrap() error { return e.Err }

// MessageOf returns the backend message attached to err, if any.
func MessageOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Message
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Message
	}
	return ""
}
