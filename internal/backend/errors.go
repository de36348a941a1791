package backend

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/megomed/marketplace/internal/apiresponse"
)

var (
	ErrMissingCredentials = errors.New("missing_credentials")
	ErrUnexpectedShape    = errors.New("unexpected_response_shape")
)

// Error is a failed backend call. StatusCode is zero when no response arrived.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Payload    apiresponse.Payload
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("backend %s %s: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("backend %s %s: status %d", e.Method, e.Path, e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCodeOf returns the upstream HTTP status carried by err, or zero.
func StatusCodeOf(err error) int {
	var bErr *Error
	if errors.As(err, &bErr) {
		return bErr.StatusCode
	}
	return 0
}

// PayloadOf returns the decoded error body carried by err, if any.
func PayloadOf(err error) apiresponse.Payload {
	var bErr *Error
	if errors.As(err, &bErr) {
		return bErr.Payload
	}
	return nil
}

func IsUnauthorized(err error) bool {
	return StatusCodeOf(err) == http.StatusUnauthorized
}
