package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork matches failures where no response was received.
	ErrNetwork = errors.New("api: network error")
	// ErrStatus matches non-2xx responses.
	ErrStatus = errors.New("api: unexpected status")
	// ErrDecode matches response bodies that could not be decoded.
	ErrDecode = errors.New("api: malformed response")
	// ErrMissingField matches responses lacking a required named field.
	ErrMissingField = errors.New("api: missing field")
	// ErrTokenRequired is returned before sending a request that needs a signed-in user.
	ErrTokenRequired = errors.New("api: access token required")
	// ErrMissingID is returned before sending a request whose route needs a record id.
	ErrMissingID = errors.New("api: missing id")
)

// NetworkError wraps a transport failure.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// StatusError carries a non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

const maxErrorBody = 200

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	if body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, body)
}

func (e *StatusError) Is(target error) bool { return target == ErrStatus }

// DecodeError reports a body that does not have the expected shape. Field is
// set when a required named field was absent.
type DecodeError struct {
	Method string
	Path   string
	Field  string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %s: field %q: %v", e.Method, e.Path, e.Field, e.Err)
	}
	return fmt.Sprintf("%s %s: decode response: %v", e.Method, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode || (target == ErrMissingField && e.Field != "")
}
