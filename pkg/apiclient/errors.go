package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError covers dial, TLS and timeout failures: the upstream was
// never reached or never answered.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a non-2xx upstream response with its raw body preserved,
// so callers can surface the upstream message verbatim.
type StatusError struct {
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Body)
}

// DecodeError means the upstream answered 2xx but the body was not the
// expected JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode response: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

func IsAuth(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden
}

// IsValidation reports a 4xx rejection of a mutating call (bad coupon code,
// malformed address and the like). Auth failures and plain 404s are excluded,
// they carry a different meaning for the caller.
func IsValidation(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	if se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden || se.Status == http.StatusNotFound {
		return false
	}
	return se.Status >= 400 && se.Status < 500
}
