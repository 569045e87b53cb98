package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds for backend errors.
var (
	ErrNetwork    = errors.New("backend unreachable")
	ErrStatus     = errors.New("backend rejected request")
	ErrBadBaseURL = errors.New("invalid backend base url")
)

// StatusError is returned for every non-2xx response. Message carries the
// server's message or error text when the body had one.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %d %s", ErrStatus, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s: %d: %s", ErrStatus, e.Status, e.Message)
}

func (e *StatusError) Is(target error) bool { return target == ErrStatus }

// StatusCode returns the HTTP status of the rejected request.
func (e *StatusError) StatusCode() int { return e.Status }

// AsStatus extracts a StatusError from err.
func AsStatus(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
