package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrBaseURL is returned when the client is built without a usable base URL.
var ErrBaseURL = errors.New("client: base url is required")

// NetworkError reports a request that could not complete: connection refused,
// context cancellation, malformed response body.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("client: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError reports a response whose status is not the one the operation
// expects.
type HTTPError struct {
	Op         string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("client: %s: unexpected status %d", e.Op, e.StatusCode)
}

// IsNotFound reports a 404 response.
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsNotFound reports whether err carries a 404 HTTPError.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.IsNotFound()
}

// StatusCode extracts the HTTP status from err, or 0 when err is not an
// HTTPError.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
