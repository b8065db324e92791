package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNetwork matches every NetworkError via errors.Is.
var ErrNetwork = errors.New("network error")

// NetworkError is returned when no response was received: timeout, DNS
// failure, refused connection.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Method, e.URL, ErrNetwork, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrNetwork) true for any NetworkError.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// HTTPError is returned when a response with a non-2xx status was received.
type HTTPError struct {
	Method string
	URL    string
	Status int
	Body   []byte
}

func (e *HTTPError) Error() string {
	if detail := e.Detail(); detail != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Status, detail)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Status)
}

// Detail extracts the "detail" message the API puts in error bodies.
// It returns an empty string when the body carries none.
func (e *HTTPError) Detail() string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(e.Body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		return text
	}
	// validation errors come as a list of objects; show them raw
	return string(payload.Detail)
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an HTTPError.
func StatusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}

// IsNotFound reports whether err is an HTTPError with status 404.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// IsUnauthorized reports whether err is an HTTPError with status 401.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}
