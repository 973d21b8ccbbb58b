package clientrt

import (
	"fmt"
	"strings"
)

// StatusError is the cause of a failed call that got a non-2xx answer
type StatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s code %d: %s", e.Status, e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// Error wraps every failure of a generated method with the request that caused it
type Error struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    any
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }
