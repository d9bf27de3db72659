package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNetwork    = errors.New("network error")
	ErrAuth       = errors.New("credential rejected")
	ErrNotFound   = errors.New("product not found")
	ErrHTTP       = errors.New("unexpected http status")
	ErrParse      = errors.New("malformed response body")

	// ErrBusy is returned when a view-model already has an operation in flight.
	ErrBusy = errors.New("operation already in progress")
)

// ValidationError lists the draft fields that blocked a submission.
type ValidationError struct {
	Fields []Field
	Reason string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, string(f))
	}
	msg := "validation failed: " + strings.Join(names, ", ")
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Has reports whether f is among the offending fields.
func (e *ValidationError) Has(f Field) bool {
	for _, v := range e.Fields {
		if v == f {
			return true
		}
	}
	return false
}

// HTTPStatusError is a non-2xx answer from the remote API.
type HTTPStatusError struct {
	StatusCode int
	Message    string
}

func (e *HTTPStatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote api returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote api returned status %d", e.StatusCode)
}

// Classify maps a status code onto the error taxonomy.
func Classify(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuth
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrHTTP
	}
}
