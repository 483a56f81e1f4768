package couchbase

import (
	"errors"
	"fmt"
)

// ErrEmptyBody is returned when the REST API answers with no content.
var ErrEmptyBody = errors.New("couchbase: empty response body")

// StatusError is returned for any HTTP status other than 200.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("couchbase: unexpected status code %d", e.Code)
}

// DecodeError is returned when the response body is not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("couchbase: invalid JSON response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
