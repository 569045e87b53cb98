package model

import (
	"errors"
	"fmt"
)

// Sentinel kinds for boundary validation.
var (
	ErrMissingInput = errors.New("missing input")
	ErrMissingField = errors.New("missing field")
	ErrMalformed    = errors.New("malformed response")
)

// FieldError reports a required response field the backend left out.
type FieldError struct {
	Schema string
	Field  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Schema, ErrMissingField, e.Field)
}

func (e *FieldError) Unwrap() error { return ErrMissingField }

func missing(schema, field string) error {
	return &FieldError{Schema: schema, Field: field}
}
